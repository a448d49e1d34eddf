package ppu

import "fmt"

// Layer selects which memory a memory editor or dump is looking at.
type Layer int

const (
	// LayerCPU is the CPU bus. Only the register window $2000-$3FFF is
	// backed; everything else reads 0 and drops writes.
	LayerCPU Layer = iota
	// LayerPPU is the 16 KiB PPU address space.
	LayerPPU
	// LayerSprite is OAM viewed as 64 four-byte sprite records.
	LayerSprite
	// LayerOAM is OAM as raw bytes.
	LayerOAM
)

var layerNames = [...]string{
	LayerCPU:    "cpu",
	LayerPPU:    "ppu",
	LayerSprite: "sprite",
	LayerOAM:    "oam",
}

func (l Layer) String() string {
	if l >= 0 && int(l) < len(layerNames) {
		return layerNames[l]
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// ParseLayer is the inverse of Layer.String.
func ParseLayer(s string) (Layer, error) {
	for i, name := range layerNames {
		if name == s {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown memory layer %q", s)
}

// Size returns the addressable size of a layer.
func (l Layer) Size() int {
	switch l {
	case LayerPPU:
		return 0x4000
	case LayerSprite, LayerOAM:
		return OAMSize
	default:
		return 0x10000
	}
}

// ReadLayer reads one byte of layer. Sprite and OAM reads past the end
// return 0xFF.
func (p *PPU) ReadLayer(layer Layer, address uint16) uint8 {
	switch layer {
	case LayerPPU:
		return p.Read(address)
	case LayerSprite, LayerOAM:
		return p.ReadOAM(int(address))
	default:
		if isRegister(address) {
			return p.PeekRegister(address)
		}
		return 0
	}
}

// WriteLayer writes one byte of layer. Out of range OAM writes are ignored.
// CPU writes to the register window go through WriteRegister, so $2007
// writes land in PPU memory and advance the VRAM address.
func (p *PPU) WriteLayer(layer Layer, address uint16, value uint8) {
	switch layer {
	case LayerPPU:
		p.Write(address, value)
	case LayerSprite, LayerOAM:
		if int(address) < OAMSize {
			p.oam[address] = value
		}
	case LayerCPU:
		if isRegister(address) {
			p.WriteRegister(address, value)
		}
	}
}

func isRegister(address uint16) bool {
	return address >= 0x2000 && address < 0x4000
}

// DumpLayer reads length bytes of layer starting at start.
func (p *PPU) DumpLayer(layer Layer, start uint16, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = p.ReadLayer(layer, start+uint16(i))
	}
	return out
}
