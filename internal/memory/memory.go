// Package memory implements the PPU address space ($0000-$3FFF): pattern
// tables backed by cartridge CHR, nametable VRAM with mirroring and
// palette RAM.
package memory

import (
	"errors"
	"fmt"
	"strings"
)

// Sizes of the raw regions
const (
	VRAMSize       = 0x1000 // enough for four-screen layouts
	PaletteRAMSize = 32
	CHRSize        = 0x2000
)

// ErrRegionSize is returned when a raw dump has the wrong length.
var ErrRegionSize = errors.New("memory: region size mismatch")

// PPUMemory represents the PPU's memory space
type PPUMemory struct {
	vram       [VRAMSize]uint8
	paletteRAM [PaletteRAMSize]uint8
	chr        CHRSource
	mirroring  MirrorMode
}

// MirrorMode represents nametable mirroring mode
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

var mirrorNames = [...]string{
	MirrorHorizontal:    "horizontal",
	MirrorVertical:      "vertical",
	MirrorSingleScreen0: "single0",
	MirrorSingleScreen1: "single1",
	MirrorFourScreen:    "four",
}

func (m MirrorMode) String() string {
	if int(m) < len(mirrorNames) {
		return mirrorNames[m]
	}
	return fmt.Sprintf("MirrorMode(%d)", uint8(m))
}

// ParseMirrorMode is the inverse of MirrorMode.String.
func ParseMirrorMode(s string) (MirrorMode, error) {
	for i, name := range mirrorNames {
		if strings.EqualFold(s, name) {
			return MirrorMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mirroring %q", s)
}

// CHRSource defines the interface for pattern table access
type CHRSource interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// NewPPUMemory creates a new PPU memory instance. A nil chr gets 8 KiB of
// CHR RAM.
func NewPPUMemory(chr CHRSource, mirroring MirrorMode) *PPUMemory {
	if chr == nil {
		chr = NewCHRRAM()
	}
	mem := &PPUMemory{
		chr:       chr,
		mirroring: mirroring,
	}

	// Background color positions (0x00, 0x04, 0x08, 0x0C) start black (0x0F)
	for i := 0; i < PaletteRAMSize; i += 4 {
		mem.paletteRAM[i] = 0x0F
	}

	return mem
}

// Read reads from PPU memory space ($0000-$3FFF). Reads have no side effects.
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		return pm.chr.ReadCHR(address)
	case address < 0x3F00:
		// $3000-$3EFF mirrors $2000-$2EFF
		return pm.vram[pm.nametableIndex(address)]
	default:
		return pm.paletteRAM[paletteIndex(address)]
	}
}

// Write writes to PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		pm.chr.WriteCHR(address, value)
	case address < 0x3F00:
		pm.vram[pm.nametableIndex(address)] = value
	default:
		pm.paletteRAM[paletteIndex(address)] = value
	}
}

// nametableIndex calculates the VRAM index based on mirroring mode
func (pm *PPUMemory) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 3
	offset := address & 0x3FF

	switch pm.mirroring {
	case MirrorHorizontal:
		// $2000/$2400 share the first 1KB, $2800/$2C00 the second
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset
	case MirrorVertical:
		// $2000/$2800 share the first 1KB, $2400/$2C00 the second
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset
	case MirrorSingleScreen1:
		return 0x400 + offset
	case MirrorFourScreen:
		return nametable*0x400 + offset
	default:
		return offset
	}
}

// paletteIndex folds $3F00-$3FFF onto the 32 entries. $3F10/$14/$18/$1C
// alias the background entries below them.
func paletteIndex(address uint16) uint16 {
	index := address & 0x1F
	if index&0x13 == 0x10 {
		index &= 0x0F
	}
	return index
}

// Mirroring returns the nametable mirroring mode.
func (pm *PPUMemory) Mirroring() MirrorMode { return pm.mirroring }

// SetMirroring changes how $2000-$2FFF maps onto VRAM.
func (pm *PPUMemory) SetMirroring(m MirrorMode) { pm.mirroring = m }

// CHR returns the pattern table backing store.
func (pm *PPUMemory) CHR() CHRSource { return pm.chr }

// VRAM returns a copy of nametable RAM.
func (pm *PPUMemory) VRAM() []byte {
	out := make([]byte, VRAMSize)
	copy(out, pm.vram[:])
	return out
}

// LoadVRAM replaces nametable RAM. 2 KiB dumps fill the first two pages.
func (pm *PPUMemory) LoadVRAM(data []byte) error {
	if len(data) != VRAMSize && len(data) != VRAMSize/2 {
		return fmt.Errorf("%w: vram is %d bytes, want %d or %d", ErrRegionSize, len(data), VRAMSize/2, VRAMSize)
	}
	pm.vram = [VRAMSize]uint8{}
	copy(pm.vram[:], data)
	return nil
}

// PaletteRAM returns a copy of palette RAM.
func (pm *PPUMemory) PaletteRAM() []byte {
	out := make([]byte, PaletteRAMSize)
	copy(out, pm.paletteRAM[:])
	return out
}

// LoadPaletteRAM replaces palette RAM.
func (pm *PPUMemory) LoadPaletteRAM(data []byte) error {
	if len(data) != PaletteRAMSize {
		return fmt.Errorf("%w: palette is %d bytes, want %d", ErrRegionSize, len(data), PaletteRAMSize)
	}
	copy(pm.paletteRAM[:], data)
	return nil
}

// DumpCHR reads the 8 KiB pattern table region through the CHR source.
func (pm *PPUMemory) DumpCHR() []byte {
	out := make([]byte, CHRSize)
	for i := range out {
		out[i] = pm.chr.ReadCHR(uint16(i))
	}
	return out
}
