package ppuview

import "image/color"

// fakePort is a flat 16 KiB PPU address space with OAM and a control
// register. It counts reads so tests can check render cost.
type fakePort struct {
	mem   [0x4000]uint8
	oam   [OAMSize]uint8
	ctrl  uint8
	reads int
}

func (f *fakePort) Read(address uint16) uint8 {
	f.reads++
	return f.mem[address&0x3FFF]
}

func (f *fakePort) Write(address uint16, value uint8) {
	f.mem[address&0x3FFF] = value
}

func (f *fakePort) ReadOAM(index int) uint8 {
	if index < 0 || index >= OAMSize {
		return OAMSentinel
	}
	return f.oam[index]
}

func (f *fakePort) PeekRegister(address uint16) uint8 {
	if address == PPUCTRL {
		return f.ctrl
	}
	return 0
}

// newFakePort returns a port whose 32 palette RAM entries hold 0..31, so
// every palette address resolves to a distinct master colour.
func newFakePort() *fakePort {
	f := &fakePort{}
	for i := 0; i < 32; i++ {
		f.mem[PaletteRAMBase+uint16(i)] = uint8(i)
	}
	return f
}

// colorAt returns the colour the fake resolves for a palette address.
func (f *fakePort) colorAt(bank, pal, ci int) uint32 {
	return MasterColor(f.mem[PaletteAddress(bank, pal, ci)])
}

// setTile fills a tile with a single colour index.
func (f *fakePort) setTile(half int, tile uint8, ci uint8) {
	var idx [64]uint8
	for i := range idx {
		idx[i] = ci
	}
	WriteTile(f, half, tile, EncodeTile(idx))
}

// toRGBA converts a 0xAARRGGBB pixel to color.RGBA.
func toRGBA(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: uint8(c >> 24)}
}
