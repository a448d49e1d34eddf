package ppuview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTile(p *fakePort, half, bank int, tile uint8, pal int) *PixelBuffer {
	buf := NewPixelBuffer(TileSize, TileSize)
	NewTileDecoder(p).Decode(half, bank, tile, pal, buf.Pix, buf.Stride)
	return buf
}

func TestDecodeLowPlaneOnly(t *testing.T) {
	p := newFakePort()
	addr := PatternAddress(0, 5)
	for row := uint16(0); row < 8; row++ {
		p.mem[addr+row] = 0xFF
		p.mem[addr+row+HighPlane] = 0x00
	}

	buf := decodeTile(p, 0, 0, 5, 2)
	want := p.colorAt(0, 2, 1)
	for i, c := range buf.Pix {
		require.Equalf(t, want, c, "pixel %d", i)
	}
}

func TestDecodeZeroTileUsesPaletteByte(t *testing.T) {
	p := newFakePort()
	p.mem[PaletteAddress(1, 3, 0)] = 0x21

	buf := decodeTile(p, 1, 1, 0, 3)
	for i, c := range buf.Pix {
		require.Equalf(t, MasterColor(0x21), c, "pixel %d", i)
	}
	assert.Equal(t, uint32(0xFF64B0FF), buf.Pix[0])
}

func TestDecodeBitOrder(t *testing.T) {
	p := newFakePort()
	addr := PatternAddress(0, 1)
	p.mem[addr] = 0x80           // row 0, leftmost pixel low bit
	p.mem[addr+HighPlane] = 0x01 // row 0, rightmost pixel high bit
	p.mem[addr+7] = 0x01
	p.mem[addr+7+HighPlane] = 0x01

	buf := decodeTile(p, 0, 0, 1, 0)
	assert.Equal(t, p.colorAt(0, 0, 1), buf.At(0, 0))
	assert.Equal(t, p.colorAt(0, 0, 0), buf.At(1, 0))
	assert.Equal(t, p.colorAt(0, 0, 2), buf.At(7, 0))
	assert.Equal(t, p.colorAt(0, 0, 3), buf.At(7, 7))
	assert.Equal(t, p.colorAt(0, 0, 0), buf.At(0, 7))
}

func TestDecodeMasksPaletteValue(t *testing.T) {
	p := newFakePort()
	p.mem[PaletteAddress(0, 0, 0)] = 0xC1

	buf := decodeTile(p, 0, 0, 0, 0)
	assert.Equal(t, MasterColor(0x01), buf.At(3, 3))
}

func TestDecodeIsDeterministic(t *testing.T) {
	p := newFakePort()
	for i := 0; i < 0x2000; i++ {
		p.mem[i] = uint8(i*7 + i>>8)
	}
	a := decodeTile(p, 1, 0, 0x9C, 1)
	b := decodeTile(p, 1, 0, 0x9C, 1)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDecodeRespectsStride(t *testing.T) {
	p := newFakePort()
	p.setTile(0, 0, 3)
	buf := NewPixelBuffer(20, 9)
	buf.Fill(Black)

	NewTileDecoder(p).Decode(0, 0, 0, 0, buf.Window(2, 1), buf.Stride)

	assert.Equal(t, Black, buf.At(1, 1))
	assert.Equal(t, p.colorAt(0, 0, 3), buf.At(2, 1))
	assert.Equal(t, p.colorAt(0, 0, 3), buf.At(9, 8))
	assert.Equal(t, Black, buf.At(10, 8))
	assert.Equal(t, Black, buf.At(2, 0))
}

func TestDecodeContractViolations(t *testing.T) {
	p := newFakePort()
	dec := NewTileDecoder(p)
	assert.Panics(t, func() { dec.Decode(0, 2, 0, 0, make([]uint32, 64), 8) })
	assert.Panics(t, func() { dec.Decode(2, 0, 0, 0, make([]uint32, 64), 8) })
	assert.Panics(t, func() { dec.Decode(0, 0, 0, 4, make([]uint32, 64), 8) })
	assert.Panics(t, func() { dec.Decode(0, 0, 0, 0, make([]uint32, 63), 8) })
	assert.Panics(t, func() { dec.Decode(0, 0, 0, 0, make([]uint32, 64), 4) })
}

func TestEncodeTileMatchesDecoder(t *testing.T) {
	var idx [64]uint8
	for i := range idx {
		idx[i] = uint8((i / 3) % 4)
	}
	p := newFakePort()
	WriteTile(p, 1, 0x42, EncodeTile(idx))

	got := NewTileDecoder(p).ColorIndices(1, 0x42)
	assert.Equal(t, idx, got)

	buf := decodeTile(p, 1, 0, 0x42, 2)
	for i, ci := range idx {
		require.Equal(t, p.colorAt(0, 2, int(ci)), buf.Pix[i])
	}
}
