package ppuview

import "fmt"

// TileDecoder turns one 8x8 pattern tile into resolved colours.
type TileDecoder struct {
	mem Reader
}

// NewTileDecoder returns a decoder reading from mem.
func NewTileDecoder(mem Reader) *TileDecoder {
	return &TileDecoder{mem: mem}
}

// Decode writes tile tileIndex of pattern table half into dst, using palette
// paletteIndex of bank. Row r of the tile lands at dst[r*stride:].
// Colour index 0 resolves through palette RAM like any other index.
func (d *TileDecoder) Decode(half, bank int, tileIndex uint8, paletteIndex int, dst []uint32, stride int) {
	mustBank(bank)
	mustPaletteIndex(paletteIndex)
	if stride < TileSize || len(dst) < (TileSize-1)*stride+TileSize {
		panic(fmt.Sprintf("ppuview: tile destination too small (len %d, stride %d)", len(dst), stride))
	}

	addr := PatternAddress(half, tileIndex)
	for row := 0; row < TileSize; row++ {
		lo := d.mem.Read(addr)
		hi := d.mem.Read(addr + HighPlane)
		line := dst[row*stride : row*stride+TileSize]
		for col := range line {
			shift := uint(7 - col)
			ci := int((hi>>shift)&1)<<1 | int((lo>>shift)&1)
			line[col] = MasterColor(d.mem.Read(PaletteAddress(bank, paletteIndex, ci)))
		}
		addr++
	}
}

// ColorIndices returns the raw 2-bit colour indices of a tile in row order.
func (d *TileDecoder) ColorIndices(half int, tileIndex uint8) [TileSize * TileSize]uint8 {
	var out [TileSize * TileSize]uint8
	addr := PatternAddress(half, tileIndex)
	for row := 0; row < TileSize; row++ {
		lo := d.mem.Read(addr + uint16(row))
		hi := d.mem.Read(addr + uint16(row) + HighPlane)
		for col := 0; col < TileSize; col++ {
			shift := uint(7 - col)
			out[row*TileSize+col] = (hi>>shift)&1<<1 | (lo>>shift)&1
		}
	}
	return out
}

// EncodeTile packs 64 colour indices (row order, values 0..3) into the two
// bit-planes of a pattern tile.
func EncodeTile(indices [TileSize * TileSize]uint8) [TileBytes]uint8 {
	var planes [TileBytes]uint8
	for row := 0; row < TileSize; row++ {
		for col := 0; col < TileSize; col++ {
			ci := indices[row*TileSize+col] & 3
			bit := uint8(0x80) >> uint(col)
			if ci&1 != 0 {
				planes[row] |= bit
			}
			if ci&2 != 0 {
				planes[row+HighPlane] |= bit
			}
		}
	}
	return planes
}

// WriteTile stores an encoded tile at its pattern address.
func WriteTile(w Writer, half int, tileIndex uint8, planes [TileBytes]uint8) {
	addr := PatternAddress(half, tileIndex)
	for i, b := range planes {
		w.Write(addr+uint16(i), b)
	}
}
