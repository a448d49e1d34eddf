package ppuview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeAddress(t *testing.T) {
	tests := []struct {
		x, y, table int
		want        uint16
	}{
		{0, 0, 0, 0x23C0},
		{31, 29, 0, 0x23FF},
		{3, 3, 0, 0x23C0},
		{4, 0, 0, 0x23C1},
		{0, 4, 0, 0x23C8},
		{0, 0, 1, 0x27C0},
		{0, 0, 2, 0x2BC0},
		{31, 29, 3, 0x2FFF},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, AttributeAddress(tt.x, tt.y, tt.table),
			"AttributeAddress(%d,%d,%d)", tt.x, tt.y, tt.table)
	}
}

func TestPaletteAddress(t *testing.T) {
	assert.Equal(t, uint16(0x3F03), PaletteAddress(0, 0, 3))
	assert.Equal(t, uint16(0x3F19), PaletteAddress(1, 2, 1))
	assert.Equal(t, uint16(0x3F00), PaletteAddress(0, 0, 0))
	assert.Equal(t, uint16(0x3F1F), PaletteAddress(1, 3, 3))
}

func TestPatternAddress(t *testing.T) {
	assert.Equal(t, uint16(0x0000), PatternAddress(0, 0))
	assert.Equal(t, uint16(0x0FF0), PatternAddress(0, 0xFF))
	assert.Equal(t, uint16(0x1000), PatternAddress(1, 0))
	assert.Equal(t, uint16(0x1430), PatternAddress(1, 0x43))
}

func TestNameTableAddresses(t *testing.T) {
	assert.Equal(t, uint16(0x2000), NameTableAddress(0))
	assert.Equal(t, uint16(0x2C00), NameTableAddress(3))
	assert.Equal(t, uint16(0x2421), TileEntryAddress(1, 1, 1))
	assert.Equal(t, uint16(0x23BF), TileEntryAddress(31, 29, 0))

	assert.Equal(t, 0, TableNumber(0, 0))
	assert.Equal(t, 1, TableNumber(32, 0))
	assert.Equal(t, 2, TableNumber(0, 32))
	assert.Equal(t, 3, TableNumber(63, 63))
}

func TestOAMOffsetCoversEveryRecord(t *testing.T) {
	seen := make(map[int]bool)
	for sy := 0; sy < SpriteGrid; sy++ {
		for sx := 0; sx < SpriteGrid; sx++ {
			off := OAMOffset(sx, sy)
			require.Equal(t, (sx+sy*8)*4, off)
			require.False(t, seen[off], "offset %d reused", off)
			seen[off] = true
		}
	}
	assert.Len(t, seen, SpriteCount)
}

func TestAddressContractViolationsPanic(t *testing.T) {
	assert.Panics(t, func() { PatternAddress(2, 0) })
	assert.Panics(t, func() { PatternAddress(-1, 0) })
	assert.Panics(t, func() { PaletteAddress(2, 0, 0) })
	assert.Panics(t, func() { PaletteAddress(0, 4, 0) })
	assert.Panics(t, func() { PaletteAddress(0, 0, 4) })
	assert.Panics(t, func() { AttributeAddress(32, 0, 0) })
	assert.Panics(t, func() { AttributeAddress(0, 0, 4) })
	assert.Panics(t, func() { NameTableAddress(-1) })
}
