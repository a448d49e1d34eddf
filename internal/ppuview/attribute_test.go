package ppuview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hardwareAttributeShift is the quadrant selection the 2C02 uses: bit 1 of
// the tile column picks left/right, bit 1 of the tile row picks top/bottom.
func hardwareAttributeShift(tileX, tileY int) uint {
	return uint((tileY&2)<<1 | tileX&2)
}

func TestRunningAttributeShiftMatchesHardware(t *testing.T) {
	for table := 0; table < 4; table++ {
		for y := 0; y < NameTableRows; y++ {
			for x := 0; x < NameTableCols; x++ {
				addr := TileEntryAddress(x, y, table)
				require.Equalf(t, hardwareAttributeShift(x, y), runningAttributeShift(addr),
					"table %d tile (%d,%d) addr $%04X", table, x, y, addr)
			}
		}
	}
}

func TestResolverShiftAgainstHardware(t *testing.T) {
	// The two agree only when bits 0 and 1 of both coordinates match.
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			agree := (x&1 == (x>>1)&1) && (y&1 == (y>>1)&1)
			assert.Equalf(t, agree, attributeShift(x, y) == hardwareAttributeShift(x, y),
				"tile (%d,%d)", x, y)
		}
	}
	assert.Equal(t, uint(2), attributeShift(1, 0))
	assert.Equal(t, uint(0), hardwareAttributeShift(1, 0))
	assert.Equal(t, uint(6), attributeShift(3, 3))
	assert.Equal(t, uint(6), hardwareAttributeShift(3, 3))
}

func TestTablePaletteIndex(t *testing.T) {
	p := newFakePort()
	// fields: shift 0 -> 1, shift 2 -> 2, shift 4 -> 3, shift 6 -> 0
	p.mem[AttributeAddress(0, 0, 2)] = 0x39

	r := NewAttributeResolver(p)
	assert.Equal(t, uint8(0x39), r.Attribute(2, 2, 2))
	assert.Equal(t, 1, r.TablePaletteIndex(0, 0, 2))
	assert.Equal(t, 2, r.TablePaletteIndex(1, 0, 2))
	assert.Equal(t, 3, r.TablePaletteIndex(0, 1, 2))
	assert.Equal(t, 0, r.TablePaletteIndex(1, 1, 2))
	assert.Equal(t, 0, r.TablePaletteIndex(0, 0, 0))
}

func TestResolverBoundsPanic(t *testing.T) {
	r := NewAttributeResolver(newFakePort())
	assert.Panics(t, func() { r.TablePaletteIndex(32, 0, 0) })
	assert.Panics(t, func() { r.TablePaletteIndex(0, -1, 0) })
	assert.Panics(t, func() { r.TablePaletteIndex(0, 0, 4) })
}
