package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// physical lists, for each logical name table 0-3, the table it lands in.
var physical = []struct {
	mode  MirrorMode
	table [4]int
}{
	{MirrorHorizontal, [4]int{0, 0, 1, 1}},
	{MirrorVertical, [4]int{0, 1, 0, 1}},
	{MirrorSingleScreen0, [4]int{0, 0, 0, 0}},
	{MirrorSingleScreen1, [4]int{1, 1, 1, 1}},
	{MirrorFourScreen, [4]int{0, 1, 2, 3}},
}

func TestNameTableMirroring(t *testing.T) {
	for _, tc := range physical {
		t.Run(tc.mode.String(), func(t *testing.T) {
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					mem := NewPPUMemory(nil, tc.mode)
					offset := uint16(0x1A5)
					addrA := 0x2000 + uint16(a)*0x400 + offset
					addrB := 0x2000 + uint16(b)*0x400 + offset

					mem.Write(addrA, 0x55)
					got := mem.Read(addrB)
					if tc.table[a] == tc.table[b] {
						assert.Equal(t, uint8(0x55), got, "tables %d and %d share memory", a, b)
					} else {
						assert.NotEqual(t, uint8(0x55), got, "tables %d and %d are independent", a, b)
					}
				}
			}
		})
	}
}

func TestNameTableUpperMirror(t *testing.T) {
	mem := NewPPUMemory(nil, MirrorVertical)

	for _, addr := range []uint16{0x2000, 0x23FF, 0x2400, 0x2AC0, 0x2EFF} {
		t.Run(fmt.Sprintf("%04X", addr), func(t *testing.T) {
			mirror := addr + 0x1000
			mem.Write(addr, uint8(addr))
			assert.Equal(t, uint8(addr), mem.Read(mirror))

			mem.Write(mirror, uint8(addr)+1)
			assert.Equal(t, uint8(addr)+1, mem.Read(addr), "write through $%04X", mirror)
		})
	}
}

func TestPaletteRepeatsEvery32Bytes(t *testing.T) {
	mem := NewPPUMemory(nil, MirrorHorizontal)

	for _, base := range []uint16{0x3F01, 0x3F0E, 0x3F11, 0x3F1F} {
		mem.Write(base, uint8(base&0x3F))
		for mirror := base + 0x20; mirror <= 0x3FFF; mirror += 0x20 {
			assert.Equal(t, uint8(base&0x3F), mem.Read(mirror), "Read(%04X)", mirror)
		}
	}
}

func TestPaletteTransparentEntriesShared(t *testing.T) {
	mem := NewPPUMemory(nil, MirrorHorizontal)

	for i := uint16(0); i < 4; i++ {
		bg, spr := 0x3F00+i*4, 0x3F10+i*4
		mem.Write(spr, 0x20+uint8(i))
		assert.Equal(t, 0x20+uint8(i), mem.Read(bg), "Read(%04X) after writing %04X", bg, spr)
	}

	// $3F11 is its own entry
	mem.Write(0x3F01, 0x11)
	mem.Write(0x3F11, 0x22)
	assert.Equal(t, uint8(0x11), mem.Read(0x3F01))
}
