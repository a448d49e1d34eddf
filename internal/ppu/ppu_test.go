package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppuview/internal/memory"
	"ppuview/internal/ppuview"
)

var _ ppuview.MemoryPort = (*PPU)(nil)

// MockCHR implements a simple pattern table store for testing
type MockCHR struct {
	chrData    [0x2000]uint8
	readCount  map[uint16]int
	writeCount map[uint16]int
}

// NewMockCHR creates a new mock CHR store
func NewMockCHR() *MockCHR {
	return &MockCHR{
		readCount:  make(map[uint16]int),
		writeCount: make(map[uint16]int),
	}
}

func (m *MockCHR) ReadCHR(address uint16) uint8 {
	address &= 0x1FFF
	m.readCount[address]++
	return m.chrData[address]
}

func (m *MockCHR) WriteCHR(address uint16, value uint8) {
	address &= 0x1FFF
	m.writeCount[address]++
	m.chrData[address] = value
}

// newTestPPU creates a PPU over horizontally mirrored memory and a mock CHR
func newTestPPU() (*PPU, *MockCHR) {
	chr := NewMockCHR()
	return New(memory.NewPPUMemory(chr, memory.MirrorHorizontal)), chr
}

func TestPPUReset(t *testing.T) {
	ppu, _ := newTestPPU()

	ppu.ppuCtrl = 0xFF
	ppu.ppuMask = 0xFF
	ppu.oamAddr = 0x80
	ppu.v = 0x2000
	ppu.t = 0x1000
	ppu.x = 7
	ppu.w = true
	ppu.oam[5] = 0x42
	ppu.Write(0x2000, 0x33)

	ppu.Reset()

	assert.Zero(t, ppu.ppuCtrl)
	assert.Zero(t, ppu.ppuMask)
	assert.Zero(t, ppu.oamAddr)
	assert.Equal(t, uint8(0xA0), ppu.ppuStatus, "VBL set after reset")
	assert.Equal(t, Registers{Status: 0xA0}, ppu.Registers(), "internal registers cleared")
	assert.Zero(t, ppu.oam[5], "OAM cleared")
	assert.Equal(t, uint8(0x33), ppu.Read(0x2000), "PPU memory kept")
}

func TestPeekRegisterHasNoSideEffects(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.ppuStatus = 0x80
	ppu.w = true
	ppu.WriteRegister(0x2000, 0x18)

	assert.Equal(t, uint8(0x80), ppu.PeekRegister(0x2002))
	assert.Equal(t, uint8(0x80), ppu.ppuStatus, "VBL kept")
	assert.True(t, ppu.w, "write latch kept")
	assert.Equal(t, uint8(0x18), ppu.PeekRegister(ppuview.PPUCTRL))
	assert.Equal(t, uint8(0x18), ppu.PeekRegister(0x3FF8), "registers mirror every 8 bytes")
}

func TestPeekPPUData(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.Write(0x2345, 0x6B)
	ppu.v = 0x2345

	assert.Equal(t, uint8(0x6B), ppu.PeekRegister(RegData))
	assert.Equal(t, uint16(0x2345), ppu.v, "peek leaves the VRAM address alone")
}

func TestPPUControlRegisterWrite(t *testing.T) {
	ppu, _ := newTestPPU()

	ppu.WriteRegister(0x2000, 0x93)

	assert.Equal(t, uint8(0x93), ppu.ppuCtrl)
	assert.Equal(t, uint16(0x93&0x03)<<10, ppu.t&0x0C00, "nametable select bits in t")
}

func TestOAMAddressAndData(t *testing.T) {
	ppu, _ := newTestPPU()

	ppu.WriteRegister(0x2003, 0x10)
	assert.Equal(t, uint8(0x10), ppu.oamAddr)

	ppu.WriteRegister(0x2004, 0xAB)
	assert.Equal(t, uint8(0xAB), ppu.oam[0x10])
	assert.Equal(t, uint8(0x11), ppu.oamAddr, "OAMADDR advances after a write")

	ppu.WriteRegister(0x2003, 0x10)
	assert.Equal(t, uint8(0xAB), ppu.PeekRegister(0x2004))
}

func TestReadOAMBounds(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.oam[0xFF] = 0x12

	tests := []struct {
		index int
		want  uint8
	}{
		{0, 0x00},
		{255, 0x12},
		{256, 0xFF},
		{1000, 0xFF},
		{-1, 0xFF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ppu.ReadOAM(tt.index), "ReadOAM(%d)", tt.index)
	}
}

func TestPPUScrollWrite(t *testing.T) {
	ppu, _ := newTestPPU()

	ppu.WriteRegister(0x2005, 0x7D)
	assert.Equal(t, uint16(0x7D>>3), ppu.t&0x001F, "coarse X")
	assert.Equal(t, uint8(0x7D&0x07), ppu.x, "fine X")
	assert.True(t, ppu.w, "latch set after first write")

	ppu.WriteRegister(0x2005, 0xB6)
	assert.Equal(t, uint16(0xB6&0xF8)<<2, ppu.t&0x03E0, "coarse Y")
	assert.Equal(t, uint16(0xB6&0x07)<<12, ppu.t&0x7000, "fine Y")
	assert.False(t, ppu.w, "latch cleared after second write")
}

func TestPPUAddressWrite(t *testing.T) {
	ppu, _ := newTestPPU()

	ppu.WriteRegister(0x2006, 0x23)
	assert.True(t, ppu.w)

	ppu.WriteRegister(0x2006, 0x45)
	assert.Equal(t, uint16(0x2345), ppu.v)
	assert.Equal(t, uint16(0x2345), ppu.t)
	assert.False(t, ppu.w)
}

func TestPPUDataIncrementMode(t *testing.T) {
	ppu, _ := newTestPPU()

	ppu.v = 0x2000
	ppu.WriteRegister(0x2007, 0x98)
	assert.Equal(t, uint16(0x2001), ppu.v, "increment by 1")

	ppu.WriteRegister(0x2000, 0x04)
	ppu.v = 0x2000
	ppu.WriteRegister(0x2007, 0x99)
	assert.Equal(t, uint16(0x2020), ppu.v, "increment by 32")
	assert.Equal(t, uint8(0x99), ppu.Read(0x2000))

	ppu.v = 0x3FFF
	ppu.WriteRegister(0x2000, 0x00)
	ppu.WriteRegister(0x2007, 0x0F)
	assert.Equal(t, uint16(0x0000), ppu.v, "wraps at $3FFF")
}

func TestPPUDataWriteReachesCHR(t *testing.T) {
	ppu, chr := newTestPPU()

	ppu.WriteRegister(0x2006, 0x01)
	ppu.WriteRegister(0x2006, 0x23)
	ppu.WriteRegister(0x2007, 0x5C)

	assert.Equal(t, uint8(0x5C), chr.chrData[0x0123])
	assert.Equal(t, 1, chr.writeCount[0x0123])
}

func TestRegistersRoundTrip(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.WriteRegister(0x2000, 0x38)
	ppu.WriteRegister(0x2001, 0x1E)
	ppu.WriteRegister(0x2003, 0x40)
	ppu.WriteRegister(0x2005, 0x0D)

	regs := ppu.Registers()

	other, _ := newTestPPU()
	other.SetRegisters(regs)
	assert.Equal(t, regs, other.Registers())

	assert.Equal(t, 16, regs.SpriteHeight())
	assert.True(t, regs.BackgroundEnabled())
	assert.True(t, regs.SpritesEnabled())
	s := regs.String()
	for _, want := range []string{"Control:  $38", "Mask:     $1E", "OAM:      $40", "sprite half 1"} {
		assert.Contains(t, s, want)
	}
}

func TestLoadOAM(t *testing.T) {
	ppu, _ := newTestPPU()
	data := make([]byte, OAMSize)
	data[7] = 0x77
	require.NoError(t, ppu.LoadOAM(data))
	assert.Equal(t, uint8(0x77), ppu.OAM()[7])
	assert.ErrorIs(t, ppu.LoadOAM(data[:10]), memory.ErrRegionSize)
}
