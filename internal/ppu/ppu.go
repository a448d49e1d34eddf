// Package ppu implements the CPU-visible register file and object attribute
// memory of the NES Picture Processing Unit, and exposes its memory as the
// port the debug views read from.
package ppu

import (
	"fmt"

	"ppuview/internal/memory"
)

// Register addresses (CPU $2000-$2007)
const (
	RegCtrl    uint16 = 0x2000
	RegMask    uint16 = 0x2001
	RegStatus  uint16 = 0x2002
	RegOAMAddr uint16 = 0x2003
	RegOAMData uint16 = 0x2004
	RegScroll  uint16 = 0x2005
	RegAddr    uint16 = 0x2006
	RegData    uint16 = 0x2007
)

// OAMSize is the size of object attribute memory in bytes.
const OAMSize = 256

// PPU represents the NES Picture Processing Unit (2C02) as seen from the
// CPU bus. Timing and rendering are not modelled.
type PPU struct {
	// PPU Registers (CPU-visible)
	ppuCtrl   uint8 // $2000 - PPUCTRL
	ppuMask   uint8 // $2001 - PPUMASK
	ppuStatus uint8 // $2002 - PPUSTATUS
	oamAddr   uint8 // $2003 - OAMADDR

	// Internal PPU State
	v uint16 // Current VRAM address (15 bits)
	t uint16 // Temporary VRAM address (15 bits) - address latch
	x uint8  // Fine X scroll (3 bits)
	w bool   // Write latch (toggles between first/second write)

	memory *memory.PPUMemory
	oam    [OAMSize]uint8
}

// New creates a new PPU instance over mem. A nil mem gets empty memory with
// CHR RAM and horizontal mirroring.
func New(mem *memory.PPUMemory) *PPU {
	if mem == nil {
		mem = memory.NewPPUMemory(nil, memory.MirrorHorizontal)
	}
	p := &PPU{memory: mem}
	p.Reset()
	return p
}

// Reset resets the register file and clears OAM. PPU memory is kept.
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.ppuStatus = 0xA0 // VBL set, sprite overflow and sprite 0 hit clear
	p.oamAddr = 0

	p.v = 0
	p.t = 0
	p.x = 0
	p.w = false

	p.oam = [OAMSize]uint8{}
}

// Memory returns the PPU address space.
func (p *PPU) Memory() *memory.PPUMemory {
	return p.memory
}

// PeekRegister returns the latched value of a register without side
// effects. Write-only registers return the last value written and PPUDATA
// returns the byte at the current VRAM address.
func (p *PPU) PeekRegister(address uint16) uint8 {
	switch 0x2000 + address&7 {
	case RegCtrl:
		return p.ppuCtrl
	case RegMask:
		return p.ppuMask
	case RegStatus:
		return p.ppuStatus
	case RegOAMAddr:
		return p.oamAddr
	case RegOAMData:
		return p.oam[p.oamAddr]
	case RegData:
		return p.memory.Read(p.v & 0x3FFF)
	default:
		return 0
	}
}

// WriteRegister writes to a PPU register (CPU $2000-$2007)
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch 0x2000 + address&7 {
	case RegCtrl:
		p.ppuCtrl = value
		p.t = (p.t & 0xF3FF) | ((uint16(value) & 0x03) << 10) // Nametable select
	case RegMask:
		p.ppuMask = value
	case RegOAMAddr:
		p.oamAddr = value
	case RegOAMData:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case RegScroll:
		p.writePPUScroll(value)
	case RegAddr:
		p.writePPUAddr(value)
	case RegData:
		p.writePPUData(value)
	}
}

// Read reads the PPU address space directly, bypassing $2007 buffering.
func (p *PPU) Read(address uint16) uint8 {
	return p.memory.Read(address)
}

// Write writes the PPU address space directly.
func (p *PPU) Write(address uint16, value uint8) {
	p.memory.Write(address, value)
}

// ReadOAM returns OAM byte index, or 0xFF outside 0..255.
func (p *PPU) ReadOAM(index int) uint8 {
	if index < 0 || index >= OAMSize {
		return 0xFF
	}
	return p.oam[index]
}

// OAM returns a copy of object attribute memory.
func (p *PPU) OAM() []byte {
	out := make([]byte, OAMSize)
	copy(out, p.oam[:])
	return out
}

// LoadOAM replaces object attribute memory.
func (p *PPU) LoadOAM(data []byte) error {
	if len(data) != OAMSize {
		return fmt.Errorf("%w: oam is %d bytes, want %d", memory.ErrRegionSize, len(data), OAMSize)
	}
	copy(p.oam[:], data)
	return nil
}

// writePPUScroll handles writes to PPUSCROLL ($2005)
func (p *PPU) writePPUScroll(value uint8) {
	if !p.w {
		// First write: X scroll
		p.t = (p.t & 0xFFE0) | (uint16(value) >> 3) // Coarse X
		p.x = value & 0x07                          // Fine X
		p.w = true
	} else {
		// Second write: Y scroll
		p.t = (p.t & 0x8FFF) | ((uint16(value) & 0x07) << 12) // Fine Y
		p.t = (p.t & 0xFC1F) | ((uint16(value) & 0xF8) << 2)  // Coarse Y
		p.w = false
	}
}

// writePPUAddr handles writes to PPUADDR ($2006)
func (p *PPU) writePPUAddr(value uint8) {
	if !p.w {
		// First write: high byte
		p.t = (p.t & 0x80FF) | ((uint16(value) & 0x3F) << 8)
		p.w = true
	} else {
		// Second write: low byte
		p.t = (p.t & 0xFF00) | uint16(value)
		p.v = p.t
		p.w = false
	}
}

// writePPUData handles writes to PPUDATA ($2007)
func (p *PPU) writePPUData(value uint8) {
	p.memory.Write(p.v&0x3FFF, value)
	p.incrementAddress()
}

func (p *PPU) incrementAddress() {
	if p.ppuCtrl&0x04 != 0 {
		p.v += 32 // down
	} else {
		p.v++ // across
	}
	p.v &= 0x3FFF
}
