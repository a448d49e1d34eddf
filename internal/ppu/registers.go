package ppu

import (
	"fmt"
	"strings"
)

// Registers is a read-only view of the register file.
type Registers struct {
	Ctrl    uint8  `json:"ctrl"`
	Mask    uint8  `json:"mask"`
	Status  uint8  `json:"status"`
	OAMAddr uint8  `json:"oam_addr"`
	V       uint16 `json:"v"`
	T       uint16 `json:"t"`
	FineX   uint8  `json:"fine_x"`
	Latch   bool   `json:"latch"`
}

// Registers returns the current register values.
func (p *PPU) Registers() Registers {
	return Registers{
		Ctrl:    p.ppuCtrl,
		Mask:    p.ppuMask,
		Status:  p.ppuStatus,
		OAMAddr: p.oamAddr,
		V:       p.v,
		T:       p.t,
		FineX:   p.x,
		Latch:   p.w,
	}
}

// SetRegisters restores a register file captured with Registers.
func (p *PPU) SetRegisters(r Registers) {
	p.ppuCtrl = r.Ctrl
	p.ppuMask = r.Mask
	p.ppuStatus = r.Status
	p.oamAddr = r.OAMAddr
	p.v = r.V & 0x7FFF
	p.t = r.T & 0x7FFF
	p.x = r.FineX & 7
	p.w = r.Latch
}

// NametableBase returns the base nametable address PPUCTRL selects.
func (r Registers) NametableBase() uint16 {
	return 0x2000 + uint16(r.Ctrl&3)*0x400
}

// SpriteHeight returns 8 or 16.
func (r Registers) SpriteHeight() int {
	if r.Ctrl&0x20 != 0 {
		return 16
	}
	return 8
}

// BackgroundEnabled reports PPUMASK bit 3.
func (r Registers) BackgroundEnabled() bool { return r.Mask&0x08 != 0 }

// SpritesEnabled reports PPUMASK bit 4.
func (r Registers) SpritesEnabled() bool { return r.Mask&0x10 != 0 }

func (r Registers) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Control:  $%02X (nametable $%04X, sprites 8x%d, bg half %d, sprite half %d)\n",
		r.Ctrl, r.NametableBase(), r.SpriteHeight(), (r.Ctrl>>4)&1, (r.Ctrl>>3)&1)
	fmt.Fprintf(&sb, "Mask:     $%02X (bg %v, sprites %v)\n", r.Mask, r.BackgroundEnabled(), r.SpritesEnabled())
	fmt.Fprintf(&sb, "Status:   $%02X\n", r.Status)
	fmt.Fprintf(&sb, "OAM:      $%02X\n", r.OAMAddr)
	fmt.Fprintf(&sb, "VRAM:     v=$%04X t=$%04X x=%d w=%v", r.V, r.T, r.FineX, r.Latch)
	return sb.String()
}
