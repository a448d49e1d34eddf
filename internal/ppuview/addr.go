// Package ppuview decodes PPU memory (pattern tables, name tables, attribute
// tables, OAM and palette RAM) into pixel buffers for debug views, and maps
// view coordinates back to the addresses they were decoded from.
//
// Every routine is synchronous and reads memory through a MemoryPort. The
// caller must not mutate PPU memory while a render is in progress.
package ppuview

import "fmt"

// PPU address space layout
const (
	PPUCTRL            uint16 = 0x2000 // CPU-visible control register
	PatternHalfSize    uint16 = 0x1000
	NameTableBase      uint16 = 0x2000
	NameTableSize      uint16 = 0x400
	AttributeTableBase uint16 = 0x23C0
	PaletteRAMBase     uint16 = 0x3F00
	PaletteBankSize    uint16 = 0x10

	TileBytes = 16 // two 8-byte bit-planes
	HighPlane = 8  // offset of the high bit-plane within a tile
	TileSize  = 8  // tile edge in pixels

	OAMSize     = 256
	OAMSentinel = 0xFF

	// CtrlSpritePatternHalf selects the sprite pattern table (8x8 sprites).
	CtrlSpritePatternHalf uint8 = 0x08
)

// Palette banks
const (
	BankBackground = 0
	BankSprite     = 1
)

// PatternAddress returns the address of the low bit-plane of a tile.
// The high bit-plane lives HighPlane bytes further on.
func PatternAddress(half int, tileIndex uint8) uint16 {
	mustHalf(half)
	return uint16(half)*PatternHalfSize + uint16(tileIndex)*TileBytes
}

// AttributeAddress returns the attribute byte covering tile (tileX, tileY)
// of name table tableNr.
func AttributeAddress(tileX, tileY, tableNr int) uint16 {
	mustTile(tileX, tileY)
	mustTable(tableNr)
	return AttributeTableBase + uint16(tableNr)*NameTableSize + uint16(tileY/4)*8 + uint16(tileX/4)
}

// PaletteAddress returns the palette RAM entry for colorIndex of palette
// paletteIndex in bank (0 background, 1 sprite).
func PaletteAddress(bank, paletteIndex, colorIndex int) uint16 {
	mustBank(bank)
	mustPaletteIndex(paletteIndex)
	if colorIndex < 0 || colorIndex > 3 {
		panic(fmt.Sprintf("ppuview: color index %d out of range 0..3", colorIndex))
	}
	return PaletteRAMBase + uint16(bank)*PaletteBankSize + uint16(paletteIndex)*4 + uint16(colorIndex)
}

// NameTableAddress returns the first tile entry of name table tableNr.
func NameTableAddress(tableNr int) uint16 {
	mustTable(tableNr)
	return NameTableBase + uint16(tableNr)*NameTableSize
}

// TileEntryAddress returns the name-table entry for tile (tileX, tileY).
func TileEntryAddress(tileX, tileY, tableNr int) uint16 {
	mustTile(tileX, tileY)
	return NameTableAddress(tableNr) + uint16(tileX) + uint16(tileY)*32
}

// TableNumber returns which of the four composited name tables a tile
// coordinate on the 64x64 tile composite falls in.
func TableNumber(tileX, tileY int) int {
	return tileX/32 + (tileY/32)*2
}

// OAMOffset returns the first OAM byte of the sprite shown at grid slot
// (sx, sy) of the 8x8 sprite sheet.
func OAMOffset(sx, sy int) int {
	return (sx + sy*8) * 4
}

func mustHalf(half int) {
	if half != 0 && half != 1 {
		panic(fmt.Sprintf("ppuview: pattern table half %d not in {0,1}", half))
	}
}

func mustBank(bank int) {
	if bank != BankBackground && bank != BankSprite {
		panic(fmt.Sprintf("ppuview: palette bank %d not in {0,1}", bank))
	}
}

func mustPaletteIndex(index int) {
	if index < 0 || index > 3 {
		panic(fmt.Sprintf("ppuview: palette index %d out of range 0..3", index))
	}
}

func mustTable(tableNr int) {
	if tableNr < 0 || tableNr > 3 {
		panic(fmt.Sprintf("ppuview: name table %d out of range 0..3", tableNr))
	}
}

func mustTile(tileX, tileY int) {
	if tileX < 0 || tileX >= 32 || tileY < 0 || tileY >= 32 {
		panic(fmt.Sprintf("ppuview: tile (%d,%d) outside 32x32 grid", tileX, tileY))
	}
}
