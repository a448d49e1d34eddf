package ppuview

import (
	"fmt"
	"strings"
)

// View identifies one of the rendered debug views.
type View int

const (
	ViewPattern View = iota
	ViewNameTable
	ViewSprite
	ViewPaletteRAM
	ViewMasterPalette
)

var viewNames = map[View]string{
	ViewPattern:       "pattern",
	ViewNameTable:     "nametable",
	ViewSprite:        "sprite",
	ViewPaletteRAM:    "palette",
	ViewMasterPalette: "master",
}

func (v View) String() string {
	if s, ok := viewNames[v]; ok {
		return s
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView maps a view name back to its View.
func ParseView(s string) (View, error) {
	for v, name := range viewNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

// Size returns the pixel dimensions of a view.
func (v View) Size() (w, h int) {
	switch v {
	case ViewPattern:
		return PatternViewSize, PatternViewSize
	case ViewNameTable:
		return NameTableViewSize, NameTableViewSize
	case ViewSprite:
		return SpriteViewSize, SpriteViewSize
	case ViewPaletteRAM:
		return PaletteRAMViewWidth, PaletteRAMViewHeight
	case ViewMasterPalette:
		return MasterViewWidth, MasterViewHeight
	}
	return 0, 0
}

// TileRef names one tile decode: which pattern half, palette bank, tile and
// palette selector.
type TileRef struct {
	Half    int
	Bank    int
	Index   uint8
	Palette int
}

// Report is the result of inspecting one pixel of a view.
type Report interface {
	fmt.Stringer
	// Preview returns the tile under the pointer, if there is one.
	Preview() (TileRef, bool)
}

// Inspector maps view coordinates back to the memory they were decoded
// from. Coordinates are view pixels and wrap at the view size.
type Inspector struct {
	port MemoryPort
	attr *AttributeResolver
	dec  *TileDecoder
}

// NewInspector returns an inspector reading from port.
func NewInspector(port MemoryPort) *Inspector {
	return &Inspector{
		port: port,
		attr: NewAttributeResolver(port),
		dec:  NewTileDecoder(port),
	}
}

// DecodePreview decodes ref into the top-left 8x8 pixels of dst.
func (in *Inspector) DecodePreview(ref TileRef, dst *PixelBuffer) {
	dst.requireSize(TileSize, TileSize, "tile preview")
	in.dec.Decode(ref.Half, ref.Bank, ref.Index, ref.Palette, dst.Pix, dst.Stride)
}

// PatternReport describes a tile of a pattern table view.
type PatternReport struct {
	Layout  Layout
	Col     int // grid column in the layout's own grid
	Row     int
	Tile    TileRef
	Address uint16
	Pixel   uint8 // 2-bit colour index under the pointer
}

func (r PatternReport) String() string {
	return fmt.Sprintf("tile: $%02X\nlayout: %s (%d,%d)\naddr: $%04X\npixel: %d",
		r.Tile.Index, r.Layout, r.Col, r.Row, r.Address, r.Pixel)
}

// Preview implements Report.
func (r PatternReport) Preview() (TileRef, bool) { return r.Tile, true }

// LocatePatternTile inverts PatternBlockOffset for a pixel of the 128x128
// pattern view and returns the grid cell and tile index drawn there.
func LocatePatternTile(layout Layout, x, y int) (col, row int, tile uint8) {
	x, y = wrap(x, PatternViewSize), wrap(y, PatternViewSize)
	dispCol, dispRow := x/TileSize, y/TileSize
	cols, _ := patternGrid(layout)
	if layout == Layout8x16 {
		col = dispCol*2 + dispRow%2
		row = dispRow / 2
	} else {
		col, row = dispCol, dispRow
	}
	return col, row, uint8(row*cols + col)
}

// Pattern inspects pattern view pixel (x, y) as rendered by
// PatternTableRenderer.Render with the same half, bank, palette and layout.
func (in *Inspector) Pattern(half, bank, paletteIndex int, layout Layout, x, y int) PatternReport {
	col, row, tile := LocatePatternTile(layout, x, y)
	return PatternReport{
		Layout:  layout,
		Col:     col,
		Row:     row,
		Tile:    TileRef{Half: half, Bank: bank, Index: tile, Palette: paletteIndex},
		Address: PatternAddress(half, tile),
		Pixel:   in.pixel(half, tile, x, y),
	}
}

// pixel returns the colour index of view pixel (x, y) within its tile.
func (in *Inspector) pixel(half int, tile uint8, x, y int) uint8 {
	idx := in.dec.ColorIndices(half, tile)
	return idx[wrap(y, TileSize)*TileSize+wrap(x, TileSize)]
}

// NameTableReport describes a tile of the name table composite.
type NameTableReport struct {
	X, Y             int // tile within its table
	Table            int
	Visible          bool // false for the 2 rows below the 30 drawn ones
	EntryAddress     uint16
	TileIndex        uint8
	PatternAddress   uint16
	Attribute        uint8
	AttributeAddress uint16
	// Palette is the selector the renderer used. ResolverPalette is what
	// AttributeResolver.TablePaletteIndex returns for the same tile.
	Palette         int
	ResolverPalette int
	PaletteAddress  uint16
	Colors          [4]uint32
}

// Mismatch reports whether the two palette selectors disagree.
func (r NameTableReport) Mismatch() bool { return r.Palette != r.ResolverPalette }

func (r NameTableReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "x: %d y: %d\n", r.X, r.Y)
	fmt.Fprintf(&sb, "addr: $%04X\n", r.EntryAddress)
	fmt.Fprintf(&sb, "table: %d\n", r.Table)
	fmt.Fprintf(&sb, "att: $%02X\n", r.Attribute)
	fmt.Fprintf(&sb, "att_addr: $%04X\n", r.AttributeAddress)
	fmt.Fprintf(&sb, "pal: %d", r.Palette)
	if r.Mismatch() {
		fmt.Fprintf(&sb, " (resolver %d)", r.ResolverPalette)
	}
	fmt.Fprintf(&sb, "\npal_addr: $%04X\n", r.PaletteAddress)
	fmt.Fprintf(&sb, "tile_index: $%02X\n", r.TileIndex)
	fmt.Fprintf(&sb, "tile_addr: $%04X", r.PatternAddress)
	if !r.Visible {
		sb.WriteString("\n(not drawn)")
	}
	return sb.String()
}

// Preview implements Report.
// Rows 30 and 31 are never drawn and have no preview.
func (r NameTableReport) Preview() (TileRef, bool) {
	return TileRef{Half: nameTablePatterns, Bank: BankBackground, Index: r.TileIndex, Palette: r.Palette}, r.Visible
}

// NameTable inspects pixel (x, y) of the 512x512 name table composite.
func (in *Inspector) NameTable(x, y int) NameTableReport {
	x, y = wrap(x, NameTableViewSize), wrap(y, NameTableViewSize)
	tileX, tileY := x>>3, y>>3
	table := TableNumber(tileX, tileY)
	tileX %= 32
	tileY %= 32

	entry := TileEntryAddress(tileX, tileY, table)
	tile := in.port.Read(entry)
	att := in.attr.Attribute(tileX, tileY, table)
	pal := int(att>>runningAttributeShift(entry)) & 3

	r := NameTableReport{
		X:                tileX,
		Y:                tileY,
		Table:            table,
		Visible:          tileY < NameTableRows,
		EntryAddress:     entry,
		TileIndex:        tile,
		PatternAddress:   PatternAddress(nameTablePatterns, tile),
		Attribute:        att,
		AttributeAddress: AttributeAddress(tileX, tileY, table),
		Palette:          pal,
		ResolverPalette:  in.attr.TablePaletteIndex(tileX, tileY, table),
		PaletteAddress:   PaletteAddress(BankBackground, pal, 0),
	}
	for c := range r.Colors {
		r.Colors[c] = MasterColor(in.port.Read(PaletteAddress(BankBackground, pal, c)))
	}
	return r
}

// SpriteReport describes one slot of the sprite sheet.
type SpriteReport struct {
	Slot   int
	Offset int
	Sprite Sprite
	Half   int
	Pixel  uint8 // 2-bit colour index under the pointer, before flips
}

func (r SpriteReport) String() string {
	return fmt.Sprintf("sprite: %d\noam: $%02X\n%s\npal: %d\nhalf: %d\nflags: %s\npixel: %d",
		r.Slot, r.Offset, r.Sprite, r.Sprite.Palette(), r.Half, r.Sprite.flags(), r.Pixel)
}

// Preview implements Report.
func (r SpriteReport) Preview() (TileRef, bool) {
	return TileRef{Half: r.Half, Bank: BankSprite, Index: r.Sprite.Tile, Palette: r.Sprite.Palette()}, true
}

// Sprite inspects pixel (x, y) of the 64x64 sprite sheet.
func (in *Inspector) Sprite(x, y int) SpriteReport {
	sx := wrap(x, SpriteViewSize) / TileSize
	sy := wrap(y, SpriteViewSize) / TileSize
	off := OAMOffset(sx, sy)
	r := SpriteReport{
		Slot:   off / 4,
		Offset: off,
		Sprite: ReadSprite(in.port, off/4),
		Half:   SpritePatternHalf(in.port.PeekRegister(PPUCTRL)),
	}
	r.Pixel = in.pixel(r.Half, r.Sprite.Tile, x, y)
	return r
}

// PaletteReport describes one swatch of a palette view.
type PaletteReport struct {
	Bank    int // -1 for the master palette
	Index   int
	Color   int
	Address uint16
	Value   uint8 // master palette index
	RGBA    uint32
}

func (r PaletteReport) String() string {
	if r.Bank < 0 {
		return fmt.Sprintf("master: $%02X\nrgb: #%06X", r.Value, r.RGBA&0xFFFFFF)
	}
	return fmt.Sprintf("bank: %d pal: %d color: %d\naddr: $%04X\nvalue: $%02X\nrgb: #%06X",
		r.Bank, r.Index, r.Color, r.Address, r.Value, r.RGBA&0xFFFFFF)
}

// Preview implements Report.
func (r PaletteReport) Preview() (TileRef, bool) { return TileRef{}, false }

// PaletteRAM inspects pixel (x, y) of the palette RAM view.
func (in *Inspector) PaletteRAM(x, y int) PaletteReport {
	col := wrap(x, PaletteRAMViewWidth) / SwatchSize
	row := wrap(y, PaletteRAMViewHeight) / SwatchSize
	bank, c := col/4, col%4
	addr := PaletteAddress(bank, row, c)
	v := in.port.Read(addr)
	return PaletteReport{Bank: bank, Index: row, Color: c, Address: addr, Value: v, RGBA: MasterColor(v)}
}

// MasterPaletteAt inspects pixel (x, y) of the master palette view.
func MasterPaletteAt(x, y int) PaletteReport {
	col := wrap(x, MasterViewWidth) / SwatchSize
	row := wrap(y, MasterViewHeight) / SwatchSize
	v := uint8(row*16 + col)
	return PaletteReport{Bank: -1, Index: int(v), Value: v, RGBA: MasterColor(v)}
}

// Inspect dispatches to the inspector for view. Pattern views use the
// given half, palette index and layout, with bank 0.
func (in *Inspector) Inspect(view View, half, paletteIndex int, layout Layout, x, y int) (Report, error) {
	switch view {
	case ViewPattern:
		return in.Pattern(half, BankBackground, paletteIndex, layout, x, y), nil
	case ViewNameTable:
		return in.NameTable(x, y), nil
	case ViewSprite:
		return in.Sprite(x, y), nil
	case ViewPaletteRAM:
		return in.PaletteRAM(x, y), nil
	case ViewMasterPalette:
		return MasterPaletteAt(x, y), nil
	}
	return nil, fmt.Errorf("cannot inspect %s", view)
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
