package ppuview

import "fmt"

// Layout selects how pattern tiles are arranged in the pattern view.
type Layout int

const (
	// LayoutNormal shows tiles in raster order on a 16x16 grid.
	LayoutNormal Layout = iota
	// Layout8x16 pairs consecutive tiles vertically, the way 8x16 sprites
	// use them.
	Layout8x16
)

func (l Layout) String() string {
	switch l {
	case LayoutNormal:
		return "8x8"
	case Layout8x16:
		return "8x16"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout accepts "8x8"/"normal" and "8x16".
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "8x8", "normal", "":
		return LayoutNormal, nil
	case "8x16":
		return Layout8x16, nil
	}
	return LayoutNormal, fmt.Errorf("unknown pattern layout %q", s)
}

// Pattern view dimensions
const (
	PatternViewSize = 128
)

// PatternBlockOffset returns the pixel offset of the block at grid (col, row)
// for a destination with the given stride. In Layout8x16 the grid is 32
// columns by 8 rows, otherwise 16 by 16.
func PatternBlockOffset(layout Layout, col, row, stride int) int {
	x, y := patternBlockOrigin(layout, col, row)
	return y*stride + x
}

// patternBlockOrigin returns the top-left pixel of grid block (col, row).
func patternBlockOrigin(layout Layout, col, row int) (x, y int) {
	if layout == Layout8x16 {
		return (col / 2) * TileSize, (row*2 + col%2) * TileSize
	}
	return col * TileSize, row * TileSize
}

// patternGrid returns the grid dimensions for a layout.
func patternGrid(layout Layout) (cols, rows int) {
	if layout == Layout8x16 {
		return 32, 8
	}
	return 16, 16
}

// PatternTableRenderer draws a whole pattern table half.
type PatternTableRenderer struct {
	dec *TileDecoder
}

// NewPatternTableRenderer returns a renderer reading from mem.
func NewPatternTableRenderer(mem Reader) *PatternTableRenderer {
	return &PatternTableRenderer{dec: NewTileDecoder(mem)}
}

// Render fills the top-left 128x128 pixels of dst with all 256 tiles of half.
func (r *PatternTableRenderer) Render(dst *PixelBuffer, half, bank, paletteIndex int, layout Layout) {
	dst.requireSize(PatternViewSize, PatternViewSize, "pattern")
	mustHalf(half)
	if layout != LayoutNormal && layout != Layout8x16 {
		panic(fmt.Sprintf("ppuview: unknown pattern layout %d", int(layout)))
	}

	cols, rows := patternGrid(layout)
	tile := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			off := PatternBlockOffset(layout, col, row, dst.Stride)
			r.dec.Decode(half, bank, uint8(tile), paletteIndex, dst.Pix[off:], dst.Stride)
			tile++
		}
	}
}
