package ppuview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// ErrSheetSize is returned when an imported sheet is not 128x128.
var ErrSheetSize = errors.New("ppuview: pattern sheet must be 128x128")

// colorsPerTile is the number of 2-bit colour indices a pattern pixel has.
const colorsPerTile = 4

// ImportPatternTable encodes a 128x128 sheet into pattern table half,
// laid out the way the pattern view shows it. Sheets with more than four
// colours are reduced with a median cut quantizer. The palette is ordered
// darkest first, so the darkest colour becomes index 0. It is returned so
// callers can pick matching palette RAM entries.
func ImportPatternTable(w Writer, half int, layout Layout, m image.Image) (color.Palette, error) {
	mustHalf(half)
	b := m.Bounds()
	if b.Dx() != PatternViewSize || b.Dy() != PatternViewSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrSheetSize, b.Dx(), b.Dy())
	}

	pm := toPaletted(m)
	cols, rows := patternGrid(layout)
	tile := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0, y0 := patternBlockOrigin(layout, col, row)
			var indices [TileSize * TileSize]uint8
			for y := 0; y < TileSize; y++ {
				for x := 0; x < TileSize; x++ {
					indices[y*TileSize+x] = pm.ColorIndexAt(x0+x, y0+y)
				}
			}
			WriteTile(w, half, uint8(tile), EncodeTile(indices))
			tile++
		}
	}
	return pm.Palette, nil
}

// toPaletted returns m as a zero-origin paletted image with at most four
// colours, sorted by luminance.
func toPaletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	var p color.Palette
	if cp, ok := m.ColorModel().(color.Palette); ok && len(cp) <= colorsPerTile {
		p = append(p, cp...)
	} else {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, colorsPerTile), m)
	}
	sort.SliceStable(p, func(i, j int) bool { return luminance(p[i]) < luminance(p[j]) })

	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), p)
	draw.Draw(pm, pm.Rect, m, b.Min, draw.Src)
	return pm
}

func luminance(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (299*r + 587*g + 114*b) / 1000
}
