// Package viewer is the interactive debug window: pattern tables, name
// tables, sprites and palettes, with a report for whatever is under the
// pointer.
package viewer

import (
	"image"
	"log"

	"ppuview/internal/ppuview"
)

// Config controls the window.
type Config struct {
	Title    string
	Width    int
	Height   int
	Filter   string
	Options  ppuview.Options
	ShowGrid bool
	Logger   *log.Logger
}

// Panel places one view on screen.
type Panel struct {
	View  ppuview.View
	Half  int
	X, Y  int
	Scale int
	Label string
}

// Bounds returns the screen rectangle the panel covers.
func (p Panel) Bounds() image.Rectangle {
	w, h := p.View.Size()
	return image.Rect(p.X, p.Y, p.X+w*p.Scale, p.Y+h*p.Scale)
}

// Screen layout, in logical pixels
const (
	margin       = 8
	labelHeight  = 16
	previewScale = 8
	infoWidth    = 200
)

// DefaultPanels lays the views out in three columns: both pattern tables
// at 2x, the name table composite, then sprites and palettes.
func DefaultPanels() []Panel {
	col0 := margin
	col1 := col0 + ppuview.PatternViewSize*2 + margin
	col2 := col1 + ppuview.NameTableViewSize + margin

	y := margin + labelHeight
	sprY := y
	palY := sprY + ppuview.SpriteViewSize*2 + labelHeight + margin
	masterY := palY + ppuview.PaletteRAMViewHeight*2 + labelHeight + margin

	return []Panel{
		{View: ppuview.ViewPattern, Half: 0, X: col0, Y: y, Scale: 2, Label: "Pattern $0000"},
		{View: ppuview.ViewPattern, Half: 1, X: col0, Y: y + ppuview.PatternViewSize*2 + labelHeight + margin, Scale: 2, Label: "Pattern $1000"},
		{View: ppuview.ViewNameTable, X: col1, Y: y, Scale: 1, Label: "Name tables"},
		{View: ppuview.ViewSprite, X: col2, Y: sprY, Scale: 2, Label: "Sprites"},
		{View: ppuview.ViewPaletteRAM, X: col2, Y: palY, Scale: 2, Label: "Palette RAM"},
		{View: ppuview.ViewMasterPalette, X: col2, Y: masterY, Scale: 1, Label: "Master palette"},
	}
}

// infoOrigin returns where the report and tile preview are drawn.
func infoOrigin(panels []Panel) image.Point {
	var p image.Point
	for _, pn := range panels {
		if pn.View == ppuview.ViewMasterPalette {
			b := pn.Bounds()
			p = image.Pt(b.Min.X, b.Max.Y+margin)
		}
	}
	return p
}

// ScreenSize returns the logical size needed to show all panels and the
// info area.
func ScreenSize(panels []Panel) (w, h int) {
	for _, p := range panels {
		b := p.Bounds()
		if b.Max.X > w {
			w = b.Max.X
		}
		if b.Max.Y > h {
			h = b.Max.Y
		}
	}
	info := infoOrigin(panels)
	if info.X+infoWidth > w {
		w = info.X + infoWidth
	}
	if y := info.Y + ppuview.TileSize*previewScale + 6*labelHeight; y > h {
		h = y
	}
	return w + margin, h + margin
}

// HitTest finds the panel under screen point (x, y) and returns the
// point in that view's own pixel coordinates.
func HitTest(panels []Panel, x, y int) (p Panel, vx, vy int, ok bool) {
	pt := image.Pt(x, y)
	for _, p := range panels {
		if pt.In(p.Bounds()) {
			return p, (x - p.X) / p.Scale, (y - p.Y) / p.Scale, true
		}
	}
	return Panel{}, 0, 0, false
}

// inspect runs the inspector for a hit.
func inspect(in *ppuview.Inspector, opts ppuview.Options, p Panel, vx, vy int) (ppuview.Report, error) {
	return in.Inspect(p.View, p.Half, opts.PatternPalette, opts.Layout, vx, vy)
}
