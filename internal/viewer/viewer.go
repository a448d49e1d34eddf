//go:build !headless
// +build !headless

package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"ppuview/internal/graphics"
	"ppuview/internal/ppuview"
)

var (
	labelColor = color.RGBA{0xC0, 0xC0, 0xC0, 0xFF}
	warnColor  = color.RGBA{0xFF, 0xA0, 0x40, 0xFF}
	gridColor  = color.RGBA{0x40, 0x40, 0x40, 0xA0}
	bgColor    = color.RGBA{0x20, 0x20, 0x28, 0xFF}
)

// Viewer implements ebiten.Game over a set of views.
type Viewer struct {
	views   *ppuview.Views
	backend *graphics.EbitengineBackend
	cfg     Config
	opts    ppuview.Options
	logger  *log.Logger

	panels   []Panel
	textures map[*ppuview.PixelBuffer]graphics.Handle
	preview  graphics.Handle

	report     ppuview.Report
	hasPreview bool
	status     string

	screenW, screenH int

	clipboardOnce sync.Once
	clipboardOK   bool
}

// New creates the window's textures. The window itself opens in Run.
func New(views *ppuview.Views, cfg Config) (*Viewer, error) {
	backend, ok := graphics.NewEbitengineBackend().(*graphics.EbitengineBackend)
	if !ok {
		return nil, errors.New("viewer: Ebitengine backend unavailable")
	}
	if err := backend.Initialize(graphics.Config{Filter: cfg.Filter}); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	v := &Viewer{
		views:    views,
		backend:  backend,
		cfg:      cfg,
		opts:     cfg.Options,
		logger:   logger,
		panels:   DefaultPanels(),
		textures: make(map[*ppuview.PixelBuffer]graphics.Handle),
	}
	v.screenW, v.screenH = ScreenSize(v.panels)

	for _, p := range v.panels {
		buf := views.Buffer(p.View, p.Half)
		h, err := backend.Create(buf.Width, buf.Height)
		if err != nil {
			v.Close()
			return nil, fmt.Errorf("create %s texture: %w", p.Label, err)
		}
		v.textures[buf] = h
	}
	h, err := backend.Create(ppuview.TileSize, ppuview.TileSize)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("create preview texture: %w", err)
	}
	v.preview = h

	logger.Printf("[viewer] %d textures, screen %dx%d", len(v.textures)+1, v.screenW, v.screenH)
	return v, nil
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	defer v.Close()

	ebiten.SetWindowTitle(v.cfg.Title)
	if v.cfg.Width > 0 && v.cfg.Height > 0 {
		ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Close destroys every texture.
func (v *Viewer) Close() error {
	return v.backend.Cleanup()
}

// Update implements ebiten.Game.Update
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	v.processInput()

	v.views.Update(v.opts)
	for buf, h := range v.textures {
		if err := v.backend.Update(h, buf); err != nil {
			return err
		}
	}

	v.updateHover()
	return nil
}

func (v *Viewer) processInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.opts.PatternPalette = (v.opts.PatternPalette + 1) % 4
		v.status = fmt.Sprintf("pattern palette %d", v.opts.PatternPalette)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		if v.opts.Layout == ppuview.LayoutNormal {
			v.opts.Layout = ppuview.Layout8x16
		} else {
			v.opts.Layout = ppuview.LayoutNormal
		}
		v.status = "layout " + v.opts.Layout.String()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		v.cfg.ShowGrid = !v.cfg.ShowGrid
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.copyReport()
	}
}

func (v *Viewer) updateHover() {
	cx, cy := ebiten.CursorPosition()
	p, vx, vy, ok := HitTest(v.panels, cx, cy)
	if !ok {
		return
	}

	r, err := inspect(v.views.Inspector(), v.opts, p, vx, vy)
	if err != nil {
		v.logger.Printf("[viewer] inspect %s: %v", p.View, err)
		return
	}
	v.report = r
	v.hasPreview = v.views.DecodePreview(r)
	if v.hasPreview {
		if err := v.backend.Update(v.preview, v.views.Preview); err != nil {
			v.logger.Printf("[viewer] preview upload: %v", err)
		}
	}
}

// copyReport puts the current report on the system clipboard.
func (v *Viewer) copyReport() {
	if v.report == nil {
		return
	}
	v.clipboardOnce.Do(func() {
		v.clipboardOK = clipboard.Init() == nil
	})
	if !v.clipboardOK {
		v.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(v.report.String()))
	v.status = "report copied"
}

// Draw implements ebiten.Game.Draw
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	face := basicfont.Face7x13

	for _, p := range v.panels {
		img, err := v.backend.Image(v.textures[v.views.Buffer(p.View, p.Half)])
		if err != nil {
			continue
		}
		v.drawScaled(screen, img, p.X, p.Y, p.Scale)
		text.Draw(screen, p.Label, face, p.X, p.Y-4, labelColor)
		if v.cfg.ShowGrid {
			drawGrid(screen, p)
		}
	}

	info := infoOrigin(v.panels)
	if v.hasPreview {
		if img, err := v.backend.Image(v.preview); err == nil {
			v.drawScaled(screen, img, info.X, info.Y, previewScale)
		}
	}

	y := info.Y + ppuview.TileSize*previewScale + labelHeight
	if v.report != nil {
		c := color.Color(labelColor)
		if nt, ok := v.report.(ppuview.NameTableReport); ok && nt.Mismatch() {
			c = warnColor
		}
		for _, line := range strings.Split(v.report.String(), "\n") {
			text.Draw(screen, line, face, info.X, y, c)
			y += 14
		}
	}
	if v.status != "" {
		text.Draw(screen, v.status, face, info.X, v.screenH-margin, labelColor)
	}
}

func (v *Viewer) drawScaled(screen, img *ebiten.Image, x, y, scale int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = v.backend.Filter()
	screen.DrawImage(img, op)
}

// drawGrid outlines tiles, or name table quadrants on the composite.
func drawGrid(screen *ebiten.Image, p Panel) {
	step := ppuview.TileSize * p.Scale
	if p.View == ppuview.ViewNameTable {
		step = ppuview.QuadrantSize * p.Scale
	}
	b := p.Bounds()
	for x := b.Min.X; x <= b.Max.X; x += step {
		vector.StrokeLine(screen, float32(x), float32(b.Min.Y), float32(x), float32(b.Max.Y), 1, gridColor, false)
	}
	for y := b.Min.Y; y <= b.Max.Y; y += step {
		vector.StrokeLine(screen, float32(b.Min.X), float32(y), float32(b.Max.X), float32(y), 1, gridColor, false)
	}
}

// Layout implements ebiten.Game.Layout
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return v.screenW, v.screenH
}

var _ ebiten.Game = (*Viewer)(nil)
