package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"strings"

	"ppuview/internal/cartridge"
	"ppuview/internal/debug"
	"ppuview/internal/graphics"
	"ppuview/internal/memory"
	"ppuview/internal/ppu"
	"ppuview/internal/ppuview"
	"ppuview/internal/snapshot"
	"ppuview/internal/viewer"
)

// ErrNoSource is returned when a command needs PPU state and none was
// loaded.
var ErrNoSource = errors.New("no ROM or snapshot loaded")

// Application ties a loaded PPU state to the views and their outputs
type Application struct {
	config *Config
	logger *log.Logger

	bundle    *snapshot.Bundle
	cartridge *cartridge.Cartridge
	views     *ppuview.Views
	dumper    *debug.ViewDumper
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication creates an application. A nil logger discards output.
func NewApplication(config *Config, logger *log.Logger) *Application {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	app := &Application{
		config: config,
		logger: logger,
		dumper: debug.NewViewDumper(config.Paths.Dumps),
	}
	if config.Debug.DumpReports {
		if err := app.dumper.Enable(); err != nil {
			logger.Printf("[app] text dumps disabled: %v", err)
		}
	}
	return app
}

// EnableDumps turns on text dumps of exported views and inspections
func (app *Application) EnableDumps() error {
	app.config.Debug.DumpReports = true
	return app.dumper.Enable()
}

// LoadROM seeds PPU state from an iNES file
func (app *Application) LoadROM(romPath string) error {
	bundle, cart, err := snapshot.FromROM(romPath)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}
	app.cartridge = cart
	app.attach(bundle)
	app.logger.Printf("[app] loaded %s (mapper %d, %s mirroring)",
		filepath.Base(romPath), cart.Info().Mapper, cart.MirrorMode())
	return nil
}

// LoadSnapshot restores PPU state from a bundle directory
func (app *Application) LoadSnapshot(dir string) error {
	bundle, err := snapshot.Load(dir)
	if err != nil {
		return &ApplicationError{Component: "snapshot", Operation: "load", Err: err}
	}
	app.attach(bundle)
	app.logger.Printf("[app] loaded snapshot %s (%s)", dir, bundle.Manifest.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}

// LoadBlank starts from power-on PPU state with empty CHR RAM
func (app *Application) LoadBlank() {
	app.attach(snapshot.New(ppu.New(nil), "blank"))
}

// Open loads a snapshot when snapDir is set, otherwise a ROM.
func (app *Application) Open(romPath, snapDir string) error {
	switch {
	case snapDir != "":
		return app.LoadSnapshot(snapDir)
	case romPath != "":
		return app.LoadROM(romPath)
	}
	return ErrNoSource
}

func (app *Application) attach(b *snapshot.Bundle) {
	app.bundle = b
	app.views = ppuview.NewViews(b.PPU)
}

// SetMirroring overrides the name table mirroring of the loaded state
func (app *Application) SetMirroring(m memory.MirrorMode) error {
	p := app.PPU()
	if p == nil {
		return ErrNoSource
	}
	p.Memory().SetMirroring(m)
	app.logger.Printf("[app] mirroring set to %s", m)
	return nil
}

// SaveSnapshot writes the current PPU state as a bundle
func (app *Application) SaveSnapshot(dir string) error {
	if app.bundle == nil {
		return ErrNoSource
	}
	if err := app.bundle.Save(dir); err != nil {
		return &ApplicationError{Component: "snapshot", Operation: "save", Err: err}
	}
	app.logger.Printf("[app] saved snapshot to %s", dir)
	return nil
}

// PPU returns the loaded PPU, or nil
func (app *Application) PPU() *ppu.PPU {
	if app.bundle == nil {
		return nil
	}
	return app.bundle.PPU
}

// Cartridge returns the cartridge the state was seeded from, if any
func (app *Application) Cartridge() *cartridge.Cartridge {
	return app.cartridge
}

// Views returns the view buffers, or nil before anything is loaded
func (app *Application) Views() *ppuview.Views {
	return app.views
}

// GetConfig returns the application configuration
func (app *Application) GetConfig() *Config {
	return app.config
}

// Options returns the view options the configuration selects
func (app *Application) Options() ppuview.Options {
	opts := ppuview.Options{PatternPalette: app.config.Views.PatternPalette}
	if app.config.Views.Sprite8x16 {
		opts.Layout = ppuview.Layout8x16
	}
	return opts
}

// Render redraws every view from the loaded state
func (app *Application) Render() error {
	if app.views == nil {
		return ErrNoSource
	}
	app.views.Update(app.Options())
	return nil
}

// exportTarget names one exported view
type exportTarget struct {
	file string
	view ppuview.View
	half int
}

var exportTargets = []exportTarget{
	{"pattern0", ppuview.ViewPattern, 0},
	{"pattern1", ppuview.ViewPattern, 1},
	{"nametables", ppuview.ViewNameTable, 0},
	{"sprites", ppuview.ViewSprite, 0},
	{"palette", ppuview.ViewPaletteRAM, 0},
	{"master", ppuview.ViewMasterPalette, 0},
}

// Export renders every view and writes one PNG per view into dir. When
// dumping is enabled the buffers are also written as text.
func (app *Application) Export(dir string) ([]string, error) {
	if err := app.Render(); err != nil {
		return nil, err
	}

	backend := graphics.CreateBackend(graphics.BackendHeadless).(*graphics.HeadlessBackend)
	if err := backend.Initialize(graphics.Config{
		Filter: app.config.Video.Filter,
		Scale:  app.config.Window.Scale,
		Debug:  app.config.Debug.Verbose,
	}); err != nil {
		return nil, err
	}
	defer backend.Cleanup()

	var written []string
	for _, t := range exportTargets {
		buf := app.views.Buffer(t.view, t.half)
		h, err := backend.Create(buf.Width, buf.Height)
		if err != nil {
			return written, err
		}
		if err := backend.Update(h, buf); err != nil {
			return written, err
		}
		path := filepath.Join(dir, t.file+".png")
		if err := backend.SavePNG(h, path); err != nil {
			return written, &ApplicationError{Component: "export", Operation: t.file, Err: err}
		}
		if err := backend.Destroy(h); err != nil {
			return written, err
		}
		written = append(written, path)
		app.logger.Printf("[app] wrote %s", path)

		if dump, err := app.dumper.DumpBuffer(t.file, buf); err != nil {
			app.logger.Printf("[app] dump %s: %v", t.file, err)
		} else if dump != "" {
			written = append(written, dump)
		}
	}
	app.logger.Printf("[app] %s backend uploaded %d views", backend.GetName(), backend.UpdateCount())
	return written, nil
}

// Preview draws one view to w as terminal half blocks.
func (app *Application) Preview(w io.Writer, view ppuview.View, half, columns int) error {
	if err := app.Render(); err != nil {
		return err
	}

	backend := graphics.CreateBackend(graphics.BackendTerminal)
	if err := backend.Initialize(graphics.Config{
		Filter:  app.config.Video.Filter,
		Output:  w,
		Columns: columns,
	}); err != nil {
		return err
	}
	defer backend.Cleanup()

	buf := app.views.Buffer(view, half)
	h, err := backend.Create(buf.Width, buf.Height)
	if err != nil {
		return err
	}
	defer backend.Destroy(h)
	app.logger.Printf("[app] %s preview %dx%d via %s", view, buf.Width, buf.Height, backend.GetName())
	return backend.Update(h, buf)
}

// Inspect reports on pixel (x, y) of a view. The tile under the point, if
// any, is decoded into the preview buffer.
func (app *Application) Inspect(view ppuview.View, half, x, y int) (ppuview.Report, error) {
	if app.views == nil {
		return nil, ErrNoSource
	}
	opts := app.Options()
	r, err := app.views.Inspector().Inspect(view, half, opts.PatternPalette, opts.Layout, x, y)
	if err != nil {
		return nil, err
	}
	app.views.DecodePreview(r)

	name := fmt.Sprintf("inspect_%s_%d_%d", view, x, y)
	if _, err := app.dumper.DumpReport(name, r); err != nil {
		app.logger.Printf("[app] dump %s: %v", name, err)
	}
	return r, nil
}

// Import encodes a 128x128 sheet into a pattern table half
func (app *Application) Import(half int, img image.Image) (color.Palette, error) {
	p := app.PPU()
	if p == nil {
		return nil, ErrNoSource
	}
	pal, err := ppuview.ImportPatternTable(p, half, app.Options().Layout, img)
	if err != nil {
		return nil, &ApplicationError{Component: "import", Operation: "encode sheet", Err: err}
	}

	var names []string
	for _, c := range pal {
		names = append(names, fmt.Sprintf("$%02X", ppuview.NearestMaster(ppuview.FromColor(c))))
	}
	app.logger.Printf("[app] imported pattern half %d, palette %s", half, strings.Join(names, " "))
	return pal, nil
}

// ReadMemory returns length bytes of a memory layer starting at start.
// The length is clipped to the layer size.
func (app *Application) ReadMemory(layer ppu.Layer, start uint16, length int) ([]byte, error) {
	p := app.PPU()
	if p == nil {
		return nil, ErrNoSource
	}
	if int(start) >= layer.Size() {
		return nil, fmt.Errorf("start $%04X outside %s layer", start, layer)
	}
	if rest := layer.Size() - int(start); length > rest {
		length = rest
	}
	return p.DumpLayer(layer, start, length), nil
}

// WriteMemory stores data into a memory layer starting at start.
func (app *Application) WriteMemory(layer ppu.Layer, start uint16, data []byte) error {
	p := app.PPU()
	if p == nil {
		return ErrNoSource
	}
	if int(start)+len(data) > layer.Size() {
		return fmt.Errorf("write of %d bytes at $%04X overruns %s layer", len(data), start, layer)
	}
	for i, b := range data {
		p.WriteLayer(layer, start+uint16(i), b)
	}
	app.logger.Printf("[app] wrote %d bytes to %s at $%04X", len(data), layer, start)
	return nil
}

// Info describes the cartridge (if any) and the PPU registers
func (app *Application) Info() (string, error) {
	p := app.PPU()
	if p == nil {
		return "", ErrNoSource
	}
	var sb strings.Builder
	if app.cartridge != nil {
		sb.WriteString(app.cartridge.Info().String())
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Mirroring:          %s\n", p.Memory().Mirroring())
	sb.WriteString(p.Registers().String())
	return sb.String(), nil
}

// Show presents the views with the configured video backend: a window,
// terminal previews of the pattern and name tables, or PNG files in the
// output directory.
func (app *Application) Show(w io.Writer) error {
	bt, err := graphics.ParseBackendType(app.config.Video.Backend)
	if err != nil {
		return err
	}

	switch bt {
	case graphics.BackendTerminal:
		for _, t := range exportTargets[:3] {
			fmt.Fprintln(w, t.file)
			if err := app.Preview(w, t.view, t.half, 0); err != nil {
				return err
			}
		}
		return nil
	case graphics.BackendHeadless:
		files, err := app.Export(app.config.Paths.Output)
		for _, f := range files {
			fmt.Fprintln(w, f)
		}
		return err
	}
	return app.RunViewer()
}

// RunViewer opens the interactive window and blocks until it closes
func (app *Application) RunViewer() error {
	if app.views == nil {
		return ErrNoSource
	}
	v, err := viewer.New(app.views, viewer.Config{
		Title:    app.config.Window.Title,
		Width:    app.config.Window.Width,
		Height:   app.config.Window.Height,
		Filter:   app.config.Video.Filter,
		Options:  app.Options(),
		ShowGrid: app.config.Views.ShowGrid,
		Logger:   app.logger,
	})
	if err != nil {
		return &ApplicationError{Component: "viewer", Operation: "create window", Err: err}
	}
	return v.Run()
}

// Cleanup releases resources held by the application
func (app *Application) Cleanup() error {
	app.dumper.Disable()
	app.views = nil
	app.bundle = nil
	app.cartridge = nil
	return nil
}
