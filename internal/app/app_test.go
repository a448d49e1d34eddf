package app

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppuview/internal/cartridge"
	"ppuview/internal/memory"
	"ppuview/internal/ppu"
	"ppuview/internal/ppuview"
)

// writeROM builds an NROM image whose tile 0 has a solid top row and
// returns its path.
func writeROM(t *testing.T) string {
	t.Helper()
	chr := make([]uint8, 0x2000)
	chr[0x0000] = 0xFF
	chr[0x1010] = 0x81

	data, err := cartridge.NewROMBuilder().
		WithCHRData(chr).
		WithMirroring(memory.MirrorVertical).
		Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func testApp(t *testing.T) *Application {
	t.Helper()
	cfg := NewConfig()
	cfg.Paths.Dumps = filepath.Join(t.TempDir(), "dumps")
	cfg.Window.Scale = 1
	return NewApplication(cfg, nil)
}

func TestOpenWithoutSource(t *testing.T) {
	app := testApp(t)
	assert.ErrorIs(t, app.Open("", ""), ErrNoSource)
	assert.ErrorIs(t, app.Render(), ErrNoSource)

	_, err := app.Export(t.TempDir())
	assert.ErrorIs(t, err, ErrNoSource)
	_, err = app.Info()
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestOpenMissingROM(t *testing.T) {
	err := testApp(t).Open(filepath.Join(t.TempDir(), "missing.nes"), "")
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "cartridge", appErr.Component)
}

func TestLoadROM(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Open(writeROM(t), ""))

	require.NotNil(t, app.Cartridge())
	require.NotNil(t, app.PPU())
	assert.Equal(t, memory.MirrorVertical, app.PPU().Memory().Mirroring())
	assert.Equal(t, uint8(0xFF), app.PPU().Read(0x0000))
	assert.Equal(t, uint8(0x81), app.PPU().Read(0x1010))

	info, err := app.Info()
	require.NoError(t, err)
	assert.Contains(t, info, "Mapper:")
	assert.Contains(t, info, "Mirroring:")
}

func TestExportWritesEveryView(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Open(writeROM(t), ""))

	dir := t.TempDir()
	files, err := app.Export(dir)
	require.NoError(t, err)
	assert.Len(t, files, len(exportTargets))

	for _, name := range []string{"pattern0", "pattern1", "nametables", "sprites", "palette", "master"} {
		assert.FileExists(t, filepath.Join(dir, name+".png"))
	}
}

func TestExportAndPreviewLogBackend(t *testing.T) {
	var logs bytes.Buffer
	cfg := NewConfig()
	cfg.Window.Scale = 1
	app := NewApplication(cfg, log.New(&logs, "", 0))
	app.LoadBlank()

	_, err := app.Export(t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "[app] Headless backend uploaded 6 views")

	require.NoError(t, app.Preview(&bytes.Buffer{}, ppuview.ViewSprite, 0, 80))
	assert.Contains(t, logs.String(), "[app] sprite preview 64x64 via Terminal")
}

func TestExportDumpsWhenEnabled(t *testing.T) {
	cfg := NewConfig()
	cfg.Paths.Dumps = t.TempDir()
	cfg.Debug.DumpReports = true
	app := NewApplication(cfg, nil)
	app.LoadBlank()

	files, err := app.Export(t.TempDir())
	require.NoError(t, err)
	assert.Len(t, files, 2*len(exportTargets))
	assert.FileExists(t, filepath.Join(cfg.Paths.Dumps, "pattern0.txt"))
}

func TestInspectPattern(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Open(writeROM(t), ""))
	app.PPU().Write(0x3F01, 0x30)

	r, err := app.Inspect(ppuview.ViewPattern, 1, 9, 0)
	require.NoError(t, err)
	pr, ok := r.(ppuview.PatternReport)
	require.True(t, ok)
	assert.Equal(t, uint8(1), pr.Tile.Index)
	assert.Equal(t, uint16(0x1010), pr.Address)

	// the preview holds tile 1 of half 1: row 0 is $81
	pix := app.Views().Preview.Pix
	assert.NotEqual(t, pix[0], pix[1])
	assert.Equal(t, pix[0], pix[7])
}

func TestInspectLayoutFromConfig(t *testing.T) {
	app := testApp(t)
	app.GetConfig().Views.Sprite8x16 = true
	app.LoadBlank()

	assert.Equal(t, ppuview.Layout8x16, app.Options().Layout)
	r, err := app.Inspect(ppuview.ViewPattern, 0, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), r.(ppuview.PatternReport).Tile.Index)
}

func TestInspectDumpsReport(t *testing.T) {
	cfg := NewConfig()
	cfg.Paths.Dumps = t.TempDir()
	cfg.Debug.DumpReports = true
	app := NewApplication(cfg, nil)
	app.LoadBlank()

	_, err := app.Inspect(ppuview.ViewNameTable, 0, 0, 0)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.Paths.Dumps, "inspect_nametable_0_0.txt"))
}

func TestImportAndSnapshot(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Open(writeROM(t), ""))

	sheet := image.NewGray(image.Rect(0, 0, ppuview.PatternViewSize, ppuview.PatternViewSize))
	for y := 0; y < ppuview.PatternViewSize; y++ {
		for x := 0; x < 4; x++ {
			sheet.SetGray(x, y, color.Gray{Y: 0xFF})
		}
	}
	pal, err := app.Import(1, sheet)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(pal), 4)

	dec := ppuview.NewTileDecoder(app.PPU())
	idx := dec.ColorIndices(1, 0)
	assert.Greater(t, idx[0], idx[4], "lighter columns get the higher index")
	for _, v := range dec.ColorIndices(1, 1) {
		assert.Equal(t, idx[4], v, "tile 1 is entirely dark")
	}
	imported := app.PPU().Read(0x1000)

	dir := filepath.Join(t.TempDir(), "bundle")
	require.NoError(t, app.SaveSnapshot(dir))

	require.NoError(t, app.SetMirroring(memory.MirrorSingleScreen1))
	require.NoError(t, app.SaveSnapshot(dir))

	restored := testApp(t)
	require.NoError(t, restored.Open("", dir))
	assert.Nil(t, restored.Cartridge())
	assert.Equal(t, imported, restored.PPU().Read(0x1000))
	assert.Equal(t, uint8(0xFF), restored.PPU().Read(0x0000))
	assert.Equal(t, memory.MirrorSingleScreen1, restored.PPU().Memory().Mirroring())
}

func TestImportWithoutSource(t *testing.T) {
	_, err := testApp(t).Import(0, image.NewGray(image.Rect(0, 0, 128, 128)))
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestPreview(t *testing.T) {
	app := testApp(t)
	app.LoadBlank()

	var out bytes.Buffer
	require.NoError(t, app.Preview(&out, ppuview.ViewPattern, 0, 128))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, ppuview.PatternViewSize/2)
}

func TestShowTerminal(t *testing.T) {
	app := testApp(t)
	app.GetConfig().Video.Backend = "terminal"
	app.LoadBlank()

	var out bytes.Buffer
	require.NoError(t, app.Show(&out))
	for _, name := range []string{"pattern0", "pattern1", "nametables"} {
		assert.Contains(t, out.String(), name+"\n")
	}
	assert.Contains(t, out.String(), "▀")
}

func TestShowHeadless(t *testing.T) {
	app := testApp(t)
	app.GetConfig().Video.Backend = "headless"
	app.GetConfig().Paths.Output = t.TempDir()
	app.LoadBlank()

	var out bytes.Buffer
	require.NoError(t, app.Show(&out))
	assert.FileExists(t, filepath.Join(app.GetConfig().Paths.Output, "sprites.png"))
}

func TestShowUnknownBackend(t *testing.T) {
	app := testApp(t)
	app.GetConfig().Video.Backend = "sdl2"
	app.LoadBlank()
	assert.Error(t, app.Show(&bytes.Buffer{}))
}

func TestMemoryLayers(t *testing.T) {
	app := testApp(t)
	app.LoadBlank()

	require.NoError(t, app.WriteMemory(ppu.LayerPPU, 0x3F01, []byte{0x16, 0x27}))
	got, err := app.ReadMemory(ppu.LayerPPU, 0x3F00, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0F, 0x16, 0x27, 0x00}, got)

	require.NoError(t, app.WriteMemory(ppu.LayerOAM, 0xFE, []byte{0xAA, 0xBB}))
	got, err = app.ReadMemory(ppu.LayerOAM, 0xFC, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xAA, 0xBB}, got, "length is clipped to the layer")

	assert.Error(t, app.WriteMemory(ppu.LayerOAM, 0xFF, []byte{1, 2}))
	_, err = app.ReadMemory(ppu.LayerSprite, 0x100, 1)
	assert.Error(t, err)
}

func TestCPUPokeSelectsSpriteHalf(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Open(writeROM(t), ""))
	require.NoError(t, app.WriteMemory(ppu.LayerOAM, 0, []byte{0x00, 0x01, 0x00, 0x00}))
	require.NoError(t, app.WriteMemory(ppu.LayerPPU, 0x3F11, []byte{0x30}))

	sheet := app.Views().Buffer(ppuview.ViewSprite, 0)
	require.NoError(t, app.Render())
	assert.Equal(t, sheet.At(0, 0), sheet.At(1, 0), "tile 1 of half 0 is blank")

	require.NoError(t, app.WriteMemory(ppu.LayerCPU, 0x2000, []byte{0x08}))
	regs, err := app.ReadMemory(ppu.LayerCPU, 0x2000, 8)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x08), regs[0])

	// tile 1 of half 1 has $81 in its first row
	require.NoError(t, app.Render())
	assert.Equal(t, ppuview.MasterColor(0x30), sheet.At(0, 0))
	assert.Equal(t, ppuview.MasterColor(0x0F), sheet.At(1, 0))
	assert.Equal(t, ppuview.MasterColor(0x30), sheet.At(7, 0))

	r, err := app.Inspect(ppuview.ViewSprite, 0, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, r.(ppuview.SpriteReport).Half)
}
