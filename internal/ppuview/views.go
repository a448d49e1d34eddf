package ppuview

// Options controls how the pattern views are drawn.
type Options struct {
	PatternPalette int
	Layout         Layout
}

// Views owns one buffer per rendered view and redraws them from a port.
// Buffers are only rewritten by Update and DecodePreview.
type Views struct {
	port     MemoryPort
	patterns *PatternTableRenderer
	names    *NameTableRenderer
	sprites  *SpriteRenderer
	inspect  *Inspector

	Pattern    [2]*PixelBuffer
	NameTables *PixelBuffer
	Sprites    *PixelBuffer
	PaletteRAM *PixelBuffer
	Master     *PixelBuffer
	Preview    *PixelBuffer
}

// NewViews allocates buffers for every view.
func NewViews(port MemoryPort) *Views {
	v := &Views{
		port:       port,
		patterns:   NewPatternTableRenderer(port),
		names:      NewNameTableRenderer(port),
		sprites:    NewSpriteRenderer(port),
		inspect:    NewInspector(port),
		NameTables: NewPixelBuffer(NameTableViewSize, NameTableViewSize),
		Sprites:    NewPixelBuffer(SpriteViewSize, SpriteViewSize),
		PaletteRAM: NewPixelBuffer(PaletteRAMViewWidth, PaletteRAMViewHeight),
		Master:     NewPixelBuffer(MasterViewWidth, MasterViewHeight),
		Preview:    NewPixelBuffer(TileSize, TileSize),
	}
	for i := range v.Pattern {
		v.Pattern[i] = NewPixelBuffer(PatternViewSize, PatternViewSize)
	}
	RenderMasterPalette(v.Master)
	return v
}

// Update redraws every memory-backed view.
func (v *Views) Update(opts Options) {
	for half, buf := range v.Pattern {
		v.patterns.Render(buf, half, BankBackground, opts.PatternPalette, opts.Layout)
	}
	v.names.Render(v.NameTables)
	v.sprites.Render(v.Sprites)
	RenderPaletteRAM(v.port, v.PaletteRAM)
}

// Buffer returns the buffer backing view. half only matters for ViewPattern.
func (v *Views) Buffer(view View, half int) *PixelBuffer {
	switch view {
	case ViewPattern:
		mustHalf(half)
		return v.Pattern[half]
	case ViewNameTable:
		return v.NameTables
	case ViewSprite:
		return v.Sprites
	case ViewPaletteRAM:
		return v.PaletteRAM
	case ViewMasterPalette:
		return v.Master
	}
	return nil
}

// Inspector returns the inspector sharing this set's port.
func (v *Views) Inspector() *Inspector { return v.inspect }

// DecodePreview decodes the tile a report points at into Preview. It
// returns false when the report has no tile.
func (v *Views) DecodePreview(r Report) bool {
	ref, ok := r.Preview()
	if !ok {
		return false
	}
	v.inspect.DecodePreview(ref, v.Preview)
	return true
}
