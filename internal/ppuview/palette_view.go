package ppuview

// Palette view dimensions
const (
	SwatchSize = 8

	MasterViewWidth  = 16 * SwatchSize
	MasterViewHeight = 4 * SwatchSize

	// Palette RAM view: one row per palette index, background colours in
	// columns 0-3 and sprite colours in columns 4-7.
	PaletteRAMViewWidth  = 8 * SwatchSize
	PaletteRAMViewHeight = 4 * SwatchSize
)

// RenderMasterPalette draws the 64 master colours as a 16x4 swatch sheet.
func RenderMasterPalette(dst *PixelBuffer) {
	dst.requireSize(MasterViewWidth, MasterViewHeight, "master palette")
	for i, c := range masterPalette {
		fillSwatch(dst, (i%16)*SwatchSize, (i/16)*SwatchSize, c)
	}
}

// RenderPaletteRAM draws the 32 palette RAM entries as resolved colours.
func RenderPaletteRAM(mem Reader, dst *PixelBuffer) {
	dst.requireSize(PaletteRAMViewWidth, PaletteRAMViewHeight, "palette RAM")
	for bank := BankBackground; bank <= BankSprite; bank++ {
		for idx := 0; idx < 4; idx++ {
			for c := 0; c < 4; c++ {
				color := MasterColor(mem.Read(PaletteAddress(bank, idx, c)))
				fillSwatch(dst, (bank*4+c)*SwatchSize, idx*SwatchSize, color)
			}
		}
	}
}

func fillSwatch(dst *PixelBuffer, x, y int, c uint32) {
	for row := y; row < y+SwatchSize; row++ {
		line := dst.Pix[row*dst.Stride+x : row*dst.Stride+x+SwatchSize]
		for i := range line {
			line[i] = c
		}
	}
}
