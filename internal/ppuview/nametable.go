package ppuview

// Name table view dimensions
const (
	NameTableViewSize = 512
	QuadrantSize      = 256
	NameTableCols     = 32
	NameTableRows     = 30
	nameTablePatterns = 1 // pattern half used by the name table view
)

// NameTableRenderer composes the four logical name tables into one view,
// table 0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
type NameTableRenderer struct {
	mem  Reader
	attr *AttributeResolver
	dec  *TileDecoder
}

// NewNameTableRenderer returns a renderer reading from mem.
func NewNameTableRenderer(mem Reader) *NameTableRenderer {
	return &NameTableRenderer{
		mem:  mem,
		attr: NewAttributeResolver(mem),
		dec:  NewTileDecoder(mem),
	}
}

// Render fills the top-left 512x512 pixels of dst. The 16 rows below the
// 30 tile rows of each quadrant are cleared to Black.
func (r *NameTableRenderer) Render(dst *PixelBuffer) {
	dst.requireSize(NameTableViewSize, NameTableViewSize, "name table")
	for qy := 0; qy < 2; qy++ {
		for qx := 0; qx < 2; qx++ {
			r.renderQuadrant(dst, qx, qy)
		}
	}
}

func (r *NameTableRenderer) renderQuadrant(dst *PixelBuffer, qx, qy int) {
	tableNr := qy*2 + qx
	stride := dst.Stride
	addr := NameTableAddress(tableNr)
	for row := 0; row < NameTableRows; row++ {
		for col := 0; col < NameTableCols; col++ {
			tile := r.mem.Read(addr)
			att := r.attr.Attribute(col, row, tableNr)
			pal := int(att>>runningAttributeShift(addr)) & 3
			off := col*8 + row*8*stride + qx*QuadrantSize + qy*stride*QuadrantSize
			r.dec.Decode(nameTablePatterns, BankBackground, tile, pal, dst.Pix[off:], stride)
			addr++
		}
	}

	for y := NameTableRows * TileSize; y < QuadrantSize; y++ {
		base := (qy*QuadrantSize+y)*stride + qx*QuadrantSize
		row := dst.Pix[base : base+QuadrantSize]
		for i := range row {
			row[i] = Black
		}
	}
}
