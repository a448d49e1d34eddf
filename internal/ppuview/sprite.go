package ppuview

import "fmt"

// Sprite sheet dimensions
const (
	SpriteViewSize = 64
	SpriteCount    = 64
	SpriteGrid     = 8
)

// Sprite attribute bits
const (
	SpritePaletteMask uint8 = 0x03
	SpritePriority    uint8 = 0x20
	SpriteFlipH       uint8 = 0x40
	SpriteFlipV       uint8 = 0x80
)

// Sprite is one 4-byte OAM record.
type Sprite struct {
	Y          uint8
	Tile       uint8
	Attributes uint8
	X          uint8
}

// ReadSprite fetches sprite n (0..63) from OAM. Records past the end read
// as OAMSentinel bytes.
func ReadSprite(oam OAMReader, n int) Sprite {
	off := n * 4
	return Sprite{
		Y:          oam.ReadOAM(off),
		Tile:       oam.ReadOAM(off + 1),
		Attributes: oam.ReadOAM(off + 2),
		X:          oam.ReadOAM(off + 3),
	}
}

// Palette returns the sprite palette selector.
func (s Sprite) Palette() int { return int(s.Attributes & SpritePaletteMask) }

// BehindBackground reports the priority bit.
func (s Sprite) BehindBackground() bool { return s.Attributes&SpritePriority != 0 }

// FlipH reports horizontal mirroring.
func (s Sprite) FlipH() bool { return s.Attributes&SpriteFlipH != 0 }

// FlipV reports vertical mirroring.
func (s Sprite) FlipV() bool { return s.Attributes&SpriteFlipV != 0 }

// flags lists the attribute bits the sheet does not apply, e.g. "H-B".
func (s Sprite) flags() string {
	f := []byte("---")
	if s.FlipH() {
		f[0] = 'H'
	}
	if s.FlipV() {
		f[1] = 'V'
	}
	if s.BehindBackground() {
		f[2] = 'B'
	}
	return string(f)
}

func (s Sprite) String() string {
	return fmt.Sprintf("Y=%02X Tile=%02X Attr=%02X X=%02X", s.Y, s.Tile, s.Attributes, s.X)
}

// SpritePatternHalf returns the pattern table half PPUCTRL selects for
// 8x8 sprites.
func SpritePatternHalf(ctrl uint8) int {
	return int(ctrl>>3) & 1
}

// SpriteRenderer draws the 64 OAM entries as an 8x8 grid of tiles. Slots are
// filled in OAM order; the sprites' screen positions, flips and priorities
// are not applied.
type SpriteRenderer struct {
	port MemoryPort
	dec  *TileDecoder
}

// NewSpriteRenderer returns a renderer reading from port.
func NewSpriteRenderer(port MemoryPort) *SpriteRenderer {
	return &SpriteRenderer{port: port, dec: NewTileDecoder(port)}
}

// Render fills the top-left 64x64 pixels of dst.
func (r *SpriteRenderer) Render(dst *PixelBuffer) {
	dst.requireSize(SpriteViewSize, SpriteViewSize, "sprite")
	half := SpritePatternHalf(r.port.PeekRegister(PPUCTRL))
	for sy := 0; sy < SpriteGrid; sy++ {
		for sx := 0; sx < SpriteGrid; sx++ {
			off := OAMOffset(sx, sy)
			tile := r.port.ReadOAM(off + 1)
			pal := int(r.port.ReadOAM(off+2) & SpritePaletteMask)
			r.dec.Decode(half, BankSprite, tile, pal, dst.Window(sx*TileSize, sy*TileSize), dst.Stride)
		}
	}
}
