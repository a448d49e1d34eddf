package ppuview

import "image/color"

// NES 2C02 master palette (NTSC), 0xAARRGGBB.
var masterPalette = [64]uint32{
	// Row 0 (0x00-0x0F)
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	// Row 1 (0x10-0x1F)
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	// Row 2 (0x20-0x2F)
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	// Row 3 (0x30-0x3F)
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}

// MasterColor returns the master palette entry for a palette RAM value.
// Palette RAM holds 6-bit values; the upper two bits are ignored.
func MasterColor(index uint8) uint32 {
	return masterPalette[index&0x3F]
}

// FromColor converts any color to a 0xAARRGGBB pixel.
func FromColor(c color.Color) uint32 {
	r, g, b, a := c.RGBA()
	return (a>>8)<<24 | (r>>8)<<16 | (g>>8)<<8 | b>>8
}

// NearestMaster returns the master palette index closest to c.
func NearestMaster(c uint32) uint8 {
	best, bestDist := 0, int(^uint(0)>>1)
	for i, m := range masterPalette {
		dr := int(c>>16&0xFF) - int(m>>16&0xFF)
		dg := int(c>>8&0xFF) - int(m>>8&0xFF)
		db := int(c&0xFF) - int(m&0xFF)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}
