package ppuview

import (
	"fmt"
	"image"
)

// Opaque black, used to clear areas a view never decodes into.
const Black uint32 = 0xFF000000

// PixelBuffer is a caller-owned block of 0xAARRGGBB pixels.
// Rows are Stride pixels apart; Stride may exceed Width.
type PixelBuffer struct {
	Pix    []uint32
	Stride int
	Width  int
	Height int
}

// NewPixelBuffer allocates a width x height buffer with Stride == width.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("ppuview: invalid buffer size %dx%d", width, height))
	}
	return &PixelBuffer{
		Pix:    make([]uint32, width*height),
		Stride: width,
		Width:  width,
		Height: height,
	}
}

// At returns the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) uint32 {
	return b.Pix[y*b.Stride+x]
}

// Set stores c at (x, y).
func (b *PixelBuffer) Set(x, y int, c uint32) {
	b.Pix[y*b.Stride+x] = c
}

// Fill sets every visible pixel to c.
func (b *PixelBuffer) Fill(c uint32) {
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*b.Stride : y*b.Stride+b.Width]
		for x := range row {
			row[x] = c
		}
	}
}

// Window returns the tail of Pix starting at (x, y), suitable as a decode
// destination that shares this buffer's stride.
func (b *PixelBuffer) Window(x, y int) []uint32 {
	return b.Pix[y*b.Stride+x:]
}

// requireSize panics unless the buffer can hold a w x h view.
func (b *PixelBuffer) requireSize(w, h int, view string) {
	if b == nil {
		panic(fmt.Sprintf("ppuview: nil destination for %s view", view))
	}
	if b.Width < w || b.Height < h || b.Stride < w || len(b.Pix) < (h-1)*b.Stride+w {
		panic(fmt.Sprintf("ppuview: %s view needs %dx%d, buffer is %dx%d (stride %d)",
			view, w, h, b.Width, b.Height, b.Stride))
	}
}

// RGBABytes writes the buffer as tightly packed R,G,B,A bytes into dst,
// growing it when needed, and returns the result.
func (b *PixelBuffer) RGBABytes(dst []byte) []byte {
	n := b.Width * b.Height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	i := 0
	for y := 0; y < b.Height; y++ {
		for _, c := range b.Pix[y*b.Stride : y*b.Stride+b.Width] {
			dst[i] = uint8(c >> 16)
			dst[i+1] = uint8(c >> 8)
			dst[i+2] = uint8(c)
			dst[i+3] = uint8(c >> 24)
			i += 4
		}
	}
	return dst
}

// Image copies the buffer into a new *image.RGBA.
func (b *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	img.Pix = b.RGBABytes(img.Pix)
	return img
}
