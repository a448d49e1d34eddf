package graphics

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"ppuview/internal/ppuview"
)

// HeadlessBackend keeps textures in memory as RGBA images and writes them
// out as PNG files on request.
type HeadlessBackend struct {
	initialized bool
	config      Config
	textures    *textureTable[*image.RGBA]
	updates     int
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}

	b.config = config
	b.textures = newTextureTable[*image.RGBA]()
	b.initialized = true
	return nil
}

// Create allocates an in-memory image
func (b *HeadlessBackend) Create(width, height int) (Handle, error) {
	if !b.initialized {
		return 0, ErrNotInitialized
	}
	if err := checkDims(width, height); err != nil {
		return 0, err
	}
	return b.textures.add(image.NewRGBA(image.Rect(0, 0, width, height))), nil
}

// Update copies buf into the texture
func (b *HeadlessBackend) Update(h Handle, buf *ppuview.PixelBuffer) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	img, err := b.textures.get(h)
	if err != nil {
		return err
	}
	if err := checkSize(buf, img.Rect.Dx(), img.Rect.Dy()); err != nil {
		return err
	}
	img.Pix = buf.RGBABytes(img.Pix)
	b.updates++
	return nil
}

// Destroy forgets the texture
func (b *HeadlessBackend) Destroy(h Handle) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	_, err := b.textures.remove(h)
	return err
}

// Image returns the current contents of h, scaled by the configured scale.
func (b *HeadlessBackend) Image(h Handle) (image.Image, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	img, err := b.textures.get(h)
	if err != nil {
		return nil, err
	}
	return ScaleImage(img, b.config.scale(), b.config.Filter), nil
}

// WritePNG encodes the texture as PNG.
func (b *HeadlessBackend) WritePNG(w io.Writer, h Handle) error {
	img, err := b.Image(h)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG writes the texture to path, creating parent directories.
func (b *HeadlessBackend) SavePNG(h Handle, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := b.WritePNG(file, h); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}

// UpdateCount returns how many uploads the backend has accepted.
func (b *HeadlessBackend) UpdateCount() int {
	return b.updates
}

// Cleanup releases all headless resources
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	b.textures = nil
	return nil
}

// GetName returns the backend name
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// ScaleImage resizes src by an integer factor. "linear" uses bilinear
// interpolation; anything else keeps hard pixel edges.
func ScaleImage(src image.Image, scale int, filter string) image.Image {
	if scale <= 1 {
		return src
	}
	r := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
	interpolator(filter).Scale(dst, dst.Bounds(), src, r, draw.Src, nil)
	return dst
}

func interpolator(filter string) draw.Interpolator {
	if filter == "linear" {
		return draw.ApproxBiLinear
	}
	return draw.NearestNeighbor
}
