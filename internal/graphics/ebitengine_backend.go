//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"ppuview/internal/ppuview"
)

// EbitengineBackend implements the Backend interface using Ebitengine
// images. Textures may be created before ebiten.RunGame starts.
type EbitengineBackend struct {
	initialized bool
	config      Config
	textures    *textureTable[*ebitenTexture]
}

type ebitenTexture struct {
	image  *ebiten.Image
	width  int
	height int

	// Reusable byte buffer for WritePixels
	pix []byte
}

// NewEbitengineBackend creates a new Ebitengine graphics backend
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("Ebitengine backend already initialized")
	}

	b.config = config
	b.textures = newTextureTable[*ebitenTexture]()
	b.initialized = true
	return nil
}

// Create allocates an ebiten image
func (b *EbitengineBackend) Create(width, height int) (Handle, error) {
	if !b.initialized {
		return 0, ErrNotInitialized
	}
	if err := checkDims(width, height); err != nil {
		return 0, err
	}

	h := b.textures.add(&ebitenTexture{
		image:  ebiten.NewImage(width, height),
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	})
	if b.config.Debug {
		log.Printf("[Ebitengine] created texture %d (%dx%d)", h, width, height)
	}
	return h, nil
}

// Update uploads buf to the texture's image
func (b *EbitengineBackend) Update(h Handle, buf *ppuview.PixelBuffer) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	tex, err := b.textures.get(h)
	if err != nil {
		return err
	}
	if err := checkSize(buf, tex.width, tex.height); err != nil {
		return err
	}

	tex.pix = buf.RGBABytes(tex.pix)
	tex.image.WritePixels(tex.pix)
	return nil
}

// Destroy disposes the texture's image
func (b *EbitengineBackend) Destroy(h Handle) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	tex, err := b.textures.remove(h)
	if err != nil {
		return err
	}
	tex.image.Dispose()
	return nil
}

// Image returns the ebiten image behind h for drawing.
func (b *EbitengineBackend) Image(h Handle) (*ebiten.Image, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	tex, err := b.textures.get(h)
	if err != nil {
		return nil, err
	}
	return tex.image, nil
}

// Filter returns the ebiten filter matching the configured filter name.
func (b *EbitengineBackend) Filter() ebiten.Filter {
	if b.config.Filter == "linear" {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// Cleanup releases all Ebitengine resources
func (b *EbitengineBackend) Cleanup() error {
	if !b.initialized {
		return nil
	}
	for h, tex := range b.textures.entries {
		tex.image.Dispose()
		delete(b.textures.entries, h)
	}
	b.initialized = false
	return nil
}

// GetName returns the backend name
func (b *EbitengineBackend) GetName() string {
	return "Ebitengine"
}
