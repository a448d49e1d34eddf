// Package graphics hosts debug view pixel buffers in a rendering backend
// (Ebitengine, headless PNG or terminal).
package graphics

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"ppuview/internal/ppuview"
)

var (
	// ErrUnknownTexture is returned for handles that were never created or
	// have been destroyed.
	ErrUnknownTexture = errors.New("graphics: unknown texture")
	// ErrNotInitialized is returned when a backend is used before Initialize.
	ErrNotInitialized = errors.New("graphics: backend not initialized")
	// ErrSizeMismatch is returned when a buffer does not match its texture.
	ErrSizeMismatch = errors.New("graphics: buffer size does not match texture")
)

// Handle identifies a texture inside one backend. Zero is never issued.
type Handle uint32

// TextureService is what the views need from a host: a place to upload
// pixel buffers of a fixed size.
type TextureService interface {
	// Create allocates a width x height texture
	Create(width, height int) (Handle, error)

	// Update uploads buf, which must have the texture's dimensions
	Update(h Handle, buf *ppuview.PixelBuffer) error

	// Destroy releases the texture; the handle becomes invalid
	Destroy(h Handle) error
}

// Backend is a texture service with a lifecycle.
type Backend interface {
	TextureService

	// Initialize initializes the graphics backend
	Initialize(config Config) error

	// Cleanup releases all textures
	Cleanup() error

	// GetName returns the backend name for identification
	GetName() string
}

// Config contains configuration for graphics backends
type Config struct {
	// Filter is "nearest" or "linear"
	Filter string

	// Scale multiplies exported and drawn texture sizes
	Scale int

	// Output receives terminal previews (stdout when nil)
	Output io.Writer

	// Columns overrides the detected terminal width
	Columns int

	Debug bool
}

func (c Config) scale() int {
	if c.Scale < 1 {
		return 1
	}
	return c.Scale
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// ParseBackendType accepts the names used in configuration files.
func ParseBackendType(s string) (BackendType, error) {
	switch t := BackendType(strings.ToLower(s)); t {
	case BackendEbitengine, BackendHeadless, BackendTerminal:
		return t, nil
	}
	return "", fmt.Errorf("unknown video backend %q", s)
}

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) Backend {
	switch backendType {
	case BackendHeadless:
		return NewHeadlessBackend()
	case BackendTerminal:
		return NewTerminalBackend()
	case BackendEbitengine:
		return NewEbitengineBackend()
	default:
		log.Printf("[graphics] unknown backend %q, using %s", backendType, BackendEbitengine)
		return NewEbitengineBackend()
	}
}

// textureTable is the handle bookkeeping shared by the backends.
type textureTable[T any] struct {
	next    Handle
	entries map[Handle]T
}

func newTextureTable[T any]() *textureTable[T] {
	return &textureTable[T]{entries: make(map[Handle]T)}
}

func (t *textureTable[T]) add(v T) Handle {
	t.next++
	t.entries[t.next] = v
	return t.next
}

func (t *textureTable[T]) get(h Handle) (T, error) {
	v, ok := t.entries[h]
	if !ok {
		return v, fmt.Errorf("%w: %d", ErrUnknownTexture, h)
	}
	return v, nil
}

func (t *textureTable[T]) remove(h Handle) (T, error) {
	v, err := t.get(h)
	if err == nil {
		delete(t.entries, h)
	}
	return v, err
}

func (t *textureTable[T]) len() int { return len(t.entries) }

func checkSize(buf *ppuview.PixelBuffer, width, height int) error {
	if buf == nil || buf.Width != width || buf.Height != height {
		got := "nil"
		if buf != nil {
			got = fmt.Sprintf("%dx%d", buf.Width, buf.Height)
		}
		return fmt.Errorf("%w: texture %dx%d, buffer %s", ErrSizeMismatch, width, height, got)
	}
	return nil
}

func checkDims(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("graphics: invalid texture size %dx%d", width, height)
	}
	return nil
}
