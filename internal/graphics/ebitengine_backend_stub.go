//go:build headless
// +build headless

package graphics

import (
	"errors"

	"ppuview/internal/ppuview"
)

var errNoEbitengine = errors.New("Ebitengine backend not available in headless build")

// EbitengineBackend stub for headless builds
type EbitengineBackend struct{}

// NewEbitengineBackend creates a stub backend for headless builds
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Stub implementations for EbitengineBackend
func (b *EbitengineBackend) Initialize(config Config) error { return errNoEbitengine }
func (b *EbitengineBackend) Create(width, height int) (Handle, error) {
	return 0, errNoEbitengine
}
func (b *EbitengineBackend) Update(h Handle, buf *ppuview.PixelBuffer) error {
	return errNoEbitengine
}
func (b *EbitengineBackend) Destroy(h Handle) error { return errNoEbitengine }
func (b *EbitengineBackend) Cleanup() error         { return nil }
func (b *EbitengineBackend) GetName() string        { return "Ebitengine-Stub" }
