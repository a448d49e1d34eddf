//go:build headless
// +build headless

package viewer

import (
	"errors"

	"ppuview/internal/ppuview"
)

// Viewer stub for headless builds
type Viewer struct{}

// New reports that no window is available in headless builds
func New(views *ppuview.Views, cfg Config) (*Viewer, error) {
	return nil, errors.New("viewer not available in headless build")
}

func (v *Viewer) Run() error   { return nil }
func (v *Viewer) Close() error { return nil }
