package graphics

import (
	"bufio"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/term"

	"ppuview/internal/ppuview"
)

// defaultColumns is used when the output is not a terminal.
const defaultColumns = 80

// TerminalBackend draws every texture update as 24-bit ANSI half blocks:
// each character cell shows two pixel rows, upper as foreground and lower
// as background.
type TerminalBackend struct {
	initialized bool
	config      Config
	textures    *textureTable[image.Rectangle]
}

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	if config.Output == nil {
		config.Output = os.Stdout
	}
	b.config = config
	b.textures = newTextureTable[image.Rectangle]()
	b.initialized = true
	return nil
}

// Create registers a texture size; nothing is drawn until Update
func (b *TerminalBackend) Create(width, height int) (Handle, error) {
	if !b.initialized {
		return 0, ErrNotInitialized
	}
	if err := checkDims(width, height); err != nil {
		return 0, err
	}
	return b.textures.add(image.Rect(0, 0, width, height)), nil
}

// Update prints buf to the output
func (b *TerminalBackend) Update(h Handle, buf *ppuview.PixelBuffer) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	r, err := b.textures.get(h)
	if err != nil {
		return err
	}
	if err := checkSize(buf, r.Dx(), r.Dy()); err != nil {
		return err
	}

	img := fitWidth(buf.Image(), b.columns(), b.config.Filter)
	w := bufio.NewWriter(b.config.Output)
	writeHalfBlocks(w, img)
	return w.Flush()
}

// Destroy forgets the texture
func (b *TerminalBackend) Destroy(h Handle) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	_, err := b.textures.remove(h)
	return err
}

// columns returns the configured width, the terminal width, or 80.
func (b *TerminalBackend) columns() int {
	if b.config.Columns > 0 {
		return b.config.Columns
	}
	if f, ok := b.config.Output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultColumns
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	b.textures = nil
	return nil
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// fitWidth scales img to at most columns pixels wide, keeping the aspect
// ratio. Upscaling uses the largest integer factor that fits.
func fitWidth(img *image.RGBA, columns int, filter string) image.Image {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= columns {
		return ScaleImage(img, columns/w, filter)
	}
	dh := h * columns / w
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, columns, dh))
	interpolator(filter).Scale(dst, dst.Bounds(), img, img.Rect, draw.Src, nil)
	return dst
}

// writeHalfBlocks emits one line per two pixel rows. An odd last row is
// drawn over the terminal's default background.
func writeHalfBlocks(w *bufio.Writer, img image.Image) {
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		for x := r.Min.X; x < r.Max.X; x++ {
			tr, tg, tb, _ := img.At(x, y).RGBA()
			fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm", tr>>8, tg>>8, tb>>8)
			if y+1 < r.Max.Y {
				br, bg, bb, _ := img.At(x, y+1).RGBA()
				fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm", br>>8, bg>>8, bb>>8)
			} else {
				w.WriteString("\x1b[49m")
			}
			w.WriteString("▀")
		}
		w.WriteString("\x1b[0m\n")
	}
}
