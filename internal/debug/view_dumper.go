// Package debug provides text dumps of view buffers and inspection reports
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ppuview/internal/ppuview"
)

// PixelFilter selects which pixels a dump includes.
type PixelFilter func(x, y int, argb uint32) bool

// ViewDumper writes view buffers and reports as text files
type ViewDumper struct {
	outputDir   string
	dumpEnabled bool
	dumpCount   int
	maxDumps    int
	pixelFilter PixelFilter
	now         func() time.Time
}

// NewViewDumper creates a new view dumper writing into outputDir
func NewViewDumper(outputDir string) *ViewDumper {
	return &ViewDumper{
		outputDir: outputDir,
		maxDumps:  64,
		now:       time.Now,
	}
}

// Enable activates dumping and creates the output directory
func (vd *ViewDumper) Enable() error {
	if err := os.MkdirAll(vd.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	vd.dumpEnabled = true
	return nil
}

// Disable deactivates dumping
func (vd *ViewDumper) Disable() {
	vd.dumpEnabled = false
}

// Enabled reports whether dumps are written
func (vd *ViewDumper) Enabled() bool {
	return vd.dumpEnabled
}

// SetMaxDumps sets the maximum number of files to write
func (vd *ViewDumper) SetMaxDumps(max int) {
	vd.maxDumps = max
}

// SetPixelFilter sets a filter for which pixels to include in dumps
func (vd *ViewDumper) SetPixelFilter(filter PixelFilter) {
	vd.pixelFilter = filter
}

// DumpCount returns the number of files written so far
func (vd *ViewDumper) DumpCount() int {
	return vd.dumpCount
}

// DumpBuffer writes buf to <outputDir>/<name>.txt. Nothing is written when
// dumping is disabled or the dump limit has been reached.
func (vd *ViewDumper) DumpBuffer(name string, buf *ppuview.PixelBuffer) (string, error) {
	return vd.dump(name, func(w io.Writer) {
		vd.header(w, "View Buffer Dump", name)
		WriteBuffer(w, buf, vd.pixelFilter)
		fmt.Fprintln(w)
		WriteColorFrequency(w, buf)
	})
}

// DumpReport writes an inspection report to <outputDir>/<name>.txt
func (vd *ViewDumper) DumpReport(name string, r ppuview.Report) (string, error) {
	return vd.dump(name, func(w io.Writer) {
		vd.header(w, "Inspection Report", name)
		fmt.Fprintln(w, r.String())
	})
}

func (vd *ViewDumper) dump(name string, write func(io.Writer)) (string, error) {
	if !vd.dumpEnabled || vd.dumpCount >= vd.maxDumps {
		return "", nil
	}

	filePath := filepath.Join(vd.outputDir, name+".txt")
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create dump file: %w", err)
	}
	write(file)
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", filePath, err)
	}

	vd.dumpCount++
	return filePath, nil
}

func (vd *ViewDumper) header(w io.Writer, title, name string) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "View: %s\n", name)
	fmt.Fprintf(w, "Timestamp: %s\n", vd.now().Format(time.RFC3339))
	fmt.Fprintf(w, "===================\n\n")
}

// WriteBuffer writes buf as rows of 0xRRGGBB values, 16 per line. Pixels
// rejected by filter are shown as dots.
func WriteBuffer(w io.Writer, buf *ppuview.PixelBuffer, filter PixelFilter) {
	fmt.Fprintf(w, "Dimensions: %dx%d\n", buf.Width, buf.Height)
	for y := 0; y < buf.Height; y++ {
		fmt.Fprintf(w, "Line %03d: ", y)
		for x := 0; x < buf.Width; x++ {
			if x%16 == 0 && x > 0 {
				fmt.Fprintf(w, "\n          ")
			}
			pixel := buf.At(x, y)
			if filter != nil && !filter(x, y, pixel) {
				fmt.Fprintf(w, "...... ")
				continue
			}
			fmt.Fprintf(w, "%06X ", pixel&0xFFFFFF)
		}
		fmt.Fprintf(w, "\n")
	}
}

// WriteColorFrequency writes a table of the colours in buf, most frequent
// first, with the master palette index each one maps to.
func WriteColorFrequency(w io.Writer, buf *ppuview.PixelBuffer) {
	freq := make(map[uint32]int)
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			freq[buf.At(x, y)]++
		}
	}

	colors := make([]uint32, 0, len(freq))
	for c := range freq {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		if freq[colors[i]] != freq[colors[j]] {
			return freq[colors[i]] > freq[colors[j]]
		}
		return colors[i] < colors[j]
	})

	total := buf.Width * buf.Height
	fmt.Fprintf(w, "Color Frequency Analysis:\n")
	fmt.Fprintf(w, "Color   | Master | Count | Percentage\n")
	fmt.Fprintf(w, "--------|--------|-------|-----------\n")
	for _, c := range colors {
		fmt.Fprintf(w, "#%06X |   $%02X  | %5d | %6.2f%%\n",
			c&0xFFFFFF, ppuview.NearestMaster(c), freq[c], float64(freq[c])/float64(total)*100)
	}
}

// RegionFilter selects a rectangular region, inclusive
func RegionFilter(x1, y1, x2, y2 int) PixelFilter {
	return func(x, y int, argb uint32) bool {
		return x >= x1 && x <= x2 && y >= y1 && y <= y2
	}
}

// ColorFilter selects pixels of one colour
func ColorFilter(argb uint32) PixelFilter {
	return func(x, y int, c uint32) bool {
		return c == argb
	}
}
