// Package snapshot saves and restores the PPU side of a machine as a
// bundle directory: a JSON manifest plus raw memory dumps.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ppuview/internal/cartridge"
	"ppuview/internal/memory"
	"ppuview/internal/ppu"
)

// File names inside a bundle
const (
	ManifestFile = "ppu.json"
	CHRFile      = "chr.bin"
	VRAMFile     = "vram.bin"
	PaletteFile  = "palette.bin"
	OAMFile      = "oam.bin"
)

// FormatVersion is written to every manifest.
const FormatVersion = "1.0"

var (
	// ErrNoManifest is returned when a directory has no ppu.json.
	ErrNoManifest = errors.New("snapshot: manifest not found")
	// ErrVersion is returned for manifests written by an unknown format.
	ErrVersion = errors.New("snapshot: unsupported version")
)

// Manifest describes a bundle. Empty file names mean the region was not
// captured and keeps its power-on contents when loaded.
type Manifest struct {
	Version     string        `json:"version"`
	Timestamp   time.Time     `json:"timestamp"`
	Description string        `json:"description,omitempty"`
	ROMPath     string        `json:"rom_path,omitempty"`
	ROMChecksum string        `json:"rom_checksum,omitempty"`
	Registers   ppu.Registers `json:"registers"`
	Mirroring   string        `json:"mirroring"`
	CHR         string        `json:"chr,omitempty"`
	VRAM        string        `json:"vram,omitempty"`
	Palette     string        `json:"palette,omitempty"`
	OAM         string        `json:"oam,omitempty"`
}

// Bundle is a loaded snapshot: the PPU and the manifest it came from.
type Bundle struct {
	Manifest Manifest
	PPU      *ppu.PPU
}

// New wraps an existing PPU so it can be saved.
func New(p *ppu.PPU, description string) *Bundle {
	return &Bundle{
		Manifest: Manifest{Version: FormatVersion, Description: description},
		PPU:      p,
	}
}

// FromROM seeds a bundle from an iNES file. CHR is copied into writable
// CHR RAM so imports can modify it; VRAM, palette and OAM start at their
// power-on contents.
func FromROM(path string) (*Bundle, *cartridge.Cartridge, error) {
	cart, err := cartridge.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	src := memory.NewPPUMemory(cart, cart.MirrorMode())
	chr, err := memory.NewCHRRAMFrom(src.DumpCHR())
	if err != nil {
		return nil, nil, err
	}

	b := New(ppu.New(memory.NewPPUMemory(chr, cart.MirrorMode())), "seeded from "+filepath.Base(path))
	b.Manifest.ROMPath = path
	if sum, err := checksumFile(path); err == nil {
		b.Manifest.ROMChecksum = sum
	}
	return b, cart, nil
}

// Save writes the bundle into dir, creating it if needed.
func (b *Bundle) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	mem := b.PPU.Memory()
	regions := []struct {
		name string
		data []byte
		dst  *string
	}{
		{CHRFile, mem.DumpCHR(), &b.Manifest.CHR},
		{VRAMFile, mem.VRAM(), &b.Manifest.VRAM},
		{PaletteFile, mem.PaletteRAM(), &b.Manifest.Palette},
		{OAMFile, b.PPU.OAM(), &b.Manifest.OAM},
	}
	for _, r := range regions {
		if err := os.WriteFile(filepath.Join(dir, r.name), r.data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", r.name, err)
		}
		*r.dst = r.name
	}

	b.Manifest.Version = FormatVersion
	b.Manifest.Timestamp = time.Now()
	b.Manifest.Registers = b.PPU.Registers()
	b.Manifest.Mirroring = mem.Mirroring().String()

	data, err := json.MarshalIndent(b.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads and validates dir/ppu.json without loading memory.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return m, fmt.Errorf("%w in %s", ErrNoManifest, dir)
	}
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != FormatVersion {
		return m, fmt.Errorf("%w %q", ErrVersion, m.Version)
	}
	return m, nil
}

// Load restores a bundle from dir.
func Load(dir string) (*Bundle, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	mirroring, err := memory.ParseMirrorMode(m.Mirroring)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var chr memory.CHRSource
	if m.CHR != "" {
		data, err := readRegion(dir, m.CHR)
		if err != nil {
			return nil, err
		}
		if chr, err = memory.NewCHRRAMFrom(data); err != nil {
			return nil, fmt.Errorf("%s: %w", m.CHR, err)
		}
	}

	mem := memory.NewPPUMemory(chr, mirroring)
	p := ppu.New(mem)

	loaders := []struct {
		name string
		load func([]byte) error
	}{
		{m.VRAM, mem.LoadVRAM},
		{m.Palette, mem.LoadPaletteRAM},
		{m.OAM, p.LoadOAM},
	}
	for _, l := range loaders {
		if l.name == "" {
			continue
		}
		data, err := readRegion(dir, l.name)
		if err != nil {
			return nil, err
		}
		if err := l.load(data); err != nil {
			return nil, fmt.Errorf("%s: %w", l.name, err)
		}
	}

	p.SetRegisters(m.Registers)
	return &Bundle{Manifest: m, PPU: p}, nil
}

// readRegion reads a dump named by the manifest. Names are resolved
// inside the bundle only.
func readRegion(dir, name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("region %q must be a plain file name", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func checksumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
