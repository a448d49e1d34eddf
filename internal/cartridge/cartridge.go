// Package cartridge implements iNES loading for NES cartridges. Only the
// pattern table side (CHR ROM or RAM) is mapped; PRG is kept for size
// reporting.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"ppuview/internal/memory"
)

var (
	// ErrInvalidHeader is returned when the iNES magic is missing.
	ErrInvalidHeader = errors.New("invalid iNES file")
	// ErrZeroPRG is returned for headers declaring no PRG ROM.
	ErrZeroPRG = errors.New("invalid ROM: PRG ROM size cannot be zero")
)

// Cartridge represents a NES cartridge
type Cartridge struct {
	header iNESHeader

	prgROM []uint8
	chrROM []uint8

	mapperID uint8
	mapper   Mapper

	mirror memory.MirrorMode

	hasBattery bool
	hasTrainer bool
	hasCHRRAM  bool
}

// Mapper translates PPU pattern table accesses onto cartridge CHR.
type Mapper interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// iNES header structure
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8 // in 8KB units, 0 means 8KB
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// LoadFromFile loads a cartridge from an iNES file
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cart, err := LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return cart, nil
}

// LoadFromReader loads a cartridge from an io.Reader
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(header.Magic[:]) != "NES\x1A" {
		return nil, ErrInvalidHeader
	}
	if header.PRGROMSize == 0 {
		return nil, ErrZeroPRG
	}

	cart := &Cartridge{
		header:     header,
		mapperID:   (header.Flags6 >> 4) | (header.Flags7 & 0xF0),
		hasBattery: header.Flags6&0x02 != 0,
		hasTrainer: header.Flags6&0x04 != 0,
	}

	switch {
	case header.Flags6&0x08 != 0:
		cart.mirror = memory.MirrorFourScreen
	case header.Flags6&0x01 != 0:
		cart.mirror = memory.MirrorVertical
	default:
		cart.mirror = memory.MirrorHorizontal
	}

	if cart.hasTrainer {
		if _, err := io.CopyN(io.Discard, r, 512); err != nil {
			return nil, fmt.Errorf("read trainer: %w", err)
		}
	}

	cart.prgROM = make([]uint8, int(header.PRGROMSize)*16384)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, fmt.Errorf("read PRG ROM: %w", err)
	}

	if chrSize := int(header.CHRROMSize) * 8192; chrSize > 0 {
		cart.chrROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, fmt.Errorf("read CHR ROM: %w", err)
		}
	} else {
		cart.chrROM = make([]uint8, memory.CHRSize)
		cart.hasCHRRAM = true
	}

	cart.mapper = createMapper(cart.mapperID, cart)
	return cart, nil
}

// ReadCHR reads from CHR ROM/RAM
func (c *Cartridge) ReadCHR(address uint16) uint8 {
	return c.mapper.ReadCHR(address)
}

// WriteCHR writes to CHR RAM. Writes to CHR ROM are ignored.
func (c *Cartridge) WriteCHR(address uint16, value uint8) {
	c.mapper.WriteCHR(address, value)
}

// MirrorMode returns the cartridge's nametable mirroring
func (c *Cartridge) MirrorMode() memory.MirrorMode {
	return c.mirror
}

// HasCHRRAM reports whether pattern tables are writable.
func (c *Cartridge) HasCHRRAM() bool {
	return c.hasCHRRAM
}

// createMapper creates the appropriate mapper for the given ID. Mappers
// other than NROM fall back to its fixed first 8KB CHR bank.
func createMapper(id uint8, cart *Cartridge) Mapper {
	if id != 0 {
		log.Printf("[cartridge] mapper %d not supported, showing first CHR bank", id)
	}
	return NewMapper000(cart)
}

// Info is the cartridge panel.
type Info struct {
	Mapper    uint8
	PRGKiB    int
	CHRKiB    int
	SRAMKiB   int
	Mirroring memory.MirrorMode
	CHRRAM    bool
	Battery   bool
	Trainer   bool
}

// Info summarises the header.
func (c *Cartridge) Info() Info {
	sram := int(c.header.PRGRAMSize) * 8
	if sram == 0 {
		sram = 8
	}
	return Info{
		Mapper:    c.mapperID,
		PRGKiB:    len(c.prgROM) / 1024,
		CHRKiB:    int(c.header.CHRROMSize) * 8,
		SRAMKiB:   sram,
		Mirroring: c.mirror,
		CHRRAM:    c.hasCHRRAM,
		Battery:   c.hasBattery,
		Trainer:   c.hasTrainer,
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mapper:             %d\n", i.Mapper)
	fmt.Fprintf(&sb, "PRG ROM:            %d KB\n", i.PRGKiB)
	if i.CHRRAM {
		sb.WriteString("CHR RAM:            8 KB\n")
	} else {
		fmt.Fprintf(&sb, "CHR ROM:            %d KB\n", i.CHRKiB)
	}
	fmt.Fprintf(&sb, "SRAM:               %d KB\n", i.SRAMKiB)
	fmt.Fprintf(&sb, "Mirroring:          %s\n", i.Mirroring)
	fmt.Fprintf(&sb, "Battery-backed RAM: %s\n", yesNo(i.Battery))
	fmt.Fprintf(&sb, "Trainer:            %s", yesNo(i.Trainer))
	return sb.String()
}
