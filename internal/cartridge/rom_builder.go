package cartridge

import (
	"bytes"
	"fmt"

	"ppuview/internal/memory"
)

// ROMConfig describes an iNES image to generate.
type ROMConfig struct {
	PRGSize    uint8 // PRG ROM size in 16KB units
	CHRSize    uint8 // CHR ROM size in 8KB units (0 = CHR RAM)
	PRGRAMSize uint8 // 8KB units, 0 = default
	MapperID   uint8
	Mirroring  memory.MirrorMode
	HasBattery bool
	HasTrainer bool
	CHRData    []uint8
}

// ROMBuilder provides a fluent interface for building iNES images, used by
// tests and by fixtures that need a cartridge.
type ROMBuilder struct {
	config ROMConfig
}

// NewROMBuilder creates a builder for a 16KB PRG, 8KB CHR NROM image.
func NewROMBuilder() *ROMBuilder {
	return &ROMBuilder{
		config: ROMConfig{
			PRGSize:   1,
			CHRSize:   1,
			Mirroring: memory.MirrorHorizontal,
		},
	}
}

// WithPRGSize sets the PRG ROM size in 16KB units
func (b *ROMBuilder) WithPRGSize(size uint8) *ROMBuilder {
	b.config.PRGSize = size
	return b
}

// WithCHRSize sets the CHR ROM size in 8KB units (0 = CHR RAM)
func (b *ROMBuilder) WithCHRSize(size uint8) *ROMBuilder {
	b.config.CHRSize = size
	return b
}

// WithCHRRAM configures the ROM to use CHR RAM instead of CHR ROM
func (b *ROMBuilder) WithCHRRAM() *ROMBuilder {
	b.config.CHRSize = 0
	return b
}

// WithMapper sets the mapper ID
func (b *ROMBuilder) WithMapper(mapperID uint8) *ROMBuilder {
	b.config.MapperID = mapperID
	return b
}

// WithMirroring sets nametable mirroring
func (b *ROMBuilder) WithMirroring(m memory.MirrorMode) *ROMBuilder {
	b.config.Mirroring = m
	return b
}

// WithBattery marks SRAM as battery backed
func (b *ROMBuilder) WithBattery() *ROMBuilder {
	b.config.HasBattery = true
	return b
}

// WithTrainer adds a 512-byte trainer
func (b *ROMBuilder) WithTrainer() *ROMBuilder {
	b.config.HasTrainer = true
	return b
}

// WithCHRData sets the start of CHR ROM
func (b *ROMBuilder) WithCHRData(data []uint8) *ROMBuilder {
	b.config.CHRData = data
	return b
}

// Build generates the ROM image
func (b *ROMBuilder) Build() ([]byte, error) {
	return GenerateROM(b.config)
}

// BuildCartridge generates and loads the ROM as a cartridge
func (b *ROMBuilder) BuildCartridge() (*Cartridge, error) {
	data, err := b.Build()
	if err != nil {
		return nil, err
	}
	return LoadFromReader(bytes.NewReader(data))
}

// GenerateROM creates an iNES image from config
func GenerateROM(config ROMConfig) ([]byte, error) {
	if config.PRGSize == 0 {
		return nil, fmt.Errorf("generate ROM: %w", ErrZeroPRG)
	}

	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = config.PRGSize
	header[5] = config.CHRSize

	flags6 := (config.MapperID & 0x0F) << 4
	if config.Mirroring == memory.MirrorVertical {
		flags6 |= 0x01
	}
	if config.HasBattery {
		flags6 |= 0x02
	}
	if config.HasTrainer {
		flags6 |= 0x04
	}
	if config.Mirroring == memory.MirrorFourScreen {
		flags6 |= 0x08
	}
	header[6] = flags6
	header[7] = config.MapperID & 0xF0
	header[8] = config.PRGRAMSize

	rom := append([]byte{}, header...)
	if config.HasTrainer {
		rom = append(rom, make([]byte, 512)...)
	}
	rom = append(rom, make([]byte, int(config.PRGSize)*16384)...)

	if config.CHRSize > 0 {
		chr := make([]byte, int(config.CHRSize)*8192)
		copy(chr, config.CHRData)
		rom = append(rom, chr...)
	}
	return rom, nil
}
