package memory

import "fmt"

// CHRRAM is a writable 8 KiB pattern table store, used when no cartridge
// is attached or when a snapshot supplies raw CHR.
type CHRRAM struct {
	data [CHRSize]uint8
}

// NewCHRRAM returns zeroed CHR RAM.
func NewCHRRAM() *CHRRAM {
	return &CHRRAM{}
}

// NewCHRRAMFrom copies data into new CHR RAM. Shorter dumps (4 KiB, one
// pattern half) are zero padded.
func NewCHRRAMFrom(data []byte) (*CHRRAM, error) {
	if len(data) == 0 || len(data) > CHRSize {
		return nil, fmt.Errorf("%w: chr is %d bytes, want 1..%d", ErrRegionSize, len(data), CHRSize)
	}
	c := &CHRRAM{}
	copy(c.data[:], data)
	return c, nil
}

// ReadCHR reads a pattern table byte
func (c *CHRRAM) ReadCHR(address uint16) uint8 {
	return c.data[address&(CHRSize-1)]
}

// WriteCHR writes a pattern table byte
func (c *CHRRAM) WriteCHR(address uint16, value uint8) {
	c.data[address&(CHRSize-1)] = value
}
