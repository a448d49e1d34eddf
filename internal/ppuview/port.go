package ppuview

// Reader reads a byte from the 14-bit PPU address space.
// Reads must be free of side effects.
type Reader interface {
	Read(address uint16) uint8
}

// Writer stores a byte in the PPU address space.
type Writer interface {
	Write(address uint16, value uint8)
}

// OAMReader gives bounds-checked access to the 256 bytes of object attribute
// memory. Indices outside 0..255 return OAMSentinel.
type OAMReader interface {
	ReadOAM(index int) uint8
}

// ControlReader returns the latched value of a CPU-visible PPU register
// without the side effects a CPU read would have.
type ControlReader interface {
	PeekRegister(address uint16) uint8
}

// MemoryPort is everything the renderers need from the emulation core.
type MemoryPort interface {
	Reader
	Writer
	OAMReader
	ControlReader
}
