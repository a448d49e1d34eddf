package cartridge

// Mapper000 implements the CHR side of NROM (mapper 0): one fixed 8KB bank
// of CHR ROM, or 8KB of CHR RAM when the header declares no CHR ROM.
type Mapper000 struct {
	cart *Cartridge
}

// NewMapper000 creates a new NROM mapper
func NewMapper000(cart *Cartridge) *Mapper000 {
	return &Mapper000{cart: cart}
}

// ReadCHR reads from CHR ROM/RAM at PPU $0000-$1FFF
func (m *Mapper000) ReadCHR(address uint16) uint8 {
	address &= 0x1FFF
	if int(address) < len(m.cart.chrROM) {
		return m.cart.chrROM[address]
	}
	return 0
}

// WriteCHR writes to CHR RAM
func (m *Mapper000) WriteCHR(address uint16, value uint8) {
	address &= 0x1FFF
	if m.cart.hasCHRRAM && int(address) < len(m.cart.chrROM) {
		m.cart.chrROM[address] = value
	}
}
