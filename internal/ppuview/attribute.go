package ppuview

// AttributeResolver picks background palettes from the attribute tables.
type AttributeResolver struct {
	mem Reader
}

// NewAttributeResolver returns a resolver reading from mem.
func NewAttributeResolver(mem Reader) *AttributeResolver {
	return &AttributeResolver{mem: mem}
}

// Attribute returns the attribute byte covering tile (tileX, tileY).
func (r *AttributeResolver) Attribute(tileX, tileY, tableNr int) uint8 {
	return r.mem.Read(AttributeAddress(tileX, tileY, tableNr))
}

// TablePaletteIndex returns the background palette selector for a tile,
// taking the 2-bit field at attributeShift(tileX, tileY).
func (r *AttributeResolver) TablePaletteIndex(tileX, tileY, tableNr int) int {
	return int(r.Attribute(tileX, tileY, tableNr)>>attributeShift(tileX, tileY)) & 3
}

// attributeShift selects the field from the tile's odd/even position.
// It differs from the hardware quadrant (see runningAttributeShift) for
// tiles whose x or y has bit 0 set and bit 1 clear, or the reverse; the
// name-table view does not use it.
func attributeShift(tileX, tileY int) uint {
	return uint(((tileX % 2) + (tileY%2)*2) * 2)
}

// runningAttributeShift derives the field from a name-table entry address:
// bit 6 of the address is bit 1 of the tile row, bit 1 is bit 1 of the
// tile column.
func runningAttributeShift(addr uint16) uint {
	return uint((addr>>4)&4 | addr&2)
}
