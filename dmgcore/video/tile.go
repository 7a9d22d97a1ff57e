package video

// TileRow is the eight 2-bit color indices decoded from a tile's two
// bit-planes for one row.
type TileRow [8]uint8

// vramReader is the minimal surface tile fetching needs from the bus.
type vramReader interface {
	ReadVRAM(offset uint16) uint8
}

// tileDataAddress resolves a tile index to the VRAM offset of its first
// byte, honoring LCDC bit 4's addressing mode switch: unsigned indices
// against the 0x8000 base, or signed indices against the 0x9000 base
// (tile 0 sits at 0x9000; index -128..-1 reach down into 0x8800-0x8FFF).
func tileDataAddress(index uint8, unsignedAddressing bool) uint16 {
	if unsignedAddressing {
		return uint16(index) * 16
	}
	signed := int8(index)
	return uint16(int32(0x9000-0x8000) + int32(signed)*16)
}

// fetchTileRow reads one 8-pixel row of a tile, honoring vertical flip.
func fetchTileRow(vram vramReader, tileBase uint16, row int, yFlip bool) TileRow {
	if yFlip {
		row = 7 - row
	}
	rowOffset := tileBase + uint16(row)*2
	low := vram.ReadVRAM(rowOffset)
	high := vram.ReadVRAM(rowOffset + 1)

	var out TileRow
	for bitIdx := 0; bitIdx < 8; bitIdx++ {
		shift := uint(7 - bitIdx)
		lo := (low >> shift) & 1
		hi := (high >> shift) & 1
		out[bitIdx] = (hi << 1) | lo
	}
	return out
}
