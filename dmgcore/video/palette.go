package video

import "github.com/example/dmgcore/bit"

// Palette decodes a BGP/OBP0/OBP1-style register: four 2-bit fields, one
// per source color index 0-3, each giving the shade index (0=lightest,
// 3=darkest) that color should display as.
type Palette [4]uint8

// DecodePalette unpacks a raw palette register byte.
func DecodePalette(value uint8) Palette {
	return Palette{
		bit.ExtractBits(value, 1, 0),
		bit.ExtractBits(value, 3, 2),
		bit.ExtractBits(value, 5, 4),
		bit.ExtractBits(value, 7, 6),
	}
}

// Shade maps a raw 2-bit color index through the palette.
func (p Palette) Shade(colorIndex uint8) uint8 {
	return p[colorIndex&0x03]
}
