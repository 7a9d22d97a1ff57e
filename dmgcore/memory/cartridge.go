package memory

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	titleAddress     = 0x0134
	titleLength      = 0x0F
	cartTypeAddress  = 0x0147
	romSizeAddress   = 0x0148
	ramSizeAddress   = 0x0149
)

// CartridgeType identifies the MBC variant a ROM header declares. Only the
// two basic variants named in spec §6 are supported by this core; anything
// else is an UnsupportedCartridgeError at load time.
type CartridgeType uint8

const (
	// NoMBC is a plain, unbanked 32 KiB ROM.
	NoMBC CartridgeType = 0x00
	// MBC1 is the first, most common bank-switching controller.
	MBC1 CartridgeType = 0x01
)

// ramSizeBytes maps the header's RAM-size code to a byte count, rounded up
// to whole 8 KiB banks per spec §6.
var ramSizeBytes = map[byte]int{
	0: 0,
	1: 16 * 1024,
	2: 64 * 1024,
	3: 256 * 1024,
	4: 1024 * 1024,
}

// UnsupportedCartridgeError is returned when the ROM header declares a
// cartridge type this core does not implement.
type UnsupportedCartridgeError struct {
	Type byte
}

func (e *UnsupportedCartridgeError) Error() string {
	return fmt.Sprintf("unsupported cartridge type: 0x%02X", e.Type)
}

// Cartridge is the raw ROM image plus the header fields needed to
// construct the right MBC.
type Cartridge struct {
	Title string
	Type  CartridgeType
	data  []byte
	ram   []byte
}

// NewCartridge returns an empty, headerless cartridge — useful for tests
// and for booting without a ROM inserted.
func NewCartridge() *Cartridge {
	return &Cartridge{
		Title: "(none)",
		Type:  NoMBC,
		data:  make([]byte, 0x8000),
	}
}

// NewCartridgeFromData parses a raw ROM image's header and returns a
// Cartridge, or an UnsupportedCartridgeError if the declared MBC type is
// not NoMBC or MBC1.
func NewCartridgeFromData(data []byte) (*Cartridge, error) {
	if len(data) < 0x150 {
		return nil, fmt.Errorf("cartridge image too small: %d bytes", len(data))
	}

	cartType := data[cartTypeAddress]
	var kind CartridgeType
	switch cartType {
	case 0x00:
		kind = NoMBC
	case 0x01, 0x02, 0x03:
		kind = MBC1
	default:
		return nil, &UnsupportedCartridgeError{Type: cartType}
	}

	ramSize := ramSizeBytes[data[ramSizeAddress]]

	cart := &Cartridge{
		Title: cleanTitle(data[titleAddress : titleAddress+titleLength]),
		Type:  kind,
		data:  append([]byte(nil), data...),
		ram:   make([]byte, ramSize),
	}

	return cart, nil
}

func cleanTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))
	for _, b := range titleBytes {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}
