package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoMBCControllerReadsFlatROM(t *testing.T) {
	rom := make([]uint8, 0x8000)
	rom[0x1234] = 0x42
	m := NewNoMBCController(rom)
	assert.Equal(t, uint8(0x42), m.Read(0x1234))
}

func TestNoMBCControllerIgnoresWrites(t *testing.T) {
	rom := make([]uint8, 0x8000)
	m := NewNoMBCController(rom)
	m.Write(0x2000, 0xFF)
	assert.Equal(t, uint8(0x00), m.Read(0x2000))
}

func TestMBC1PowerOnStateReadsBank1At4000(t *testing.T) {
	rom := make([]uint8, 0x40000)
	rom[0x4000] = 0xAA // start of bank 1
	m := NewMBC1Controller(rom, nil)
	assert.Equal(t, uint8(0xAA), m.Read(0x4000))
}

func TestMBC1BankZeroIsForcedToOne(t *testing.T) {
	rom := make([]uint8, 0x40000)
	rom[0x4000] = 0xBB
	m := NewMBC1Controller(rom, nil)

	m.Write(0x2000, 0x00) // selecting bank 0 forces bank 1
	assert.Equal(t, uint8(0xBB), m.Read(0x4000))
}

func TestMBC1SelectsRomBank(t *testing.T) {
	rom := make([]uint8, 0x40000)
	rom[3*0x4000+0x10] = 0x77
	m := NewMBC1Controller(rom, nil)

	m.Write(0x2000, 0x03)
	assert.Equal(t, uint8(0x77), m.Read(0x4000+0x10))
}

func TestMBC1RamDisabledByDefault(t *testing.T) {
	rom := make([]uint8, 0x8000)
	ram := make([]uint8, 0x2000)
	m := NewMBC1Controller(rom, ram)

	m.Write(0xA000, 0x55)
	assert.Equal(t, uint8(0xFF), m.Read(0xA000), "writes while disabled are dropped")
}

func TestMBC1RamEnableLatchAndReadWrite(t *testing.T) {
	rom := make([]uint8, 0x8000)
	ram := make([]uint8, 0x2000)
	m := NewMBC1Controller(rom, ram)

	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0xA100, 0x99)
	assert.Equal(t, uint8(0x99), m.Read(0xA100))

	m.Write(0x0000, 0x00) // disable RAM again
	assert.Equal(t, uint8(0xFF), m.Read(0xA100))
}

func TestMBC1RamBankingModeSelectsRamBank(t *testing.T) {
	rom := make([]uint8, 0x8000)
	ram := make([]uint8, 4*0x2000)
	m := NewMBC1Controller(rom, ram)

	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // RAM banking mode
	m.Write(0x4000, 0x02) // select RAM bank 2
	m.Write(0xA000, 0x33)

	assert.Equal(t, uint8(0x33), ram[2*0x2000])
}
