package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNR52ReflectsEnabledBit(t *testing.T) {
	a := New()
	assert.Equal(t, uint8(0x70), a.ReadRegister(0xFF26), "powered off, unused bits read high")

	a.WriteRegister(0xFF26, 0x80)
	assert.Equal(t, uint8(0xF0), a.ReadRegister(0xFF26))
}

func TestWritesWhileDisabledAreIgnoredExceptLengthRegisters(t *testing.T) {
	a := New()
	a.WriteRegister(0xFF10, 0x7F) // disabled: should be dropped
	assert.Equal(t, uint8(0x80), a.ReadRegister(0xFF10), "only the always-1 bit shows")

	a.WriteRegister(0xFF11, 0xC0) // length counter register: allowed while disabled
	assert.Equal(t, uint8(0xFF), a.ReadRegister(0xFF11), "duty bits plus the always-1 length bits")
}

func TestWaveRAMReadAfterWrite(t *testing.T) {
	a := New()
	a.WriteRegister(0xFF30, 0xAB)
	assert.Equal(t, uint8(0xAB), a.ReadRegister(0xFF30))
}

func TestReadMaskAppliesToStoredRegisters(t *testing.T) {
	a := New()
	a.WriteRegister(0xFF26, 0x80) // enable first, so writes apply
	a.WriteRegister(0xFF1A, 0x00)
	assert.Equal(t, uint8(0x7F), a.ReadRegister(0xFF1A), "unused bits always read 1")
}
