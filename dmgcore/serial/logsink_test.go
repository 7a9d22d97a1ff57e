package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/dmgcore/addr"
)

func TestLogSinkImmediateTransferCompletesOnWrite(t *testing.T) {
	var fired bool
	s := NewLogSink(func() { fired = true })

	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x81) // start bit + internal clock

	assert.True(t, fired)
	assert.Equal(t, byte(0xFF), s.Read(addr.SB), "SB resets to the default RX byte")
	assert.False(t, s.transferActive)
}

func TestLogSinkRequiresBothStartAndInternalClockBits(t *testing.T) {
	var fired bool
	s := NewLogSink(func() { fired = true })

	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x80) // start bit only, no internal clock

	assert.False(t, fired)
}

func TestLogSinkFixedTimingCompletesAfterCountdown(t *testing.T) {
	var fired bool
	s := NewLogSink(func() { fired = true }, WithFixedTiming())

	s.Write(addr.SB, 'X')
	s.Write(addr.SC, 0x81)
	assert.True(t, s.transferActive)
	assert.False(t, fired)

	s.Tick(4095)
	assert.False(t, fired)

	s.Tick(1)
	assert.True(t, fired)
	assert.False(t, s.transferActive)
}

func TestLogSinkReadUnknownAddressReturnsFF(t *testing.T) {
	s := NewLogSink(nil)
	assert.Equal(t, byte(0xFF), s.Read(0x1234))
}
