// Package serial implements the link-cable port. No physical link partner
// is emulated; transfers complete immediately (or after a fixed delay with
// WithFixedTiming) and the outgoing byte is logged as text, which is enough
// to observe test ROMs that print their results over serial.
package serial

import (
	"log/slog"

	"github.com/example/dmgcore/addr"
	"github.com/example/dmgcore/bit"
)

// Port is the interface the bus expects from a serial device.
type Port interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(cycles int)
}

// LogSink is a serial device that logs outgoing bytes as text instead of
// exchanging them with a link partner. Handy for test ROMs that report
// their pass/fail state over serial.
type LogSink struct {
	irqHandler     func()
	sb, sc         byte
	transferActive bool
	countdown      int
	logger         *slog.Logger

	immediate bool
	defaultRX byte

	line []byte
}

// Option configures a LogSink at construction time.
type Option func(*LogSink)

// WithFixedTiming makes transfers take the real ~4096-cycle-per-byte DMG
// serial clock instead of completing instantly.
func WithFixedTiming() Option { return func(s *LogSink) { s.immediate = false } }

// NewLogSink returns a serial port that logs outgoing bytes. irq is called
// once per completed transfer and should be wired to request the Serial
// interrupt.
func NewLogSink(irq func(), opts ...Option) *LogSink {
	s := &LogSink{
		irqHandler: irq,
		immediate:  true,
		defaultRX:  0xFF,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns SB or SC.
func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

// Write updates SB or SC, starting a transfer when SC's start and
// internal-clock bits are both set.
func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeStartTransfer()
	}
}

// Tick advances any in-flight fixed-timing transfer.
func (s *LogSink) Tick(cycles int) {
	if s.immediate || !s.transferActive {
		return
	}
	s.countdown -= cycles
	if s.countdown <= 0 {
		s.completeTransfer()
		s.countdown = 0
	}
}

func (s *LogSink) maybeStartTransfer() {
	if s.transferActive {
		return
	}
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	if s.immediate {
		s.completeTransfer()
		return
	}

	s.transferActive = true
	s.countdown = 4096
}

func (s *LogSink) completeTransfer() {
	s.sb = s.defaultRX
	s.sc = bit.Reset(7, s.sc)
	s.transferActive = false
	if s.irqHandler != nil {
		s.irqHandler()
	}
}
