package memory

import (
	"fmt"
	"log/slog"

	"github.com/example/dmgcore/addr"
	"github.com/example/dmgcore/audio"
	"github.com/example/dmgcore/serial"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnused
	regionIO
	regionHRAM
)

// Bus is the memory-mapped I/O dispatcher described in spec §4.1: it routes
// 8-bit reads/writes to the correct leaf by address range, folds the two
// mirror regions, and services OAM DMA as a one-shot latch serviced before
// each instruction fetch.
type Bus struct {
	mbc MBC

	vram [0x2000]byte // 0x8000-0x9FFF
	wram [0x2000]byte // 0xC000-0xDFFF (0xE000-0xFDFF mirrors it)
	oam  [0xA0]byte   // 0xFE00-0xFE9F
	hram [0x7F]byte   // 0xFF80-0xFFFE
	io   [0x80]byte   // 0xFF00-0xFF7F, minus the registers owned by leaves below

	regionMap [256]region

	Interrupts *InterruptController
	Timer      *Timer
	Pad        *Joypad
	APU        *audio.APU
	Serial     serial.Port

	dmaPending bool
	dmaSource  byte
}

// NewBus returns a bus with no cartridge loaded (equivalent to powering on
// with an empty cartridge slot).
func NewBus() *Bus {
	b := &Bus{
		mbc:        NewNoMBCController(make([]byte, 0x8000)),
		Interrupts: NewInterruptController(),
		Timer:      NewTimer(),
		Pad:        NewJoypad(),
		APU:        audio.New(),
	}
	b.Serial = serial.NewLogSink(func() { b.RequestInterrupt(addr.Serial) })
	b.Timer.InterruptHandler = func() { b.RequestInterrupt(addr.Timer) }
	b.Pad.InterruptHandler = func() { b.RequestInterrupt(addr.Joypad) }
	b.initRegionMap()
	return b
}

// NewBusWithCartridge returns a bus with the given cartridge's MBC wired in.
func NewBusWithCartridge(cart *Cartridge) *Bus {
	b := NewBus()
	switch cart.Type {
	case NoMBC:
		b.mbc = NewNoMBCController(cart.data)
	case MBC1:
		b.mbc = NewMBC1Controller(cart.data, cart.ram)
	default:
		panic(fmt.Sprintf("unsupported MBC type: %d", cart.Type))
	}
	return b
}

func (b *Bus) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		b.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		b.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		b.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		b.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		b.regionMap[i] = regionEcho
	}
	b.regionMap[0xFE] = regionOAM
	b.regionMap[0xFF] = regionIO
}

// RequestInterrupt sets the IF bit for the given interrupt kind.
func (b *Bus) RequestInterrupt(kind addr.Interrupt) {
	b.Interrupts.SetIRQ(kind)
}

// Read dispatches an 8-bit read by address range, per spec §3's address map.
func (b *Bus) Read(address uint16) byte {
	switch b.regionMap[address>>8] {
	case regionROM:
		return b.mbc.Read(address)
	case regionVRAM:
		return b.vram[address-0x8000]
	case regionExtRAM:
		return b.mbc.Read(address)
	case regionWRAM:
		return b.wram[address-0xC000]
	case regionEcho:
		return b.wram[(address-0x2000)-0xC000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return b.oam[address-addr.OAMStart]
		}
		return 0 // 0xFEA0-0xFEFF is unmapped, reads yield 0
	case regionIO:
		return b.readIO(address)
	default:
		return 0xFF
	}
}

// Write dispatches an 8-bit write by address range.
func (b *Bus) Write(address uint16, value byte) {
	switch b.regionMap[address>>8] {
	case regionROM:
		b.mbc.Write(address, value)
	case regionVRAM:
		b.vram[address-0x8000] = value
	case regionExtRAM:
		b.mbc.Write(address, value)
	case regionWRAM:
		b.wram[address-0xC000] = value
	case regionEcho:
		b.wram[(address-0x2000)-0xC000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			b.oam[address-addr.OAMStart] = value
		}
		// 0xFEA0-0xFEFF writes are discarded
	case regionIO:
		b.writeIO(address, value)
	}
}

func (b *Bus) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return b.Pad.Read()
	case address == addr.SB || address == addr.SC:
		return b.Serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return b.Timer.Read(address)
	case address == addr.IF:
		return b.Interrupts.ReadIF()
	case address == addr.IE:
		return b.Interrupts.ReadIE()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.APU.ReadRegister(address)
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	case address == addr.STAT:
		return b.io[address-0xFF00] & 0x7F
	case address >= 0xFF40 && address <= 0xFF4B:
		return b.io[address-0xFF00]
	case address >= 0xFEA0 && address <= 0xFF7F:
		return 0
	default:
		return b.io[address-0xFF00]
	}
}

func (b *Bus) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		b.Pad.Write(value)
	case address == addr.SB || address == addr.SC:
		b.Serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		b.Timer.Write(address, value)
	case address == addr.IF:
		b.Interrupts.WriteIF(value)
	case address == addr.IE:
		b.Interrupts.WriteIE(value)
	case address == addr.DMA:
		b.dmaSource = value
		b.dmaPending = true
		b.io[address-0xFF00] = value
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.APU.WriteRegister(address, value)
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	case address >= 0xFEA0 && address <= 0xFF7F:
		// unused region: writes discarded
	default:
		b.io[address-0xFF00] = value
	}
}

// ServiceDMA performs the 160-byte OAM DMA copy if one is pending, and must
// be called before every instruction fetch per spec §4.1. The copy is
// observable as a single batch: instructions fetched after this call see
// the sprites already in place.
func (b *Bus) ServiceDMA() {
	if !b.dmaPending {
		return
	}
	source := uint16(b.dmaSource) << 8
	for i := uint16(0); i < 160; i++ {
		b.oam[i] = b.Read(source + i)
	}
	b.dmaPending = false
}

// Tick advances the timer by one sub-clock and the serial port, once per
// CPU cycle, per spec §4.1/§5.
func (b *Bus) Tick() {
	b.Timer.Tick()
	if b.Serial != nil {
		b.Serial.Tick(1)
	}
}

// HandleKeyPress forwards a key press to the joypad.
func (b *Bus) HandleKeyPress(key JoypadKey) { b.Pad.Press(key) }

// HandleKeyRelease forwards a key release to the joypad.
func (b *Bus) HandleKeyRelease(key JoypadKey) { b.Pad.Release(key) }

// ReadVRAM and WriteVRAM give the video package direct, range-checked
// access to the 8 KiB VRAM block without going through the region map —
// used by the GPU's own line renderer, matching spec §9's note that the
// pipeline reaches its VRAM "through the bus... and through its own line
// renderer internally".
func (b *Bus) ReadVRAM(offset uint16) byte     { return b.vram[offset] }
func (b *Bus) WriteVRAM(offset uint16, v byte) { b.vram[offset] = v }

// LogCartridgeLoad emits a debug log line describing the loaded cartridge.
func LogCartridgeLoad(cart *Cartridge) {
	slog.Debug("cartridge loaded", "title", cart.Title, "type", cart.Type)
}
