// Package dmgcore wires the CPU, bus and pixel pipeline into a runnable
// emulator: RunFrame steps the CPU until one full 70224-cycle frame has
// elapsed, ticking the pixel pipeline by exactly as many cycles as each
// instruction actually took.
package dmgcore

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/example/dmgcore/cpu"
	"github.com/example/dmgcore/memory"
	"github.com/example/dmgcore/video"
)

// CyclesPerFrame is the number of T-cycles in one 154-line DMG frame
// (456 dots/line * 154 lines).
const CyclesPerFrame = 70224

// Emulator is the root object tying together the CPU, the bus (with its
// cartridge, timer, joypad and interrupt controller) and the pixel
// pipeline.
type Emulator struct {
	CPU *cpu.CPU
	Bus *memory.Bus
	GPU *video.GPU

	frameCount uint64
}

// New returns an emulator with no cartridge inserted.
func New() *Emulator {
	return newWithBus(memory.NewBus())
}

// NewWithROM loads a ROM image from path and returns an emulator running
// it. The cartridge header's declared MBC type must be NoMBC or MBC1.
func NewWithROM(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	cart, err := memory.NewCartridgeFromData(data)
	if err != nil {
		return nil, err
	}

	memory.LogCartridgeLoad(cart)

	return newWithBus(memory.NewBusWithCartridge(cart)), nil
}

func newWithBus(bus *memory.Bus) *Emulator {
	return &Emulator{
		CPU: cpu.New(bus),
		Bus: bus,
		GPU: video.New(bus),
	}
}

// RunFrame executes CPU instructions, ticking the pixel pipeline after
// each one by the number of cycles it took, until a full frame's worth of
// cycles (70224) has elapsed.
func (e *Emulator) RunFrame() {
	total := 0
	for total < CyclesPerFrame {
		cycles := e.CPU.Step()
		e.GPU.Tick(cycles)
		total += cycles
	}
	e.frameCount++
	if e.frameCount%60 == 0 {
		slog.Debug("frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.CPU.PC()))
	}
}

// FrameCount returns the number of frames executed so far.
func (e *Emulator) FrameCount() uint64 { return e.frameCount }

// Framebuffer returns the most recently rendered frame.
func (e *Emulator) Framebuffer() *video.Framebuffer { return e.GPU.Framebuffer() }

// PressKey and ReleaseKey forward joypad input to the bus.
func (e *Emulator) PressKey(key memory.JoypadKey)   { e.Bus.HandleKeyPress(key) }
func (e *Emulator) ReleaseKey(key memory.JoypadKey) { e.Bus.HandleKeyRelease(key) }
