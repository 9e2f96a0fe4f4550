// Package jeebie is the host surface over internal/soc: it owns a cartridge
// and a *soc.SoC, and exposes the step/frame driver, framebuffer and input
// accessors a front end needs.
package jeebie

import (
	"fmt"
	"os"

	"github.com/jeebiecore/go-jeebie/internal/cart"
	"github.com/jeebiecore/go-jeebie/internal/soc"
	"github.com/jeebiecore/go-jeebie/jeebie/audio"
	"github.com/jeebiecore/go-jeebie/jeebie/serial"
)

// cyclesPerFrame is the number of machine cycles in one 70224-dot frame.
const cyclesPerFrame = 70224 / 4

// Emulator is the root struct and entry point for running the emulation.
type Emulator struct {
	soc  *soc.SoC
	cart cart.MBC

	instructionCount uint64
	frameCount       uint64
}

// New creates an emulator instance wired to the given cartridge.
func New(c cart.MBC) *Emulator {
	e := &Emulator{cart: c}
	e.soc = soc.New(cartAdapter{c})
	e.soc.Serial = serial.NewLogSink(e.soc.RaiseSerialInterrupt)
	e.soc.Audio = audio.NewStub()
	e.soc.Trace = func(uint16, uint8) { e.instructionCount++ }
	return e
}

// NewWithFile loads a ROM image from disk and constructs an Emulator for it.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jeebie: reading ROM: %w", err)
	}
	return NewWithData(data)
}

// NewWithData constructs an Emulator from an in-memory ROM image.
func NewWithData(data []byte) (*Emulator, error) {
	mbc, err := cart.New(data)
	if err != nil {
		return nil, err
	}
	return New(mbc), nil
}

// cartAdapter adapts cart.MBC's 4-method surface to soc.Cartridge; the two
// interfaces are identical in shape but kept as distinct types so
// internal/soc never imports internal/cart.
type cartAdapter struct{ mbc cart.MBC }

func (a cartAdapter) ReadROM(addr uint16) uint8     { return a.mbc.ReadROM(addr) }
func (a cartAdapter) WriteROM(addr uint16, v uint8) { a.mbc.WriteROM(addr, v) }
func (a cartAdapter) ReadRAM(addr uint16) uint8     { return a.mbc.ReadRAM(addr) }
func (a cartAdapter) WriteRAM(addr uint16, v uint8) { a.mbc.WriteRAM(addr, v) }

// StepFrame advances the emulator by one full frame (70224 dots) and
// returns the number of machine cycles consumed.
func (e *Emulator) StepFrame() int {
	e.soc.RunOneFrame()
	e.frameCount++
	return cyclesPerFrame
}

// RunUntilVBlank advances until the PPU enters VBlank, matching the core's
// own driver loop, and returns the number of machine cycles consumed.
func (e *Emulator) RunUntilVBlank() int {
	cycles := e.soc.RunUntilVBlank()
	e.frameCount++
	return cycles
}

// Step advances the SoC until the CPU completes one full instruction,
// for debugger-style single-stepping, and returns the machine cycles
// consumed.
func (e *Emulator) Step() int {
	return e.soc.StepInstruction()
}

// Framebuffer returns the current 160x144 framebuffer.
func (e *Emulator) Framebuffer() *soc.FrameBuffer {
	return e.soc.Framebuffer()
}

// PressKey / ReleaseKey forward joypad input to the core.
func (e *Emulator) PressKey(k soc.JoypadKey)   { e.soc.PressKey(k) }
func (e *Emulator) ReleaseKey(k soc.JoypadKey) { e.soc.ReleaseKey(k) }

// Errors delivers unrecoverable core conditions to the host; unknown
// opcodes are the only condition the core reports on it.
func (e *Emulator) Errors() <-chan error { return e.soc.Errors() }

// SetTrace installs a per-instruction trace callback, the only debugging
// interface the core offers beyond logging.
func (e *Emulator) SetTrace(fn func(pc uint16, opcode uint8)) {
	e.soc.Trace = func(pc uint16, op uint8) {
		e.instructionCount++
		if fn != nil {
			fn(pc, op)
		}
	}
}

// InstructionCount returns the number of instructions fetched so far.
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }

// FrameCount returns the number of frames completed so far.
func (e *Emulator) FrameCount() uint64 { return e.frameCount }

// Cartridge returns the loaded cartridge's parsed MBC implementation.
func (e *Emulator) Cartridge() cart.MBC { return e.cart }
