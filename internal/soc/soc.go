// Package soc implements a cycle-accurate DMG-class system-on-chip core:
// the CPU, PPU, timer, DMA engine, joypad and the three arbitrated memory
// buses that connect them. Every tightly-coupled component lives in this
// one package so step functions can reach sibling components directly
// through the owning SoC, instead of through cross-package back-pointers.
package soc

import "log/slog"

// Cartridge is the external collaborator a SoC is wired to. Its ROM/RAM
// access is out of scope for the core itself (see internal/cart).
type Cartridge interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, val uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, val uint8)
}

// SerialPort backs the SB/SC registers.
type SerialPort interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	Tick(cycles int)
}

// AudioPort backs the NR10-NR52 + wave RAM register block.
type AudioPort interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, val uint8)
	Tick(cycles int)
}

type nullSerial struct{}

func (nullSerial) Read(uint16) uint8     { return 0xFF }
func (nullSerial) Write(uint16, uint8)   {}
func (nullSerial) Tick(int)              {}

type nullAudio struct{}

func (nullAudio) ReadRegister(uint16) uint8    { return 0xFF }
func (nullAudio) WriteRegister(uint16, uint8)  {}
func (nullAudio) Tick(int)                     {}

// SoC owns every per-cycle component of the emulated machine and drives
// them in the canonical order: CPU, DMA, PPU, timer, joypad, then any
// deferred I/O register read settles.
type SoC struct {
	Cart   Cartridge
	Serial SerialPort
	Audio  AudioPort

	cpu   cpu
	ppu   ppu
	timer timer
	dma   dma
	jp    joypad

	wram [0x2000]uint8
	vram [0x2000]uint8
	oam  [0xA0]uint8
	hram [0x7F]uint8
	ie   uint8
	ifr  uint8

	extPrio, vidPrio, oamPrio busOwner

	pendingRead bool
	pendingAddr uint16
	pendingDest *uint8

	errs chan error

	// Trace, if set, is called once per instruction fetch with the PC the
	// opcode was read from and the opcode itself. This is the "per-instruction
	// trace point" debugging interface; there is no richer debugger here.
	Trace func(pc uint16, opcode uint8)
}

// New creates a SoC wired to the given cartridge. Serial and audio default
// to inert stubs; set SoC.Serial / SoC.Audio to wire real ones.
func New(cart Cartridge) *SoC {
	s := &SoC{
		Cart:   cart,
		Serial: nullSerial{},
		Audio:  nullAudio{},
		ifr:    0x01,
		errs:   make(chan error, 1),
	}
	s.cpu.init()
	s.ppu.init()
	s.timer.init()
	s.dma.init()
	s.jp.init()
	s.calculateBusPriorities()
	return s
}

// Errors delivers unrecoverable runtime conditions for the host to
// observe; unknown opcodes are the only condition reported on it.
func (s *SoC) Errors() <-chan error {
	return s.errs
}

func (s *SoC) reportError(err error) {
	slog.Error("soc error", "err", err)
	select {
	case s.errs <- err:
	default:
	}
}

// Framebuffer returns the PPU's current framebuffer.
func (s *SoC) Framebuffer() *FrameBuffer {
	return &s.ppu.fb
}

// RaiseSerialInterrupt requests the serial-transfer-complete interrupt,
// for the external serial device to call when a byte finishes shifting.
func (s *SoC) RaiseSerialInterrupt() {
	s.requestInterrupt(intSerial)
}

// PressKey / ReleaseKey forward to the joypad.
func (s *SoC) PressKey(k JoypadKey)   { s.jp.press(s, k) }
func (s *SoC) ReleaseKey(k JoypadKey) { s.jp.release(s, k) }

// Step advances the SoC by one machine cycle (4 dots).
func (s *SoC) Step() {
	s.calculateBusPriorities()

	s.cpu.cycle(s)
	s.dma.cycle(s)
	s.ppu.cycle(s)
	s.timer.cycle(s)
	s.jp.cycle(s)
	s.Serial.Tick(1)
	s.Audio.Tick(1)

	if s.pendingRead {
		*s.pendingDest = s.ioRead(s.pendingAddr)
		s.pendingRead = false
	}
}

// StepInstruction advances the SoC until the CPU has fetched its next
// opcode, i.e. completed one full instruction, and returns the number of
// machine cycles advanced.
func (s *SoC) StepInstruction() int {
	cycles := 0
	for {
		s.Step()
		cycles++
		// a fresh fetch leaves the step index at the list's start
		if s.cpu.step == 0 {
			return cycles
		}
	}
}

// dotsPerCycle is the number of PPU dots in one machine cycle.
const dotsPerCycle = 4

// cyclesPerFrame is the number of machine cycles in one 70224-dot frame.
const cyclesPerFrame = 70224 / dotsPerCycle

// RunUntilVBlank steps the SoC until the PPU enters VBlank on a fresh
// scanline. With the LCD off there is no VBlank to wait for, so a whole
// frame's worth of cycles runs instead.
func (s *SoC) RunUntilVBlank() int {
	cycles := 0
	if !s.ppu.lcdOn() {
		for i := 0; i < cyclesPerFrame; i++ {
			s.Step()
			cycles++
		}
		return cycles
	}

	for s.ppu.ly == 144 {
		s.Step()
		cycles++
	}
	for s.ppu.ly != 144 {
		s.Step()
		cycles++
	}
	return cycles
}

// RunOneFrame steps exactly one frame's worth of machine cycles.
func (s *SoC) RunOneFrame() {
	for i := 0; i < cyclesPerFrame; i++ {
		s.Step()
	}
}

func (s *SoC) requestInterrupt(bit uint8) {
	s.ifr |= bit
}
