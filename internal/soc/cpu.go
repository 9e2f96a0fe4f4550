package soc

import "fmt"

// step is one machine cycle's worth of CPU work: at most one memory access
// plus whatever register shuffling accompanies it.
type step func(s *SoC)

// microcode is the ordered list of per-M-cycle steps an opcode performs.
// The list's length is the instruction's machine-cycle count: the fetch of
// the NEXT opcode overlaps with the last step, so a one-step list is a
// one-cycle instruction. CB-prefixed lists carry a nil placeholder in slot
// 0 so their indices line up after the prefix byte's own fetch cycle.
type microcode []step

const (
	eiNotCalled uint8 = iota
	eiCalled
	eiSet
)

// cpu is the per-M-cycle microcode engine: register file, IME/EI-delay
// state machine, HALT/HALT-bug handling and the current instruction's
// step list.
type cpu struct {
	r  registers
	wz reg16 // scratch latch shared across an instruction's steps

	ime     bool
	eiState uint8

	halted  bool
	haltBug bool

	ir uint8 // the opcode currently executing

	curList microcode
	step    int
}

func (c *cpu) init() {
	c.r.initState()
	c.wz.set(0)
	c.ime = false
	c.eiState = eiNotCalled
	c.halted = false
	c.haltBug = false
	c.ir = 0
	c.curList = opcodeTable[0]
	c.step = 0
}

// cycle runs one machine cycle of CPU work: execute the current step, and
// when the list runs out, overlap the next opcode's fetch with it.
func (c *cpu) cycle(s *SoC) {
	if fn := c.curList[c.step]; fn != nil {
		fn(s)
	}
	c.step++

	// EI becomes effective one full instruction after the EI itself.
	switch c.eiState {
	case eiCalled:
		c.eiState = eiSet
	case eiSet:
		c.ime = true
		c.eiState = eiNotCalled
	}

	if c.step >= len(c.curList) {
		c.fetch(s)
	}
}

// fetch loads the next opcode into IR and selects its microcode list, or
// dispatches the ISR when IME is set and an unmasked interrupt is pending.
// A halted CPU emits no bus cycles: it keeps running NOPs out of the
// instruction register until an interrupt is pending, at which point the
// HALT bug may hold PC for exactly one fetch.
func (c *cpu) fetch(s *SoC) {
	pc := c.r.pc
	ints := s.ie & s.ifr & 0x1F

	if c.halted {
		if ints != 0 {
			c.halted = false
			s.cpuReadByte(c.r.pc, &c.ir)
			if !c.haltBug {
				c.r.pc++
			}
		} else {
			c.ir = 0x00
		}
		c.haltBug = false
	} else {
		s.cpuReadByte(c.r.pc, &c.ir)
		c.r.pc++
	}

	if c.ime && ints != 0 {
		c.ime = false
		c.curList = isrMicrocode
	} else {
		c.curList = opcodeTable[c.ir]
	}
	c.step = 0

	if s.Trace != nil && !c.halted {
		s.Trace(pc, c.ir)
	}
}

// interruptVectors are indexed by IF/IE bit position, lowest bit highest
// priority.
var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// isrMicrocode implements the 5 machine-cycle interrupt service routine.
// PC was already incremented by the fetch that chose the ISR, so the
// first cycle undoes that. The vector decision is made from IF&IE sampled fresh in the
// fourth cycle: if the low-PC push clobbered IE (SP pointing at 0xFFFF)
// and nothing is pending anymore, the CPU jumps to 0x0000 and clears no
// IF bit, exactly as the hardware does.
var isrMicrocode = microcode{
	func(s *SoC) {
		s.cpu.r.pc--
	},
	func(s *SoC) {
		s.cpu.r.sp--
	},
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.r.sp, uint8(s.cpu.r.pc>>8))
		s.cpu.r.sp--
	},
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.r.sp, uint8(s.cpu.r.pc))
		pending := s.ie & s.ifr & 0x1F
		if pending == 0 {
			s.cpu.r.pc = 0x0000
			return
		}
		for i := uint8(0); i < 5; i++ {
			if pending&(1<<i) != 0 {
				s.ifr &^= 1 << i
				s.cpu.r.pc = interruptVectors[i]
				break
			}
		}
	},
	func(s *SoC) {},
}

// unknownOpcode is the microcode used for opcodes the SM83 never defines:
// the condition is reported on the error channel so the host can shut
// down in an orderly way.
func unknownOpcode(op uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.reportError(fmt.Errorf("unknown opcode 0x%02X at 0x%04X", op, s.cpu.r.pc-1))
		},
	}
}
