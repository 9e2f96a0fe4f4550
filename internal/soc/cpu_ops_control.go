package soc

import "log/slog"

// Jumps, calls, returns and the handful of control opcodes. Conditional
// variants share their taken-path list with the unconditional one and
// skip the remaining steps in place when the condition fails, which is
// how the hardware's shared microcode sequencer handles them.

func writeWZToPC(s *SoC) {
	s.cpu.r.pc = s.cpu.wz.get()
}

// adjustPCToWZ computes WZ = PC + signed offset in Z, spread across the
// ALU (low byte) and the IDU (page adjustment).
func adjustPCToWZ(s *SoC) {
	c := &s.cpu
	neg := c.wz.lo&0x80 != 0
	carry := uint16(c.wz.lo)+uint16(uint8(c.r.pc)) > 0xFF
	c.wz.lo += uint8(c.r.pc)

	var adj uint8
	if carry && !neg {
		adj = 1
	} else if !carry && neg {
		adj = 0xFF
	}
	c.wz.hi = uint8(c.r.pc>>8) + adj
}

var jpNN = microcode{
	readImm8IntoZ,
	readImm8IntoW,
	writeWZToPC,
	func(s *SoC) {},
}

var jpHL = microcode{
	func(s *SoC) {
		s.cpu.r.pc = s.cpu.r.hl.get()
	},
}

func jpCC(cc uint8) microcode {
	return microcode{
		readImm8IntoZ,
		readImm8IntoW,
		func(s *SoC) {
			if condTrue(&s.cpu, cc) {
				writeWZToPC(s)
			} else {
				s.cpu.step++
			}
		},
		func(s *SoC) {},
	}
}

var jrE = microcode{
	readImm8IntoZ,
	adjustPCToWZ,
	writeWZToPC,
}

func jrCC(cc uint8) microcode {
	return microcode{
		readImm8IntoZ,
		func(s *SoC) {
			if condTrue(&s.cpu, cc) {
				adjustPCToWZ(s)
			} else {
				s.cpu.step++
			}
		},
		writeWZToPC,
	}
}

func decSP(s *SoC) {
	s.cpu.r.sp--
}

func pushPCHigh(s *SoC) {
	s.cpuWriteByte(s.cpu.r.sp, uint8(s.cpu.r.pc>>8))
	s.cpu.r.sp--
}

func pushPCLowJumpWZ(s *SoC) {
	s.cpuWriteByte(s.cpu.r.sp, uint8(s.cpu.r.pc))
	s.cpu.r.pc = s.cpu.wz.get()
}

var callNN = microcode{
	readImm8IntoZ,
	readImm8IntoW,
	decSP,
	pushPCHigh,
	pushPCLowJumpWZ,
	func(s *SoC) {},
}

func callCC(cc uint8) microcode {
	return microcode{
		readImm8IntoZ,
		readImm8IntoW,
		func(s *SoC) {
			if condTrue(&s.cpu, cc) {
				decSP(s)
			} else {
				s.cpu.step += 3
			}
		},
		pushPCHigh,
		pushPCLowJumpWZ,
		func(s *SoC) {},
	}
}

func popPCLowIntoZ(s *SoC) {
	s.cpuReadByte(s.cpu.r.sp, &s.cpu.wz.lo)
	s.cpu.r.sp++
}

func popPCHighIntoW(s *SoC) {
	s.cpuReadByte(s.cpu.r.sp, &s.cpu.wz.hi)
	s.cpu.r.sp++
}

var ret = microcode{
	popPCLowIntoZ,
	popPCHighIntoW,
	writeWZToPC,
	func(s *SoC) {},
}

// reti restores IME immediately, without EI's one-instruction delay.
var reti = microcode{
	popPCLowIntoZ,
	popPCHighIntoW,
	func(s *SoC) {
		writeWZToPC(s)
		s.cpu.ime = true
	},
	func(s *SoC) {},
}

func retCC(cc uint8) microcode {
	return microcode{
		func(s *SoC) {},
		func(s *SoC) {
			if condTrue(&s.cpu, cc) {
				popPCLowIntoZ(s)
			} else {
				s.cpu.step += 3
			}
		},
		popPCHighIntoW,
		writeWZToPC,
		func(s *SoC) {},
	}
}

func rst(vector uint16) microcode {
	return microcode{
		decSP,
		pushPCHigh,
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.sp, uint8(s.cpu.r.pc))
			s.cpu.r.pc = vector
		},
		func(s *SoC) {},
	}
}

var nop = microcode{
	func(s *SoC) {},
}

// halt suspends fetching and, when IME is clear, arms the halt bug; the
// bug only matters if an interrupt is already pending at the very next
// fetch, where it holds PC for exactly one read.
var halt = microcode{
	func(s *SoC) {
		s.cpu.halted = true
		s.cpu.haltBug = !s.cpu.ime
	},
	func(s *SoC) {},
}

// stop is not emulated beyond logging: no licensed DMG title relies on
// it outside of speed switching, which this hardware variant lacks.
var stop = microcode{
	func(s *SoC) {
		slog.Warn("STOP executed, treating as NOP", "pc", s.cpu.r.pc-1)
	},
}

var ei = microcode{
	func(s *SoC) {
		if s.cpu.eiState == eiNotCalled {
			s.cpu.eiState = eiCalled
		}
	},
}

var di = microcode{
	func(s *SoC) {
		s.cpu.ime = false
		s.cpu.eiState = eiNotCalled
	},
}

// prefixCB fetches the second opcode byte and swaps in the CB table's
// list; the nil placeholder in every CB list keeps the step indices
// aligned with this extra fetch cycle.
var prefixCB = microcode{
	func(s *SoC) {
		c := &s.cpu
		s.cpuReadByte(c.r.pc, &c.ir)
		c.r.pc++
		c.curList = cbTable[c.ir]
	},
}
