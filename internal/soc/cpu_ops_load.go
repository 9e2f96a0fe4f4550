package soc

// The 8/16-bit load family. Each list is exactly as long as the
// instruction's machine-cycle count; a trailing empty step is the cycle
// whose only work is the overlapped fetch of the next opcode.

func readImm8IntoZ(s *SoC) {
	s.cpuReadByte(s.cpu.r.pc, &s.cpu.wz.lo)
	s.cpu.r.pc++
}

func readImm8IntoW(s *SoC) {
	s.cpuReadByte(s.cpu.r.pc, &s.cpu.wz.hi)
	s.cpu.r.pc++
}

func ldRR(dst, src uint8) microcode {
	return microcode{
		func(s *SoC) {
			*r8(&s.cpu, dst) = *r8(&s.cpu, src)
		},
	}
}

func ldRN(dst uint8) microcode {
	return microcode{
		readImm8IntoZ,
		func(s *SoC) {
			*r8(&s.cpu, dst) = s.cpu.wz.lo
		},
	}
}

func ldRHL(dst uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
		},
		func(s *SoC) {
			*r8(&s.cpu, dst) = s.cpu.wz.lo
		},
	}
}

func ldHLR(src uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.hl.get(), *r8(&s.cpu, src))
		},
		func(s *SoC) {},
	}
}

var ldHLN = microcode{
	readImm8IntoZ,
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.r.hl.get(), s.cpu.wz.lo)
	},
	func(s *SoC) {},
}

func ldAIndRR(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpuReadByte(getPair(&s.cpu, pair), &s.cpu.r.af.hi)
		},
		func(s *SoC) {},
	}
}

func ldIndRRA(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpuWriteByte(getPair(&s.cpu, pair), s.cpu.r.af.hi)
		},
		func(s *SoC) {},
	}
}

var ldAIndHLInc = microcode{
	func(s *SoC) {
		hl := s.cpu.r.hl.get()
		s.cpuReadByte(hl, &s.cpu.r.af.hi)
		s.cpu.r.hl.set(hl + 1)
	},
	func(s *SoC) {},
}

var ldAIndHLDec = microcode{
	func(s *SoC) {
		hl := s.cpu.r.hl.get()
		s.cpuReadByte(hl, &s.cpu.r.af.hi)
		s.cpu.r.hl.set(hl - 1)
	},
	func(s *SoC) {},
}

var ldIndHLIncA = microcode{
	func(s *SoC) {
		hl := s.cpu.r.hl.get()
		s.cpuWriteByte(hl, s.cpu.r.af.hi)
		s.cpu.r.hl.set(hl + 1)
	},
	func(s *SoC) {},
}

var ldIndHLDecA = microcode{
	func(s *SoC) {
		hl := s.cpu.r.hl.get()
		s.cpuWriteByte(hl, s.cpu.r.af.hi)
		s.cpu.r.hl.set(hl - 1)
	},
	func(s *SoC) {},
}

var ldhIndCA = microcode{
	func(s *SoC) {
		s.cpuWriteByte(0xFF00+uint16(s.cpu.r.bc.lo), s.cpu.r.af.hi)
	},
	func(s *SoC) {},
}

var ldhAIndC = microcode{
	func(s *SoC) {
		s.cpuReadByte(0xFF00+uint16(s.cpu.r.bc.lo), &s.cpu.wz.lo)
	},
	func(s *SoC) {
		s.cpu.r.af.hi = s.cpu.wz.lo
	},
}

var ldhIndNA = microcode{
	readImm8IntoZ,
	func(s *SoC) {
		s.cpuWriteByte(0xFF00+uint16(s.cpu.wz.lo), s.cpu.r.af.hi)
	},
	func(s *SoC) {},
}

var ldhAIndN = microcode{
	readImm8IntoZ,
	func(s *SoC) {
		s.cpuReadByte(0xFF00+uint16(s.cpu.wz.lo), &s.cpu.wz.lo)
	},
	func(s *SoC) {
		s.cpu.r.af.hi = s.cpu.wz.lo
	},
}

var ldIndNNA = microcode{
	readImm8IntoZ,
	readImm8IntoW,
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.wz.get(), s.cpu.r.af.hi)
	},
	func(s *SoC) {},
}

var ldAIndNN = microcode{
	readImm8IntoZ,
	readImm8IntoW,
	func(s *SoC) {
		s.cpuReadByte(s.cpu.wz.get(), &s.cpu.wz.lo)
	},
	func(s *SoC) {
		s.cpu.r.af.hi = s.cpu.wz.lo
	},
}

func ldRRNN(pair uint8) microcode {
	return microcode{
		readImm8IntoZ,
		readImm8IntoW,
		func(s *SoC) {
			setPair(&s.cpu, pair, s.cpu.wz.get())
		},
	}
}

var ldIndNNSP = microcode{
	readImm8IntoZ,
	readImm8IntoW,
	func(s *SoC) {
		wz := s.cpu.wz.get()
		s.cpuWriteByte(wz, uint8(s.cpu.r.sp))
		s.cpu.wz.set(wz + 1)
	},
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.wz.get(), uint8(s.cpu.r.sp>>8))
	},
	func(s *SoC) {},
}

var ldSPHL = microcode{
	func(s *SoC) {
		s.cpu.r.sp = s.cpu.r.hl.get()
	},
	func(s *SoC) {},
}

func push(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpu.r.sp--
		},
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.sp, uint8(getPairPush(&s.cpu, pair)>>8))
			s.cpu.r.sp--
		},
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.sp, uint8(getPairPush(&s.cpu, pair)))
		},
		func(s *SoC) {},
	}
}

func pop(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.sp, &s.cpu.wz.lo)
			s.cpu.r.sp++
		},
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.sp, &s.cpu.wz.hi)
			s.cpu.r.sp++
		},
		func(s *SoC) {
			setPairPush(&s.cpu, pair, s.cpu.wz.get())
		},
	}
}
