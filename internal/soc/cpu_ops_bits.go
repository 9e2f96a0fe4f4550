package soc

// Rotates, shifts, swap and the single-bit ops. Every CB-prefixed list
// starts with a nil placeholder: the prefix byte's own microcode
// occupies that slot, so the CB list's real steps line up with the
// machine cycles that follow the second fetch.

func (c *cpu) rlcVal(v uint8) uint8 {
	res := v<<1 | v>>7
	c.r.setFlag(flagC, v&0x80 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) rrcVal(v uint8) uint8 {
	res := v>>1 | v<<7
	c.r.setFlag(flagC, v&0x01 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) rlVal(v uint8) uint8 {
	res := v << 1
	if c.r.flag(flagC) {
		res |= 0x01
	}
	c.r.setFlag(flagC, v&0x80 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) rrVal(v uint8) uint8 {
	res := v >> 1
	if c.r.flag(flagC) {
		res |= 0x80
	}
	c.r.setFlag(flagC, v&0x01 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) slaVal(v uint8) uint8 {
	res := v << 1
	c.r.setFlag(flagC, v&0x80 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) sraVal(v uint8) uint8 {
	res := v>>1 | v&0x80
	c.r.setFlag(flagC, v&0x01 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) swapVal(v uint8) uint8 {
	res := v>>4 | v<<4
	c.r.setFlag(flagC, false)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

func (c *cpu) srlVal(v uint8) uint8 {
	res := v >> 1
	c.r.setFlag(flagC, v&0x01 != 0)
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	return res
}

// cbApply dispatches the 8 rotate/shift/swap operations selected by bits
// 5-3 of a 0x00-0x3F CB opcode.
func cbApply(sel uint8, v uint8, c *cpu) uint8 {
	switch sel {
	case 0:
		return c.rlcVal(v)
	case 1:
		return c.rrcVal(v)
	case 2:
		return c.rlVal(v)
	case 3:
		return c.rrVal(v)
	case 4:
		return c.slaVal(v)
	case 5:
		return c.sraVal(v)
	case 6:
		return c.swapVal(v)
	default:
		return c.srlVal(v)
	}
}

func cbOpR(sel, reg uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			p := r8(&s.cpu, reg)
			*p = cbApply(sel, *p, &s.cpu)
		},
	}
}

func cbOpHL(sel uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
		},
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.hl.get(), cbApply(sel, s.cpu.wz.lo, &s.cpu))
		},
		func(s *SoC) {},
	}
}

func (c *cpu) bitTest(bit, v uint8) {
	c.r.setFlag(flagZ, v&(1<<bit) == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, true)
}

func bitR(bit, reg uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			s.cpu.bitTest(bit, *r8(&s.cpu, reg))
		},
	}
}

func bitHL(bit uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
		},
		func(s *SoC) {
			s.cpu.bitTest(bit, s.cpu.wz.lo)
		},
	}
}

func resR(bit, reg uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			*r8(&s.cpu, reg) &^= 1 << bit
		},
	}
}

func resHL(bit uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
		},
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.hl.get(), s.cpu.wz.lo&^(1<<bit))
		},
		func(s *SoC) {},
	}
}

func setR(bit, reg uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			*r8(&s.cpu, reg) |= 1 << bit
		},
	}
}

func setHL(bit uint8) microcode {
	return microcode{
		nil,
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
		},
		func(s *SoC) {
			s.cpuWriteByte(s.cpu.r.hl.get(), s.cpu.wz.lo|1<<bit)
		},
		func(s *SoC) {},
	}
}

// The accumulator rotates always clear Z, unlike their CB counterparts.
var rlca = microcode{func(s *SoC) {
	s.cpu.r.af.hi = s.cpu.rlcVal(s.cpu.r.af.hi)
	s.cpu.r.setFlag(flagZ, false)
}}

var rrca = microcode{func(s *SoC) {
	s.cpu.r.af.hi = s.cpu.rrcVal(s.cpu.r.af.hi)
	s.cpu.r.setFlag(flagZ, false)
}}

var rla = microcode{func(s *SoC) {
	s.cpu.r.af.hi = s.cpu.rlVal(s.cpu.r.af.hi)
	s.cpu.r.setFlag(flagZ, false)
}}

var rra = microcode{func(s *SoC) {
	s.cpu.r.af.hi = s.cpu.rrVal(s.cpu.r.af.hi)
	s.cpu.r.setFlag(flagZ, false)
}}
