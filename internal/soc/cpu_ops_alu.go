package soc

func (c *cpu) aluAdd(val uint8, withCarry bool) {
	a := c.r.af.hi
	var cin uint16
	if withCarry && c.r.flag(flagC) {
		cin = 1
	}
	sum := uint16(a) + uint16(val) + cin
	c.r.af.hi = uint8(sum)
	c.r.setFlag(flagZ, uint8(sum) == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, (a&0xF)+(val&0xF)+uint8(cin) > 0xF)
	c.r.setFlag(flagC, sum > 0xFF)
}

// aluSub computes A-val(-carry) and sets flags; the caller decides
// whether to store the result (SUB/SBC) or discard it (CP).
func (c *cpu) aluSub(val uint8, withCarry bool) uint8 {
	a := c.r.af.hi
	var cin int
	if withCarry && c.r.flag(flagC) {
		cin = 1
	}
	diff := int(a) - int(val) - cin
	c.r.setFlag(flagZ, uint8(diff) == 0)
	c.r.setFlag(flagN, true)
	c.r.setFlag(flagH, int(a&0xF)-int(val&0xF)-cin < 0)
	c.r.setFlag(flagC, diff < 0)
	return uint8(diff)
}

func (c *cpu) aluAnd(val uint8) {
	c.r.af.hi &= val
	c.r.setFlag(flagZ, c.r.af.hi == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, true)
	c.r.setFlag(flagC, false)
}

func (c *cpu) aluOr(val uint8) {
	c.r.af.hi |= val
	c.r.setFlag(flagZ, c.r.af.hi == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	c.r.setFlag(flagC, false)
}

func (c *cpu) aluXor(val uint8) {
	c.r.af.hi ^= val
	c.r.setFlag(flagZ, c.r.af.hi == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, false)
	c.r.setFlag(flagC, false)
}

func (c *cpu) incVal(v uint8) uint8 {
	res := v + 1
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, false)
	c.r.setFlag(flagH, v&0xF == 0xF)
	return res
}

func (c *cpu) decVal(v uint8) uint8 {
	res := v - 1
	c.r.setFlag(flagZ, res == 0)
	c.r.setFlag(flagN, true)
	c.r.setFlag(flagH, v&0xF == 0)
	return res
}

// aluOp dispatches the 8 ALU operations selected by bits 5-3 of the
// 0x80-0xBF grid and the 0xC6..0xFE immediate column.
func aluOp(sel uint8, val uint8, c *cpu) {
	switch sel {
	case 0:
		c.aluAdd(val, false)
	case 1:
		c.aluAdd(val, true)
	case 2:
		c.r.af.hi = c.aluSub(val, false)
	case 3:
		c.r.af.hi = c.aluSub(val, true)
	case 4:
		c.aluAnd(val)
	case 5:
		c.aluXor(val)
	case 6:
		c.aluOr(val)
	case 7:
		c.aluSub(val, false) // CP: flags only
	}
}

func aluR(sel, src uint8) microcode {
	return microcode{
		func(s *SoC) {
			aluOp(sel, *r8(&s.cpu, src), &s.cpu)
		},
	}
}

func aluHL(sel uint8) microcode {
	return microcode{
		func(s *SoC) {
			s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
		},
		func(s *SoC) {
			aluOp(sel, s.cpu.wz.lo, &s.cpu)
		},
	}
}

func aluN(sel uint8) microcode {
	return microcode{
		readImm8IntoZ,
		func(s *SoC) {
			aluOp(sel, s.cpu.wz.lo, &s.cpu)
		},
	}
}

func incR(dst uint8) microcode {
	return microcode{
		func(s *SoC) {
			p := r8(&s.cpu, dst)
			*p = s.cpu.incVal(*p)
		},
	}
}

func decR(dst uint8) microcode {
	return microcode{
		func(s *SoC) {
			p := r8(&s.cpu, dst)
			*p = s.cpu.decVal(*p)
		},
	}
}

var incHLInd = microcode{
	func(s *SoC) {
		s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
	},
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.r.hl.get(), s.cpu.incVal(s.cpu.wz.lo))
	},
	func(s *SoC) {},
}

var decHLInd = microcode{
	func(s *SoC) {
		s.cpuReadByte(s.cpu.r.hl.get(), &s.cpu.wz.lo)
	},
	func(s *SoC) {
		s.cpuWriteByte(s.cpu.r.hl.get(), s.cpu.decVal(s.cpu.wz.lo))
	},
	func(s *SoC) {},
}

func incRR(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			setPair(&s.cpu, pair, getPair(&s.cpu, pair)+1)
		},
		func(s *SoC) {},
	}
}

func decRR(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			setPair(&s.cpu, pair, getPair(&s.cpu, pair)-1)
		},
		func(s *SoC) {},
	}
}

// addHLRR is 16-bit ADD HL,rr split across two cycles exactly as the
// 8-bit ALU performs it: low halves first, then high halves with the
// carry relayed through the flags register. Z is untouched; H is the
// carry into bit 12.
func addHLRR(pair uint8) microcode {
	return microcode{
		func(s *SoC) {
			c := &s.cpu
			l := c.r.hl.lo
			rl := uint8(getPair(c, pair))
			c.r.setFlag(flagH, (l&0xF)+(rl&0xF) > 0xF)
			c.r.setFlag(flagC, uint16(l)+uint16(rl) > 0xFF)
			c.r.setFlag(flagN, false)
			c.r.hl.lo = l + rl
		},
		func(s *SoC) {
			c := &s.cpu
			h := c.r.hl.hi
			rh := uint8(getPair(c, pair) >> 8)
			var carry uint8
			if c.r.flag(flagC) {
				carry = 1
			}
			c.r.setFlag(flagH, (h&0xF)+(rh&0xF)+carry > 0xF)
			c.r.setFlag(flagC, uint16(h)+uint16(rh)+uint16(carry) > 0xFF)
			c.r.setFlag(flagN, false)
			c.r.hl.hi = h + rh + carry
		},
	}
}

// daa implements packed-BCD correction after an 8-bit add/sub.
var daa = microcode{
	func(s *SoC) {
		c := &s.cpu
		a := c.r.af.hi
		var adjust uint8
		carry := c.r.flag(flagC)
		if c.r.flag(flagN) {
			if c.r.flag(flagH) {
				adjust += 0x06
			}
			if carry {
				adjust += 0x60
			}
			a -= adjust
		} else {
			if c.r.flag(flagH) || a&0xF > 0x9 {
				adjust += 0x06
			}
			if carry || a > 0x99 {
				adjust += 0x60
				carry = true
			}
			a += adjust
		}
		c.r.af.hi = a
		c.r.setFlag(flagZ, a == 0)
		c.r.setFlag(flagH, false)
		c.r.setFlag(flagC, carry)
	},
}

var cpl = microcode{
	func(s *SoC) {
		s.cpu.r.af.hi = ^s.cpu.r.af.hi
		s.cpu.r.setFlag(flagN, true)
		s.cpu.r.setFlag(flagH, true)
	},
}

var ccf = microcode{
	func(s *SoC) {
		s.cpu.r.setFlag(flagC, !s.cpu.r.flag(flagC))
		s.cpu.r.setFlag(flagN, false)
		s.cpu.r.setFlag(flagH, false)
	},
}

var scf = microcode{
	func(s *SoC) {
		s.cpu.r.setFlag(flagC, true)
		s.cpu.r.setFlag(flagN, false)
		s.cpu.r.setFlag(flagH, false)
	},
}

// writePEToZ adds SP's low byte to the signed offset latched in Z and
// sets H/C from that unsigned byte addition - the documented quirk where
// ADD SP,e and LD HL,SP+e flag the low-byte arithmetic regardless of the
// offset's sign. There is nowhere to keep the offset's sign once Z is
// overwritten, so it is stashed in the N flag for one cycle and cleared
// again by the high-byte step.
func writePEToZ(s *SoC) {
	c := &s.cpu
	p := uint8(c.r.sp)
	z := c.wz.lo
	c.r.setFlag(flagH, (p&0xF)+(z&0xF) > 0xF)
	c.r.setFlag(flagC, uint16(p)+uint16(z) > 0xFF)
	c.r.setFlag(flagN, z&0x80 != 0)
	c.r.setFlag(flagZ, false)
	c.wz.lo = p + z
}

func writeSEToW(s *SoC) {
	c := &s.cpu
	var adj uint8
	if c.r.flag(flagN) {
		adj = 0xFF
	}
	c.r.setFlag(flagN, false)
	var carry uint8
	if c.r.flag(flagC) {
		carry = 1
	}
	c.wz.hi = uint8(c.r.sp>>8) + adj + carry
}

var addSPe = microcode{
	readImm8IntoZ,
	writePEToZ,
	writeSEToW,
	func(s *SoC) {
		s.cpu.r.sp = s.cpu.wz.get()
	},
}

// ldHLSPe performs the same adjusted 16-bit add as addSPe but lands in
// HL directly and takes one cycle less.
var ldHLSPe = microcode{
	readImm8IntoZ,
	func(s *SoC) {
		c := &s.cpu
		p := uint8(c.r.sp)
		z := c.wz.lo
		c.r.setFlag(flagH, (p&0xF)+(z&0xF) > 0xF)
		c.r.setFlag(flagC, uint16(p)+uint16(z) > 0xFF)
		c.r.setFlag(flagN, false)
		c.r.setFlag(flagZ, false)
		c.r.hl.lo = p + z
	},
	func(s *SoC) {
		c := &s.cpu
		var adj uint8
		if c.wz.lo&0x80 != 0 {
			adj = 0xFF
		}
		var carry uint8
		if c.r.flag(flagC) {
			carry = 1
		}
		c.r.hl.hi = uint8(c.r.sp>>8) + adj + carry
	},
}
