package soc

// opcodeTable and cbTable are built once at package init from the small
// per-family builders in cpu_ops_*.go rather than hand-written as 256+256
// near-duplicate functions - the regular LD/ALU/CB blocks follow a fixed
// 3-bit register encoding, so a loop over the encoding reproduces the
// whole block faithfully.
var opcodeTable [256]microcode
var cbTable [256]microcode

func init() {
	buildLoadBlock()
	buildAluBlock()
	buildMiscBlock()
	buildCBTable()
}

// buildLoadBlock fills 0x40-0x7F, the LD r,r' grid, with 0x76 (which
// would otherwise be LD (HL),(HL)) reserved for HALT.
func buildLoadBlock() {
	for op := 0x40; op <= 0x7F; op++ {
		o := uint8(op)
		if o == 0x76 {
			opcodeTable[o] = halt
			continue
		}
		dst := (o >> 3) & 7
		src := o & 7
		switch {
		case dst == 6:
			opcodeTable[o] = ldHLR(uint8(src))
		case src == 6:
			opcodeTable[o] = ldRHL(uint8(dst))
		default:
			opcodeTable[o] = ldRR(uint8(dst), uint8(src))
		}
	}
}

// buildAluBlock fills 0x80-0xBF, the ALU A,r grid.
func buildAluBlock() {
	for op := 0x80; op <= 0xBF; op++ {
		o := uint8(op)
		sel := (o >> 3) & 7
		src := o & 7
		if src == 6 {
			opcodeTable[o] = aluHL(uint8(sel))
		} else {
			opcodeTable[o] = aluR(uint8(sel), uint8(src))
		}
	}
}

func buildCBTable() {
	for op := 0; op <= 0xFF; op++ {
		o := uint8(op)
		sel := (o >> 3) & 7
		reg := o & 7
		switch {
		case o <= 0x3F:
			if reg == 6 {
				cbTable[o] = cbOpHL(uint8(sel))
			} else {
				cbTable[o] = cbOpR(uint8(sel), uint8(reg))
			}
		case o <= 0x7F:
			if reg == 6 {
				cbTable[o] = bitHL(uint8(sel))
			} else {
				cbTable[o] = bitR(uint8(sel), uint8(reg))
			}
		case o <= 0xBF:
			if reg == 6 {
				cbTable[o] = resHL(uint8(sel))
			} else {
				cbTable[o] = resR(uint8(sel), uint8(reg))
			}
		default:
			if reg == 6 {
				cbTable[o] = setHL(uint8(sel))
			} else {
				cbTable[o] = setR(uint8(sel), uint8(reg))
			}
		}
	}
}

// buildMiscBlock fills everything outside the two regular grids: the
// 0x00-0x3F header block, the control-flow/stack column (0xC0-0xFF), and
// the eleven opcodes the hardware never assigns.
func buildMiscBlock() {
	opcodeTable[0x00] = nop
	opcodeTable[0x01] = ldRRNN(0)
	opcodeTable[0x02] = ldIndRRA(0)
	opcodeTable[0x03] = incRR(0)
	opcodeTable[0x04] = incR(0)
	opcodeTable[0x05] = decR(0)
	opcodeTable[0x06] = ldRN(0)
	opcodeTable[0x07] = rlca
	opcodeTable[0x08] = ldIndNNSP
	opcodeTable[0x09] = addHLRR(0)
	opcodeTable[0x0A] = ldAIndRR(0)
	opcodeTable[0x0B] = decRR(0)
	opcodeTable[0x0C] = incR(1)
	opcodeTable[0x0D] = decR(1)
	opcodeTable[0x0E] = ldRN(1)
	opcodeTable[0x0F] = rrca

	opcodeTable[0x10] = stop
	opcodeTable[0x11] = ldRRNN(1)
	opcodeTable[0x12] = ldIndRRA(1)
	opcodeTable[0x13] = incRR(1)
	opcodeTable[0x14] = incR(2)
	opcodeTable[0x15] = decR(2)
	opcodeTable[0x16] = ldRN(2)
	opcodeTable[0x17] = rla
	opcodeTable[0x18] = jrE
	opcodeTable[0x19] = addHLRR(1)
	opcodeTable[0x1A] = ldAIndRR(1)
	opcodeTable[0x1B] = decRR(1)
	opcodeTable[0x1C] = incR(3)
	opcodeTable[0x1D] = decR(3)
	opcodeTable[0x1E] = ldRN(3)
	opcodeTable[0x1F] = rra

	opcodeTable[0x20] = jrCC(0)
	opcodeTable[0x21] = ldRRNN(2)
	opcodeTable[0x22] = ldIndHLIncA
	opcodeTable[0x23] = incRR(2)
	opcodeTable[0x24] = incR(4)
	opcodeTable[0x25] = decR(4)
	opcodeTable[0x26] = ldRN(4)
	opcodeTable[0x27] = daa
	opcodeTable[0x28] = jrCC(1)
	opcodeTable[0x29] = addHLRR(2)
	opcodeTable[0x2A] = ldAIndHLInc
	opcodeTable[0x2B] = decRR(2)
	opcodeTable[0x2C] = incR(5)
	opcodeTable[0x2D] = decR(5)
	opcodeTable[0x2E] = ldRN(5)
	opcodeTable[0x2F] = cpl

	opcodeTable[0x30] = jrCC(2)
	opcodeTable[0x31] = ldRRNN(3)
	opcodeTable[0x32] = ldIndHLDecA
	opcodeTable[0x33] = incRR(3)
	opcodeTable[0x34] = incHLInd
	opcodeTable[0x35] = decHLInd
	opcodeTable[0x36] = ldHLN
	opcodeTable[0x37] = scf
	opcodeTable[0x38] = jrCC(3)
	opcodeTable[0x39] = addHLRR(3)
	opcodeTable[0x3A] = ldAIndHLDec
	opcodeTable[0x3B] = decRR(3)
	opcodeTable[0x3C] = incR(7)
	opcodeTable[0x3D] = decR(7)
	opcodeTable[0x3E] = ldRN(7)
	opcodeTable[0x3F] = ccf

	opcodeTable[0xC0] = retCC(0)
	opcodeTable[0xC1] = pop(0)
	opcodeTable[0xC2] = jpCC(0)
	opcodeTable[0xC3] = jpNN
	opcodeTable[0xC4] = callCC(0)
	opcodeTable[0xC5] = push(0)
	opcodeTable[0xC6] = aluN(0)
	opcodeTable[0xC7] = rst(0x00)
	opcodeTable[0xC8] = retCC(1)
	opcodeTable[0xC9] = ret
	opcodeTable[0xCA] = jpCC(1)
	opcodeTable[0xCB] = prefixCB
	opcodeTable[0xCC] = callCC(1)
	opcodeTable[0xCD] = callNN
	opcodeTable[0xCE] = aluN(1)
	opcodeTable[0xCF] = rst(0x08)

	opcodeTable[0xD0] = retCC(2)
	opcodeTable[0xD1] = pop(1)
	opcodeTable[0xD2] = jpCC(2)
	opcodeTable[0xD4] = callCC(2)
	opcodeTable[0xD5] = push(1)
	opcodeTable[0xD6] = aluN(2)
	opcodeTable[0xD7] = rst(0x10)
	opcodeTable[0xD8] = retCC(3)
	opcodeTable[0xD9] = reti
	opcodeTable[0xDA] = jpCC(3)
	opcodeTable[0xDC] = callCC(3)
	opcodeTable[0xDE] = aluN(3)
	opcodeTable[0xDF] = rst(0x18)

	opcodeTable[0xE0] = ldhIndNA
	opcodeTable[0xE1] = pop(2)
	opcodeTable[0xE2] = ldhIndCA
	opcodeTable[0xE5] = push(2)
	opcodeTable[0xE6] = aluN(4)
	opcodeTable[0xE7] = rst(0x20)
	opcodeTable[0xE8] = addSPe
	opcodeTable[0xE9] = jpHL
	opcodeTable[0xEA] = ldIndNNA
	opcodeTable[0xEE] = aluN(5)
	opcodeTable[0xEF] = rst(0x28)

	opcodeTable[0xF0] = ldhAIndN
	opcodeTable[0xF1] = pop(3)
	opcodeTable[0xF2] = ldhAIndC
	opcodeTable[0xF3] = di
	opcodeTable[0xF5] = push(3)
	opcodeTable[0xF6] = aluN(6)
	opcodeTable[0xF7] = rst(0x30)
	opcodeTable[0xF8] = ldHLSPe
	opcodeTable[0xF9] = ldSPHL
	opcodeTable[0xFA] = ldAIndNN
	opcodeTable[0xFB] = ei
	opcodeTable[0xFE] = aluN(7)
	opcodeTable[0xFF] = rst(0x38)

	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		opcodeTable[op] = unknownOpcode(op)
	}
}
