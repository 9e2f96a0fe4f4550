package soc

// cpuReadByte routes a CPU-issued read to the correct bus/region. HRAM and
// IE are read immediately; the 0xFF00-0xFF7F I/O register block is
// deferred until every component has ticked this cycle, since PPU/timer/
// joypad can still mutate those registers later in the same cycle -
// mirrors soc_internal_read's immediate/deferred split.
func (s *SoC) cpuReadByte(addr uint16, dest *uint8) {
	switch {
	case addr <= 0x7FFF:
		*dest = s.extBusRead(addr, ownerCPU)
	case addr <= 0x9FFF:
		*dest = s.vidBusRead(addr, ownerCPU)
	case addr <= 0xFDFF:
		*dest = s.extBusRead(addr, ownerCPU)
	case addr <= 0xFE9F:
		*dest = s.oamBusRead(addr, ownerCPU)
	case addr <= 0xFEFF:
		*dest = 0xFF
	case addr == regIE:
		*dest = s.ie
	case addr >= 0xFF80:
		*dest = s.hram[addr-0xFF80]
	default:
		s.pendingRead = true
		s.pendingAddr = addr
		s.pendingDest = dest
	}
}

func (s *SoC) cpuWriteByte(addr uint16, val uint8) {
	switch {
	case addr <= 0x7FFF:
		s.extBusWrite(addr, val, ownerCPU)
	case addr <= 0x9FFF:
		s.vidBusWrite(addr, val, ownerCPU)
	case addr <= 0xFDFF:
		s.extBusWrite(addr, val, ownerCPU)
	case addr <= 0xFE9F:
		s.oamBusWrite(addr, val, ownerCPU)
	case addr <= 0xFEFF:
		// unusable, dropped
	case addr == regIE:
		s.ie = val
	case addr >= 0xFF80:
		s.hram[addr-0xFF80] = val
	default:
		s.ioWrite(addr, val)
	}
}

// ioRead resolves a deferred 0xFF00-0xFF7F register read.
func (s *SoC) ioRead(addr uint16) uint8 {
	switch addr {
	case regP1:
		return s.jp.read()
	case regSB, regSC:
		return s.Serial.Read(addr)
	case regDIV:
		return s.timer.readDIV()
	case regTIMA:
		return s.timer.tima
	case regTMA:
		return s.timer.tma
	case regTAC:
		return s.timer.tac | 0xF8
	case regIF:
		return s.ifr | 0xE0
	case regLCDC:
		return s.ppu.lcdc
	case regSTAT:
		return s.ppu.readSTAT()
	case regSCY:
		return s.ppu.scy
	case regSCX:
		return s.ppu.scx
	case regLY:
		return s.ppu.ly
	case regLYC:
		return s.ppu.lyc
	case regDMA:
		return s.dma.reg
	case regBGP:
		return s.ppu.bgp
	case regOBP0:
		return s.ppu.obp0
	case regOBP1:
		return s.ppu.obp1
	case regWY:
		return s.ppu.wy
	case regWX:
		return s.ppu.wx
	}
	if addr >= regNR10Start && addr <= waveRAMEnd {
		return s.Audio.ReadRegister(addr)
	}
	return 0xFF
}

func (s *SoC) ioWrite(addr uint16, val uint8) {
	switch addr {
	case regP1:
		s.jp.write(val)
	case regSB, regSC:
		s.Serial.Write(addr, val)
	case regDIV:
		s.timer.writeDIV()
	case regTIMA:
		s.timer.writeTIMA(val)
	case regTMA:
		s.timer.writeTMA(val)
	case regTAC:
		s.timer.writeTAC(val)
	case regIF:
		s.ifr = val & 0x1F
	case regLCDC:
		s.ppu.writeLCDC(val)
	case regSTAT:
		s.ppu.writeSTAT(val)
	case regSCY:
		s.ppu.scy = val
	case regSCX:
		s.ppu.scx = val
	case regLY:
		// read-only
	case regLYC:
		s.ppu.lyc = val
	case regDMA:
		s.dma.request(val)
	case regBGP:
		s.ppu.bgp = val
	case regOBP0:
		s.ppu.obp0 = val
	case regOBP1:
		s.ppu.obp1 = val
	case regWY:
		s.ppu.wy = val
	case regWX:
		s.ppu.wx = val
	default:
		if addr >= regNR10Start && addr <= waveRAMEnd {
			s.Audio.WriteRegister(addr, val)
		}
	}
}
