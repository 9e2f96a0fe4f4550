package cart

// noMBC backs cartridges with no banking hardware: ROM is mapped straight
// through and there is no external RAM.
type noMBC struct {
	rom   []byte
	title string
}

func newNoMBC(rom []byte, hdr Header) *noMBC {
	return &noMBC{rom: rom, title: hdr.Title}
}

func (m *noMBC) ReadROM(addr uint16) uint8 {
	if int(addr) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[addr]
}

func (m *noMBC) WriteROM(uint16, uint8)    {}
func (m *noMBC) ReadRAM(uint16) uint8      { return 0xFF }
func (m *noMBC) WriteRAM(uint16, uint8)    {}
func (m *noMBC) Title() string             { return m.title }

const romBankSize = 0x4000
const ramBankSize = 0x2000

// mbc1 implements the MBC1 chip: up to 125 switchable 16KB ROM banks and
// up to 4 switchable 8KB RAM banks, with the ROM/RAM banking-mode quirk
// that steals the RAM bank register's 2 bits for the upper ROM bank
// number while in ROM banking mode.
type mbc1 struct {
	rom, ram            []byte
	romBank, ramBank     uint8
	ramEnabled           bool
	bankingMode          uint8
	title                string
}

func newMBC1(rom []byte, hdr Header) *mbc1 {
	return &mbc1{
		rom:     rom,
		ram:     make([]byte, uint32(hdr.RAMBankCount)*ramBankSize),
		romBank: 1,
		title:   hdr.Title,
	}
}

func (m *mbc1) Title() string { return m.title }

func (m *mbc1) romOffset() uint32 {
	bank := uint32(m.romBank)
	if len(m.rom) == 0 {
		return 0
	}
	return (bank * romBankSize) % uint32(len(m.rom))
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	default:
		off := m.romOffset() + uint32(addr-0x4000)
		if int(off) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[off]
	}
}

func (m *mbc1) WriteROM(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = val&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := val & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank &^ 0x1F) | bank
	case addr <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = (m.romBank & 0x1F) | ((val & 0x03) << 5)
		} else {
			m.ramBank = val & 0x03
		}
	case addr <= 0x7FFF:
		m.bankingMode = val & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	}
}

func (m *mbc1) ramOffset(addr uint16) (uint32, bool) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0, false
	}
	bank := uint32(m.ramBank)
	if m.bankingMode == 0 {
		bank = 0
	}
	return (bank*ramBankSize + uint32(addr)) % uint32(len(m.ram)), true
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	off, ok := m.ramOffset(addr)
	if !ok {
		return 0xFF
	}
	return m.ram[off]
}

func (m *mbc1) WriteRAM(addr uint16, val uint8) {
	if off, ok := m.ramOffset(addr); ok {
		m.ram[off] = val
	}
}

// mbc3 implements the MBC3 chip: up to 128 ROM banks, up to 4 RAM banks,
// and a latched real-time-clock register file addressed through the same
// 0xA000-0xBFFF window when the RAM bank register selects 0x08-0x0C.
// The RTC registers are modeled as plain latched bytes - wall-clock
// advancement isn't wired to anything outside the cartridge - but the
// latch/select protocol itself is preserved so titles that merely probe
// for MBC3 behave correctly.
type mbc3 struct {
	rom, ram    []byte
	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	rtc         [5]uint8
	rtcLatched  [5]uint8
	latchStage  uint8
	title       string
}

func newMBC3(rom []byte, hdr Header) *mbc3 {
	return &mbc3{
		rom:     rom,
		ram:     make([]byte, uint32(hdr.RAMBankCount)*ramBankSize),
		romBank: 1,
		title:   hdr.Title,
	}
}

func (m *mbc3) Title() string { return m.title }

func (m *mbc3) romOffset() uint32 {
	if len(m.rom) == 0 {
		return 0
	}
	return (uint32(m.romBank) * romBankSize) % uint32(len(m.rom))
}

func (m *mbc3) ReadROM(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	default:
		off := m.romOffset() + uint32(addr-0x4000)
		if int(off) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[off]
	}
}

func (m *mbc3) WriteROM(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = val&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := val & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramBank = val
	case addr <= 0x7FFF:
		if m.latchStage == 0 && val == 0x00 {
			m.latchStage = 1
		} else if m.latchStage == 1 && val == 0x01 {
			m.rtcLatched = m.rtc
			m.latchStage = 0
		} else {
			m.latchStage = 0
		}
	}
}

func (m *mbc3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
		return m.rtcLatched[m.ramBank-0x08]
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	off := (uint32(m.ramBank)*ramBankSize + uint32(addr)) % uint32(len(m.ram))
	return m.ram[off]
}

func (m *mbc3) WriteRAM(addr uint16, val uint8) {
	if !m.ramEnabled {
		return
	}
	if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
		m.rtc[m.ramBank-0x08] = val
		return
	}
	if len(m.ram) == 0 {
		return
	}
	off := (uint32(m.ramBank)*ramBankSize + uint32(addr)) % uint32(len(m.ram))
	m.ram[off] = val
}

// mbc5 implements the MBC5 chip: a full 9-bit ROM bank number (512 banks,
// no quirky upper-bits stealing) and up to 16 RAM banks. The 0x2000-0x2FFF
// register holds the low 8 ROM bank bits, 0x3000-0x3FFF holds bit 8.
type mbc5 struct {
	rom, ram   []byte
	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	title      string
}

func newMBC5(rom []byte, hdr Header) *mbc5 {
	return &mbc5{
		rom:     rom,
		ram:     make([]byte, uint32(hdr.RAMBankCount)*ramBankSize),
		romBank: 1,
		title:   hdr.Title,
	}
}

func (m *mbc5) Title() string { return m.title }

func (m *mbc5) romOffset() uint32 {
	if len(m.rom) == 0 {
		return 0
	}
	return (uint32(m.romBank) * romBankSize) % uint32(len(m.rom))
}

func (m *mbc5) ReadROM(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	default:
		off := m.romOffset() + uint32(addr-0x4000)
		if int(off) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[off]
	}
}

func (m *mbc5) WriteROM(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = val&0x0F == 0x0A
	case addr <= 0x2FFF:
		m.romBank = (m.romBank &^ 0xFF) | uint16(val)
	case addr <= 0x3FFF:
		m.romBank = (m.romBank & 0xFF) | (uint16(val&0x01) << 8)
	case addr <= 0x5FFF:
		m.ramBank = val & 0x0F
	}
}

func (m *mbc5) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := (uint32(m.ramBank)*ramBankSize + uint32(addr)) % uint32(len(m.ram))
	return m.ram[off]
}

func (m *mbc5) WriteRAM(addr uint16, val uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := (uint32(m.ramBank)*ramBankSize + uint32(addr)) % uint32(len(m.ram))
	m.ram[off] = val
}
