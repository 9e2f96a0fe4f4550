package cart

import (
	"errors"
	"testing"
)

// makeROM builds a ROM image of the given size with a valid header and
// every byte outside the header stamped with its bank number.
func makeROM(cartType uint8, ramSizeByte uint8, banks int) []byte {
	rom := make([]byte, banks*romBankSize)
	for i := range rom {
		rom[i] = uint8(i / romBankSize)
	}
	copy(rom[titleAddress:], "TESTCART")
	for i := titleAddress + 8; i < titleAddress+titleLength; i++ {
		rom[i] = 0
	}
	rom[cartridgeTypeAddress] = cartType
	rom[ramSizeAddress] = ramSizeByte
	return rom
}

func TestNewRejectsShortROM(t *testing.T) {
	_, err := New(make([]byte, 0x100))
	if !errors.Is(err, ErrBadFile) {
		t.Fatalf("err = %v, want ErrBadFile", err)
	}
}

func TestNewRejectsUnsupportedMBC(t *testing.T) {
	rom := makeROM(0xFC, 0x00, 2) // pocket camera
	_, err := New(rom)
	if !errors.Is(err, ErrBadCart) {
		t.Fatalf("err = %v, want ErrBadCart", err)
	}
}

func TestHeaderTitleParsing(t *testing.T) {
	rom := makeROM(0x00, 0x00, 2)
	mbc, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if mbc.Title() != "TESTCART" {
		t.Fatalf("title = %q, want %q", mbc.Title(), "TESTCART")
	}
}

func TestNoMBCMapsROMStraightThrough(t *testing.T) {
	rom := makeROM(0x00, 0x00, 2)
	mbc, _ := New(rom)

	if got := mbc.ReadROM(0x0000); got != 0 {
		t.Fatalf("ReadROM(0x0000) = 0x%02X, want bank 0", got)
	}
	if got := mbc.ReadROM(0x4000); got != 1 {
		t.Fatalf("ReadROM(0x4000) = 0x%02X, want bank 1", got)
	}

	mbc.WriteROM(0x2000, 0x02) // no banking hardware: must be inert
	if got := mbc.ReadROM(0x4000); got != 1 {
		t.Fatalf("ReadROM(0x4000) after a bank write = 0x%02X, want bank 1 still", got)
	}
	if got := mbc.ReadRAM(0x0000); got != 0xFF {
		t.Fatalf("ReadRAM on a RAM-less cart = 0x%02X, want 0xFF", got)
	}
}

func TestMBC1(t *testing.T) {
	t.Run("bank 0 is fixed", func(t *testing.T) {
		mbc, _ := New(makeROM(0x01, 0x00, 4))
		if got := mbc.ReadROM(0x0150); got != 0 {
			t.Errorf("ReadROM(0x0150) = 0x%02X, want bank 0", got)
		}
	})

	t.Run("switchable bank follows the bank register", func(t *testing.T) {
		mbc, _ := New(makeROM(0x01, 0x00, 4))
		for _, bank := range []uint8{1, 2, 3} {
			mbc.WriteROM(0x2000, bank)
			if got := mbc.ReadROM(0x4000); got != bank {
				t.Errorf("bank %d: ReadROM(0x4000) = 0x%02X", bank, got)
			}
		}
	})

	t.Run("bank register 0 selects bank 1", func(t *testing.T) {
		mbc, _ := New(makeROM(0x01, 0x00, 4))
		mbc.WriteROM(0x2000, 0x00)
		if got := mbc.ReadROM(0x4000); got != 1 {
			t.Errorf("ReadROM(0x4000) with bank register 0 = 0x%02X, want bank 1", got)
		}
	})

	t.Run("RAM requires the enable sequence", func(t *testing.T) {
		mbc, _ := New(makeROM(0x03, 0x03, 4)) // MBC1+RAM+BATTERY, 4 banks

		if got := mbc.ReadRAM(0x0000); got != 0xFF {
			t.Fatalf("read from disabled RAM = 0x%02X, want 0xFF", got)
		}

		mbc.WriteROM(0x0000, 0x0A)
		mbc.WriteRAM(0x0000, 0x42)
		if got := mbc.ReadRAM(0x0000); got != 0x42 {
			t.Fatalf("read after enable = 0x%02X, want 0x42", got)
		}

		mbc.WriteROM(0x0000, 0x00)
		if got := mbc.ReadRAM(0x0000); got != 0xFF {
			t.Fatalf("read after disable = 0x%02X, want 0xFF", got)
		}
	})

	t.Run("RAM banking mode switches banks", func(t *testing.T) {
		mbc, _ := New(makeROM(0x03, 0x03, 4))
		mbc.WriteROM(0x0000, 0x0A) // enable RAM
		mbc.WriteROM(0x6000, 0x01) // RAM banking mode

		mbc.WriteROM(0x4000, 0x00)
		mbc.WriteRAM(0x0000, 0x11)
		mbc.WriteROM(0x4000, 0x01)
		mbc.WriteRAM(0x0000, 0x22)

		mbc.WriteROM(0x4000, 0x00)
		if got := mbc.ReadRAM(0x0000); got != 0x11 {
			t.Errorf("bank 0 read = 0x%02X, want 0x11", got)
		}
		mbc.WriteROM(0x4000, 0x01)
		if got := mbc.ReadRAM(0x0000); got != 0x22 {
			t.Errorf("bank 1 read = 0x%02X, want 0x22", got)
		}
	})
}

func TestMBC3(t *testing.T) {
	t.Run("7-bit ROM bank register", func(t *testing.T) {
		mbc, _ := New(makeROM(0x11, 0x00, 8))
		mbc.WriteROM(0x2000, 0x05)
		if got := mbc.ReadROM(0x4000); got != 5 {
			t.Errorf("ReadROM(0x4000) = 0x%02X, want bank 5", got)
		}
	})

	t.Run("RTC registers respond through the RAM window", func(t *testing.T) {
		mbc, _ := New(makeROM(0x10, 0x03, 8)) // MBC3+TIMER+RAM+BATTERY
		mbc.WriteROM(0x0000, 0x0A)            // enable
		mbc.WriteROM(0x4000, 0x08)            // select RTC seconds
		mbc.WriteRAM(0x0000, 0x3B)

		// latch sequence 0x00 -> 0x01 snapshots the registers
		mbc.WriteROM(0x6000, 0x00)
		mbc.WriteROM(0x6000, 0x01)
		if got := mbc.ReadRAM(0x0000); got != 0x3B {
			t.Errorf("latched RTC seconds = 0x%02X, want 0x3B", got)
		}
	})

	t.Run("RAM banks are independent of the RTC window", func(t *testing.T) {
		mbc, _ := New(makeROM(0x10, 0x03, 8))
		mbc.WriteROM(0x0000, 0x0A)
		mbc.WriteROM(0x4000, 0x02)
		mbc.WriteRAM(0x0010, 0x77)
		mbc.WriteROM(0x4000, 0x08) // RTC window
		mbc.WriteROM(0x4000, 0x02) // back to RAM bank 2
		if got := mbc.ReadRAM(0x0010); got != 0x77 {
			t.Errorf("RAM bank 2 read = 0x%02X, want 0x77", got)
		}
	})
}

func TestMBC5(t *testing.T) {
	t.Run("bank 0 is selectable in the window", func(t *testing.T) {
		mbc, _ := New(makeROM(0x19, 0x00, 4))
		mbc.WriteROM(0x2000, 0x00)
		if got := mbc.ReadROM(0x4000); got != 0 {
			t.Errorf("ReadROM(0x4000) with bank 0 = 0x%02X, want bank 0 (MBC5 allows it)", got)
		}
	})

	t.Run("9-bit bank register", func(t *testing.T) {
		mbc, _ := New(makeROM(0x19, 0x00, 4))
		mbc.WriteROM(0x2000, 0x02)
		if got := mbc.ReadROM(0x4000); got != 2 {
			t.Errorf("ReadROM(0x4000) = 0x%02X, want bank 2", got)
		}
		// bit 8 lands in the 0x3000 register; with only 4 banks it wraps
		mbc.WriteROM(0x3000, 0x01)
		mbc.WriteROM(0x2000, 0x02) // bank 0x102 % 4 = 2
		if got := mbc.ReadROM(0x4000); got != 2 {
			t.Errorf("wrapped bank read = 0x%02X, want 2", got)
		}
	})

	t.Run("16 RAM banks", func(t *testing.T) {
		mbc, _ := New(makeROM(0x1A, 0x04, 4)) // MBC5+RAM, 16 banks
		mbc.WriteROM(0x0000, 0x0A)
		mbc.WriteROM(0x4000, 0x0F)
		mbc.WriteRAM(0x0000, 0x99)
		mbc.WriteROM(0x4000, 0x00)
		if got := mbc.ReadRAM(0x0000); got == 0x99 {
			t.Errorf("bank 0 aliases bank 15")
		}
		mbc.WriteROM(0x4000, 0x0F)
		if got := mbc.ReadRAM(0x0000); got != 0x99 {
			t.Errorf("bank 15 read = 0x%02X, want 0x99", got)
		}
	})
}
