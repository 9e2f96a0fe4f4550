package audio

import "testing"

func TestStubRoundTripsRegisters(t *testing.T) {
	s := NewStub()

	s.WriteRegister(regNR10, 0x7F)
	if got := s.ReadRegister(regNR10); got != 0x7F {
		t.Fatalf("NR10 = 0x%02X, want 0x7F", got)
	}

	s.WriteRegister(waveRAMStart+3, 0xAB)
	if got := s.ReadRegister(waveRAMStart + 3); got != 0xAB {
		t.Fatalf("wave RAM[3] = 0x%02X, want 0xAB", got)
	}

	if got := s.ReadRegister(0xFF00); got != 0xFF {
		t.Fatalf("out-of-range read = 0x%02X, want 0xFF", got)
	}

	s.Tick(100) // must not panic
}
