package soc

// timer implements the DIV/TIMA/TMA/TAC subsystem: a free-running 16-bit
// SYS counter clocked at the dot rate whose upper byte is DIV, and a TIMA
// that increments on the falling edge of a TAC-selected SYS bit. CPU
// writes to DIV and TIMA are latched as requests and applied inside the
// timer's own tick, so the falling-edge detector sees them exactly like
// the hardware does.
type timer struct {
	sys uint16

	tima, tma, tac uint8

	// overflow counts the remaining dots in which TIMA reads 0 after an
	// overflow, before the TMA reload and interrupt land.
	overflow int

	divWrite      bool
	timaWrite     bool
	timaWriteData uint8

	// timaWritesIgnored covers the machine cycle right after the TMA
	// reload, where CPU stores to TIMA are dropped on the floor.
	timaWritesIgnored int

	oldTAC uint8
}

// freqBit maps TAC's low two bits to the SYS bit the falling-edge
// detector watches: 4096, 262144, 65536, 16384 Hz.
var freqBit = [4]uint{9, 3, 5, 7}

func (t *timer) init() {
	t.sys = 0x1800
	t.tima = 0
	t.tma = 0
	t.tac = 0xF8
	t.overflow = 0
	t.divWrite = false
	t.timaWrite = false
	t.timaWritesIgnored = 0
	t.oldTAC = t.tac
}

func (t *timer) readDIV() uint8 {
	return uint8(t.sys >> 8)
}

func (t *timer) writeDIV() {
	t.divWrite = true
}

// writeTMA stores the new modulo; during the post-reload ignore window
// TIMA is effectively hard-wired to TMA, so it is updated too.
func (t *timer) writeTMA(val uint8) {
	t.tma = val
	if t.timaWritesIgnored > 0 {
		t.tima = val
	}
}

// writeTAC can synthesize a spurious TIMA tick: changing the clock
// selector or disabling the timer while the selected bit is set trips
// the falling-edge detector on the next tick.
func (t *timer) writeTAC(val uint8) {
	t.oldTAC = t.tac
	t.tac = val | 0xF8
}

func (t *timer) writeTIMA(val uint8) {
	t.timaWrite = true
	t.timaWriteData = val
}

func (t *timer) enabled(tac uint8) bool {
	return tac&0x04 != 0
}

// cycle advances the timer by one machine cycle's worth of dot ticks.
func (t *timer) cycle(s *SoC) {
	for i := 0; i < dotsPerCycle; i++ {
		t.tickDot(s)
	}
}

// tickDot is one dot of timer work.
func (t *timer) tickDot(s *SoC) {
	oldSys := t.sys
	if t.divWrite {
		t.sys = 0
		t.divWrite = false
	}
	t.sys++

	oldTIMA := t.tima

	if t.timaWritesIgnored > 0 {
		t.timaWritesIgnored--
		t.timaWrite = false
	}

	if t.overflow > 0 {
		t.overflow--
		if t.overflow == 0 {
			t.tima = t.tma
			t.timaWritesIgnored = 3
			s.requestInterrupt(intTimer)
		}
	} else {
		bit := freqBit[t.tac&0x03]
		if t.enabled(t.tac) {
			oldBit := freqBit[t.oldTAC&0x03]
			if oldSys&(1<<oldBit) != 0 && t.sys&(1<<bit) == 0 {
				t.tima++
			}
		} else if t.enabled(t.oldTAC) && t.sys&(1<<bit) != 0 {
			// just disabled with the selected bit high: the edge
			// detector sees its input drop and ticks once more
			t.tima++
		}
	}

	if t.timaWrite {
		t.tima = t.timaWriteData
		t.timaWrite = false
		t.overflow = 0
	} else if oldTIMA&0x80 != 0 && t.tima&0x80 == 0 {
		// TIMA rolled 0xFF -> 0x00: it stays at 0 for 3 more dots
		// before the TMA reload and the interrupt land
		t.overflow = 3
	}

	t.oldTAC = t.tac
}
