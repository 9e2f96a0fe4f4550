package soc

import "testing"

// stepFrames runs whole frames so the framebuffer settles.
func stepFrames(s *SoC, n int) {
	for i := 0; i < n; i++ {
		s.RunOneFrame()
	}
}

func TestVBlankEntryRaisesInterrupt(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	s.ifr = 0

	for i := 0; i < 2*cyclesPerFrame; i++ {
		s.Step()
		if s.ifr&intVBlank != 0 {
			break
		}
	}
	if s.ifr&intVBlank == 0 {
		t.Fatalf("no VBlank interrupt within two frames")
	}
	if s.ppu.ly != 144 {
		t.Fatalf("VBlank interrupt fired at LY=%d, want 144", s.ppu.ly)
	}
}

func TestFramePeriodIs70224Dots(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place

	var entries []int
	count := 0
	for len(entries) < 3 && count < 4*cyclesPerFrame {
		prev := s.ppu.ly
		s.Step()
		count++
		if prev != 144 && s.ppu.ly == 144 {
			entries = append(entries, count)
		}
	}
	if len(entries) < 3 {
		t.Fatalf("saw only %d VBlank entries", len(entries))
	}
	if d := entries[1] - entries[0]; d != cyclesPerFrame {
		t.Fatalf("frame period = %d machine cycles, want %d", d, cyclesPerFrame)
	}
	if d := entries[2] - entries[1]; d != cyclesPerFrame {
		t.Fatalf("frame period = %d machine cycles, want %d", d, cyclesPerFrame)
	}
}

func TestScanlineIs456Dots(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place

	var transitions []int
	count := 0
	for len(transitions) < 4 && count < 2*cyclesPerFrame {
		prev := s.ppu.ly
		s.Step()
		count++
		if s.ppu.ly == prev+1 {
			transitions = append(transitions, count)
		}
	}
	if len(transitions) < 4 {
		t.Fatalf("saw only %d scanline transitions", len(transitions))
	}
	for i := 1; i < len(transitions); i++ {
		if d := transitions[i] - transitions[i-1]; d != 456/dotsPerCycle {
			t.Fatalf("scanline %d lasted %d machine cycles, want %d", i, d, 456/dotsPerCycle)
		}
	}
}

func TestLYCStatInterruptOncePerFrame(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	s.ppu.lyc = 0x42
	s.ppu.lycIntEnabled = true

	s.RunOneFrame() // align away from the mid-frame boot state
	s.ifr = 0

	events := 0
	for i := 0; i < cyclesPerFrame; i++ {
		s.Step()
		if s.ifr&intLCDSTAT != 0 {
			events++
			s.ifr &^= intLCDSTAT
		}
	}
	if events != 1 {
		t.Fatalf("LYC STAT interrupts per frame = %d, want exactly 1", events)
	}
}

func TestSTATSourceAlreadyHighBlocksLYCEdge(t *testing.T) {
	// With the HBlank source selected, the STAT line is already high for
	// most of every visible line, so an LYC match occurring inside HBlank
	// produces no fresh rising edge (STAT blocking).
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	s.ppu.lyc = 0x42
	s.ppu.lycIntEnabled = true
	s.ppu.hblankIntEnabled = true

	s.RunOneFrame()
	s.ifr = 0

	// run one more frame and count STAT interrupts seen with LY=0x42 in
	// HBlank
	matchedDuring := 0
	for i := 0; i < cyclesPerFrame; i++ {
		s.Step()
		if s.ifr&intLCDSTAT != 0 {
			if s.ppu.ly == 0x42 && s.ppu.mode == modeHBlank {
				matchedDuring++
			}
			s.ifr &^= intLCDSTAT
		}
	}
	// LY becomes 0x42 on the last HBlank dot of line 0x41, while the HBlank
	// source still holds the line high, so the match brings no rising edge;
	// the LYC source then keeps the line high into line 0x42's HBlank
	if matchedDuring != 0 {
		t.Fatalf("LYC match inside HBlank produced %d interrupts, STAT blocking requires 0", matchedDuring)
	}
}

func TestSTATWritePulsesInterruptLine(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	s.ifr = 0

	s.ppu.writeSTAT(0x00)
	s.Step()
	if s.ifr&intLCDSTAT == 0 {
		t.Fatalf("writing STAT must pulse the line high and fire one interrupt")
	}
}

func TestBGRenderSolidTile(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	// tile 0: both bitplanes solid, color ID 3 everywhere
	for i := 0; i < 16; i++ {
		s.vram[i] = 0xFF
	}
	// tile map 0x9800 is already all zeros (tile 0)
	s.ppu.bgp = 0xE4 // ID 3 -> shade 3 (black)

	stepFrames(s, 2)

	if got := s.ppu.fb.GetPixel(0, 0); got != palette[3] {
		t.Fatalf("pixel (0,0) = 0x%08X, want black 0x%08X", got, palette[3])
	}
	if got := s.ppu.fb.GetPixel(159, 143); got != palette[3] {
		t.Fatalf("pixel (159,143) = 0x%08X, want black 0x%08X", got, palette[3])
	}
}

func TestSpriteRendersOverBackground(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	// tile 0 stays zero (BG color ID 0 -> white), tile 1 solid
	for i := 16; i < 32; i++ {
		s.vram[i] = 0xFF
	}
	// one sprite at screen (8,0)
	s.oam[0] = 16 // Y
	s.oam[1] = 16 // X
	s.oam[2] = 1  // tile
	s.oam[3] = 0  // attrs
	s.ppu.bgp = 0xE4
	s.ppu.obp0 = 0xE4
	s.ioWrite(regLCDC, 0x93) // BG + OBJ enabled

	stepFrames(s, 2)

	if got := s.ppu.fb.GetPixel(8, 0); got != palette[3] {
		t.Fatalf("sprite pixel (8,0) = 0x%08X, want black", got)
	}
	if got := s.ppu.fb.GetPixel(0, 0); got != palette[0] {
		t.Fatalf("background pixel (0,0) = 0x%08X, want white", got)
	}
	if got := s.ppu.fb.GetPixel(16, 0); got != palette[0] {
		t.Fatalf("pixel right of the sprite (16,0) = 0x%08X, want white", got)
	}
}

func TestSpriteBGPriorityBitHidesBehindColor(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	// BG tile 0 solid color 3; sprite tile 1 solid color 3 with the
	// BG-priority attribute: BG wins wherever its color ID is nonzero
	for i := 0; i < 32; i++ {
		s.vram[i] = 0xFF
	}
	s.oam[0] = 16
	s.oam[1] = 16
	s.oam[2] = 1
	s.oam[3] = 0x80
	s.ppu.bgp = 0xE4  // BG ID 3 -> black
	s.ppu.obp0 = 0x1B // would render ID 3 as white
	s.ioWrite(regLCDC, 0x93)

	stepFrames(s, 2)

	if got := s.ppu.fb.GetPixel(8, 0); got != palette[3] {
		t.Fatalf("pixel (8,0) = 0x%08X, want the BG to win over a behind-BG sprite", got)
	}
}

func TestWindowCoversBackground(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	// BG map (0x9800) uses tile 0 (white); window map (0x9C00) uses tile
	// 1 (solid color 3)
	for i := 16; i < 32; i++ {
		s.vram[i] = 0xFF
	}
	for i := 0x1C00; i < 0x1C00+0x400; i++ {
		s.vram[i] = 1
	}
	s.ppu.bgp = 0xE4
	s.ppu.wx = 7
	s.ppu.wy = 0
	s.ioWrite(regLCDC, 0xF1) // LCD + window enabled, window map 0x9C00

	stepFrames(s, 2)

	if got := s.ppu.fb.GetPixel(0, 0); got != palette[3] {
		t.Fatalf("pixel (0,0) = 0x%08X, want the window tile", got)
	}
	if got := s.ppu.fb.GetPixel(80, 72); got != palette[3] {
		t.Fatalf("pixel (80,72) = 0x%08X, want the window tile", got)
	}
}

func TestOAMScanSelectsAtMostTenObjects(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	for i := 0; i < 12; i++ {
		s.oam[i*4] = 16            // Y: all on line 0
		s.oam[i*4+1] = uint8(8 + i)
	}

	// run to the start of line 0's render phase
	for i := 0; i < 2*cyclesPerFrame; i++ {
		s.Step()
		if s.ppu.ly == 0 && s.ppu.mode == modeRender {
			break
		}
	}
	if s.ppu.ly != 0 || s.ppu.mode != modeRender {
		t.Fatalf("never reached line 0's render phase")
	}
	if s.ppu.curObjs != 10 {
		t.Fatalf("selected objects = %d, want the hardware limit of 10", s.ppu.curObjs)
	}
}

func TestLCDOffForcesLine0HBlank(t *testing.T) {
	s, _ := newTestSoC(0x18, 0xFE) // JR -2: trap the CPU in place
	s.ioWrite(regLCDC, 0x11) // bit 7 clear

	if s.ppu.ly != 0 || s.ppu.mode != modeHBlank {
		t.Fatalf("LCD off must force LY=0 HBlank, got LY=%d mode=%d", s.ppu.ly, s.ppu.mode)
	}

	runCycles(s, 500)
	if s.ppu.ly != 0 {
		t.Fatalf("LY advanced to %d with the LCD off", s.ppu.ly)
	}

	if got := s.ioRead(regSTAT); got&0x03 != 0 {
		t.Fatalf("STAT mode bits = %d with the LCD off, want 0", got&0x03)
	}
}

func TestDeferredIORReadSeesPostCycleState(t *testing.T) {
	// LDH A,(0x04) reads DIV through the deferred path: the value must be
	// the register file's state after every component ticked this cycle.
	// SYS starts 12 dots short of 0xAC02: the read's cycle begins at 0xABFE
	// (DIV 0xAB) and ends at 0xAC02 (DIV 0xAC).
	s, _ := newTestSoC(0xF0, 0x04)
	s.timer.sys = 0xABF6

	runInstructions(s, 1)
	if s.cpu.r.a() != 0xAC {
		t.Fatalf("A = 0x%02X after LDH A,(DIV), want 0xAC (DIV after the cycle)", s.cpu.r.a())
	}
}
