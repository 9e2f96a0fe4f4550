package soc

// PPU modes; the low two bits match STAT bits 0-1.
const (
	modeHBlank  uint8 = 0
	modeVBlank  uint8 = 1
	modeOAMScan uint8 = 2
	modeRender  uint8 = 3
)

// objEntry is one slot of the 10-entry sprite store filled during OAM
// scan: the object's raw X coordinate (screen X + 8), its OAM index and
// the row of the sprite this scanline crosses.
type objEntry struct {
	xPos    int
	tileRow int
	objIdx  int
}

// ppu is the dot-accurate pixel processing unit: mode state machine, OAM
// scan, BG/window/sprite fetcher, the two pixel FIFOs and the pusher.
type ppu struct {
	lcdc uint8
	mode uint8

	// remaining dots to waste before the current mode does more work
	cyclesToWaste int

	ly, lyc  uint8
	scx, scy uint8
	bgp      uint8
	obp0     uint8
	obp1     uint8
	wx, wy   uint8

	lycIntEnabled    bool
	oamIntEnabled    bool
	vblankIntEnabled bool
	hblankIntEnabled bool

	objs      [10]objEntry
	curOAMIdx int
	curObjs   int

	fetcherMode        uint8
	spriteFetch        bool
	curFetchedObj      int
	curFetchedObjAttrs uint8
	nextObjToCheck     int

	// bgQueue is the background FIFO; bgQueueIdx is its head, and the
	// queue is empty exactly when the index is 8. The object queue has
	// no index: it shifts a transparent pixel in from the right every
	// push.
	bgQueue    [8]uint8
	objQueue   [8]uint8
	objAttrs   [8]uint8
	bgQueueIdx int

	tmpReg     [8]uint8
	tmpRegFull bool

	lx           int
	fetcherX     int
	curTileID    uint8
	curTileLow   uint8
	curTileHigh  uint8
	spriteHit    bool
	renderCycles int

	windowActive bool
	windowLine   int

	// the two STAT sources; their OR drives the interrupt line, and a
	// rising edge of that line fires the STAT interrupt (STAT blocking).
	statMode bool
	statLYC  bool

	// statWritten pulses the mode source high for one dot after any
	// write to the STAT register, as the hardware does.
	statWritten bool

	nextMode uint8

	fb FrameBuffer
}

func (p *ppu) init() {
	p.lcdc = 0x91

	// the PPU comes out of the boot ROM mid-VBlank
	p.mode = modeVBlank
	p.cyclesToWaste = 455
	p.ly = 145
	p.nextMode = p.mode

	p.lyc = 0
	p.scx, p.scy = 0, 0
	p.bgp = 0xFC
	p.obp0, p.obp1 = 0xFF, 0xFF
	p.wx, p.wy = 0, 0

	p.lycIntEnabled = false
	p.oamIntEnabled = false
	p.vblankIntEnabled = false
	p.hblankIntEnabled = false

	p.statMode, p.statLYC = false, false
	p.statWritten = false

	p.fb.fill(0)
}

func (p *ppu) lcdOn() bool {
	return p.lcdc&0x80 != 0
}

func (p *ppu) readSTAT() uint8 {
	ret := uint8(0x80)
	if p.lcdOn() {
		ret |= p.mode
	}
	if p.ly == p.lyc {
		ret |= 1 << 2
	}
	if p.hblankIntEnabled {
		ret |= 1 << 3
	}
	if p.vblankIntEnabled {
		ret |= 1 << 4
	}
	if p.oamIntEnabled {
		ret |= 1 << 5
	}
	if p.lycIntEnabled {
		ret |= 1 << 6
	}
	return ret
}

// writeSTAT latches the four interrupt selectors and pulses the internal
// mode line high for one dot, which can itself fire a spurious STAT
// interrupt.
func (p *ppu) writeSTAT(val uint8) {
	p.hblankIntEnabled = val&0x08 != 0
	p.vblankIntEnabled = val&0x10 != 0
	p.oamIntEnabled = val&0x20 != 0
	p.lycIntEnabled = val&0x40 != 0
	p.statWritten = true
}

// writeLCDC turns the LCD off by forcing LY to 0 in HBlank with both
// STAT sources cleared; re-enabling resumes from there.
func (p *ppu) writeLCDC(val uint8) {
	if val&0x80 == 0 {
		p.ly = 0
		p.mode = modeHBlank
		p.nextMode = modeHBlank
		p.cyclesToWaste = 1
		p.statMode, p.statLYC = false, false
		p.windowLine = 0
	}
	p.lcdc = val
}

func bgEnabled(lcdc uint8) bool      { return lcdc&0x01 != 0 }
func objEnabled(lcdc uint8) bool     { return lcdc&0x02 != 0 }
func objTall(lcdc uint8) bool        { return lcdc&0x04 != 0 }
func bgTileMapHi(lcdc uint8) bool    { return lcdc&0x08 != 0 }
func unsignedTiles(lcdc uint8) bool  { return lcdc&0x10 != 0 }
func windowEnabled(lcdc uint8) bool  { return lcdc&0x20 != 0 }
func winTileMapHi(lcdc uint8) bool   { return lcdc&0x40 != 0 }

// cycle advances the PPU by one machine cycle (4 dots).
func (p *ppu) cycle(s *SoC) {
	for i := 0; i < dotsPerCycle; i++ {
		p.tickDot(s)
	}
}

// tickDot is one dot of PPU work. Bus
// priorities are refreshed right after a mode switch so this dot's own
// VRAM/OAM reads see the mode just entered; the CPU and DMA already made
// their accesses for this machine cycle under the priorities computed at
// its start.
func (p *ppu) tickDot(s *SoC) {
	if !p.lcdOn() {
		return
	}

	oldStat := p.statMode || p.statLYC

	p.prepareModeSwitch(s)
	s.calculateBusPriorities()

	if p.statWritten {
		p.statMode = true
		p.statWritten = false
	} else {
		p.calculateStatMode()
	}

	switch p.mode {
	case modeHBlank:
		p.tickHBlank()
	case modeVBlank:
		p.tickVBlank()
	case modeOAMScan:
		p.tickOAMScan(s)
	case modeRender:
		p.tickRender(s)
	}

	p.statLYC = p.lycIntEnabled && p.ly == p.lyc

	if stat := p.statMode || p.statLYC; stat && !oldStat {
		s.requestInterrupt(intLCDSTAT)
	}
}

// calculateStatMode drives the mode source of the STAT line. Entering
// VBlank also honors the OAM selector, a hardware errata kept on
// purpose.
func (p *ppu) calculateStatMode() {
	switch p.mode {
	case modeHBlank:
		p.statMode = p.hblankIntEnabled
	case modeVBlank:
		p.statMode = p.vblankIntEnabled || p.oamIntEnabled
	case modeOAMScan:
		p.statMode = p.oamIntEnabled
	default:
		p.statMode = false
	}
}

func (p *ppu) prepareModeSwitch(s *SoC) {
	if p.mode == p.nextMode {
		return
	}
	switch p.nextMode {
	case modeHBlank:
		p.goToHBlank()
	case modeVBlank:
		s.requestInterrupt(intVBlank)
		p.goToVBlank()
	case modeOAMScan:
		p.goToOAMScan()
	case modeRender:
		p.goToRender()
	}
}

func (p *ppu) goToOAMScan() {
	p.mode = modeOAMScan
	p.cyclesToWaste = 0
	p.curOAMIdx = 0
	p.curObjs = 0
}

func (p *ppu) goToRender() {
	p.mode = modeRender
	p.fetcherMode = fetchTileID
	p.spriteFetch = false
	p.cyclesToWaste = 1
	p.curFetchedObj = 0
	p.nextObjToCheck = 0
	p.bgQueueIdx = 8
	p.tmpRegFull = false
	p.lx = 0
	p.fetcherX = -1
	p.spriteHit = false
	p.renderCycles = 0
	p.windowActive = false

	for i := range p.objQueue {
		p.objQueue[i] = 0
		p.objAttrs[i] = 0
	}
}

// goToHBlank pads the line out to exactly 456 dots: OAM scan plus the
// render phase have consumed 79+renderCycles of them, the final HBlank
// dot increments LY, and the rest is waste.
func (p *ppu) goToHBlank() {
	p.mode = modeHBlank
	p.cyclesToWaste = 376 - p.renderCycles
	if p.cyclesToWaste < 0 {
		p.cyclesToWaste = 0
	}
	if p.windowActive {
		p.windowLine++
	}
}

func (p *ppu) goToVBlank() {
	p.mode = modeVBlank
	p.cyclesToWaste = 455
}

func (p *ppu) tickHBlank() {
	if p.cyclesToWaste > 0 {
		p.cyclesToWaste--
		return
	}
	if int(p.ly)+1 > 143 {
		p.nextMode = modeVBlank
	} else {
		p.nextMode = modeOAMScan
	}
	p.ly++
}

func (p *ppu) tickVBlank() {
	if p.cyclesToWaste > 0 {
		p.cyclesToWaste--
		return
	}
	p.ly++
	if p.ly > 153 {
		p.ly = 0
		p.windowLine = 0
		p.nextMode = modeOAMScan
	} else {
		p.cyclesToWaste = 455
	}
}

// tickOAMScan examines one OAM entry every two dots and collects up to
// ten objects whose Y range crosses this scanline.
func (p *ppu) tickOAMScan(s *SoC) {
	if p.cyclesToWaste > 0 {
		p.cyclesToWaste--
		return
	}

	base := uint16(0xFE00 + p.curOAMIdx*4)
	objY := int(s.oamBusRead(base, ownerPPU)) - 16

	objSize := 8
	if objTall(p.lcdc) {
		objSize = 16
	}

	if p.curObjs < 10 && int(p.ly) >= objY && int(p.ly) < objY+objSize {
		p.objs[p.curObjs] = objEntry{
			xPos:    int(s.oamBusRead(base+1, ownerPPU)),
			tileRow: int(p.ly) - objY,
			objIdx:  p.curOAMIdx,
		}
		p.curObjs++
	}

	p.curOAMIdx++
	if p.curOAMIdx > 39 {
		p.nextMode = modeRender
	} else {
		p.cyclesToWaste = 1
	}
}

// tickRender clocks the pusher (when the BG queue has pixels and no
// sprite fetch is stalling it), then the fetcher, then the sprite
// matchers for the current LX.
func (p *ppu) tickRender(s *SoC) {
	if p.bgQueueIdx < 8 && !p.spriteHit {
		p.pushPixel()
	}

	p.tickFetcher(s)

	p.checkWindowStart()

	for i := p.nextObjToCheck; i < p.curObjs && !p.spriteHit; i++ {
		if p.objs[i].xPos == p.lx {
			p.curFetchedObj = i
			p.nextObjToCheck = i + 1
			p.spriteHit = true
		}
	}

	p.renderCycles++

	if p.lx > 167 {
		p.nextMode = modeHBlank
	}
}

// checkWindowStart commandeers the fetcher for the window layer once the
// pusher reaches WX on a line at or below WY. The BG queue is dropped
// and refills from the window tile map.
func (p *ppu) checkWindowStart() {
	if p.windowActive || !windowEnabled(p.lcdc) {
		return
	}
	if int(p.ly) < int(p.wy) || p.wx > 166 {
		return
	}
	if p.lx < int(p.wx)+1 {
		return
	}
	p.windowActive = true
	p.bgQueueIdx = 8
	p.tmpRegFull = false
	if !p.spriteFetch {
		p.fetcherMode = fetchTileID
		p.cyclesToWaste = 0
	}
	p.fetcherX = 0
}

func (p *ppu) shiftObjQueues() {
	copy(p.objQueue[:], p.objQueue[1:])
	copy(p.objAttrs[:], p.objAttrs[1:])
	p.objQueue[7] = 0
	p.objAttrs[7] = 0
}

// pushPixel mixes the heads of the two queues into one screen pixel.
// The first 8 LX values are offscreen prefetch; while LX is still 0 the
// pusher additionally discards pixels until the queue head has consumed
// SCX mod 8 entries, producing the fine horizontal scroll.
func (p *ppu) pushPixel() {
	oldIdx := p.bgQueueIdx
	bgColor := p.bgQueue[p.bgQueueIdx]
	p.bgQueueIdx++

	colorID := uint8(0)
	pal := p.bgp
	if bgEnabled(p.lcdc) {
		colorID = bgColor
	}

	if objEnabled(p.lcdc) {
		objColor := p.objQueue[0]
		objAttr := p.objAttrs[0]
		p.shiftObjQueues()
		if objColor != 0 && !(objAttr&0x80 != 0 && bgColor != 0) {
			colorID = objColor
			if objAttr&0x10 != 0 {
				pal = p.obp1
			} else {
				pal = p.obp0
			}
		}
	}

	if p.lx == 0 && int(p.scx%8) != oldIdx {
		return
	}

	if p.lx >= 8 {
		shade := (pal >> (colorID * 2)) & 0x03
		p.fb.set(p.lx-8, int(p.ly), shade)
	}

	p.lx++
	p.nextObjToCheck = 0
}
