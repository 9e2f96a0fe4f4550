package soc

// dma implements OAM DMA: writing FF46 latches the source page, an 8-dot
// (2 machine cycle) delay follows, then one byte per machine cycle is
// copied from (reg<<8)+i to OAM[i] for i in 0..159.
type dma struct {
	reg       uint8
	requested int
	pending   int
}

func (d *dma) init() {
	d.reg = 0
	d.requested = 0
	d.pending = 0
}

func (d *dma) request(val uint8) {
	d.reg = val
	d.requested = 2
}

func (d *dma) active() bool {
	return d.pending > 0
}

// sourceIsVideoBus reports whether the DMA's current source byte lives in
// VRAM (0x8000-0x9FFF), which determines which bus DMA claims this cycle.
func (d *dma) sourceIsVideoBus() bool {
	return d.reg >= 0x80 && d.reg <= 0x9F
}

func (d *dma) currentSource() uint16 {
	offset := uint16(160 - d.pending)
	return uint16(d.reg)<<8 + offset
}

func (d *dma) cycle(s *SoC) {
	// a restarted transfer keeps copying from the old source until the
	// new request's delay elapses
	if d.requested > 0 {
		d.requested--
		if d.requested == 0 {
			d.pending = 160
			return
		}
	}
	if d.pending == 0 {
		return
	}

	src := d.currentSource()
	var b uint8
	switch {
	case src <= 0x7FFF:
		b = s.extBusRead(src, ownerDMA)
	case src <= 0x9FFF:
		b = s.vidBusRead(src, ownerDMA)
	default:
		b = s.extBusRead(src, ownerDMA)
	}

	dst := uint16(160 - d.pending)
	s.oamBusWrite(0xFE00+dst, b, ownerDMA)
	d.pending--
}
