package soc

// JoypadKey enumerates the eight buttons of the controller.
type JoypadKey int

const (
	KeyRight JoypadKey = iota
	KeyLeft
	KeyUp
	KeyDown
	KeyA
	KeyB
	KeySelect
	KeyStart
)

// joypad implements the P1 register. The host sets the pressed flags
// asynchronously; the latched flags are what the register matrix
// actually exposes, and they only follow the pressed state inside the
// joypad's own tick, where a released-to-pressed transition on a
// selected line raises the joypad interrupt.
type joypad struct {
	action bool
	dpad   bool

	start, sel, a, b     bool
	down, up, left, right bool

	startPressed, selPressed, aPressed, bPressed     bool
	downPressed, upPressed, leftPressed, rightPressed bool
}

func (j *joypad) init() {
	j.action, j.dpad = false, false
	j.start, j.sel, j.a, j.b = false, false, false, false
	j.down, j.up, j.left, j.right = false, false, false, false
	j.startPressed, j.selPressed, j.aPressed, j.bPressed = false, false, false, false
	j.downPressed, j.upPressed, j.leftPressed, j.rightPressed = false, false, false, false
}

// read assembles P1: selector bits 5-4 (0 = selected), button lines in
// the low nibble (0 = pressed), upper bits always high.
func (j *joypad) read() uint8 {
	hi := uint8(0x30)
	if j.action {
		hi &^= 0x20
	}
	if j.dpad {
		hi &^= 0x10
	}

	lo := uint8(0x0F)
	if j.action {
		if j.start {
			lo &^= 0x08
		}
		if j.sel {
			lo &^= 0x04
		}
		if j.b {
			lo &^= 0x02
		}
		if j.a {
			lo &^= 0x01
		}
	}
	if j.dpad {
		if j.down {
			lo &^= 0x08
		}
		if j.up {
			lo &^= 0x04
		}
		if j.left {
			lo &^= 0x02
		}
		if j.right {
			lo &^= 0x01
		}
	}

	return 0xC0 | hi | lo
}

func (j *joypad) write(val uint8) {
	j.action = val&0x20 == 0
	j.dpad = val&0x10 == 0
}

func (j *joypad) press(s *SoC, k JoypadKey) {
	j.setPressed(k, true)
}

func (j *joypad) release(s *SoC, k JoypadKey) {
	j.setPressed(k, false)
}

func (j *joypad) setPressed(k JoypadKey, down bool) {
	switch k {
	case KeyRight:
		j.rightPressed = down
	case KeyLeft:
		j.leftPressed = down
	case KeyUp:
		j.upPressed = down
	case KeyDown:
		j.downPressed = down
	case KeyA:
		j.aPressed = down
	case KeyB:
		j.bPressed = down
	case KeySelect:
		j.selPressed = down
	case KeyStart:
		j.startPressed = down
	}
}

// cycle latches the asynchronous pressed flags and fires the joypad
// interrupt for every button whose line was still reading released on a
// selected group.
func (j *joypad) cycle(s *SoC) {
	cur := j.read()

	latch := func(pressed bool, latched *bool, lineHigh bool, selected bool) {
		if pressed {
			*latched = true
			if lineHigh && selected {
				s.requestInterrupt(intJoypad)
			}
		} else {
			*latched = false
		}
	}

	latch(j.startPressed, &j.start, cur&0x08 != 0, j.action)
	latch(j.selPressed, &j.sel, cur&0x04 != 0, j.action)
	latch(j.bPressed, &j.b, cur&0x02 != 0, j.action)
	latch(j.aPressed, &j.a, cur&0x01 != 0, j.action)
	latch(j.downPressed, &j.down, cur&0x08 != 0, j.dpad)
	latch(j.upPressed, &j.up, cur&0x04 != 0, j.dpad)
	latch(j.leftPressed, &j.left, cur&0x02 != 0, j.dpad)
	latch(j.rightPressed, &j.right, cur&0x01 != 0, j.dpad)
}
