package jeebie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeebiecore/go-jeebie/internal/cart"
	"github.com/jeebiecore/go-jeebie/internal/soc"
)

// testROM builds a minimal headered ROM whose entry point spins in place.
func testROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:], "EMUTEST")
	rom[0x147] = 0x00 // no MBC
	rom[0x100] = 0x18 // JR -2
	rom[0x101] = 0xFE
	return rom
}

func TestNewWithDataRejectsShortImage(t *testing.T) {
	_, err := NewWithData(make([]byte, 0x40))
	require.ErrorIs(t, err, cart.ErrBadFile)
}

func TestStepFrameAdvancesOneFrame(t *testing.T) {
	emu, err := NewWithData(testROM())
	require.NoError(t, err)

	cycles := emu.StepFrame()
	assert.Equal(t, 70224/4, cycles)
	assert.Equal(t, uint64(1), emu.FrameCount())
	assert.NotZero(t, emu.InstructionCount())

	select {
	case err := <-emu.Errors():
		t.Fatalf("unexpected core error: %v", err)
	default:
	}
}

func TestFramebufferDimensions(t *testing.T) {
	emu, err := NewWithData(testROM())
	require.NoError(t, err)
	emu.StepFrame()

	fb := emu.Framebuffer()
	require.NotNil(t, fb)
	assert.Len(t, fb.ToSlice(), soc.FramebufferWidth*soc.FramebufferHeight)
}

func TestTraceReportsFetches(t *testing.T) {
	emu, err := NewWithData(testROM())
	require.NoError(t, err)

	var pcs []uint16
	emu.SetTrace(func(pc uint16, opcode uint8) {
		if len(pcs) < 4 {
			pcs = append(pcs, pc)
		}
	})

	for i := 0; i < 16; i++ {
		emu.Step()
	}
	require.NotEmpty(t, pcs)
	assert.Equal(t, uint16(0x0100), pcs[0])
}

func TestInputForwardsToJoypadRegister(t *testing.T) {
	// The joypad register is not visible from this package: this only
	// checks that a press and release across frames run without error.
	emu, err := NewWithData(testROM())
	require.NoError(t, err)

	emu.PressKey(soc.KeyStart)
	emu.StepFrame()
	emu.ReleaseKey(soc.KeyStart)
	emu.StepFrame()
}

func TestCartridgeAccessorReturnsParsedTitle(t *testing.T) {
	emu, err := NewWithData(testROM())
	require.NoError(t, err)
	assert.Equal(t, "EMUTEST", emu.Cartridge().Title())
}
