// Command jeebie is the command-line front end: it loads a ROM, picks a
// backend (terminal, sdl2, or headless) and drives the emulator loop.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jeebiecore/go-jeebie/internal/cart"
	"github.com/jeebiecore/go-jeebie/internal/soc"
	"github.com/jeebiecore/go-jeebie/jeebie"
	"github.com/jeebiecore/go-jeebie/jeebie/backend"
	"github.com/jeebiecore/go-jeebie/jeebie/backend/headless"
	"github.com/jeebiecore/go-jeebie/jeebie/backend/sdl2"
	"github.com/jeebiecore/go-jeebie/jeebie/backend/terminal"
	"github.com/jeebiecore/go-jeebie/jeebie/input/action"
	"github.com/jeebiecore/go-jeebie/jeebie/input/event"
	"github.com/jeebiecore/go-jeebie/jeebie/timing"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "Jeebie"
	app.Description = "A simple gameboy emulator"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.BoolFlag{
			Name:  "sdl2",
			Usage: "Use the SDL2 windowed backend instead of the terminal one",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		if errors.Is(err, cart.ErrBadCart) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := jeebie.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}

		return runLoop(emu, headless.New(frames, snapshotConfig), timing.NewNoOpLimiter())
	}

	if c.Bool("sdl2") {
		return runLoop(emu, sdl2.New(), timing.NewCycleLimiter())
	}
	return runLoop(emu, terminal.New(), timing.NewCycleLimiter())
}

// runLoop drives one backend against one emulator until the backend signals
// quit. The limiter paces wall time to the machine cycles each frame
// actually consumed, so emulated and real time stay in lockstep.
func runLoop(emu *jeebie.Emulator, be backend.Backend, limiter timing.Limiter) error {
	config := backend.BackendConfig{Title: "Jeebie", Scale: 2}
	if err := be.Init(config); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer be.Cleanup()

	for {
		cycles := emu.StepFrame()

		events, err := be.Update(emu.Framebuffer())
		if err != nil {
			return err
		}

		for _, evt := range events {
			if evt.Action == action.EmulatorQuit {
				return nil
			}
			if key, ok := joypadKey(evt.Action); ok {
				dispatchKey(emu, key, evt)
			}
		}

		select {
		case err := <-emu.Errors():
			return err
		default:
		}

		limiter.Synchronize(cycles)
	}
}

func joypadKey(act action.Action) (soc.JoypadKey, bool) {
	switch act {
	case action.GBButtonA:
		return soc.KeyA, true
	case action.GBButtonB:
		return soc.KeyB, true
	case action.GBButtonStart:
		return soc.KeyStart, true
	case action.GBButtonSelect:
		return soc.KeySelect, true
	case action.GBDPadUp:
		return soc.KeyUp, true
	case action.GBDPadDown:
		return soc.KeyDown, true
	case action.GBDPadLeft:
		return soc.KeyLeft, true
	case action.GBDPadRight:
		return soc.KeyRight, true
	default:
		return 0, false
	}
}

func dispatchKey(emu *jeebie.Emulator, key soc.JoypadKey, evt backend.InputEvent) {
	if evt.Type == event.Release {
		emu.ReleaseKey(key)
		return
	}
	emu.PressKey(key)
}
