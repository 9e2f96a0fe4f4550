package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jeebiecore/go-jeebie/internal/soc"
	"github.com/jeebiecore/go-jeebie/jeebie/backend"
	"github.com/jeebiecore/go-jeebie/jeebie/backend/terminal/render"
	"github.com/jeebiecore/go-jeebie/jeebie/input"
	"github.com/jeebiecore/go-jeebie/jeebie/input/action"
	"github.com/jeebiecore/go-jeebie/jeebie/input/event"
)

const (
	width  = soc.FramebufferWidth
	height = soc.FramebufferHeight

	minTermWidth  = width + 2
	minTermHeight = height/2 + 2

	// keyTimeout is slightly longer than a typical key repeat interval, so a
	// held key reads as Hold rather than a rapid Press/Release stream.
	keyTimeout = 100 * time.Millisecond
)

// Backend implements the Backend interface using tcell for terminal
// rendering: the game screen only, no register/disassembly/log panels.
type Backend struct {
	screen     tcell.Screen
	running    bool
	config     backend.BackendConfig
	eventQueue []backend.InputEvent

	keyStates  map[action.Action]time.Time
	activeKeys map[action.Action]bool
	handler    *input.Handler
}

// New creates a new terminal backend.
func New() *Backend {
	return &Backend{}
}

// Init initializes the terminal backend.
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)
	t.handler = input.NewHandler()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.screen = screen
	t.running = true
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	slog.Info("terminal backend initialized")
	return nil
}

// Update renders a frame and processes events.
func (t *Backend) Update(frame *soc.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	currentlyActive := make(map[action.Action]bool)
	for act, lastPressed := range t.keyStates {
		info := action.GetInfo(act)
		if info.Category != action.CategoryGameInput {
			continue
		}

		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true
			if !t.activeKeys[act] {
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			} else {
				events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		} else {
			delete(t.keyStates, act)
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	if len(t.eventQueue) > 0 {
		events = append(events, t.eventQueue...)
		t.eventQueue = nil
	}

	// drop debounced repeats of one-shot UI actions; terminal key repeat
	// would otherwise toggle pause/debug several times per keypress
	filtered := events[:0]
	for _, evt := range events {
		if t.handler.ProcessEvent(evt) {
			filtered = append(filtered, evt)
		}
	}
	events = filtered

	if !t.running {
		return events, nil
	}

	t.render(frame)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources.
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.running = false
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if act, exists := keyMapping[ev.Key()]; exists {
		t.dispatchAction(act, now)
		return
	}
	if ev.Key() == tcell.KeyRune {
		if act, exists := runeMapping[ev.Rune()]; exists {
			t.dispatchAction(act, now)
		}
	}
}

func (t *Backend) dispatchAction(act action.Action, now time.Time) {
	if act == action.EmulatorQuit {
		t.running = false
	}

	info := action.GetInfo(act)
	if info.Category != action.CategoryGameInput {
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
		return
	}

	if act == action.GBDPadUp || act == action.GBDPadDown ||
		act == action.GBDPadLeft || act == action.GBDPadRight {
		delete(t.keyStates, action.GBDPadUp)
		delete(t.keyStates, action.GBDPadDown)
		delete(t.keyStates, action.GBDPadLeft)
		delete(t.keyStates, action.GBDPadRight)
	}
	t.keyStates[act] = now
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings.
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
}

// tcellRuneNameMap converts runes to key names used in default mappings.
var tcellRuneNameMap = map[rune]string{
	'z': "z",
	'x': "x",
	'w': "w",
	's': "s",
	'a': "a",
	'd': "d",
	'p': "p",
	'q': "q",
	' ': "Space",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for r, keyName := range tcellRuneNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[r] = act
		}
	}
	return mapping
}

var keyMapping = buildKeyMapping()
var runeMapping = buildRuneMapping()

func (t *Backend) render(frame *soc.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, style)
		}
		return
	}

	t.screen.Clear()

	pixels := frame.ToSlice()
	shadeColors := []tcell.Color{tcell.ColorBlack, tcell.ColorGray, tcell.ColorSilver, tcell.ColorWhite}

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			topShade := render.PixelToShade(pixels[y*width+x])
			bottomShade := 3
			if y+1 < height {
				bottomShade = render.PixelToShade(pixels[(y+1)*width+x])
			}

			char := render.GetHalfBlockChar(topShade, bottomShade)
			fg, bg := shadeColors[topShade], tcell.ColorDefault
			if topShade != bottomShade {
				bg = shadeColors[bottomShade]
			}

			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			t.screen.SetContent(x+1, y/2+1, char, nil, style)
		}
	}

	helpStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	helpText := " Q/Esc=quit "
	for i, ch := range helpText {
		if i < termWidth {
			t.screen.SetContent(i, termHeight-1, ch, nil, helpStyle)
		}
	}
}
