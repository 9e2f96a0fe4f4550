package input

import (
	"time"

	"github.com/jeebiecore/go-jeebie/jeebie/backend"
	"github.com/jeebiecore/go-jeebie/jeebie/input/action"
	"github.com/jeebiecore/go-jeebie/jeebie/input/event"
)

// Handler filters raw backend input events before they reach the run
// loop. Actions whose metadata marks them Debounce (the one-shot UI
// toggles) only fire once per debounce window; game input, releases and
// holds always pass through untouched, since the joypad needs every
// edge the player produces.
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  300 * time.Millisecond,
	}
}

// ProcessEvent reports whether an event should be handled; a debounced
// repeat of a one-shot action returns false and is dropped.
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if evt.Type != event.Press {
		return true
	}
	if !action.GetInfo(evt.Action).Debounce {
		return true
	}

	now := time.Now()
	if last, ok := h.lastActionTime[evt.Action]; ok && now.Sub(last) < h.debounceDelay {
		return false
	}
	h.lastActionTime[evt.Action] = now
	return true
}
