package backend

import (
	"github.com/jeebiecore/go-jeebie/internal/soc"
	"github.com/jeebiecore/go-jeebie/jeebie/input/action"
	"github.com/jeebiecore/go-jeebie/jeebie/input/event"
)

// InputEvent represents an input event from a backend
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Backend represents a complete emulator platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Capturing platform-specific input events and returning them as InputEvents
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update handles rendering the frame and collecting platform events.
	// Backends should:
	// 1. Poll for platform-specific events (keyboard, window events, etc.)
	// 2. Translate events to InputEvents and return them
	// 3. Render the provided frame
	// Returns a slice of InputEvents that occurred during this update
	Update(frame *soc.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// BackendConfig holds configuration for backends.
type BackendConfig struct {
	Title      string
	Scale      int
	VSync      bool
	Fullscreen bool
}
