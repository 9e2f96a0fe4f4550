package headless

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeebiecore/go-jeebie/internal/soc"
	"github.com/jeebiecore/go-jeebie/jeebie/backend"
	"github.com/jeebiecore/go-jeebie/jeebie/input/action"
	"github.com/jeebiecore/go-jeebie/jeebie/input/event"
)

// Backend implements the Backend interface for automated testing and batch
// processing: no window, no input, just frame counting and optional PNG
// snapshots.
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
}

// SnapshotConfig holds configuration for frame snapshots.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	slog.Info("running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update processes a frame and handles snapshots.
func (h *Backend) Update(frame *soc.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%10 == 0 {
		slog.Info("frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}
		slog.Info("headless execution completed", "frames", h.maxFrames)
		events = append(events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters.
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "jeebie-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %v", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %v", err)
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

// saveSnapshot saves a PNG snapshot of the current frame using the standard
// library's image/png encoder; no third-party PNG library appears anywhere
// in the retrieved example set.
func (h *Backend) saveSnapshot(frame *soc.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d.png", h.snapshotConfig.ROMName, h.frameCount)
	path := filepath.Join(h.snapshotConfig.Directory, name)

	img := image.NewRGBA(image.Rect(0, 0, soc.FramebufferWidth, soc.FramebufferHeight))
	for y := 0; y < soc.FramebufferHeight; y++ {
		for x := 0; x < soc.FramebufferWidth; x++ {
			px := frame.GetPixel(x, y)
			img.Pix[img.PixOffset(x, y)+0] = byte(px >> 24)
			img.Pix[img.PixOffset(x, y)+1] = byte(px >> 16)
			img.Pix[img.PixOffset(x, y)+2] = byte(px >> 8)
			img.Pix[img.PixOffset(x, y)+3] = byte(px)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create snapshot file", "frame", h.frameCount, "error", err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		slog.Error("failed to encode PNG snapshot", "frame", h.frameCount, "error", err)
	}
}
