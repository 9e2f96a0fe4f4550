package blargg

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeebiecore/go-jeebie/internal/soc"
	"github.com/jeebiecore/go-jeebie/jeebie"
)

const (
	BlackPixel     = 0x000000FF
	DarkGrayPixel  = 0x4C4C4CFF
	LightGrayPixel = 0x989898FF
	WhitePixel     = 0xFFFFFFFF
)

// BlarggTestCase describes one of Blargg's cpu_instrs sub-ROMs: run it for
// MaxFrames frames, then compare the framebuffer against a stored golden
// hash.
type BlarggTestCase struct {
	ROMPath    string
	MaxFrames  int
	GoldenFile string
	Name       string
}

func GetBlarggTests() []BlarggTestCase {
	baseDir := "../../test-roms"

	return []BlarggTestCase{
		{ROMPath: filepath.Join(baseDir, "01-special.gb"), MaxFrames: 500, Name: "01-special"},
		{ROMPath: filepath.Join(baseDir, "02-interrupts.gb"), MaxFrames: 500, Name: "02-interrupts"},
		{ROMPath: filepath.Join(baseDir, "03-op sp,hl.gb"), MaxFrames: 500, Name: "03-op sp,hl"},
		{ROMPath: filepath.Join(baseDir, "04-op r,imm.gb"), MaxFrames: 500, Name: "04-op r,imm"},
		{ROMPath: filepath.Join(baseDir, "05-op rp.gb"), MaxFrames: 500, Name: "05-op rp"},
		{ROMPath: filepath.Join(baseDir, "06-ld r,r.gb"), MaxFrames: 500, Name: "06-ld r,r"},
		{ROMPath: filepath.Join(baseDir, "07-jr,jp,call,ret,rst.gb"), MaxFrames: 500, Name: "07-jr,jp,call,ret,rst"},
		{ROMPath: filepath.Join(baseDir, "08-misc instrs.gb"), MaxFrames: 500, Name: "08-misc instrs"},
		{ROMPath: filepath.Join(baseDir, "09-op r,r.gb"), MaxFrames: 1000, Name: "09-op r,r"},
		{ROMPath: filepath.Join(baseDir, "10-bit ops.gb"), MaxFrames: 1000, Name: "10-bit ops"},
		{ROMPath: filepath.Join(baseDir, "11-op a,(hl).gb"), MaxFrames: 1500, Name: "11-op a,(hl)"},
	}
}

func runBlarggTest(t *testing.T, testCase BlarggTestCase) {
	if _, err := os.Stat(testCase.ROMPath); os.IsNotExist(err) {
		t.Skipf("ROM file not found: %s", testCase.ROMPath)
		return
	}

	t.Logf("running Blargg test: %s (%s)", testCase.Name, testCase.ROMPath)
	emu, err := jeebie.NewWithFile(testCase.ROMPath)
	if err != nil {
		t.Fatalf("failed to create emulator: %v", err)
	}

	for i := 0; i < testCase.MaxFrames; i++ {
		emu.StepFrame()
		select {
		case err := <-emu.Errors():
			t.Fatalf("emulator reported an error: %v", err)
		default:
		}
	}

	fb := emu.Framebuffer()
	testName := testCase.Name

	screenDataPath := filepath.Join("testdata", fmt.Sprintf("%s.bin", testName))
	snapshotPath := filepath.Join("testdata", "snapshots", fmt.Sprintf("%s.png", testName))

	if err := os.MkdirAll("testdata", 0755); err != nil {
		t.Fatalf("failed to create testdata directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join("testdata", "snapshots"), 0755); err != nil {
		t.Fatalf("failed to create snapshots directory: %v", err)
	}

	binaryData := toGrayscale(fb)
	hash := fmt.Sprintf("%x", md5.Sum(binaryData))

	generateReference := os.Getenv("BLARGG_GENERATE_GOLDEN") == "true"

	if generateReference {
		t.Logf("generating reference files for %s", testCase.Name)
		if err := os.WriteFile(screenDataPath, binaryData, 0644); err != nil {
			t.Fatalf("failed to write screen data file: %v", err)
		}
		if err := savePNG(fb, snapshotPath); err != nil {
			t.Fatalf("failed to write snapshot PNG file: %v", err)
		}
		t.Logf("reference files generated - hash: %s", hash)
		return
	}

	if _, err := os.Stat(screenDataPath); os.IsNotExist(err) {
		t.Fatalf("screen data file not found: %s. Set BLARGG_GENERATE_GOLDEN=true to generate reference files first.", screenDataPath)
	}

	expectedData, err := os.ReadFile(screenDataPath)
	if err != nil {
		t.Fatalf("failed to read screen data file: %v", err)
	}

	expectedHash := fmt.Sprintf("%x", md5.Sum(expectedData))

	if hash != expectedHash {
		actualBinPath := filepath.Join("testdata", fmt.Sprintf("%s_actual.bin", testName))
		actualPngPath := filepath.Join("testdata", "snapshots", fmt.Sprintf("%s_actual.png", testName))

		os.WriteFile(actualBinPath, binaryData, 0644)
		savePNG(fb, actualPngPath)

		t.Errorf("test output differs from expected\n  expected hash: %s\n  actual hash:   %s\n  files saved:   %s, %s",
			expectedHash, hash, actualBinPath, actualPngPath)
	} else {
		t.Logf("test passed - hash: %s", hash)
	}
}

// toGrayscale converts the framebuffer to one byte per pixel, 0-3.
func toGrayscale(fb *soc.FrameBuffer) []byte {
	out := make([]byte, soc.FramebufferWidth*soc.FramebufferHeight)
	for y := 0; y < soc.FramebufferHeight; y++ {
		for x := 0; x < soc.FramebufferWidth; x++ {
			out[y*soc.FramebufferWidth+x] = shadeOf(fb.GetPixel(x, y))
		}
	}
	return out
}

func shadeOf(pixel uint32) byte {
	switch pixel {
	case BlackPixel:
		return 0
	case DarkGrayPixel:
		return 1
	case LightGrayPixel:
		return 2
	case WhitePixel:
		return 3
	default:
		return 0
	}
}

func savePNG(fb *soc.FrameBuffer, filename string) error {
	img := image.NewGray(image.Rect(0, 0, soc.FramebufferWidth, soc.FramebufferHeight))

	for y := 0; y < soc.FramebufferHeight; y++ {
		for x := 0; x < soc.FramebufferWidth; x++ {
			var gray uint8
			switch shadeOf(fb.GetPixel(x, y)) {
			case 0:
				gray = 0
			case 1:
				gray = 85
			case 2:
				gray = 170
			case 3:
				gray = 255
			}
			img.SetGray(x, y, color.Gray{Y: gray})
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

func TestBlarggSuite(t *testing.T) {
	tests := GetBlarggTests()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			runBlarggTest(t, testCase)
		})
	}
}
