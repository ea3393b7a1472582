package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	fcolor "github.com/fatih/color"

	"canvasmode/genmode"
	"canvasmode/logging"
)

// selftestSize is the edge length of the generated images.
const selftestSize = 64

var errSelftestFailed = errors.New("selftest failed")

// scenario is one image/mask pair with its expected mode.
type scenario struct {
	name     string
	image    func(size int) image.Image
	mask     func(size int) image.Image
	expected genmode.Mode
}

// scenarioResult records a scenario outcome.
type scenarioResult struct {
	Name     string
	Expected genmode.Mode
	Got      genmode.Mode
	Err      error
}

// Passed reports whether the scenario produced the expected mode.
func (r scenarioResult) Passed() bool {
	return r.Err == nil && r.Got == r.Expected
}

// selftestScenarios covers every image kind against a blank and a holed mask.
func selftestScenarios() []scenario {
	return []scenario{
		{"opaque image, blank mask", opaqueTestImage, blankTestMask, genmode.ModeImageToImage},
		{"partially transparent image, blank mask", partialTestImage, blankTestMask, genmode.ModeOutpainting},
		{"fully transparent image, blank mask", transparentTestImage, blankTestMask, genmode.ModeTextToImage},
		{"opaque image, mask with black region", opaqueTestImage, holeTestMask, genmode.ModeInpainting},
		{"partially transparent image, mask with black region", partialTestImage, holeTestMask, genmode.ModeOutpainting},
		{"fully transparent image, mask with black region", transparentTestImage, holeTestMask, genmode.ModeTextToImage},
	}
}

// runSelftest writes every scenario to PNG files in a scratch directory,
// classifies them from disk and prints a coloured report to out.
func runSelftest(a *app, out io.Writer) ([]scenarioResult, error) {
	dir, err := os.MkdirTemp("", "canvasmode-selftest-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	start := time.Now()
	scenarios := selftestScenarios()
	results := make([]scenarioResult, 0, len(scenarios))

	printSelftestHeader(out, a.classifier.Resample())
	for i, sc := range scenarios {
		res := scenarioResult{Name: sc.name, Expected: sc.expected}

		imagePath := filepath.Join(dir, fmt.Sprintf("scenario-%d-image.png", i+1))
		maskPath := filepath.Join(dir, fmt.Sprintf("scenario-%d-mask.png", i+1))
		if err := writeScenarioPNG(imagePath, sc.image(selftestSize)); err != nil {
			res.Err = err
		} else if err := writeScenarioPNG(maskPath, sc.mask(selftestSize)); err != nil {
			res.Err = err
		} else {
			res.Got, res.Err = a.classifier.ClassifyFiles(imagePath, maskPath)
		}

		a.logger.Debug("Selftest scenario",
			logging.ScenarioFields(sc.name, sc.expected.String(), res.Got.String(), res.Passed())...)
		printScenario(out, res)
		results = append(results, res)
	}

	passed := 0
	for _, r := range results {
		if r.Passed() {
			passed++
		}
	}
	printSelftestSummary(out, passed, len(results), time.Since(start))

	if passed != len(results) {
		return results, fmt.Errorf("%w: %d of %d scenarios disagreed", errSelftestFailed, len(results)-passed, len(results))
	}
	return results, nil
}

func writeScenarioPNG(path string, img image.Image) error {
	data, err := genmode.EncodePNG(img)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printSelftestHeader(out io.Writer, resample genmode.Resample) {
	fmt.Fprintln(out)
	fcolor.New(fcolor.FgCyan, fcolor.Bold).Fprintf(out, "━━━ Canvas Mode Selftest ━━━\n")
	fcolor.New(fcolor.FgHiBlack).Fprintf(out, "mask resample: %s\n", resample)
	fmt.Fprintln(out)
}

func printScenario(out io.Writer, r scenarioResult) {
	if r.Passed() {
		fcolor.New(fcolor.FgGreen).Fprintf(out, "  ✓ PASS %s", r.Name)
		fcolor.New(fcolor.FgHiBlack).Fprintf(out, " - %s\n", r.Got)
		return
	}

	fcolor.New(fcolor.FgRed).Fprintf(out, "  ✗ FAIL %s", r.Name)
	fcolor.New(fcolor.FgHiBlack).Fprintf(out, " - expected %s, got %s\n", r.Expected, r.Got)
	if r.Err != nil {
		fcolor.New(fcolor.FgRed).Fprintf(out, "    └─ %s\n", r.Err.Error())
	}
}

func printSelftestSummary(out io.Writer, passed, total int, elapsed time.Duration) {
	fmt.Fprintln(out)
	if passed == total {
		successColor := fcolor.New(fcolor.FgGreen, fcolor.Bold)
		successColor.Fprintf(out, "━━━ Selftest Passed ")
		fcolor.New(fcolor.FgHiBlack).Fprintf(out, "(%d/%d scenarios in %v)", passed, total, elapsed.Round(time.Millisecond))
		successColor.Fprintln(out, " ━━━")
	} else {
		failColor := fcolor.New(fcolor.FgRed, fcolor.Bold)
		failColor.Fprintf(out, "━━━ Selftest Failed ")
		fcolor.New(fcolor.FgHiBlack).Fprintf(out, "(%d passed, %d failed)", passed, total-passed)
		failColor.Fprintln(out, " ━━━")
	}
	fmt.Fprintln(out)
}

// opaqueTestImage is an RGB gradient with no alpha channel.
func opaqueTestImage(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 160, A: 255})
		}
	}
	return img
}

// partialTestImage is opaque on the right half and fully transparent on the left.
func partialTestImage(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			a := uint8(255)
			if x < size/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 120, B: 200, A: a})
		}
	}
	return img
}

// transparentTestImage has zero alpha everywhere.
func transparentTestImage(size int) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, size, size))
}

// blankTestMask is all white: keep everything.
func blankTestMask(size int) image.Image {
	m := image.NewGray(image.Rect(0, 0, size, size))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	return m
}

// holeTestMask is white with a black square in the centre.
func holeTestMask(size int) image.Image {
	m := blankTestMask(size).(*image.Gray)
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			m.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return m
}
