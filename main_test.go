package main

import (
	"bytes"
	"image"
	"sync/atomic"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"canvasmode/core"
	"canvasmode/genmode"
	"canvasmode/patchmatch"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{core.EnvResample, core.EnvLogLevel, core.EnvLogFile, core.EnvDevMode, core.EnvTryPatchmatch} {
		t.Setenv(key, "")
	}
}

func writeTestPNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	data, err := genmode.EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// executeCLI runs the command tree with args and returns stdout and the log output.
func executeCLI(t *testing.T, probe patchmatch.Probe, args ...string) (string, string, error) {
	t.Helper()
	var stdout, logs bytes.Buffer
	cmd, closeApp := newRootCmd(&logs, probe)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&logs)
	err := cmd.Execute()
	closeApp()
	return stdout.String(), logs.String(), err
}

func TestClassifyCommand(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name     string
		image    image.Image
		mask     image.Image
		expected string
	}{
		{"opaque blank", opaqueTestImage(16), blankTestMask(16), "img2img"},
		{"partial blank", partialTestImage(16), blankTestMask(16), "outpainting"},
		{"transparent hole", transparentTestImage(16), holeTestMask(16), "txt2img"},
		{"opaque hole", opaqueTestImage(16), holeTestMask(16), "inpainting"},
		{"opaque hole small mask", opaqueTestImage(32), holeTestMask(8), "inpainting"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imagePath := writeTestPNG(t, dir, tt.name+"-image.png", tt.image)
			maskPath := writeTestPNG(t, dir, tt.name+"-mask.png", tt.mask)

			stdout, logs, err := executeCLI(t, nil, "classify", imagePath, maskPath)
			if err != nil {
				t.Fatalf("classify (case %d): %v\nlogs: %s", i, err, logs)
			}
			if got := strings.TrimSpace(stdout); got != tt.expected {
				t.Errorf("classify printed %q, expected %q", got, tt.expected)
			}
			if !strings.Contains(logs, "Classification complete") {
				t.Errorf("expected a classification log entry, got: %s", logs)
			}
			if !strings.Contains(logs, `"run_id"`) {
				t.Errorf("expected a run_id field, got: %s", logs)
			}
		})
	}
}

func TestClassifyCommand_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	maskPath := writeTestPNG(t, dir, "mask.png", blankTestMask(4))

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := executeCLI(t, nil, "classify", junk, maskPath); err == nil {
		t.Error("expected a decode error")
	} else if !strings.Contains(err.Error(), junk) {
		t.Errorf("error should name the file: %v", err)
	}

	if _, _, err := executeCLI(t, nil, "classify", filepath.Join(dir, "absent.png"), maskPath); err == nil {
		t.Error("expected an error for a missing file")
	}

	if _, _, err := executeCLI(t, nil, "classify", maskPath); err == nil {
		t.Error("expected an argument count error")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	maskPath := writeTestPNG(t, dir, "mask.png", blankTestMask(8))

	badConfig := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("resample: lanczos\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"success", []string{"classify", imagePath, maskPath}, core.ExitCodeSuccess},
		{"missing file", []string{"classify", filepath.Join(dir, "absent.png"), maskPath}, core.ExitCodeError},
		{"invalid config", []string{"--config", badConfig, "classify", imagePath, maskPath}, core.ExitCodeConfig},
		{"selftest", []string{"selftest"}, core.ExitCodeSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := run(tt.args, &stdout, &stderr); got != tt.want {
				t.Errorf("run() = %d (%s), want %d\nstderr: %s", got, core.ExitCodeName(got), tt.want, stderr.String())
			}
		})
	}
}

func TestClassifyCommand_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "canvasmode.yaml")
	if err := os.WriteFile(cfgPath, []byte("resample: bilinear\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(16))
	maskPath := writeTestPNG(t, dir, "mask.png", holeTestMask(4))

	stdout, logs, err := executeCLI(t, nil, "--config", cfgPath, "classify", imagePath, maskPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if strings.TrimSpace(stdout) != "inpainting" {
		t.Errorf("classify printed %q", stdout)
	}
	if !strings.Contains(logs, "resample=bilinear") {
		t.Errorf("expected debug configuration log, got: %s", logs)
	}
}

func TestClassifyCommand_LogFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "canvasmode.log")
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	maskPath := writeTestPNG(t, dir, "mask.png", holeTestMask(8))

	if _, _, err := executeCLI(t, nil, "--log-file", logPath, "classify", imagePath, maskPath); err != nil {
		t.Fatalf("classify: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "inpainting") {
		t.Errorf("log file should record the mode, got: %s", data)
	}
	if !strings.Contains(string(data), "Logging to file") {
		t.Errorf("log file should announce itself, got: %s", data)
	}
}

// fillBackend paints the whole image a single colour.
type fillBackend struct{}

func (fillBackend) Available() bool { return true }

func (fillBackend) Inpaint(img, mask image.Image, opts patchmatch.Options) (image.Image, error) {
	out := image.NewNRGBA(img.Bounds())
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+1] = 0xff
		out.Pix[i+3] = 0xff
	}
	return out, nil
}

func TestClassifyCommand_Prefill(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	holePath := writeTestPNG(t, dir, "hole.png", holeTestMask(8))
	blankPath := writeTestPNG(t, dir, "blank.png", blankTestMask(8))
	probe := func() patchmatch.Backend { return fillBackend{} }

	t.Run("inpainting writes prefill", func(t *testing.T) {
		out := filepath.Join(dir, "prefill.png")
		if _, logs, err := executeCLI(t, probe, "classify", "--prefill", out, imagePath, holePath); err != nil {
			t.Fatalf("classify: %v\nlogs: %s", err, logs)
		}
		r, err := genmode.Load(out)
		if err != nil {
			t.Fatalf("prefill not readable: %v", err)
		}
		if c := color.NRGBAModel.Convert(r.Image.At(0, 0)).(color.NRGBA); c.G != 0xff {
			t.Errorf("prefill pixel = %v, expected backend output", c)
		}
	})

	t.Run("other modes skip", func(t *testing.T) {
		out := filepath.Join(dir, "skipped.png")
		_, logs, err := executeCLI(t, probe, "classify", "--prefill", out, imagePath, blankPath)
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("prefill should not be written for img2img")
		}
		if !strings.Contains(logs, "Prefill skipped") {
			t.Errorf("expected skip log, got: %s", logs)
		}
	})

	t.Run("patchmatch disabled skips", func(t *testing.T) {
		t.Setenv(core.EnvTryPatchmatch, "false")
		out := filepath.Join(dir, "disabled.png")
		_, logs, err := executeCLI(t, probe, "classify", "--prefill", out, imagePath, holePath)
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("prefill should not be written when patchmatch is disabled")
		}
		if !strings.Contains(logs, "patchmatch unavailable") {
			t.Errorf("expected unavailable log, got: %s", logs)
		}
	})
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := executeCLI(t, nil, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(stdout, core.Version) {
		t.Errorf("version output %q should contain %q", stdout, core.Version)
	}
}

func TestRun_ErrorMessage(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	maskPath := writeTestPNG(t, dir, "mask.png", blankTestMask(8))
	badConfig := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("resample: lanczos\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "config error carries its code",
			args:     []string{"--config", badConfig, "classify", imagePath, maskPath},
			contains: []string{"Error [INVALID_RESAMPLE]:", "lanczos", "(exit 2: configuration error)"},
		},
		{
			name:     "runtime error",
			args:     []string{"classify", filepath.Join(dir, "absent.png"), maskPath},
			contains: []string{"Error: ", "absent.png", "(exit 1: error)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			run(tt.args, &stdout, &stderr)
			for _, want := range tt.contains {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr %q missing %q", stderr.String(), want)
				}
			}
		})
	}
}

// syncRecorder is a log sink that records Sync calls.
type syncRecorder struct {
	bytes.Buffer
	synced int
}

func (s *syncRecorder) Sync() error {
	s.synced++
	return nil
}

func TestRun_SyncsLoggerOnFailure(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	maskPath := writeTestPNG(t, dir, "mask.png", blankTestMask(4))

	var stdout bytes.Buffer
	stderr := &syncRecorder{}
	if code := run([]string{"classify", filepath.Join(dir, "absent.png"), maskPath}, &stdout, stderr); code != core.ExitCodeError {
		t.Fatalf("run() = %d, want %d", code, core.ExitCodeError)
	}
	if stderr.synced == 0 {
		t.Error("logger was not synced after a failed command")
	}
	if !strings.Contains(stderr.String(), "Failed to load image") {
		t.Errorf("expected the failure to be logged, got: %s", stderr.String())
	}
}

func TestNewApp_PatchmatchResolvedLazily(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	maskPath := writeTestPNG(t, dir, "mask.png", holeTestMask(8))

	tests := []struct {
		name     string
		args     []string
		expected int32
	}{
		{"info level without prefill", []string{"classify", imagePath, maskPath}, 0},
		{"debug level reports backend", []string{"--log-level", "debug", "classify", imagePath, maskPath}, 1},
		{"prefill resolves once", []string{"classify", "--prefill", filepath.Join(dir, "out.png"), imagePath, maskPath}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			var calls int32
			probe := func() patchmatch.Backend {
				atomic.AddInt32(&calls, 1)
				return fillBackend{}
			}

			if _, logs, err := executeCLI(t, probe, tt.args...); err != nil {
				t.Fatalf("classify: %v\nlogs: %s", err, logs)
			}
			if got := atomic.LoadInt32(&calls); got != tt.expected {
				t.Errorf("probe called %d times, expected %d", got, tt.expected)
			}
		})
	}
}

func TestNewApp_UnknownLogLevelWarns(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	maskPath := writeTestPNG(t, dir, "mask.png", blankTestMask(8))

	_, logs, err := executeCLI(t, nil, "--log-level", "verbose", "classify", imagePath, maskPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(logs, "Unknown log level, using info") || !strings.Contains(logs, "verbose") {
		t.Errorf("expected a warning naming the level, got: %s", logs)
	}
}

// emptyBackend claims availability but produces nothing.
type emptyBackend struct{}

func (emptyBackend) Available() bool { return true }

func (emptyBackend) Inpaint(img, mask image.Image, opts patchmatch.Options) (image.Image, error) {
	return nil, nil
}

func TestClassifyCommand_PrefillEmptyResult(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	imagePath := writeTestPNG(t, dir, "image.png", opaqueTestImage(8))
	holePath := writeTestPNG(t, dir, "hole.png", holeTestMask(8))
	out := filepath.Join(dir, "empty.png")

	stdout, logs, err := executeCLI(t, func() patchmatch.Backend { return emptyBackend{} },
		"classify", "--prefill", out, imagePath, holePath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if strings.TrimSpace(stdout) != "inpainting" {
		t.Errorf("classify printed %q", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("nothing should be written when the backend returns no image")
	}
	if !strings.Contains(logs, "patchmatch returned no image") {
		t.Errorf("expected a skip reason, got: %s", logs)
	}
}
