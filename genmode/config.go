package genmode

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// Resample names the interpolator used to fit a mask to the base image.
type Resample string

// Supported resample methods.
const (
	ResampleNearest        Resample = "nearest"
	ResampleApproxBiLinear Resample = "approxbilinear"
	ResampleBiLinear       Resample = "bilinear"
	ResampleCatmullRom     Resample = "catmullrom"
)

// DefaultResample keeps mask pixels either fully white or fully black.
const DefaultResample = ResampleNearest

// EnvResample is the environment variable read by LoadConfig.
const EnvResample = "CANVASMODE_RESAMPLE"

// Config holds configuration for a Classifier.
type Config struct {
	Resample Resample // Mask resampling method
}

// DefaultConfig returns the configuration used by the package-level functions.
func DefaultConfig() Config {
	return Config{Resample: DefaultResample}
}

// LoadConfig loads classifier configuration from environment variables.
// Invalid or empty values fall back to defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if r, err := ParseResample(os.Getenv(EnvResample)); err == nil {
		cfg.Resample = r
	}
	return cfg
}

// ParseResample parses a resample method name (case-insensitive).
// An empty string yields DefaultResample.
func ParseResample(s string) (Resample, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultResample, nil
	}

	r := Resample(s)
	if _, err := r.Interpolator(); err != nil {
		return "", err
	}
	return r, nil
}

// Interpolator returns the x/image/draw interpolator for r.
func (r Resample) Interpolator() (draw.Interpolator, error) {
	switch r {
	case ResampleNearest:
		return draw.NearestNeighbor, nil
	case ResampleApproxBiLinear:
		return draw.ApproxBiLinear, nil
	case ResampleBiLinear:
		return draw.BiLinear, nil
	case ResampleCatmullRom:
		return draw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResample, string(r))
	}
}
