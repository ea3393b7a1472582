package patchmatch

import (
	"image"
	"sync"

	"go.uber.org/zap"
)

// Loader resolves a Backend on first use and caches the outcome.
// It is safe for concurrent use and itself satisfies Backend.
type Loader struct {
	enabled bool
	probe   Probe
	logger  *zap.Logger

	once    sync.Once
	backend Backend
}

// NewLoader creates a Loader.
//
// Parameters:
//   - enabled: when false, the probe is never called and the capability is unavailable
//   - probe: resolves the backend; nil uses DefaultProbe
//   - logger: receives one line describing the outcome; nil disables logging
func NewLoader(enabled bool, probe Probe, logger *zap.Logger) *Loader {
	if probe == nil {
		probe = DefaultProbe
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		enabled: enabled,
		probe:   probe,
		logger:  logger,
	}
}

// load runs the probe once.
func (l *Loader) load() {
	l.once.Do(func() {
		if !l.enabled {
			l.logger.Info("patchmatch loading disabled")
			return
		}

		b := l.probe()
		if b != nil && b.Available() {
			l.logger.Info("patchmatch initialized")
		} else {
			l.logger.Info("patchmatch not loaded (nonfatal)")
		}
		l.backend = b
	})
}

// Available reports whether inpainting can run. The first call resolves the backend.
func (l *Loader) Available() bool {
	l.load()
	return l.backend != nil && l.backend.Available()
}

// Inpaint fills the black region of mask in img.
// When the capability is unavailable it returns (nil, nil).
func (l *Loader) Inpaint(img, mask image.Image, opts Options) (image.Image, error) {
	if !l.Available() {
		return nil, nil
	}
	if img == nil || mask == nil {
		return nil, ErrNilImage
	}
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return l.backend.Inpaint(img, mask, opts)
}
