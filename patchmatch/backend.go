// Package patchmatch wraps the optional patch-based inpainting capability.
//
// The capability is resolved lazily, at most once per Loader, and callers
// receive the Loader explicitly instead of reaching for a global. When the
// capability is unavailable, Available reports false and Inpaint returns a
// nil image without an error.
package patchmatch

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors for inpainting requests.
var (
	ErrInvalidOptions = errors.New("patchmatch: invalid inpaint options")
	ErrNilImage       = errors.New("patchmatch: image and mask are required")
)

// DefaultPatchSize is the patch edge length used when Options is zero.
const DefaultPatchSize = 5

// Options tunes an inpaint call.
type Options struct {
	PatchSize int // Patch edge length in pixels, positive and odd
}

// DefaultOptions returns the options used by most callers.
func DefaultOptions() Options {
	return Options{PatchSize: DefaultPatchSize}
}

// Validate checks the options and returns ErrInvalidOptions when unusable.
func (o Options) Validate() error {
	if o.PatchSize <= 0 || o.PatchSize%2 == 0 {
		return fmt.Errorf("%w: patch size %d must be positive and odd", ErrInvalidOptions, o.PatchSize)
	}
	return nil
}

// Backend is a patch-based inpainting implementation.
type Backend interface {
	// Available reports whether the backend can inpaint.
	Available() bool

	// Inpaint fills the black region of mask in img.
	Inpaint(img, mask image.Image, opts Options) (image.Image, error)
}

// Probe resolves a Backend. It is called at most once per Loader.
type Probe func() Backend
