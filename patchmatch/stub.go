// Stub backend for builds without a native patchmatch library.
// A native implementation is supplied to NewLoader through its Probe.

package patchmatch

import "image"

// unavailableBackend never inpaints.
type unavailableBackend struct{}

func (unavailableBackend) Available() bool {
	return false
}

func (unavailableBackend) Inpaint(img, mask image.Image, opts Options) (image.Image, error) {
	return nil, nil
}

// DefaultProbe returns the backend linked into this build.
func DefaultProbe() Backend {
	return unavailableBackend{}
}

// BackendInfo describes the backend linked into this build.
func BackendInfo() string {
	return "stub (no native patchmatch library linked)"
}
