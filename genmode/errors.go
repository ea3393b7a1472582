package genmode

import (
	"errors"
	"fmt"
)

// Sentinel errors for mode classification.
var (
	// Input errors
	ErrImageEmpty       = errors.New("genmode: image data is empty")
	ErrImageDecodeFail  = errors.New("genmode: failed to decode image")
	ErrImageInvalidSize = errors.New("genmode: invalid image dimensions")

	// Configuration errors
	ErrUnknownResample = errors.New("genmode: unknown resample method")
)

// DecodeError reports an image that could not be read or decoded.
// It matches ErrImageDecodeFail with errors.Is and unwraps to the underlying cause.
type DecodeError struct {
	Path string // Source file, empty for in-memory data
	Err  error  // Underlying read or decode error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%v %s: %v", ErrImageDecodeFail, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrImageDecodeFail, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any DecodeError against ErrImageDecodeFail.
func (e *DecodeError) Is(target error) bool {
	return target == ErrImageDecodeFail
}
