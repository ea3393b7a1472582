package genmode

import (
	"fmt"
	"image"
)

// Mode is the generation pipeline selected for a canvas.
type Mode string

// Generation modes. The string values are the labels used by the generation backend.
const (
	ModeTextToImage  Mode = "txt2img"
	ModeOutpainting  Mode = "outpainting"
	ModeInpainting   Mode = "inpainting"
	ModeImageToImage Mode = "img2img"
)

func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the four known modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeTextToImage, ModeOutpainting, ModeInpainting, ModeImageToImage:
		return true
	default:
		return false
	}
}

// PixelFormat is the storage layout of a decoded image, as far as
// transparency detection is concerned.
type PixelFormat int

const (
	// FormatOther covers opaque colour layouts such as YCbCr and CMYK.
	FormatOther PixelFormat = iota
	FormatGray
	FormatPaletted
	FormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case FormatGray:
		return "gray"
	case FormatPaletted:
		return "paletted"
	case FormatRGBA:
		return "rgba"
	default:
		return "other"
	}
}

// FormatOf maps the concrete image type to its PixelFormat.
// This is a pure function with no side effects.
func FormatOf(img image.Image) PixelFormat {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return FormatGray
	case *image.Paletted:
		return FormatPaletted
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64,
		*image.Alpha, *image.Alpha16:
		return FormatRGBA
	default:
		return FormatOther
	}
}

// NoTransparencyIndex marks a Raster without a declared transparent palette index.
const NoTransparencyIndex = -1

// Raster is a decoded image together with the transparency metadata that the
// image decoders do not keep. A Raster is treated as immutable.
type Raster struct {
	Image image.Image

	// Transparency is the explicit transparency metadata of the source file
	// (the PNG tRNS payload, or the GIF transparent index). Nil when absent.
	Transparency []byte

	// TransparencyIndex is the declared transparent palette index,
	// NoTransparencyIndex when unset.
	TransparencyIndex int
}

// FromImage wraps an in-memory image without any transparency metadata.
func FromImage(img image.Image) *Raster {
	return &Raster{
		Image:             img,
		TransparencyIndex: NoTransparencyIndex,
	}
}

// Format returns the pixel format of the wrapped image.
func (r *Raster) Format() PixelFormat {
	return FormatOf(r.Image)
}

// Bounds returns the bounds of the wrapped image.
func (r *Raster) Bounds() image.Rectangle {
	return r.Image.Bounds()
}

// validate rejects nil rasters and images without pixels.
func (r *Raster) validate() error {
	if r == nil || r.Image == nil {
		return fmt.Errorf("%w: no image", ErrImageInvalidSize)
	}
	b := r.Image.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: width=%d height=%d", ErrImageInvalidSize, b.Dx(), b.Dy())
	}
	return nil
}
