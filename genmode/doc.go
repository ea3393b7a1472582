// Package genmode decides which generation pipeline a canvas editing session
// should run for a given base image and mask.
//
// The package follows the same atomic layout as the rest of the backend:
//
//   - Atoms: Pure functions (HasTransparency, PrepareMask, FormatOf, IsPNG)
//   - Molecules: Simple compositions (Decode, Load, Classifier.Evaluate)
//   - Organism: This complete package exposing a unified API
//
// # Public API
//
// The primary entry points are:
//
//   - Classify(image, mask *Raster) (Mode, error)
//   - ClassifyFiles(imagePath, maskPath string) (Mode, error)
//   - NewClassifier(cfg Config, logger *zap.Logger) (*Classifier, error)
//
// # Quick Start
//
//	mode, err := genmode.ClassifyFiles("init-img.png", "init-mask.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch mode {
//	case genmode.ModeTextToImage:
//	    // canvas is empty, generate from the prompt alone
//	case genmode.ModeOutpainting:
//	    // fill the transparent parts of the canvas
//	case genmode.ModeInpainting:
//	    // regenerate the black region of the mask
//	case genmode.ModeImageToImage:
//	    // regenerate the whole image
//	}
//
// # Decision Rules
//
// Transparency in the base image wins over the mask. A base image with any
// transparency signal yields ModeTextToImage when no pixel has a non-zero
// alpha and ModeOutpainting otherwise. An image without transparency yields
// ModeInpainting when the mask, fitted to the image size, contains at least
// one pixel darker than white, and ModeImageToImage when the mask is blank.
//
// Masks are white where the image must be kept and black where it should be
// changed.
//
// # Configuration
//
// Use LoadConfig() to read configuration from environment variables:
//
//	CANVASMODE_RESAMPLE=nearest   # nearest, approxbilinear, bilinear, catmullrom
//
// # Error Handling
//
// The package defines domain-specific errors:
//
//   - ErrImageEmpty: No image data was supplied
//   - ErrImageDecodeFail: Data is not a decodable image (see DecodeError)
//   - ErrImageInvalidSize: Image or mask has no pixels
//   - ErrUnknownResample: Resample method is not recognised
//
// Use errors.Is() for error checking:
//
//	_, err := genmode.ClassifyFiles(imagePath, maskPath)
//	if errors.Is(err, genmode.ErrImageDecodeFail) {
//	    var de *genmode.DecodeError
//	    errors.As(err, &de)
//	    log.Printf("bad input file %s", de.Path)
//	}
//
// # Thread Safety
//
// Classifier is immutable after construction and safe for concurrent use.
// Inputs are never modified.
package genmode
