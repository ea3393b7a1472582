package genmode

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Result is a classification together with the signals that produced it.
type Result struct {
	Mode             Mode
	HasTransparency  bool // Base image carries a transparency signal
	FullyTransparent bool // Only meaningful when HasTransparency is true
	MaskHasContent   bool // Fitted mask holds at least one non-white pixel
	Width            int  // Base image width
	Height           int  // Base image height
}

// Classifier decides the generation mode for image/mask pairs.
// It is immutable and safe for concurrent use.
type Classifier struct {
	resample Resample
	interp   draw.Interpolator
	logger   *zap.Logger
}

// NewClassifier creates a Classifier from cfg.
// A nil logger disables logging.
func NewClassifier(cfg Config, logger *zap.Logger) (*Classifier, error) {
	resample := cfg.Resample
	if resample == "" {
		resample = DefaultResample
	}
	interp, err := resample.Interpolator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		resample: resample,
		interp:   interp,
		logger:   logger,
	}, nil
}

// defaultClassifier backs the package-level functions.
var defaultClassifier = &Classifier{
	resample: DefaultResample,
	interp:   draw.NearestNeighbor,
	logger:   zap.NewNop(),
}

// Resample returns the mask resample method in use.
func (c *Classifier) Resample() Resample {
	return c.resample
}

// Classify returns the generation mode for img and mask.
func (c *Classifier) Classify(img, mask *Raster) (Mode, error) {
	res, err := c.Evaluate(img, mask)
	if err != nil {
		return "", err
	}
	return res.Mode, nil
}

// ClassifyFiles loads both files and classifies them.
// Load failures are returned as *DecodeError.
func (c *Classifier) ClassifyFiles(imagePath, maskPath string) (Mode, error) {
	img, err := Load(imagePath)
	if err != nil {
		return "", err
	}
	mask, err := Load(maskPath)
	if err != nil {
		return "", err
	}
	return c.Classify(img, mask)
}

// Evaluate classifies img and mask and reports the intermediate signals.
//
// Steps:
//  1. convert the image to RGBA
//  2. check the original raster for transparency
//  3. if transparent, check whether any pixel has non-zero alpha
//  4. fit the mask to the image size and convert it to greyscale
//  5. invert the mask and check for a non-empty bounding box
//  6. apply the decision table, transparency first
func (c *Classifier) Evaluate(img, mask *Raster) (*Result, error) {
	if err := img.validate(); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	if err := mask.validate(); err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}

	rgba := ToNRGBA(img.Image)
	size := rgba.Bounds().Size()
	res := &Result{
		Width:           size.X,
		Height:          size.Y,
		HasTransparency: HasTransparency(img),
	}
	if res.HasTransparency {
		res.FullyTransparent = alphaBounds(rgba).Empty()
	}

	grey := PrepareMask(mask.Image, size, c.interp)
	res.MaskHasContent = maskHasContent(grey)

	res.Mode = decide(res.HasTransparency, res.FullyTransparent, res.MaskHasContent)

	c.logger.Debug("canvas generation mode resolved",
		zap.String("mode", res.Mode.String()),
		zap.Bool("has_transparency", res.HasTransparency),
		zap.Bool("fully_transparent", res.FullyTransparent),
		zap.Bool("mask_has_content", res.MaskHasContent),
		zap.Stringer("image_format", img.Format()),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Int("mask_width", mask.Bounds().Dx()),
		zap.Int("mask_height", mask.Bounds().Dy()),
	)

	return res, nil
}

// decide applies the decision table. Transparency takes precedence over the mask.
func decide(hasTransparency, fullyTransparent, maskHasContent bool) Mode {
	switch {
	case hasTransparency && fullyTransparent:
		return ModeTextToImage
	case hasTransparency:
		return ModeOutpainting
	case maskHasContent:
		return ModeInpainting
	default:
		return ModeImageToImage
	}
}

// Classify returns the generation mode for img and mask using DefaultConfig.
func Classify(img, mask *Raster) (Mode, error) {
	return defaultClassifier.Classify(img, mask)
}

// ClassifyImages classifies in-memory images that carry no transparency metadata.
func ClassifyImages(img, mask image.Image) (Mode, error) {
	return defaultClassifier.Classify(FromImage(img), FromImage(mask))
}

// ClassifyFiles loads and classifies two image files using DefaultConfig.
func ClassifyFiles(imagePath, maskPath string) (Mode, error) {
	return defaultClassifier.ClassifyFiles(imagePath, maskPath)
}
