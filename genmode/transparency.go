package genmode

import (
	"image"
)

// opaqueAlpha is the 8-bit alpha of a fully opaque pixel.
const opaqueAlpha = 0xff

// HasTransparency reports whether r carries any transparency signal.
// The checks run in priority order:
//
//  1. explicit transparency metadata
//  2. for paletted images, the declared transparent index is used by a pixel
//  3. for RGBA images, some pixel is less than fully opaque
//
// A declared index of NoTransparencyIndex never matches a pixel.
// This is a pure function with no side effects.
func HasTransparency(r *Raster) bool {
	if r == nil || r.Image == nil {
		return false
	}
	if r.Transparency != nil {
		return true
	}

	switch img := r.Image.(type) {
	case *image.Paletted:
		_, ok := paletteIndices(img)[r.TransparencyIndex]
		return ok
	default:
		if FormatOf(img) == FormatRGBA {
			return minAlpha(img) < opaqueAlpha
		}
	}
	return false
}

// paletteIndices returns the set of palette indices used by the pixels of p.
func paletteIndices(p *image.Paletted) map[int]struct{} {
	used := make(map[int]struct{})
	b := p.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := p.Pix[p.PixOffset(b.Min.X, y):p.PixOffset(b.Max.X, y)]
		for _, idx := range row {
			used[int(idx)] = struct{}{}
		}
	}
	return used
}

// minAlpha returns the lowest 8-bit alpha value of img.
func minAlpha(img image.Image) uint8 {
	lowest := uint8(opaqueAlpha)
	b := img.Bounds()

	switch m := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
			for i := 3; i < len(row); i += 4 {
				lowest = min(lowest, row[i])
			}
		}
		return lowest
	case *image.RGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
			for i := 3; i < len(row); i += 4 {
				lowest = min(lowest, row[i])
			}
		}
		return lowest
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			lowest = min(lowest, uint8(a>>8))
			if lowest == 0 {
				return 0
			}
		}
	}
	return lowest
}

// alphaBounds returns the bounding box of pixels with non-zero alpha.
// The result is empty when the image is fully transparent.
func alphaBounds(img *image.NRGBA) image.Rectangle {
	return nonZeroBounds(img.Bounds(), func(x, y int) bool {
		return img.Pix[img.PixOffset(x, y)+3] != 0
	})
}

// nonZeroBounds returns the smallest rectangle within r holding every point
// for which nonZero is true, or the empty rectangle if there is none.
func nonZeroBounds(r image.Rectangle, nonZero func(x, y int) bool) image.Rectangle {
	box := image.Rectangle{}
	found := false
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !nonZero(x, y) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box
}
