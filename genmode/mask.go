package genmode

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// PrepareMask fits mask to size using interp and converts it to 8-bit greyscale.
// The origin of the result is (0, 0). The mask is never modified.
//
// Greyscale conversion uses ITU-R 601-2 luma on straight (non-premultiplied)
// colour, so white stays 255 and black stays 0.
func PrepareMask(mask image.Image, size image.Point, interp draw.Interpolator) *image.Gray {
	src := toGray(mask)
	dst := image.NewGray(image.Rectangle{Max: size})
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// toGray converts img to 8-bit greyscale at its own size.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			g.Pix[g.PixOffset(x, y)] = luma(c.R, c.G, c.B)
		}
	}
	return g
}

// luma computes L = R*299/1000 + G*587/1000 + B*114/1000 in 16.16 fixed point.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 1<<15) >> 16)
}

// invertGray returns a copy of g with every value v replaced by 255-v.
func invertGray(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)] = 0xff - g.Pix[g.PixOffset(x, y)]
		}
	}
	return out
}

// maskHasContent reports whether mask holds at least one pixel to change.
// The mask is inverted so that change pixels become non-zero, then the
// bounding box of non-zero pixels is checked for emptiness.
func maskHasContent(mask *image.Gray) bool {
	inv := invertGray(mask)
	box := nonZeroBounds(inv.Bounds(), func(x, y int) bool {
		return inv.Pix[inv.PixOffset(x, y)] != 0
	})
	return !box.Empty()
}
