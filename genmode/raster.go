package genmode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PNG magic bytes for file identification
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// IsPNG checks if the given data starts with PNG magic bytes.
// This is a pure function with no side effects.
func IsPNG(data []byte) bool {
	if len(data) < len(pngMagic) {
		return false
	}
	return bytes.Equal(data[:len(pngMagic)], pngMagic)
}

// Load reads and decodes the image file at path.
// Any failure is returned as a *DecodeError carrying the path.
func Load(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	r, err := Decode(data)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
			return nil, de
		}
		return nil, &DecodeError{Path: path, Err: err}
	}
	return r, nil
}

// ValidateImageData checks that data is non-empty and starts with a header
// one of the registered decoders accepts.
// This is a pure function with no side effects.
func ValidateImageData(data []byte) error {
	if len(data) == 0 {
		return ErrImageEmpty
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Decode decodes PNG, JPEG, GIF, BMP, TIFF or WebP data into a Raster.
// Transparency metadata is recovered for PNG (tRNS chunk) and GIF
// (transparent palette entry).
func Decode(data []byte) (*Raster, error) {
	if err := ValidateImageData(data); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	r := FromImage(img)
	switch format {
	case "png":
		if trns := pngChunk(data, "tRNS"); trns != nil {
			r.Transparency = trns
			if _, ok := img.(*image.Paletted); ok {
				r.TransparencyIndex = simpleTransparentIndex(trns)
			}
		}
	case "gif":
		if p, ok := img.(*image.Paletted); ok {
			if idx := zeroAlphaIndex(p.Palette); idx >= 0 {
				r.Transparency = []byte{byte(idx)}
				r.TransparencyIndex = idx
				restoreGIFTransparentColor(p, gifColorTable(data), idx)
			}
		}
	}
	return r, nil
}

// pngChunk returns a copy of the payload of the first chunk named name,
// or nil if the chunk is absent or the stream is malformed.
func pngChunk(data []byte, name string) []byte {
	if !IsPNG(data) {
		return nil
	}

	pos := len(pngMagic)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		end := start + length
		// payload plus 4 byte CRC
		if length < 0 || end+4 > len(data) {
			return nil
		}
		if typ == name {
			return append([]byte{}, data[start:end]...)
		}
		if typ == "IEND" {
			return nil
		}
		pos = end + 4
	}
	return nil
}

// simpleTransparentIndex returns the palette index of a tRNS payload made of
// exactly one fully transparent entry among opaque ones, or
// NoTransparencyIndex for any other payload.
func simpleTransparentIndex(trns []byte) int {
	idx := NoTransparencyIndex
	for i, a := range trns {
		switch a {
		case 0xff:
		case 0x00:
			if idx != NoTransparencyIndex {
				return NoTransparencyIndex
			}
			idx = i
		default:
			return NoTransparencyIndex
		}
	}
	return idx
}

// gifColorTable returns the raw RGB triplets of the colour table used by the
// first frame: its local table if present, otherwise the global one.
// It returns nil for malformed streams.
func gifColorTable(data []byte) []byte {
	// header (6) + logical screen descriptor (7)
	if len(data) < 13 || string(data[:3]) != "GIF" {
		return nil
	}

	var global []byte
	pos := 13
	if flags := data[10]; flags&0x80 != 0 {
		n := 3 << (flags&0x07 + 1)
		if pos+n > len(data) {
			return nil
		}
		global = data[pos : pos+n]
		pos += n
	}

	for pos < len(data) {
		switch data[pos] {
		case 0x21: // extension: label, then sub-blocks ending with a zero length
			pos += 2
			for pos < len(data) && data[pos] != 0 {
				pos += int(data[pos]) + 1
			}
			pos++
		case 0x2C: // image descriptor
			if pos+10 > len(data) {
				return nil
			}
			flags := data[pos+9]
			if flags&0x80 == 0 {
				return global
			}
			start := pos + 10
			n := 3 << (flags&0x07 + 1)
			if start+n > len(data) {
				return nil
			}
			return data[start : start+n]
		default:
			return nil
		}
	}
	return nil
}

// restoreGIFTransparentColor puts the colour of the transparent entry back
// into the palette with zero alpha. image/gif replaces it with transparent
// black, which would turn a transparent white mask pixel into "change".
func restoreGIFTransparentColor(p *image.Paletted, table []byte, idx int) {
	if idx >= len(p.Palette) || 3*idx+3 > len(table) {
		return
	}
	rgb := table[3*idx : 3*idx+3]
	p.Palette[idx] = color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0}
}

// zeroAlphaIndex returns the first palette index with zero alpha, or -1.
func zeroAlphaIndex(p color.Palette) int {
	for i, c := range p {
		if c == nil {
			continue
		}
		if _, _, _, a := c.RGBA(); a == 0 {
			return i
		}
	}
	return -1
}

// ToNRGBA converts any image to non-premultiplied RGBA.
// Images without an alpha channel come out fully opaque.
// The source is never modified; an *image.NRGBA is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}

	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)
	return dst
}

// EncodePNG encodes img as PNG.
// This is a pure function with no side effects.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrImageInvalidSize
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("genmode: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
