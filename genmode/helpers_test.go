package genmode

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// opaqueImage returns a w x h RGBA image filled with an opaque colour.
func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: 200, A: 255})
		}
	}
	return img
}

// partialImage returns an NRGBA image whose left half is fully transparent.
func partialImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if x < w/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 90, G: 120, B: 30, A: a})
		}
	}
	return img
}

// transparentImage returns an NRGBA image with zero alpha everywhere.
func transparentImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255 // colour without coverage
	}
	return img
}

// blankMask returns an all-white greyscale mask.
func blankMask(w, h int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	return m
}

// holeMask returns a white mask with a black square in the middle half.
func holeMask(w, h int) *image.Gray {
	m := blankMask(w, h)
	for y := h / 4; y < h*3/4; y++ {
		for x := w / 4; x < w*3/4; x++ {
			m.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return m
}

// writePNG encodes img into dir/name and returns the path.
func writePNG(t testing.TB, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// insertChunk inserts a chunk right after IHDR of an encoded PNG.
func insertChunk(t testing.TB, data []byte, typ string, payload []byte) []byte {
	t.Helper()
	if !IsPNG(data) {
		t.Fatal("insertChunk: not a PNG")
	}
	// signature (8) + IHDR length/type (8) + IHDR data (13) + CRC (4)
	const afterIHDR = 33

	chunk := make([]byte, 8, 12+len(payload))
	binary.BigEndian.PutUint32(chunk[:4], uint32(len(payload)))
	copy(chunk[4:8], typ)
	chunk = append(chunk, payload...)
	crc := crc32.ChecksumIEEE(chunk[4:])
	chunk = binary.BigEndian.AppendUint32(chunk, crc)

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:afterIHDR]...)
	out = append(out, chunk...)
	out = append(out, data[afterIHDR:]...)
	return out
}
