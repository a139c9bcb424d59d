package picture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"
)

// gradientImage returns a w x h image with enough structure for
// perceptual hashing to be meaningful
func gradientImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradientImage(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

// writeTestJPEG writes a w x h JPEG to path, embedding profile when non-nil
func writeTestJPEG(t *testing.T, path string, w, h int, profile []byte) []byte {
	t.Helper()
	data := encodeTestJPEG(t, w, h)
	if profile != nil {
		var err error
		data, err = EmbedICCProfile(data, profile)
		if err != nil {
			t.Fatalf("Failed to embed test profile: %v", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write test JPEG: %v", err)
	}
	return data
}

func testProfile(size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = byte(i * 7)
	}
	return p
}
