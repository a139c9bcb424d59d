package picture

import (
	"fmt"
	"image"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// CalculatePerceptualHash decodes the image at path and returns its
// perceptual hash
func CalculatePerceptualHash(path string) (*goimagehash.ImageHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return hashImage(img)
}

func hashImage(img image.Image) (*goimagehash.ImageHash, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return hash, nil
}

// hashDistance returns the perceptual hash distance between two images
func hashDistance(a, b image.Image) (int, error) {
	ha, err := hashImage(a)
	if err != nil {
		return 0, err
	}
	hb, err := hashImage(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}
