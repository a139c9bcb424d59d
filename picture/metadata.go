package picture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// GetDimensions returns the pixel size of the image at path without
// decoding the pixel data
func GetDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// GetImageInfo gathers size, color model, ICC profile and capture time
// for a JPEG file. Missing EXIF data is not an error.
func GetImageInfo(path string) (*ImageInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	info := &ImageInfo{
		Path:       path,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ColorModel: colorModelName(cfg.ColorModel),
		FileSize:   int64(len(data)),
	}

	info.ICC, info.ICCError = ReadICCProfile(data)

	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		if t, err := x.DateTime(); err == nil {
			info.CaptureTime = t
		}
	}

	return info, nil
}

func colorModelName(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "gray"
	case color.YCbCrModel:
		return "ycbcr"
	case color.CMYKModel:
		return "cmyk"
	case color.RGBAModel, color.NRGBAModel:
		return "rgb"
	default:
		return "unknown"
	}
}
