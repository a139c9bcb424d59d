package picture

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Resampler scales an image to exactly width x height pixels.
// Aspect ratio is not preserved.
type Resampler interface {
	Name() string
	Resample(src image.Image, width, height int) image.Image
}

type nfntResampler struct {
	name   string
	interp resize.InterpolationFunction
}

func (r nfntResampler) Name() string { return r.name }

func (r nfntResampler) Resample(src image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), src, r.interp)
}

type drawResampler struct {
	name   string
	interp draw.Interpolator
}

func (r drawResampler) Name() string { return r.name }

func (r drawResampler) Resample(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	r.interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

type imagingResampler struct {
	name   string
	filter imaging.ResampleFilter
}

func (r imagingResampler) Name() string { return r.name }

func (r imagingResampler) Resample(src image.Image, width, height int) image.Image {
	return imaging.Resize(src, width, height, r.filter)
}

// NewResampler returns the resampler registered under name. Names are
// matched case-insensitively.
func NewResampler(name string) (Resampler, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "lanczos3":
		return nfntResampler{name: "lanczos3", interp: resize.Lanczos3}, nil
	case "bilinear":
		return nfntResampler{name: n, interp: resize.Bilinear}, nil
	case "catmullrom":
		return drawResampler{name: n, interp: draw.CatmullRom}, nil
	case "approxbilinear":
		return drawResampler{name: n, interp: draw.ApproxBiLinear}, nil
	case "lanczos":
		return imagingResampler{name: n, filter: imaging.Lanczos}, nil
	case "box":
		return imagingResampler{name: n, filter: imaging.Box}, nil
	default:
		return nil, fmt.Errorf("unknown filter %q", name)
	}
}
