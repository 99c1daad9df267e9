package render

import (
	"fmt"
	"image"
	stdcolor "image/color"
	stdmath "math"

	"github.com/disintegration/imaging"
)

// ToImage resolves the accumulated HDR sums to an 8-bit sRGB image with a
// simple exposure scale.
func (f *Film) ToImage(exposure float32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))

	scale := exposure
	if f.numPasses > 0 {
		scale /= float32(f.numPasses)
	}

	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			value := f.sum[y*f.width+x].Mul(scale)
			img.SetNRGBA(x, y, stdcolor.NRGBA{
				R: toSRGB8(value.X),
				G: toSRGB8(value.Y),
				B: toSRGB8(value.Z),
				A: 255,
			})
		}
	}

	// film rows grow upward, image rows grow downward
	return imaging.FlipV(img)
}

// SaveImage tone-maps the film and writes it to disk; the format follows
// the file extension (png, jpg, bmp, tif).
func (f *Film) SaveImage(path string, exposure float32) error {
	if err := imaging.Save(f.ToImage(exposure), path); err != nil {
		return fmt.Errorf("render: saving film: %w", err)
	}
	return nil
}

func toSRGB8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v < 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*float32(stdmath.Pow(float64(v), 1.0/2.4)) - 0.055
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
