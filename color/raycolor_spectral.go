//go:build spectral

package color

import (
	"ray-engine/math"
	"ray-engine/simd"
)

// NumComponents is the number of wavelength samples carried per ray.
const NumComponents = 8

// SpectralRendering reports whether this build carries spectral samples.
const SpectralRendering = true

// WavelengthValue is the register type backing Wavelength samples.
type WavelengthValue = simd.Float8

// Randomize draws the hero wavelength and spreads the remaining samples
// uniformly across the visible range (rotated hero-wavelength sampling).
func (w *Wavelength) Randomize(u float32) {
	const offset = 1.0 / NumComponents

	w.Value = simd.SplatFloat8(u).
		Add(simd.Float8Iota().Scale(offset)).
		Fmod1().
		Scale(0.99999)
	w.IsSingle = false
}

// RayColor is the radiance carried by a ray: one sample per wavelength.
type RayColor struct {
	V simd.Float8
}

func RayColorZero() RayColor {
	return RayColor{}
}

func RayColorOne() RayColor {
	return RayColor{V: simd.Float8One()}
}

// NewRayColorScalar broadcasts a scalar weight.
func NewRayColorScalar(f float32) RayColor {
	return RayColor{V: simd.SplatFloat8(f)}
}

// Triangular reflectance bases mapping normalized wavelength position to
// RGB primaries. Crude but invertible; spectral accuracy is out of scope.
const (
	basisWidth   = 0.28
	basisCenterB = 0.15
	basisCenterG = 0.45
	basisCenterR = 0.78
)

func basisWeight(t, center float32) float32 {
	return math.Max(0, 1-math.Abs(t-center)/basisWidth)
}

// Resolve converts a scene RGB spectrum to per-wavelength reflectance.
func Resolve(w *Wavelength, s Spectrum) RayColor {
	var v simd.Float8
	for i := 0; i < NumComponents; i++ {
		t := w.Value[i]
		wr := basisWeight(t, basisCenterR)
		wg := basisWeight(t, basisCenterG)
		wb := basisWeight(t, basisCenterB)
		sum := wr + wg + wb
		if sum > 0 {
			v[i] = (s.RGB.X*wr + s.RGB.Y*wg + s.RGB.Z*wb) / sum
		}
	}
	return RayColor{V: v}
}

// SingleWavelengthFallback zeroes every non-hero sample and compensates the
// hero sample so the estimator stays unbiased after a dispersive event.
func SingleWavelengthFallback() RayColor {
	var v simd.Float8
	v[0] = NumComponents
	return RayColor{V: v}
}

func (c RayColor) Add(other RayColor) RayColor {
	return RayColor{V: c.V.Add(other.V)}
}

func (c RayColor) Mul(other RayColor) RayColor {
	return RayColor{V: c.V.Mul(other.V)}
}

func (c RayColor) Scale(s float32) RayColor {
	return RayColor{V: c.V.Scale(s)}
}

// MaxComponent returns the largest wavelength sample.
func (c RayColor) MaxComponent() float32 {
	return c.V.HorizontalMax()
}

// AlmostZero reports whether every sample is negligible.
func (c RayColor) AlmostZero() bool {
	const eps = 1e-9
	return c.V.HorizontalMax() < eps
}

func (c RayColor) IsValid() bool {
	return c.V.IsValid() && c.V.GreaterEq(simd.Float8Zero()).All()
}

// ToRGB projects the wavelength samples back onto the RGB primaries.
func (c RayColor) ToRGB(w *Wavelength) math.Vec3 {
	var rgb math.Vec3
	var norm math.Vec3
	for i := 0; i < NumComponents; i++ {
		t := w.Value[i]
		wr := basisWeight(t, basisCenterR)
		wg := basisWeight(t, basisCenterG)
		wb := basisWeight(t, basisCenterB)
		rgb.X += c.V[i] * wr
		rgb.Y += c.V[i] * wg
		rgb.Z += c.V[i] * wb
		norm.X += wr
		norm.Y += wg
		norm.Z += wb
	}
	if norm.X > 0 {
		rgb.X /= norm.X
	}
	if norm.Y > 0 {
		rgb.Y /= norm.Y
	}
	if norm.Z > 0 {
		rgb.Z /= norm.Z
	}
	return rgb
}
