//go:build !spectral

package color

import (
	"ray-engine/math"
	"ray-engine/simd"
)

// NumComponents is the number of color samples carried per ray.
const NumComponents = 4

// SpectralRendering reports whether this build carries spectral samples.
const SpectralRendering = false

// WavelengthValue is the register type backing Wavelength samples.
type WavelengthValue = simd.Float4

// Randomize picks the hero wavelength for a primary ray. In the RGB build
// colors are not wavelength-resolved, so only the base sample is stored for
// the (disabled) dispersion path.
func (w *Wavelength) Randomize(u float32) {
	w.Value = simd.SplatFloat4(u)
	w.IsSingle = false
}

// RayColor is the radiance carried by a ray: linear RGB in the first three
// lanes (the fourth lane stays zero).
type RayColor struct {
	V simd.Float4
}

func RayColorZero() RayColor {
	return RayColor{}
}

func RayColorOne() RayColor {
	return RayColor{V: simd.NewFloat4(1, 1, 1, 0)}
}

// NewRayColorScalar broadcasts a scalar weight.
func NewRayColorScalar(f float32) RayColor {
	return RayColor{V: simd.NewFloat4(f, f, f, 0)}
}

// Resolve converts a scene spectrum to the ray representation.
func Resolve(_ *Wavelength, s Spectrum) RayColor {
	return RayColor{V: simd.NewFloat4(s.RGB.X, s.RGB.Y, s.RGB.Z, 0)}
}

// SingleWavelengthFallback returns the mask applied on a
// wavelength-dependent event. Without spectral sampling there is nothing to
// collapse, so it is a no-op weight.
func SingleWavelengthFallback() RayColor {
	return RayColorOne()
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

// MaxComponent returns the largest color sample.
func (c RayColor) MaxComponent() float32 {
	return math.Max(c.V[0], math.Max(c.V[1], c.V[2]))
}

// AlmostZero reports whether every sample is negligible.
func (c RayColor) AlmostZero() bool {
	const eps = 1e-9
	return c.V[0] < eps && c.V[1] < eps && c.V[2] < eps
}

func (c RayColor) IsValid() bool {
	return c.V.IsValid() && c.V[0] >= 0 && c.V[1] >= 0 && c.V[2] >= 0
}

// ToRGB converts the accumulated ray color to linear RGB for the film.
func (c RayColor) ToRGB(_ *Wavelength) math.Vec3 {
	return math.Vec3{X: c.V[0], Y: c.V[1], Z: c.V[2]}
}
