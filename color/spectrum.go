// Package color carries radiance values along rays. The default build
// stores plain RGB; the "spectral" build tag switches to an 8-component
// hero-wavelength representation with dispersion support.
package color

import "ray-engine/math"

// Spectrum is a scene-side color definition. The engine stores linear RGB
// and converts it to the ray representation when shading.
type Spectrum struct {
	RGB math.Vec3
}

func NewSpectrum(r, g, b float32) Spectrum {
	return Spectrum{RGB: math.Vec3{X: r, Y: g, Z: b}}
}

func (s Spectrum) IsValid() bool {
	return s.RGB.IsValid() && s.RGB.X >= 0 && s.RGB.Y >= 0 && s.RGB.Z >= 0
}

func (s Spectrum) MaxComponent() float32 {
	return s.RGB.MaxComponent()
}
