package materials

import (
	"ray-engine/math"
	"ray-engine/simd"
)

// Microfacet is the GGX (Trowbridge-Reitz) distribution shared by the rough
// BSDFs.
type Microfacet struct {
	Alpha    float32
	AlphaSqr float32
}

func NewMicrofacet(alpha float32) Microfacet {
	return Microfacet{Alpha: alpha, AlphaSqr: alpha * alpha}
}

// D is the normal distribution function.
func (m Microfacet) D(h math.Vec3) float32 {
	NdotH := h.Z
	cosThetaSq := math.Sqr(NdotH)
	tanThetaSq := math.Max(1-cosThetaSq, 0) / cosThetaSq
	cosThetaQu := cosThetaSq * cosThetaSq
	return m.AlphaSqr * math.InvPi / (cosThetaQu * math.Sqr(m.AlphaSqr+tanThetaSq))
}

// Pdf is the density of Sample with respect to solid angle.
func (m Microfacet) Pdf(h math.Vec3) float32 {
	return m.D(h) * math.Abs(h.Z)
}

// G1 is the Smith masking term for one direction.
func (m Microfacet) G1(NdotX float32) float32 {
	tanThetaSq := math.Max(1-NdotX*NdotX, 0) / (NdotX * NdotX)
	return 2 / (1 + math.Sqrt(1+m.AlphaSqr*tanThetaSq))
}

// G is the separable Smith shadowing-masking term.
func (m Microfacet) G(NdotV, NdotL float32) float32 {
	tanThetaSqV := (1 - NdotV*NdotV) / (NdotV * NdotV)
	tanThetaSqL := (1 - NdotL*NdotL) / (NdotL * NdotL)
	return 4 / ((1 + math.Sqrt(1+m.AlphaSqr*tanThetaSqV)) * (1 + math.Sqrt(1+m.AlphaSqr*tanThetaSqL)))
}

// Sample draws a microfacet normal from the distribution.
func (m Microfacet) Sample(u math.Vec2) math.Vec3 {
	cosThetaSqr := (1 - u.X) / (1 + (m.AlphaSqr-1)*u.X)
	cosTheta := math.Sqrt(cosThetaSqr)
	sinTheta := math.Sqrt(1 - cosThetaSqr)
	phi := math.TwoPi * u.Y
	sinPhi, cosPhi := simd.SinCos(phi)

	return math.Vec3{
		X: sinTheta * sinPhi,
		Y: sinTheta * cosPhi,
		Z: cosTheta,
	}
}
