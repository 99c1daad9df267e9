package scene

import (
	stdmath "math"

	"ray-engine/color"
	"ray-engine/math"
)

// LightKind tags the Light union.
type LightKind uint8

const (
	// AreaLight radiates from an emissive scene object's surface.
	AreaLight LightKind = iota
	// BackgroundLight is the environment: it radiates from infinity in
	// every direction.
	BackgroundLight
)

// Light is a closed union over the supported emitter kinds.
type Light struct {
	Kind LightKind

	// backing object for area lights
	ObjectID uint32

	// environment radiance for background lights
	Color color.Spectrum
}

// LightSample is the result of sampling a light's emission toward a
// reference point.
type LightSample struct {
	DirectionToLight math.Vec3
	Distance         float32
	CosAtLight       float32
	PdfW             float32
	Radiance         color.RayColor
}

// SampleEmission draws a direction toward the light from ref with a
// solid-angle density.
func (s *Scene) SampleEmission(light *Light, wavelength *color.Wavelength, ref math.Vec3, u math.Vec3) (LightSample, bool) {
	switch light.Kind {
	case BackgroundLight:
		return LightSample{
			DirectionToLight: math.SampleSphere(math.Vec2{X: u.X, Y: u.Y}),
			Distance:         float32(stdmath.Inf(1)),
			CosAtLight:       0,
			PdfW:             math.UniformSpherePdf(),
			Radiance:         color.Resolve(wavelength, light.Color),
		}, true

	default:
		object := &s.objects[light.ObjectID]
		shape := s.shapes[object.ShapeID]

		// the shape samples in local space
		refLocal := object.inverseTransform.TransformPoint(ref)
		result, ok := shape.SampleByRef(refLocal, u)
		if !ok || result.Pdf <= 0 {
			return LightSample{}, false
		}

		material := s.objectMaterial(object)

		return LightSample{
			DirectionToLight: object.transform.TransformDir(result.Direction).Normalize(),
			Distance:         result.Distance / object.invScale,
			CosAtLight:       result.CosAtSurface,
			PdfW:             result.Pdf,
			Radiance:         material.EvaluateEmission(wavelength, math.Vec2{}),
		}, true
	}
}

// EmissionPdfW returns the solid-angle density of hitting worldPoint on the
// light from ref, for MIS weighting of BSDF samples.
func (s *Scene) EmissionPdfW(light *Light, ref, worldPoint math.Vec3) float32 {
	switch light.Kind {
	case BackgroundLight:
		return math.UniformSpherePdf()
	default:
		object := &s.objects[light.ObjectID]
		shape := s.shapes[object.ShapeID]
		refLocal := object.inverseTransform.TransformPoint(ref)
		pointLocal := object.inverseTransform.TransformPoint(worldPoint)
		return shape.PdfByRef(refLocal, pointLocal)
	}
}

