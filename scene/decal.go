package scene

import (
	"ray-engine/color"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/textures"
)

// Decal projects a texture onto whatever surface lies inside its oriented
// unit box. Decals are resolved after material parameters, front to back in
// registration order.
type Decal struct {
	BaseColor textures.Texture

	// blend factor: 0 leaves the surface untouched, 1 replaces its base
	// color
	Alpha float32

	transform        math.Mat4
	inverseTransform math.Mat4
}

// AddDecal registers a decal; the transform places the decal's unit box
// (half-extents 1) in the world.
func (s *Scene) AddDecal(decal Decal, transform math.Mat4) {
	decal.transform = transform
	decal.inverseTransform = transform.Inverse()
	s.decals = append(s.decals, decal)
}

// applyDecals modulates the resolved base color by every decal covering the
// hit point.
func (s *Scene) applyDecals(wavelength *color.Wavelength, shading *materials.ShadingData) {
	for i := range s.decals {
		decal := &s.decals[i]

		local := decal.inverseTransform.TransformPoint(shading.Intersection.Position)
		if math.Abs(local.X) > 1 || math.Abs(local.Y) > 1 || math.Abs(local.Z) > 1 {
			continue
		}

		uv := math.Vec2{X: local.X*0.5 + 0.5, Y: local.Y*0.5 + 0.5}
		texel := decal.BaseColor.Evaluate(uv)

		weight := decal.Alpha * texel.W
		if weight <= 0 {
			continue
		}

		decalColor := color.Resolve(wavelength, color.Spectrum{
			RGB: math.Vec3{X: texel.X, Y: texel.Y, Z: texel.Z},
		})
		base := shading.Params.BaseColor.Scale(1 - weight)
		shading.Params.BaseColor = base.Add(decalColor.Scale(weight))
	}
}
