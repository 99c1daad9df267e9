package scene

import (
	"ray-engine/bvh"
	"ray-engine/color"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/shapes"
)

// EvaluateIntersection builds the world-space tangent frame and resolves
// the material at a hit point.
func (s *Scene) EvaluateIntersection(ray math.Ray, hit bvh.HitPoint, outData *shapes.IntersectionData) *materials.Material {
	object := &s.objects[hit.ObjectID]
	shape := s.shapes[object.ShapeID]

	worldPosition := ray.At(hit.Distance)

	// the shape works in local space
	outData.Position = object.inverseTransform.TransformPoint(worldPosition)
	shape.EvaluateIntersection(hit, outData)

	// move the frame back to world space
	outData.Tangent = object.transform.TransformDir(outData.Tangent).Normalize()
	outData.Bitangent = object.transform.TransformDir(outData.Bitangent).Normalize()
	outData.Normal = object.transform.TransformDir(outData.Normal).Normalize()
	outData.Position = worldPosition

	// resolve the material: per-triangle index first, object default next
	if outData.MaterialID != shapes.InvalidMaterial && outData.MaterialID < uint32(len(s.materials)) {
		return s.materials[outData.MaterialID]
	}
	return s.objectMaterial(object)
}

// EvaluateShadingData completes shading inputs at a hit: resolved material
// parameters, normal mapping and the outgoing direction.
func (s *Scene) EvaluateShadingData(
	wavelength *color.Wavelength,
	ray math.Ray,
	hit bvh.HitPoint,
	outShading *materials.ShadingData,
) *materials.Material {
	material := s.EvaluateIntersection(ray, hit, &outShading.Intersection)

	// perturb the frame by the tangent-space normal map
	if material.NormalMap != nil {
		localNormal := material.GetNormalVector(outShading.Intersection.TexCoord)
		worldNormal := outShading.Intersection.LocalToWorld(localNormal).Normalize()

		tangent := outShading.Intersection.Tangent.
			Sub(worldNormal.Mul(outShading.Intersection.Tangent.Dot(worldNormal)))
		if tangent.LengthSqr() < 1e-12 {
			tangent, _ = math.BuildOrthonormalBasis(worldNormal)
		}
		outShading.Intersection.Tangent = tangent.Normalize()
		outShading.Intersection.Bitangent = worldNormal.Cross(outShading.Intersection.Tangent)
		outShading.Intersection.Normal = worldNormal
	}

	outShading.OutgoingDirWorldSpace = ray.Dir.Negate()
	material.EvaluateShadingData(wavelength, outShading)
	s.applyDecals(wavelength, outShading)
	return material
}
