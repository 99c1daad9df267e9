// Package shapes provides the geometric primitives the scene traces:
// sphere, axis-aligned box, triangle mesh and binary CSG composites. Shape
// is a closed tagged union dispatched by switch, so the hot intersection
// path has no interface indirection.
package shapes

import (
	"ray-engine/bvh"
	"ray-engine/math"
)

// InvalidMaterial means "use the object's default material".
const InvalidMaterial = ^uint32(0)

// ShapeKind tags the Shape union.
type ShapeKind uint8

const (
	KindSphere ShapeKind = iota
	KindBox
	KindMesh
	KindCsg
)

// ShapeIntersection is the two-sided result of an analytic intersection:
// the entry and exit distance of the ray/volume overlap.
type ShapeIntersection struct {
	NearDist    float32
	FarDist     float32
	SubObjectID uint32
}

// ShapeSampleResult describes a point sampled on the surface as seen from a
// reference point, with a solid-angle density.
type ShapeSampleResult struct {
	Position     math.Vec3
	Normal       math.Vec3
	Direction    math.Vec3
	Distance     float32
	Pdf          float32
	CosAtSurface float32
}

// IntersectionData is the local tangent frame plus shading inputs at a hit
// point. Position is filled by the caller (it follows from the ray and hit
// distance); EvaluateIntersection completes the rest.
type IntersectionData struct {
	Position  math.Vec3
	Tangent   math.Vec3
	Bitangent math.Vec3
	Normal    math.Vec3
	TexCoord  math.Vec2

	// mesh material table index, InvalidMaterial for analytic shapes
	MaterialID uint32
}

// WorldToLocal expresses a world-space direction in the tangent frame.
func (d *IntersectionData) WorldToLocal(v math.Vec3) math.Vec3 {
	return math.Vec3{
		X: v.Dot(d.Tangent),
		Y: v.Dot(d.Bitangent),
		Z: v.Dot(d.Normal),
	}
}

// LocalToWorld expresses a tangent-frame direction in world space.
func (d *IntersectionData) LocalToWorld(v math.Vec3) math.Vec3 {
	return d.Tangent.Mul(v.X).Add(d.Bitangent.Mul(v.Y)).Add(d.Normal.Mul(v.Z))
}

// Shape is the closed union over the supported primitive kinds.
type Shape struct {
	kind   ShapeKind
	sphere SphereShape
	box    BoxShape
	mesh   *MeshShape
	csg    *CsgShape
}

func (s *Shape) Kind() ShapeKind {
	return s.kind
}

// Mesh returns the mesh payload, or nil for analytic shapes.
func (s *Shape) Mesh() *MeshShape {
	return s.mesh
}

// BoundingBox returns the local-space bounds.
func (s *Shape) BoundingBox() math.Box {
	switch s.kind {
	case KindSphere:
		return s.sphere.BoundingBox()
	case KindBox:
		return s.box.BoundingBox()
	case KindMesh:
		return s.mesh.BoundingBox()
	default:
		return s.csg.BoundingBox()
	}
}

func (s *Shape) SurfaceArea() float32 {
	switch s.kind {
	case KindSphere:
		return s.sphere.SurfaceArea()
	case KindBox:
		return s.box.SurfaceArea()
	case KindMesh:
		return s.mesh.SurfaceArea()
	default:
		return s.csg.SurfaceArea()
	}
}

// Intersect finds the ray/shape overlap interval. Mesh shapes do not
// support interval queries; they are traced through their local BVH via
// Traverse.
func (s *Shape) Intersect(ray math.Ray) (ShapeIntersection, bool) {
	switch s.kind {
	case KindSphere:
		return s.sphere.Intersect(ray)
	case KindBox:
		return s.box.Intersect(ray)
	case KindCsg:
		return s.csg.Intersect(ray)
	default:
		return ShapeIntersection{}, false
	}
}

// Traverse finds the nearest hit along the context ray and records it in
// the context hit point under the given object id.
func (s *Shape) Traverse(ctx *bvh.SingleContext, objectID uint32) {
	if s.kind == KindMesh {
		s.mesh.Traverse(ctx, objectID)
		return
	}

	intersection, ok := s.Intersect(ctx.Ray)
	if !ok {
		return
	}

	if intersection.NearDist > 0 && intersection.NearDist < ctx.Hit.Distance {
		ctx.Hit.Set(intersection.NearDist, objectID, intersection.SubObjectID)
		return
	}
	if intersection.FarDist > 0 && intersection.FarDist < ctx.Hit.Distance {
		ctx.Hit.Set(intersection.FarDist, objectID, intersection.SubObjectID)
	}
}

// TraverseShadow reports whether the context ray is occluded before its
// distance limit.
func (s *Shape) TraverseShadow(ctx *bvh.SingleContext) bool {
	if s.kind == KindMesh {
		return s.mesh.TraverseShadow(ctx)
	}

	intersection, ok := s.Intersect(ctx.Ray)
	if !ok {
		return false
	}
	return intersection.FarDist > 0 && intersection.NearDist < ctx.Hit.Distance
}

// TraversePacket intersects the packet's active groups. Mesh shapes run the
// 8-wide triangle kernel through their local BVH; analytic shapes scalarize
// per lane.
func (s *Shape) TraversePacket(ctx *bvh.PacketContext, objectID uint32, numActiveGroups uint32, traversalDepth int) {
	if s.kind == KindMesh {
		bvh.TraversePacket(ctx, objectID, &s.mesh.BVH, s.mesh, numActiveGroups, traversalDepth)
		return
	}

	for i := uint32(0); i < numActiveGroups; i++ {
		group := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i]]
		for lane := 0; lane < bvh.RaysPerGroup; lane++ {
			if ctx.ActiveRaysMask[i]&(1<<uint(lane)) == 0 {
				continue
			}
			ray := group.Rays[traversalDepth].Lane(lane)
			intersection, ok := s.Intersect(ray)
			if !ok {
				continue
			}
			t := intersection.NearDist
			if t <= 0 {
				t = intersection.FarDist
			}
			if t > 0 && t < group.MaxDistances[lane] {
				group.MaxDistances[lane] = t
				hit := &ctx.HitPoints[group.RayOffsets[lane]]
				hit.Set(t, objectID, intersection.SubObjectID)
			}
		}
	}
}

// SampleArea draws a point uniformly on the surface. Returns the position,
// normal and area density.
func (s *Shape) SampleArea(u math.Vec3) (position, normal math.Vec3, pdfA float32) {
	switch s.kind {
	case KindSphere:
		return s.sphere.SampleArea(u)
	case KindBox:
		return s.box.SampleArea(u)
	case KindMesh:
		return s.mesh.SampleArea(u)
	default:
		return s.csg.SampleArea(u)
	}
}

// SampleByRef draws a point on the surface as seen from ref with a
// solid-angle density. The generic path samples by area and converts;
// spheres sample the subtended cone directly.
func (s *Shape) SampleByRef(ref math.Vec3, u math.Vec3) (ShapeSampleResult, bool) {
	if s.kind == KindSphere {
		return s.sphere.SampleByRef(ref, u)
	}
	return s.sampleByRefGeneric(ref, u)
}

func (s *Shape) sampleByRefGeneric(ref math.Vec3, u math.Vec3) (ShapeSampleResult, bool) {
	var result ShapeSampleResult
	position, normal, _ := s.SampleArea(u)
	result.Position = position
	result.Normal = normal

	dir := ref.Sub(position)
	sqrDistance := dir.LengthSqr()
	if sqrDistance <= 1e-12 {
		return result, false
	}

	distance := math.Sqrt(sqrDistance)
	dir = dir.Mul(1 / distance)

	cosNormalDir := normal.Dot(dir)
	if cosNormalDir <= 1e-7 {
		return result, false
	}

	invArea := 1 / s.SurfaceArea()
	result.Pdf = invArea * sqrDistance / cosNormalDir
	result.Distance = distance
	result.CosAtSurface = cosNormalDir
	result.Direction = dir.Negate()
	return result, true
}

// PdfByRef returns the solid-angle density of sampling the given surface
// point from ref.
func (s *Shape) PdfByRef(ref, point math.Vec3) float32 {
	if s.kind == KindSphere {
		return s.sphere.PdfByRef(ref, point)
	}

	dir := point.Sub(ref)
	sqrDistance := dir.LengthSqr()
	if sqrDistance <= 1e-12 {
		return 0
	}
	distance := math.Sqrt(sqrDistance)
	dir = dir.Mul(1 / distance)

	_, _, normal := s.normalAt(point)
	cosAtSurface := normal.Dot(dir.Negate())
	if cosAtSurface <= 1e-7 {
		return 0
	}

	return sqrDistance / (cosAtSurface * s.SurfaceArea())
}

// normalAt recovers the surface normal at a point known to lie on the
// shape; used only by the area-sampling pdf path.
func (s *Shape) normalAt(point math.Vec3) (tangent, bitangent, normal math.Vec3) {
	var data IntersectionData
	data.Position = point
	s.EvaluateIntersection(bvh.HitPoint{}, &data)
	return data.Tangent, data.Bitangent, data.Normal
}

// EvaluateIntersection fills the tangent frame, texture coordinates and
// material index at data.Position (local space).
func (s *Shape) EvaluateIntersection(hit bvh.HitPoint, data *IntersectionData) {
	switch s.kind {
	case KindSphere:
		s.sphere.EvaluateIntersection(hit, data)
	case KindBox:
		s.box.EvaluateIntersection(hit, data)
	case KindMesh:
		s.mesh.EvaluateIntersection(hit, data)
	default:
		s.csg.EvaluateIntersection(hit, data)
	}
}
