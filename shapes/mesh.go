package shapes

import (
	"fmt"

	"ray-engine/bvh"
	"ray-engine/core"
	"ray-engine/math"
	"ray-engine/simd"
)

// MeshShape is a triangle mesh owning its vertex buffer and a local BVH.
type MeshShape struct {
	VertexBuffer VertexBuffer
	BVH          bvh.BVH

	boundingBox math.Box

	// cumulative triangle areas for area sampling
	triangleAreaCdf []float32
	totalArea       float32
}

// MeshDesc describes a mesh to build.
type MeshDesc struct {
	VertexBufferDesc
	Path string
}

// NewMeshShape builds the vertex buffer and local BVH and wraps the mesh in
// the Shape union.
func NewMeshShape(allocator core.Allocator, desc MeshDesc) (*Shape, error) {
	mesh := &MeshShape{}

	if err := mesh.VertexBuffer.Initialize(allocator, desc.VertexBufferDesc); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", desc.Path, err)
	}

	numTriangles := mesh.VertexBuffer.NumTriangles()

	boxes := make([]math.Box, numTriangles)
	mesh.boundingBox = math.EmptyBox()
	for i := uint32(0); i < numTriangles; i++ {
		tri := mesh.VertexBuffer.GetTriangle(i)
		box := math.BoxFromPoint(tri.V0).
			AddPoint(tri.V0.Add(tri.Edge1)).
			AddPoint(tri.V0.Add(tri.Edge2))
		boxes[i] = box
		mesh.boundingBox = mesh.boundingBox.Union(box)
	}

	tree, order, err := bvh.Build(boxes, 4)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", desc.Path, err)
	}
	mesh.BVH = *tree
	if order != nil {
		mesh.VertexBuffer.ReorderTriangles(order)
	}

	mesh.triangleAreaCdf = make([]float32, numTriangles)
	for i := uint32(0); i < numTriangles; i++ {
		tri := mesh.VertexBuffer.GetTriangle(i)
		area := tri.Edge1.Cross(tri.Edge2).Length() * 0.5
		mesh.totalArea += area
		mesh.triangleAreaCdf[i] = mesh.totalArea
	}

	return &Shape{kind: KindMesh, mesh: mesh}, nil
}

func (m *MeshShape) BoundingBox() math.Box {
	return m.boundingBox
}

func (m *MeshShape) SurfaceArea() float32 {
	return m.totalArea
}

// Traverse runs the local BVH with the scalar triangle kernel.
func (m *MeshShape) Traverse(ctx *bvh.SingleContext, objectID uint32) {
	bvh.Traverse(ctx, objectID, &m.BVH, m)
}

func (m *MeshShape) TraverseShadow(ctx *bvh.SingleContext) bool {
	return bvh.TraverseShadow(ctx, &m.BVH, m)
}

// TraverseLeaf intersects the ray against the leaf's triangle range.
func (m *MeshShape) TraverseLeaf(ctx *bvh.SingleContext, objectID uint32, node *bvh.Node) {
	first := node.ChildIndex
	count := node.NumLeaves()

	if ctx.Counters != nil {
		ctx.Counters.NumRayTriangleTests += uint64(count)
	}

	for i := uint32(0); i < count; i++ {
		triangleIndex := first + i
		tri := m.VertexBuffer.GetTriangle(triangleIndex)

		u, v, distance, hit := math.IntersectTriangleRay(ctx.Ray, tri)
		if hit && distance < ctx.Hit.Distance {
			ctx.Hit.Set(distance, objectID, triangleIndex)
			ctx.Hit.U = u
			ctx.Hit.V = v
			if ctx.Counters != nil {
				ctx.Counters.NumPassedRayTriangleTests++
			}
		}
	}
}

// TraverseLeafShadow reports any occluding triangle in the leaf.
func (m *MeshShape) TraverseLeafShadow(ctx *bvh.SingleContext, node *bvh.Node) bool {
	first := node.ChildIndex
	count := node.NumLeaves()

	if ctx.Counters != nil {
		ctx.Counters.NumRayTriangleTests += uint64(count)
	}

	for i := uint32(0); i < count; i++ {
		tri := m.VertexBuffer.GetTriangle(first + i)

		_, _, distance, hit := math.IntersectTriangleRay(ctx.Ray, tri)
		if hit && distance < ctx.Hit.Distance {
			return true
		}
	}
	return false
}

// TraverseLeafPacket runs each leaf triangle against the packet's active
// groups with the 8-wide kernel.
func (m *MeshShape) TraverseLeafPacket(ctx *bvh.PacketContext, objectID uint32, node *bvh.Node, numActiveGroups uint32, traversalDepth int) {
	first := node.ChildIndex
	count := node.NumLeaves()

	for t := uint32(0); t < count; t++ {
		triangleIndex := first + t
		tri := math.SplatTriangle8(m.VertexBuffer.GetTriangle(triangleIndex))

		for i := uint32(0); i < numActiveGroups; i++ {
			group := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i]]
			rays := &group.Rays[traversalDepth]

			u, v, distance, mask := math.IntersectTriangleRay8(rays.Dir, rays.Origin, tri, group.MaxDistances)
			mask = mask.And(simd.Bool8(ctx.ActiveRaysMask[i]))
			ctx.StoreIntersection(group, distance, u, v, mask, objectID, triangleIndex)
		}
	}
}

// SampleArea picks a triangle proportionally to area, then a point
// uniformly inside it.
func (m *MeshShape) SampleArea(u math.Vec3) (position, normal math.Vec3, pdfA float32) {
	if m.totalArea <= 0 {
		return math.Vec3Zero, math.Vec3Up, 0
	}

	target := u.Z * m.totalArea
	lo, hi := 0, len(m.triangleAreaCdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if m.triangleAreaCdf[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	tri := m.VertexBuffer.GetTriangle(uint32(lo))
	bary := math.SampleTriangle(math.Vec2{X: u.X, Y: u.Y})

	position = tri.V0.Add(tri.Edge1.Mul(bary.X)).Add(tri.Edge2.Mul(bary.Y))
	normal = tri.Edge1.Cross(tri.Edge2).Normalize()
	return position, normal, 1 / m.totalArea
}

// EvaluateIntersection interpolates the vertex shading records with the
// barycentric hit coordinates, renormalizes the normal and re-orthogonalizes
// the tangent against it.
func (m *MeshShape) EvaluateIntersection(hit bvh.HitPoint, data *IntersectionData) {
	indices := m.VertexBuffer.GetVertexIndices(hit.SubObjectID)
	a, b, c := m.VertexBuffer.GetShadingData(indices)

	w := 1 - hit.U - hit.V

	normal := a.Normal.Mul(w).Add(b.Normal.Mul(hit.U)).Add(c.Normal.Mul(hit.V))
	tangent := a.Tangent.Mul(w).Add(b.Tangent.Mul(hit.U)).Add(c.Tangent.Mul(hit.V))

	if normal.LengthSqr() < 1e-12 {
		tri := m.VertexBuffer.GetTriangle(hit.SubObjectID)
		normal = tri.Edge1.Cross(tri.Edge2)
	}
	normal = normal.Normalize()

	// Gram-Schmidt: keep the tangent orthogonal to the shading normal
	tangent = tangent.Sub(normal.Mul(tangent.Dot(normal)))
	if tangent.LengthSqr() < 1e-12 {
		tangent, _ = math.BuildOrthonormalBasis(normal)
	}
	tangent = tangent.Normalize()

	data.Normal = normal
	data.Tangent = tangent
	data.Bitangent = normal.Cross(tangent)
	data.TexCoord = a.TexCoord.Mul(w).
		Add(b.TexCoord.Mul(hit.U)).
		Add(c.TexCoord.Mul(hit.V))
	data.MaterialID = indices.MaterialIndex
}
