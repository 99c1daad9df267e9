package shapes

import (
	"testing"

	"ray-engine/bvh"
	"ray-engine/core"
	"ray-engine/math"
)

func TestSphereIntersectAndFrame(t *testing.T) {
	shape := NewSphereShape(2)

	ray := math.NewRay(math.Vec3{Z: -5}, math.Vec3{Z: 1})
	intersection, ok := shape.Intersect(ray)
	if !ok {
		t.Fatal("axial ray missed the sphere")
	}
	if math.Abs(intersection.NearDist-3) > 1e-4 || math.Abs(intersection.FarDist-7) > 1e-4 {
		t.Fatalf("interval [%v, %v], want [3, 7]", intersection.NearDist, intersection.FarDist)
	}

	var data IntersectionData
	data.Position = ray.At(intersection.NearDist)
	shape.EvaluateIntersection(bvh.HitPoint{}, &data)

	wantNormal := math.Vec3{Z: -1}
	if data.Normal.Sub(wantNormal).Length() > 1e-4 {
		t.Errorf("normal %v, want %v", data.Normal, wantNormal)
	}
	if math.Abs(data.Tangent.Dot(data.Normal)) > 1e-5 {
		t.Error("tangent not orthogonal to normal")
	}
	if math.Abs(data.Bitangent.Dot(data.Normal)) > 1e-5 {
		t.Error("bitangent not orthogonal to normal")
	}
}

func TestSphereSampleByRef(t *testing.T) {
	shape := NewSphereShape(1)
	random := math.NewRandomSeeded(123)
	ref := math.Vec3{Z: -4}

	for i := 0; i < 1000; i++ {
		result, ok := shape.SampleByRef(ref, random.GetVec3())
		if !ok {
			t.Fatal("sample from outside returned invalid")
		}
		if result.Pdf <= 0 {
			t.Fatalf("non-positive pdf %v", result.Pdf)
		}

		// the sampled direction must actually hit the sphere
		ray := math.NewRayUnsafe(ref, result.Direction)
		if _, _, hit := math.IntersectSphereRay(ray, 1); !hit {
			t.Fatalf("sampled direction %v misses the sphere", result.Direction)
		}

		point := ref.Add(result.Direction.Mul(result.Distance))
		if math.Abs(point.Length()-1) > 1e-3 {
			t.Fatalf("sampled point %v not on the sphere (|p|=%v)", point, point.Length())
		}
	}

	// reference inside the sphere is rejected
	if _, ok := shape.SampleByRef(math.Vec3{X: 0.5}, random.GetVec3()); ok {
		t.Error("sampling from inside the sphere should be invalid")
	}
}

func TestSphereSolidAnglePdf(t *testing.T) {
	shape := NewSphereShape(1)
	ref := math.Vec3{Z: -2}

	// cosThetaMax = sqrt(1 - (r/d)^2) = sqrt(3)/2
	want := math.SphereCapPdf(math.Sqrt(3) / 2)
	got := shape.PdfByRef(ref, math.Vec3{Z: -1})
	if math.Abs(got-want)/want > 1e-4 {
		t.Errorf("pdf %v, want %v", got, want)
	}
}

func TestBoxIntersectTwoSided(t *testing.T) {
	shape := NewBoxShape(math.Vec3{X: 1, Y: 2, Z: 3})

	ray := math.NewRay(math.Vec3{X: -5}, math.Vec3{X: 1})
	intersection, ok := shape.Intersect(ray)
	if !ok {
		t.Fatal("axial ray missed the box")
	}
	if math.Abs(intersection.NearDist-4) > 1e-4 || math.Abs(intersection.FarDist-6) > 1e-4 {
		t.Fatalf("interval [%v, %v], want [4, 6]", intersection.NearDist, intersection.FarDist)
	}

	// from the inside both distances straddle zero
	inside := math.NewRay(math.Vec3{}, math.Vec3{X: 1})
	result, ok := shape.Intersect(inside)
	if !ok || result.NearDist >= 0 || result.FarDist <= 0 {
		t.Fatalf("inside ray: interval [%v, %v]", result.NearDist, result.FarDist)
	}
}

func TestBoxSampleArea(t *testing.T) {
	halfSize := math.Vec3{X: 1, Y: 2, Z: 3}
	shape := NewBoxShape(halfSize)
	random := math.NewRandomSeeded(321)

	for i := 0; i < 2000; i++ {
		position, normal, pdfA := shape.SampleArea(random.GetVec3())

		if math.Abs(pdfA-1/shape.SurfaceArea()) > 1e-9 {
			t.Fatalf("area pdf %v, want %v", pdfA, 1/shape.SurfaceArea())
		}
		if math.Abs(normal.Length()-1) > 1e-5 {
			t.Fatalf("normal %v not unit", normal)
		}

		// the position must lie on the face the normal names
		onFace := false
		for axis := 0; axis < 3; axis++ {
			n := normal.Component(axis)
			if n != 0 {
				if math.Abs(position.Component(axis)-n*halfSize.Component(axis)) < 1e-4 {
					onFace = true
				}
			}
		}
		if !onFace {
			t.Fatalf("sample %v (normal %v) not on a face", position, normal)
		}
	}
}

func TestBoxFaceFrames(t *testing.T) {
	shape := NewBoxShape(math.Vec3{X: 1, Y: 1, Z: 1})

	for _, dir := range []math.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		var data IntersectionData
		data.Position = dir
		shape.EvaluateIntersection(bvh.HitPoint{}, &data)

		if data.Normal.Sub(dir).Length() > 1e-5 {
			t.Errorf("face %v: normal %v", dir, data.Normal)
		}
		cross := data.Tangent.Cross(data.Bitangent)
		if cross.Sub(data.Normal).Length() > 1e-5 {
			t.Errorf("face %v: frame not right-handed (t x b = %v)", dir, cross)
		}
	}
}

func buildTestMesh(t *testing.T) *Shape {
	t.Helper()

	// a unit quad in the xy plane, two triangles
	desc := MeshDesc{
		VertexBufferDesc: VertexBufferDesc{
			Positions: []math.Vec3{
				{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1},
			},
			Normals: []math.Vec3{
				{Z: -1}, {Z: -1}, {Z: -1}, {Z: -1},
			},
			Tangents: []math.Vec3{
				{X: 1}, {X: 1}, {X: 1}, {X: 1},
			},
			TexCoords: []math.Vec2{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
			},
			VertexIndices: []uint32{0, 1, 2, 0, 2, 3},
		},
		Path: "quad",
	}

	shape, err := NewMeshShape(core.NewSystemAllocator(), desc)
	if err != nil {
		t.Fatal(err)
	}
	return shape
}

func TestMeshTraverse(t *testing.T) {
	shape := buildTestMesh(t)

	ray := math.NewRay(math.Vec3{X: 0.25, Y: 0.25, Z: -3}, math.Vec3{Z: 1})
	hit := bvh.NewHitPoint()
	ctx := bvh.SingleContext{Ray: ray, Hit: &hit}
	shape.Traverse(&ctx, 7)

	if !hit.IsHit() {
		t.Fatal("ray missed the quad")
	}
	if hit.ObjectID != 7 {
		t.Errorf("object id %d, want 7", hit.ObjectID)
	}
	if math.Abs(hit.Distance-3) > 1e-4 {
		t.Errorf("distance %v, want 3", hit.Distance)
	}

	var data IntersectionData
	data.Position = ray.At(hit.Distance)
	shape.EvaluateIntersection(hit, &data)

	if data.Normal.Sub(math.Vec3{Z: -1}).Length() > 1e-4 {
		t.Errorf("interpolated normal %v, want -z", data.Normal)
	}

	// uv interpolates the corner coordinates
	wantUV := math.Vec2{X: 0.625, Y: 0.625}
	if math.Abs(data.TexCoord.X-wantUV.X) > 1e-3 || math.Abs(data.TexCoord.Y-wantUV.Y) > 1e-3 {
		t.Errorf("uv (%v, %v), want (%v, %v)", data.TexCoord.X, data.TexCoord.Y, wantUV.X, wantUV.Y)
	}

	// a ray off the quad misses
	missRay := math.NewRay(math.Vec3{X: 5, Y: 5, Z: -3}, math.Vec3{Z: 1})
	missHit := bvh.NewHitPoint()
	missCtx := bvh.SingleContext{Ray: missRay, Hit: &missHit}
	shape.Traverse(&missCtx, 7)
	if missHit.IsHit() {
		t.Error("offset ray unexpectedly hit the quad")
	}
}

func TestMeshSampleArea(t *testing.T) {
	shape := buildTestMesh(t)
	random := math.NewRandomSeeded(555)

	if math.Abs(shape.SurfaceArea()-4) > 1e-4 {
		t.Fatalf("quad area %v, want 4", shape.SurfaceArea())
	}

	for i := 0; i < 1000; i++ {
		position, _, pdfA := shape.SampleArea(random.GetVec3())
		if math.Abs(position.Z) > 1e-5 {
			t.Fatalf("sample %v off the quad plane", position)
		}
		if math.Abs(position.X) > 1+1e-5 || math.Abs(position.Y) > 1+1e-5 {
			t.Fatalf("sample %v outside the quad", position)
		}
		if math.Abs(pdfA-0.25) > 1e-5 {
			t.Fatalf("area pdf %v, want 0.25", pdfA)
		}
	}
}

func TestCsgIntersection(t *testing.T) {
	// sphere r=1 intersected with box half-size 0.5: the box wins on the
	// axis faces
	csg := NewCsgShape(NewBoxShape(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}), NewSphereShape(1), CsgIntersection)

	ray := math.NewRay(math.Vec3{Z: -5}, math.Vec3{Z: 1})
	intersection, ok := csg.Intersect(ray)
	if !ok {
		t.Fatal("ray missed the CSG intersection")
	}
	if math.Abs(intersection.NearDist-4.5) > 1e-4 {
		t.Errorf("near %v, want 4.5 (box face)", intersection.NearDist)
	}
	if intersection.SubObjectID != 0 {
		t.Errorf("sub object %d, want 0 (box)", intersection.SubObjectID)
	}
}

func TestCsgDifference(t *testing.T) {
	// box minus a sphere that eats the entry face
	csg := NewCsgShape(NewBoxShape(math.Vec3{X: 1, Y: 1, Z: 1}), NewSphereShape(1.2), CsgDifference)

	// box interval [4, 6], sphere interval [3.8, 6.2]: the sphere consumes
	// the entry face and its exit lies beyond the box, so the axial ray
	// passes through
	ray := math.NewRay(math.Vec3{Z: -5}, math.Vec3{Z: 1})
	if _, ok := csg.Intersect(ray); ok {
		t.Error("expected the axial ray to pass through the hollowed box")
	}

	// a ray that clips the box corner avoids the sphere
	corner := math.NewRay(math.Vec3{X: 0.95, Y: 0.95, Z: -5}, math.Vec3{Z: 1})
	if intersection, ok := csg.Intersect(corner); ok {
		if intersection.NearDist >= intersection.FarDist {
			t.Errorf("degenerate interval [%v, %v]", intersection.NearDist, intersection.FarDist)
		}
	}
}

func TestCsgUnion(t *testing.T) {
	csg := NewCsgShape(NewSphereShape(1), NewBoxShape(math.Vec3{X: 0.5, Y: 0.5, Z: 2}), CsgUnion)

	ray := math.NewRay(math.Vec3{Z: -5}, math.Vec3{Z: 1})
	intersection, ok := csg.Intersect(ray)
	if !ok {
		t.Fatal("ray missed the CSG union")
	}
	if math.Abs(intersection.NearDist-3) > 1e-4 {
		t.Errorf("near %v, want 3 (box front at z=-2)", intersection.NearDist)
	}
}

func TestVertexBufferLayout(t *testing.T) {
	allocator := core.NewTrackingAllocator(core.NewSystemAllocator())

	var vb VertexBuffer
	desc := VertexBufferDesc{
		Positions:     []math.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		VertexIndices: []uint32{0, 1, 2},
	}
	if err := vb.Initialize(allocator, desc); err != nil {
		t.Fatal(err)
	}

	if vb.NumTriangles() != 1 || vb.NumVertices() != 3 {
		t.Fatalf("counts: %d triangles, %d vertices", vb.NumTriangles(), vb.NumVertices())
	}
	if len(allocator.Allocations) != 1 {
		t.Errorf("vertex buffer made %d allocations, want one arena", len(allocator.Allocations))
	}

	tri := vb.GetTriangle(0)
	if tri.V0 != (math.Vec3{}) || tri.Edge1 != (math.Vec3{X: 1}) || tri.Edge2 != (math.Vec3{Y: 1}) {
		t.Errorf("processed triangle wrong: %+v", tri)
	}

	indices := vb.GetVertexIndices(0)
	if indices.MaterialIndex != InvalidMaterial {
		t.Errorf("material index %d, want invalid", indices.MaterialIndex)
	}

	if err := vb.Initialize(allocator, VertexBufferDesc{VertexIndices: []uint32{0, 1}}); err != nil {
		t.Errorf("empty buffer should succeed, got %v", err)
	}
}

func TestVertexBufferRejectsBadIndices(t *testing.T) {
	var vb VertexBuffer
	desc := VertexBufferDesc{
		Positions:     []math.Vec3{{X: 0}},
		VertexIndices: []uint32{0, 1, 2},
	}
	if err := vb.Initialize(core.NewSystemAllocator(), desc); err == nil {
		t.Error("expected out-of-bounds index error")
	}
}
