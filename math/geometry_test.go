package math

import (
	"math"
	"testing"
)

func randomUnitVectors(n int) []Vec3 {
	random := NewRandomSeeded(12345)
	vectors := make([]Vec3, n)
	for i := range vectors {
		vectors[i] = SampleSphere(random.GetVec2())
	}
	return vectors
}

func TestBuildOrthonormalBasis(t *testing.T) {
	const eps = 1e-5

	for _, n := range randomUnitVectors(1000) {
		u, v := BuildOrthonormalBasis(n)

		if Abs(u.Length()-1) > eps {
			t.Fatalf("basis u not normalized for n=%v: |u|=%v", n, u.Length())
		}
		if Abs(v.Length()-1) > eps {
			t.Fatalf("basis v not normalized for n=%v: |v|=%v", n, v.Length())
		}
		if Abs(u.Dot(v)) > eps || Abs(u.Dot(n)) > eps || Abs(v.Dot(n)) > eps {
			t.Fatalf("basis not orthogonal for n=%v", n)
		}

		cross := n.Cross(u)
		if cross.Sub(v).Length() > 1e-4 {
			t.Fatalf("handedness broken for n=%v: n x u = %v, v = %v", n, cross, v)
		}
	}
}

func TestIntersectBoxRayPointOnBox(t *testing.T) {
	random := NewRandomSeeded(777)
	box := NewBox(Vec3{X: -1, Y: -2, Z: -0.5}, Vec3{X: 2, Y: 1, Z: 1.5})

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := Vec3{
			X: random.GetFloatBipolar() * 5,
			Y: random.GetFloatBipolar() * 5,
			Z: random.GetFloatBipolar() * 5,
		}
		dir := SampleSphere(random.GetVec2())
		ray := NewRay(origin, dir)

		distance, hit := IntersectBoxRay(ray, box)
		if !hit {
			continue
		}
		hits++

		point := ray.At(Max(distance, 0))
		if !box.Contains(point, 1e-3) {
			t.Fatalf("hit point %v not on box (ray %v -> %v, t=%v)", point, origin, dir, distance)
		}
	}

	if hits == 0 {
		t.Error("no rays hit the box; test is vacuous")
	}
}

func TestIntersectBoxRayMiss(t *testing.T) {
	box := NewBox(Vec3{X: -1, Y: -1, Z: -1}, Vec3{X: 1, Y: 1, Z: 1})

	// ray pointing away from the box
	ray := NewRay(Vec3{Z: -5}, Vec3{Z: -1})
	if _, hit := IntersectBoxRay(ray, box); hit {
		t.Error("expected miss for ray pointing away")
	}

	// parallel ray off to the side
	ray = NewRay(Vec3{X: 5, Z: -5}, Vec3{Z: 1})
	if _, hit := IntersectBoxRay(ray, box); hit {
		t.Error("expected miss for offset parallel ray")
	}
}

func TestIntersectTriangleRayBarycentric(t *testing.T) {
	random := NewRandomSeeded(4242)

	for i := 0; i < 500; i++ {
		v0 := random.GetVec3().Mul(4)
		v1 := v0.Add(random.GetVec3().Add(Vec3{X: 0.1}))
		v2 := v0.Add(random.GetVec3().Add(Vec3{Y: 0.1}))
		tri := NewProcessedTriangle(v0, v1, v2)

		// aim at a point inside the triangle
		bary := SampleTriangle(random.GetVec2())
		target := v0.Add(v1.Sub(v0).Mul(bary.X)).Add(v2.Sub(v0).Mul(bary.Y))

		origin := target.Add(SampleSphere(random.GetVec2()).Mul(3))
		ray := NewRay(origin, target.Sub(origin))

		u, v, distance, hit := IntersectTriangleRay(ray, tri)
		if !hit {
			continue
		}

		reconstructed := v0.Mul(1 - u - v).Add(v1.Mul(u)).Add(v2.Mul(v))
		point := ray.At(distance)
		if reconstructed.Sub(point).Length() > 1e-3*Max(1, point.Length()) {
			t.Fatalf("barycentric reconstruction off: %v vs %v", reconstructed, point)
		}
	}
}

func TestIntersectTriangleRayDoubleSided(t *testing.T) {
	tri := NewProcessedTriangle(
		Vec3{X: -1, Y: -1},
		Vec3{X: 1, Y: -1},
		Vec3{Y: 1},
	)

	front := NewRay(Vec3{Z: -2}, Vec3{Z: 1})
	if _, _, _, hit := IntersectTriangleRay(front, tri); !hit {
		t.Error("front face: expected hit")
	}

	back := NewRay(Vec3{Z: 2}, Vec3{Z: -1})
	if _, _, _, hit := IntersectTriangleRay(back, tri); !hit {
		t.Error("back face: expected hit (no culling)")
	}
}

func TestIntersectSphereRay(t *testing.T) {
	random := NewRandomSeeded(99)
	const radius = 1.25

	for i := 0; i < 1000; i++ {
		origin := SampleSphere(random.GetVec2()).Mul(5)
		target := SampleSphere(random.GetVec2()).Mul(radius * 0.9)
		ray := NewRay(origin, target.Sub(origin))

		near, far, hit := IntersectSphereRay(ray, radius)
		if !hit {
			t.Fatalf("ray through interior missed: origin=%v", origin)
		}

		for _, distance := range []float32{near, far} {
			r := ray.At(distance).Length()
			if Abs(r-radius) > 1e-4*radius {
				t.Fatalf("hit point radius %v, want %v", r, radius)
			}
		}
	}
}

func TestIntersectSphereRayMiss(t *testing.T) {
	// concentric miss: ray passes outside the sphere
	ray := NewRay(Vec3{X: 5, Z: -10}, Vec3{Z: 1})
	if _, _, hit := IntersectSphereRay(ray, 1); hit {
		t.Error("expected miss for ray passing outside")
	}
}

func TestReflect(t *testing.T) {
	i := Vec3{X: 1, Y: -1}.Normalize()
	n := Vec3{Y: 1}
	r := Reflect(i, n)
	want := Vec3{X: 1, Y: 1}.Normalize()
	if r.Sub(want).Length() > 1e-6 {
		t.Errorf("Reflect: expected %v, got %v", want, r)
	}
}

func TestRefractStraightThrough(t *testing.T) {
	i := Vec3{Z: -1}
	n := Vec3{Z: 1}
	r := Refract(i, n, 1.5)
	if r.Sub(i).Length() > 1e-6 {
		t.Errorf("normal incidence should pass straight through, got %v", r)
	}
}

func TestRefractTotalInternalReflection(t *testing.T) {
	// grazing exit from the dense medium
	i := Vec3{X: 0.99, Z: 0.141}.Normalize()
	n := Vec3{Z: 1}
	r := Refract(i, n, 1.5)
	if r != Vec3Zero {
		t.Errorf("expected total internal reflection, got %v", r)
	}
}

func TestQuaternionMatrixRoundTrip(t *testing.T) {
	random := NewRandomSeeded(31415)

	for i := 0; i < 500; i++ {
		axis := SampleSphere(random.GetVec2())
		angle := random.GetFloat() * TwoPi
		q := QuaternionFromAxisAngle(axis, angle)

		back := QuaternionFromMat4(q.ToMat4())

		// q and -q are the same rotation
		dot := q.X*back.X + q.Y*back.Y + q.Z*back.Z + q.W*back.W
		if dot < 0 {
			back = Quaternion{X: -back.X, Y: -back.Y, Z: -back.Z, W: -back.W}
		}

		diff := float32(math.Sqrt(float64(
			Sqr(q.X-back.X) + Sqr(q.Y-back.Y) + Sqr(q.Z-back.Z) + Sqr(q.W-back.W))))
		if diff > 1e-5 {
			t.Fatalf("round trip failed for axis=%v angle=%v: diff=%v", axis, angle, diff)
		}
	}
}

func TestFresnelDielectric(t *testing.T) {
	// normal incidence on glass: ((n-1)/(n+1))^2 = 0.04
	f, tir := FresnelDielectric(1, 1.5)
	if tir {
		t.Error("unexpected TIR at normal incidence")
	}
	if Abs(f-0.04) > 1e-3 {
		t.Errorf("normal incidence reflectance: expected 0.04, got %v", f)
	}

	// grazing incidence approaches full reflection
	f, _ = FresnelDielectric(0.01, 1.5)
	if f < 0.9 {
		t.Errorf("grazing reflectance too low: %v", f)
	}

	// exiting beyond the critical angle
	_, tir = FresnelDielectric(-0.2, 1.5)
	if !tir {
		t.Error("expected total internal reflection past the critical angle")
	}
}

func TestFresnelMetalPerfectMirror(t *testing.T) {
	// eta = 0, large k behaves as an ideal mirror
	f := FresnelMetal(1, 0, 100)
	if Abs(f-1) > 1e-4 {
		t.Errorf("expected reflectance 1, got %v", f)
	}
}

func TestMat4UniformScaleCheck(t *testing.T) {
	if !Mat4Scale(Vec3{X: 2, Y: 2, Z: 2}).HasUniformScale(1e-4) {
		t.Error("uniform scale reported as anisotropic")
	}
	if Mat4Scale(Vec3{X: 1, Y: 2, Z: 1}).HasUniformScale(1e-4) {
		t.Error("anisotropic scale reported as uniform")
	}
}
