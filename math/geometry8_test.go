package math

import (
	"math"
	"testing"

	"ray-engine/simd"
)

func coherentRays8(random *Random, octant uint32) (Ray8, [8]Ray) {
	var rays8 Ray8
	var rays [8]Ray

	for lane := 0; lane < 8; lane++ {
		dir := Vec3{
			X: 0.1 + random.GetFloat(),
			Y: 0.1 + random.GetFloat(),
			Z: 0.1 + random.GetFloat(),
		}
		if octant&1 != 0 {
			dir.X = -dir.X
		}
		if octant&2 != 0 {
			dir.Y = -dir.Y
		}
		if octant&4 != 0 {
			dir.Z = -dir.Z
		}
		origin := Vec3{
			X: random.GetFloatBipolar() * 10,
			Y: random.GetFloatBipolar() * 10,
			Z: random.GetFloatBipolar() * 10,
		}
		ray := NewRay(origin, dir)
		rays[lane] = ray
		rays8.SetLane(lane, ray)
	}
	return rays8, rays
}

func TestIntersectBoxRay8MatchesScalar(t *testing.T) {
	random := NewRandomSeeded(123)
	box := NewBox(Vec3{X: -2, Y: -1, Z: -3}, Vec3{X: 1, Y: 2, Z: 0.5})
	box8 := SplatBox8(box)
	maxDistance := simd.SplatFloat8(float32(math.Inf(1)))

	for iter := 0; iter < 200; iter++ {
		rays8, rays := coherentRays8(random, uint32(iter)%8)
		originDivDir := rays8.Origin.Mul(rays8.InvDir)

		distance, mask := IntersectBoxRay8(rays8.InvDir, originDivDir, box8, maxDistance)

		for lane := 0; lane < 8; lane++ {
			wantDist, wantHit := IntersectBoxRay(rays[lane], box)
			if mask.Get(lane) != wantHit {
				t.Fatalf("iter %d lane %d: simd hit=%v scalar hit=%v", iter, lane, mask.Get(lane), wantHit)
			}
			if wantHit && Abs(distance[lane]-wantDist) > 1e-4 {
				t.Fatalf("iter %d lane %d: simd distance %v, scalar %v", iter, lane, distance[lane], wantDist)
			}
		}
	}
}

func TestIntersectBoxRay8OctantMatchesGeneric(t *testing.T) {
	random := NewRandomSeeded(456)
	box := NewBox(Vec3{X: -1, Y: -1, Z: -1}, Vec3{X: 1, Y: 1, Z: 1})
	box8 := SplatBox8(box)
	maxDistance := simd.SplatFloat8(float32(math.Inf(1)))

	for octant := uint32(0); octant < 8; octant++ {
		for iter := 0; iter < 50; iter++ {
			rays8, _ := coherentRays8(random, octant)
			originDivDir := rays8.Origin.Mul(rays8.InvDir)

			genericDist, genericMask := IntersectBoxRay8(rays8.InvDir, originDivDir, box8, maxDistance)
			octantDist, octantMask := IntersectBoxRay8Octant(octant, rays8.InvDir, originDivDir, box8, maxDistance)

			if genericMask != octantMask {
				t.Fatalf("octant %d: mask %#b != generic %#b", octant, uint8(octantMask), uint8(genericMask))
			}
			for lane := 0; lane < 8; lane++ {
				if genericMask.Get(lane) && Abs(genericDist[lane]-octantDist[lane]) > 1e-6 {
					t.Fatalf("octant %d lane %d: distance mismatch", octant, lane)
				}
			}
		}
	}
}

func TestIntersectTriangleRay8MatchesScalar(t *testing.T) {
	random := NewRandomSeeded(789)

	for iter := 0; iter < 200; iter++ {
		v0 := random.GetVec3().Mul(2)
		v1 := v0.Add(Vec3{X: 1 + random.GetFloat()})
		v2 := v0.Add(Vec3{Y: 1 + random.GetFloat()})
		tri := NewProcessedTriangle(v0, v1, v2)
		tri8 := SplatTriangle8(tri)

		rays8, rays := coherentRays8(random, 0)
		maxDistance := simd.SplatFloat8(float32(math.Inf(1)))

		u, v, distance, mask := IntersectTriangleRay8(rays8.Dir, rays8.Origin, tri8, maxDistance)

		for lane := 0; lane < 8; lane++ {
			wantU, wantV, wantDist, wantHit := IntersectTriangleRay(rays[lane], tri)
			if mask.Get(lane) != wantHit {
				t.Fatalf("iter %d lane %d: simd hit=%v scalar hit=%v", iter, lane, mask.Get(lane), wantHit)
			}
			if wantHit {
				if Abs(u[lane]-wantU) > 1e-4 || Abs(v[lane]-wantV) > 1e-4 || Abs(distance[lane]-wantDist) > 1e-3 {
					t.Fatalf("iter %d lane %d: (u, v, t) = (%v, %v, %v), scalar (%v, %v, %v)",
						iter, lane, u[lane], v[lane], distance[lane], wantU, wantV, wantDist)
				}
			}
		}
	}
}

func TestIntersectBoxesRay8MatchesScalar(t *testing.T) {
	random := NewRandomSeeded(321)

	for iter := 0; iter < 200; iter++ {
		var boxes Box8
		var scalarBoxes [8]Box
		for lane := 0; lane < 8; lane++ {
			center := Vec3{
				X: random.GetFloatBipolar() * 5,
				Y: random.GetFloatBipolar() * 5,
				Z: random.GetFloatBipolar() * 5,
			}
			size := Vec3{
				X: 0.2 + random.GetFloat(),
				Y: 0.2 + random.GetFloat(),
				Z: 0.2 + random.GetFloat(),
			}
			scalarBoxes[lane] = NewBox(center.Sub(size), center.Add(size))
			boxes.Min.SetLane(lane, scalarBoxes[lane].Min)
			boxes.Max.SetLane(lane, scalarBoxes[lane].Max)
		}

		origin := Vec3{
			X: random.GetFloatBipolar() * 10,
			Y: random.GetFloatBipolar() * 10,
			Z: random.GetFloatBipolar() * 10,
		}
		ray := NewRay(origin, SampleSphere(random.GetVec2()))
		maxDistance := simd.SplatFloat8(float32(math.Inf(1)))

		distance, mask := IntersectBoxesRay8(ray, boxes, maxDistance)

		for lane := 0; lane < 8; lane++ {
			wantDist, wantHit := IntersectBoxRay(ray, scalarBoxes[lane])
			if mask.Get(lane) != wantHit {
				t.Fatalf("iter %d lane %d: simd hit=%v scalar hit=%v", iter, lane, mask.Get(lane), wantHit)
			}
			if wantHit && Abs(distance[lane]-wantDist) > 1e-4 {
				t.Fatalf("iter %d lane %d: simd distance %v, scalar %v", iter, lane, distance[lane], wantDist)
			}
		}
	}
}
