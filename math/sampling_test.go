package math

import "testing"

func TestSampleSphereUnitLength(t *testing.T) {
	random := NewRandomSeeded(55)

	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		p := SampleSphere(random.GetVec2())
		if Abs(p.Length()-1) > 1e-4 {
			t.Fatalf("sphere sample not unit: %v (|p|=%v)", p, p.Length())
		}
		mean = mean.Add(p)
	}

	// uniform distribution balances out
	mean = mean.Mul(1.0 / n)
	if mean.Length() > 0.02 {
		t.Errorf("sphere samples biased: mean %v", mean)
	}
}

func TestSampleHemisphereCos(t *testing.T) {
	random := NewRandomSeeded(66)

	sumCos := float32(0)
	const n = 20000
	for i := 0; i < n; i++ {
		p := SampleHemisphereCos(random.GetVec2())
		if p.Z < 0 {
			t.Fatalf("cosine hemisphere sample below horizon: %v", p)
		}
		if Abs(p.Length()-1) > 1e-3 {
			t.Fatalf("cosine hemisphere sample not unit: %v", p)
		}
		sumCos += p.Z
	}

	// E[cos] = 2/3 for the cosine-weighted hemisphere
	meanCos := sumCos / n
	if Abs(meanCos-2.0/3.0) > 0.01 {
		t.Errorf("mean cosine %v, want about 2/3", meanCos)
	}
}

func TestSampleCircleInDisk(t *testing.T) {
	random := NewRandomSeeded(77)

	for i := 0; i < 10000; i++ {
		p := SampleCircle(random.GetVec2())
		if p.X*p.X+p.Y*p.Y > 1+1e-5 {
			t.Fatalf("circle sample outside unit disk: %v", p)
		}
	}
}

func TestSampleHexagonBounded(t *testing.T) {
	random := NewRandomSeeded(88)

	for i := 0; i < 10000; i++ {
		p := SampleHexagon(random.GetVec3())
		if p.X*p.X+p.Y*p.Y > 1+1e-5 {
			t.Fatalf("hexagon sample outside unit circle: %v", p)
		}
	}
}

func TestSampleTriangleBarycentric(t *testing.T) {
	random := NewRandomSeeded(99)

	for i := 0; i < 10000; i++ {
		b := SampleTriangle(random.GetVec2())
		if b.X < 0 || b.Y < 0 || b.X+b.Y > 1+1e-6 {
			t.Fatalf("triangle sample outside simplex: %v", b)
		}
	}
}

func TestSphereCapPdf(t *testing.T) {
	// the full sphere cap (cos = -1) degenerates to the uniform sphere pdf
	if Abs(SphereCapPdf(-1)-UniformSpherePdf()) > 1e-7 {
		t.Errorf("full cap pdf %v, want %v", SphereCapPdf(-1), UniformSpherePdf())
	}
}
