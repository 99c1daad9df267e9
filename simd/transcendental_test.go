package simd

import (
	"math"
	"testing"
)

func TestSinAccuracy(t *testing.T) {
	const steps = 20000
	maxError := 0.0

	for i := 0; i <= steps; i++ {
		x := -math.Pi + 2*math.Pi*float64(i)/steps
		got := float64(Sin(float32(x)))
		want := math.Sin(x)
		if err := math.Abs(got - want); err > maxError {
			maxError = err
		}
	}

	if maxError > 2e-6 {
		t.Errorf("Sin: max absolute error %g, want <= 2e-6", maxError)
	}
}

func TestCosAccuracy(t *testing.T) {
	const steps = 20000
	maxError := 0.0

	for i := 0; i <= steps; i++ {
		x := -math.Pi/2 + math.Pi*float64(i)/steps
		got := float64(Cos(float32(x)))
		want := math.Cos(x)
		if err := math.Abs(got - want); err > maxError {
			maxError = err
		}
	}

	if maxError > 2e-6 {
		t.Errorf("Cos: max absolute error %g, want <= 2e-6", maxError)
	}
}

func TestSin8MatchesScalar(t *testing.T) {
	input := NewFloat8(-3, -1.5, -0.5, 0, 0.25, 1, 2, 3)
	result := Sin8(input)
	for i := 0; i < 8; i++ {
		want := Sin(input[i])
		if math.Abs(float64(result[i]-want)) > 1e-7 {
			t.Errorf("Sin8 lane %d: expected %v, got %v", i, want, result[i])
		}
	}
}

func TestFastExpAccuracy(t *testing.T) {
	for x := -87.0; x <= 87.0; x += 0.37 {
		got := float64(FastExp(float32(x)))
		want := math.Exp(x)
		relError := math.Abs(got-want) / want
		if relError > 0.002 {
			t.Errorf("FastExp(%v): relative error %g, want <= 0.2%%", x, relError)
		}
	}
}

func TestFastExpSpecialCases(t *testing.T) {
	if got := FastExp(100); !math.IsInf(float64(got), 1) {
		t.Errorf("FastExp(100): expected +Inf, got %v", got)
	}
	if got := FastExp(-100); got != 0 {
		t.Errorf("FastExp(-100): expected 0, got %v", got)
	}
}

func TestFastExp8MatchesScalar(t *testing.T) {
	input := NewFloat8(-50, -10, -1, 0, 0.5, 1, 10, 50)
	result := FastExp8(input)
	for i := 0; i < 8; i++ {
		want := FastExp(input[i])
		relError := math.Abs(float64(result[i]-want)) / math.Max(float64(want), 1e-30)
		if relError > 1e-6 {
			t.Errorf("FastExp8 lane %d: expected %v, got %v", i, want, result[i])
		}
	}
}

func TestLogAccuracy(t *testing.T) {
	for exp := -30; exp <= 30; exp++ {
		for _, m := range []float64{1.0, 1.3, 2.1, 5.5, 9.9} {
			x := m * math.Pow(10, float64(exp))
			got := float64(Log(float32(x)))
			want := math.Log(x)
			if math.Abs(got-want) > math.Abs(want)*1e-5+1e-6 {
				t.Errorf("Log(%g): expected %v, got %v", x, want, got)
			}
		}
	}
}

func TestFastLogAccuracy(t *testing.T) {
	for exp := -30; exp <= 30; exp++ {
		for _, m := range []float64{1.0, 1.3, 2.1, 5.5, 9.9} {
			x := m * math.Pow(10, float64(exp))
			got := float64(FastLog(float32(x)))
			want := math.Log(x)
			relError := math.Abs(got-want) / math.Max(math.Abs(want), 1)
			if relError > 0.0007 {
				t.Errorf("FastLog(%g): relative error %g, want <= 0.07%%", x, relError)
			}
		}
	}
}

func TestFastACos(t *testing.T) {
	for x := -1.0; x <= 1.0; x += 0.001 {
		got := float64(FastACos(float32(x)))
		want := math.Acos(x)
		if math.Abs(got-want) > 1e-4 {
			t.Errorf("FastACos(%v): expected %v, got %v", x, want, got)
		}
	}
}

func TestFastATan2(t *testing.T) {
	for angle := 0.01; angle < 2*math.Pi; angle += 0.01 {
		y := math.Sin(angle)
		x := math.Cos(angle)
		got := float64(FastATan2(float32(y), float32(x)))
		want := math.Atan2(y, x)
		if math.Abs(got-want) > 5e-4 {
			t.Errorf("FastATan2(%v, %v): expected %v, got %v", y, x, want, got)
		}
	}
}
