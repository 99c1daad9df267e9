package math

// Triangle holds three vertices.
type Triangle struct {
	V0, V1, V2 Vec3
}

// ProcessedTriangle is the precomputed form consumed by the intersection
// kernel: base vertex plus the two edges.
type ProcessedTriangle struct {
	V0    Vec3
	Edge1 Vec3
	Edge2 Vec3
}

func NewProcessedTriangle(v0, v1, v2 Vec3) ProcessedTriangle {
	return ProcessedTriangle{
		V0:    v0,
		Edge1: v1.Sub(v0),
		Edge2: v2.Sub(v0),
	}
}
