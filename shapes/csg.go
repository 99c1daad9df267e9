package shapes

import (
	stdmath "math"

	"ray-engine/bvh"
	"ray-engine/math"
)

// CsgOperator selects the boolean combination of the two child shapes.
type CsgOperator uint8

const (
	CsgUnion CsgOperator = iota
	CsgIntersection
	CsgDifference
)

// CsgShape combines two child shapes with a boolean operator. Each child
// contributes a single entry/exit interval, so unions of disjoint solids
// lose the farther interval; the hit record's sub-object id tracks which
// branch was hit so shading can delegate.
type CsgShape struct {
	ShapeA *Shape
	ShapeB *Shape
	Op     CsgOperator
}

// NewCsgShape wraps a binary CSG composite in the Shape union. Both
// children must support interval intersection (no meshes).
func NewCsgShape(a, b *Shape, op CsgOperator) *Shape {
	return &Shape{
		kind: KindCsg,
		csg:  &CsgShape{ShapeA: a, ShapeB: b, Op: op},
	}
}

func (c *CsgShape) BoundingBox() math.Box {
	boxA := c.ShapeA.BoundingBox()
	switch c.Op {
	case CsgIntersection:
		// the intersection cannot exceed either child
		return boxA
	case CsgDifference:
		return boxA
	default:
		return boxA.Union(c.ShapeB.BoundingBox())
	}
}

func (c *CsgShape) SurfaceArea() float32 {
	// no closed form; the children's sum is an upper bound used only for
	// area-sampling weights
	return c.ShapeA.SurfaceArea() + c.ShapeB.SurfaceArea()
}

func emptyInterval() ShapeIntersection {
	return ShapeIntersection{
		NearDist: stdmath.MaxFloat32,
		FarDist:  -stdmath.MaxFloat32,
	}
}

func (c *CsgShape) Intersect(ray math.Ray) (ShapeIntersection, bool) {
	intersectionA, okA := c.ShapeA.Intersect(ray)
	if !okA {
		intersectionA = emptyInterval()
	}
	intersectionB, okB := c.ShapeB.Intersect(ray)
	if !okB {
		intersectionB = emptyInterval()
	}

	var result ShapeIntersection

	switch c.Op {
	case CsgUnion:
		// a single interval is kept: disjoint unions lose the far part
		switch {
		case intersectionA.FarDist > 0 && intersectionB.FarDist <= 0:
			result = intersectionA
		case intersectionB.FarDist > 0 && intersectionA.FarDist <= 0:
			result = intersectionB
		default:
			result.NearDist = math.Min(intersectionA.NearDist, intersectionB.NearDist)
			result.FarDist = math.Max(intersectionA.FarDist, intersectionB.FarDist)
		}

	case CsgIntersection:
		result.NearDist = math.Max(intersectionA.NearDist, intersectionB.NearDist)
		result.FarDist = math.Min(intersectionA.FarDist, intersectionB.FarDist)

	case CsgDifference:
		// subtract B's interval from A's, keeping the nearer remainder
		result = intersectionA
		if intersectionB.NearDist < intersectionA.NearDist && intersectionB.FarDist > intersectionA.NearDist {
			// B covers A's entry: the surface moves to B's exit
			result.NearDist = intersectionB.FarDist
		} else if intersectionB.NearDist > intersectionA.NearDist && intersectionB.NearDist < intersectionA.FarDist {
			// B cuts into A: clip the far side
			result.FarDist = intersectionB.NearDist
		}
	}

	// record which branch produced the near surface
	if result.NearDist == intersectionA.NearDist {
		result.SubObjectID = 0
	} else {
		result.SubObjectID = 1
	}

	return result, result.NearDist < result.FarDist
}

func (c *CsgShape) SampleArea(u math.Vec3) (position, normal math.Vec3, pdfA float32) {
	// delegate by child surface-area weight
	wA := c.ShapeA.SurfaceArea()
	total := wA + c.ShapeB.SurfaceArea()
	if u.Z*total < wA {
		return c.ShapeA.SampleArea(u)
	}
	return c.ShapeB.SampleArea(u)
}

func (c *CsgShape) EvaluateIntersection(hit bvh.HitPoint, data *IntersectionData) {
	if hit.SubObjectID == 0 {
		c.ShapeA.EvaluateIntersection(hit, data)
	} else {
		c.ShapeB.EvaluateIntersection(hit, data)
	}
}
