package render

import (
	"errors"
	"fmt"

	"ray-engine/bvh"
	"ray-engine/color"
	"ray-engine/math"
	"ray-engine/scene"
)

// ErrRendererUnavailable is returned for renderer names that are reserved
// but not built into this binary.
var ErrRendererUnavailable = errors.New("render: renderer not available")

// Renderer estimates radiance along primary rays. Implementations are
// stateless with respect to rays: all mutable state lives in the
// per-worker RenderingContext.
type Renderer interface {
	Name() string

	// TraceRay estimates radiance along a primary ray.
	TraceRay(ray math.Ray, ctx *RenderingContext) color.RayColor

	// TraceRayFromHit continues from a precomputed first intersection (the
	// packet primary pass produces these).
	TraceRayFromHit(ray math.Ray, hit bvh.HitPoint, ctx *RenderingContext) color.RayColor
}

// CreateRenderer instantiates a renderer by its public name: "Path
// Tracer", "Path Tracer MIS" or "VCM" (reserved).
func CreateRenderer(name string, world *scene.Scene) (Renderer, error) {
	switch name {
	case "Path Tracer":
		return NewPathTracer(world), nil
	case "Path Tracer MIS":
		return NewPathTracerMIS(world), nil
	case "VCM":
		// the hook exists so scene files referencing VCM keep parsing
		return nil, fmt.Errorf("%w: %q", ErrRendererUnavailable, name)
	default:
		return nil, fmt.Errorf("render: unknown renderer %q", name)
	}
}
