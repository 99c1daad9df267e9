// Package render drives the image formation: per-worker rendering
// contexts, the film, the tile-parallel viewport and the path-tracing
// integrators.
package render

import (
	"ray-engine/bvh"
	"ray-engine/color"
	"ray-engine/core"
	"ray-engine/math"
)

// RenderingParams tune the integrators.
type RenderingParams struct {
	MaxDepth int

	// bounces before Russian roulette may terminate a path
	MinRussianRouletteDepth int

	// use the power heuristic instead of the balance heuristic for MIS
	PowerHeuristicMIS bool

	// shadow-ray offset from surfaces
	RayEpsilon float32

	// trace primary rays through the packet traversal path
	PacketPrimaryRays bool
}

// DefaultRenderingParams mirrors the defaults the original renderer used.
func DefaultRenderingParams() RenderingParams {
	return RenderingParams{
		MaxDepth:                20,
		MinRussianRouletteDepth: 3,
		RayEpsilon:              1.0e-3,
	}
}

// RenderingContext is the per-worker scratch state: generator, wavelength,
// counters and the packet used for primary-ray traversal. Never shared
// between workers.
type RenderingContext struct {
	Random     *math.Random
	Wavelength color.Wavelength
	Counters   core.Counters
	Params     RenderingParams

	// packet scratch for the wavefront primary pass
	Packet        bvh.RayPacket
	PacketContext bvh.PacketContext
}

// NewRenderingContext builds a context around a forked generator.
func NewRenderingContext(random *math.Random, params RenderingParams) *RenderingContext {
	ctx := &RenderingContext{
		Random: random,
		Params: params,
	}
	ctx.PacketContext.Packet = &ctx.Packet
	ctx.PacketContext.Counters = &ctx.Counters
	return ctx
}

// MisWeight combines two sampling densities with the configured heuristic.
func (c *RenderingContext) MisWeight(pdfA, pdfB float32) float32 {
	if c.Params.PowerHeuristicMIS {
		a := pdfA * pdfA
		b := pdfB * pdfB
		return a / (a + b)
	}
	return pdfA / (pdfA + pdfB)
}
