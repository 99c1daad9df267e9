package render

import (
	"ray-engine/bvh"
	"ray-engine/color"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/scene"
)

// PathTracer is the plain unidirectional integrator: it follows BSDF
// samples only and collects emission whenever a path happens to hit a
// light. Simple and unbiased, but slow to find small lights; the MIS
// variant is the default choice.
type PathTracer struct {
	world *scene.Scene
}

func NewPathTracer(world *scene.Scene) *PathTracer {
	return &PathTracer{world: world}
}

func (pt *PathTracer) Name() string {
	return "Path Tracer"
}

func (pt *PathTracer) TraceRay(ray math.Ray, ctx *RenderingContext) color.RayColor {
	hit := bvh.NewHitPoint()
	traversal := bvh.SingleContext{Ray: ray, Hit: &hit, Counters: &ctx.Counters}
	pt.world.Traverse(&traversal)
	return pt.TraceRayFromHit(ray, hit, ctx)
}

func (pt *PathTracer) TraceRayFromHit(ray math.Ray, hit bvh.HitPoint, ctx *RenderingContext) color.RayColor {
	radiance := color.RayColorZero()
	throughput := color.RayColorOne()

	var shading materials.ShadingData

	for depth := 0; ; depth++ {
		if !hit.IsHit() {
			radiance = radiance.Add(throughput.Mul(pt.world.EvaluateGlobalLights(&ctx.Wavelength, ray.Dir)))
			break
		}

		material := pt.world.EvaluateShadingData(&ctx.Wavelength, ray, hit, &shading)

		if material.IsEmissive() {
			emission := material.EvaluateEmission(&ctx.Wavelength, shading.Intersection.TexCoord)
			radiance = radiance.Add(throughput.Mul(emission))
		}

		if depth >= ctx.Params.MaxDepth {
			break
		}

		nextDir, weight, pdfW, event := material.Sample(&ctx.Wavelength, &shading, ctx.Random)
		if event == materials.NullEvent || pdfW <= 0 || weight.AlmostZero() {
			break
		}
		throughput = throughput.Mul(weight)

		// Russian roulette
		if depth >= ctx.Params.MinRussianRouletteDepth {
			q := math.Clamp(throughput.MaxComponent(), 0.05, 0.95)
			if ctx.Random.GetFloat() > q {
				break
			}
			throughput = throughput.Scale(1 / q)
		}

		origin := shading.Intersection.Position.Add(nextDir.Mul(ctx.Params.RayEpsilon))
		ray = math.NewRayUnsafe(origin, nextDir)

		hit = bvh.NewHitPoint()
		traversal := bvh.SingleContext{Ray: ray, Hit: &hit, Counters: &ctx.Counters}
		pt.world.Traverse(&traversal)
	}

	return radiance
}
