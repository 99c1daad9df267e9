package render

import (
	stdmath "math"

	"ray-engine/bvh"
	"ray-engine/color"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/scene"
)

// PathTracerMIS is the unidirectional integrator with next-event
// estimation: every vertex samples a light explicitly, and light hits found
// by BSDF sampling are weighted against the light-sampling density so both
// estimators combine without double counting.
type PathTracerMIS struct {
	world *scene.Scene
}

func NewPathTracerMIS(world *scene.Scene) *PathTracerMIS {
	return &PathTracerMIS{world: world}
}

func (pt *PathTracerMIS) Name() string {
	return "Path Tracer MIS"
}

func (pt *PathTracerMIS) TraceRay(ray math.Ray, ctx *RenderingContext) color.RayColor {
	hit := bvh.NewHitPoint()
	traversal := bvh.SingleContext{Ray: ray, Hit: &hit, Counters: &ctx.Counters}
	pt.world.Traverse(&traversal)
	return pt.TraceRayFromHit(ray, hit, ctx)
}

func (pt *PathTracerMIS) TraceRayFromHit(ray math.Ray, hit bvh.HitPoint, ctx *RenderingContext) color.RayColor {
	radiance := color.RayColorZero()
	throughput := color.RayColorOne()

	// a specular (or primary) vertex has no light-sampling competitor, so
	// emission found through it counts in full
	lastSpecular := true
	lastPdfW := float32(stdmath.Inf(1))
	var prevPoint math.Vec3

	numLights := len(pt.world.Lights())
	lightPickPdf := float32(0)
	if numLights > 0 {
		lightPickPdf = 1 / float32(numLights)
	}

	var shading materials.ShadingData

	for depth := 0; ; depth++ {
		if !hit.IsHit() {
			background := pt.world.EvaluateGlobalLights(&ctx.Wavelength, ray.Dir)
			if lastSpecular {
				radiance = radiance.Add(throughput.Mul(background))
			} else {
				// weight against the chance of having sampled the
				// environment by next-event estimation
				pdfLightW := math.UniformSpherePdf() * lightPickPdf
				weight := ctx.MisWeight(lastPdfW, pdfLightW)
				radiance = radiance.Add(throughput.Mul(background).Scale(weight))
			}
			break
		}

		material := pt.world.EvaluateShadingData(&ctx.Wavelength, ray, hit, &shading)

		if material.IsEmissive() {
			emission := material.EvaluateEmission(&ctx.Wavelength, shading.Intersection.TexCoord)
			if lastSpecular {
				radiance = radiance.Add(throughput.Mul(emission))
			} else if light := pt.world.LightForObject(hit.ObjectID); light != nil {
				pdfLightW := pt.world.EmissionPdfW(light, prevPoint, shading.Intersection.Position) * lightPickPdf
				weight := ctx.MisWeight(lastPdfW, pdfLightW)
				radiance = radiance.Add(throughput.Mul(emission).Scale(weight))
			}
		}

		if depth >= ctx.Params.MaxDepth {
			break
		}

		// next-event estimation
		if numLights > 0 {
			radiance = radiance.Add(throughput.Mul(pt.sampleLights(ctx, material, &shading)))
		}

		// BSDF sample for the next segment
		nextDir, weight, pdfW, event := material.Sample(&ctx.Wavelength, &shading, ctx.Random)
		if event == materials.NullEvent || pdfW <= 0 || weight.AlmostZero() {
			break
		}
		throughput = throughput.Mul(weight)
		lastSpecular = event.IsSpecular()
		lastPdfW = pdfW
		prevPoint = shading.Intersection.Position

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

// sampleLights performs one next-event estimation from the current vertex.
func (pt *PathTracerMIS) sampleLights(
	ctx *RenderingContext,
	material *materials.Material,
	shading *materials.ShadingData,
) color.RayColor {
	light, pickPdf := pt.world.PickLight(ctx.Random)
	if light == nil {
		return color.RayColorZero()
	}
	sample, ok := pt.world.SampleEmission(light, &ctx.Wavelength, shading.Intersection.Position, ctx.Random.GetVec3())
	if !ok || sample.PdfW <= 0 || sample.Radiance.AlmostZero() {
		return color.RayColorZero()
	}

	// shadow ray toward the light
	origin := shading.Intersection.Position.Add(sample.DirectionToLight.Mul(ctx.Params.RayEpsilon))
	shadowRay := math.NewRayUnsafe(origin, sample.DirectionToLight)

	limit := bvh.NewHitPoint()
	if !stdmath.IsInf(float64(sample.Distance), 1) {
		limit.Distance = sample.Distance - 2*ctx.Params.RayEpsilon
	}
	shadowCtx := bvh.SingleContext{Ray: shadowRay, Hit: &limit, Counters: &ctx.Counters}
	if pt.world.TraverseShadow(&shadowCtx) {
		return color.RayColorZero()
	}

	var bsdfPdfW float32
	value := material.Evaluate(&ctx.Wavelength, shading, sample.DirectionToLight.Negate(), &bsdfPdfW, nil)
	if value.AlmostZero() {
		return color.RayColorZero()
	}

	pdfLightTotal := sample.PdfW * pickPdf
	weight := ctx.MisWeight(pdfLightTotal, bsdfPdfW)
	return sample.Radiance.Mul(value).Scale(weight / pdfLightTotal)
}
