package materials

import (
	"ray-engine/color"
	"ray-engine/math"
)

func sampleRoughDielectric(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if math.Abs(NdotV) < CosEpsilon {
		return false
	}

	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return sampleDielectric(ctx)
	}

	ior, fallbackWeight, _ := dispersiveIoR(ctx.Material, ctx.Wavelength, ctx.Params.IoR)

	// microfacet normal (half vector)
	microfacet := NewMicrofacet(roughness * roughness)
	m := microfacet.Sample(ctx.Random.GetVec2())
	microfacetPdf := microfacet.Pdf(m)
	VdotH := m.Dot(ctx.OutgoingDir)

	fresnel, _ := math.FresnelDielectric(VdotH, ior)
	reflection := ctx.Random.GetFloat() < fresnel

	if reflection {
		ctx.OutIncomingDir = math.Reflect(ctx.OutgoingDir, m).Negate()
		ctx.OutEventType = GlossyReflectionEvent
	} else {
		ctx.OutIncomingDir = math.Refract(ctx.OutgoingDir.Negate(), m, ior)
		ctx.OutEventType = GlossyRefractionEvent
	}

	NdotL := ctx.OutIncomingDir.Z
	LdotH := m.Dot(ctx.OutIncomingDir)

	// discard samples landing on the wrong side
	if (NdotV*NdotL > 0) != reflection {
		return false
	}

	d := microfacet.D(m)
	g := microfacet.G(NdotV, NdotL)

	ctx.OutColor = color.NewRayColorScalar(math.Abs(VdotH) * g * d / (microfacetPdf * math.Abs(NdotV)))

	if reflection {
		ctx.OutPdf = fresnel * microfacetPdf / (4 * math.Abs(VdotH))
		// reflection off a dielectric is untinted
	} else {
		eta := 1 / ior
		if NdotV < 0 {
			eta = ior
		}
		denom := math.Sqr(eta*VdotH + LdotH)
		ctx.OutPdf = (1 - fresnel) * microfacetPdf * math.Abs(LdotH) / denom
		ctx.OutColor = ctx.OutColor.Mul(ctx.Params.BaseColor)
	}

	ctx.OutColor = ctx.OutColor.Mul(fallbackWeight)
	return true
}

// evaluateRoughDielectric implements the Walter-Marschner microfacet
// transmission model; the half vector is reconstructed from the direction
// pair.
func evaluateRoughDielectric(ctx *EvaluationContext, outDirectPdfW *float32) color.RayColor {
	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if math.Abs(NdotV) < CosEpsilon || math.Abs(NdotL) < CosEpsilon {
		return color.RayColorZero()
	}

	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return color.RayColorZero()
	}

	ior := ctx.Params.IoR
	eta := 1 / ior
	if NdotV < 0 {
		eta = ior
	}

	reflection := NdotV*NdotL >= 0

	var m math.Vec3
	if reflection {
		m = ctx.OutgoingDir.Sub(ctx.IncomingDir)
	} else {
		m = ctx.OutgoingDir.Mul(eta).Sub(ctx.IncomingDir)
	}
	m = m.Mul(math.Signum(m.Z))
	m = m.Normalize()

	if math.Abs(m.Z) < CosEpsilon {
		return color.RayColorZero()
	}

	VdotH := m.Dot(ctx.OutgoingDir)
	LdotH := m.Dot(ctx.IncomingDir.Negate())

	microfacet := NewMicrofacet(roughness * roughness)
	fresnel, _ := math.FresnelDielectric(VdotH, ior)
	d := microfacet.D(m)
	g := microfacet.G(NdotV, NdotL)

	var result color.RayColor
	var pdf float32

	if reflection {
		pdf = fresnel * microfacet.Pdf(m) / (4 * math.Abs(VdotH))
		result = color.NewRayColorScalar(fresnel * g * d / (4 * math.Abs(NdotV)))
	} else {
		denom := math.Sqr(eta*VdotH + LdotH)
		pdf = (1 - fresnel) * microfacet.Pdf(m) * math.Abs(LdotH) / denom
		result = color.NewRayColorScalar(math.Abs(VdotH*LdotH) * (1 - fresnel) * g * d / (denom * math.Abs(NdotV)))
	}

	if outDirectPdfW != nil {
		*outDirectPdfW = pdf
	}
	return result
}
