package materials

import (
	"ray-engine/color"
	"ray-engine/math"
)

// The conductor Fresnel below tints by baseColor, which is physically
// wrong: metal color comes from wavelength-dependent IoR and the
// reflectance approaches pure white at grazing angles. The behavior is kept
// because scene content depends on it; wavelength-resolved metal IoR is the
// upgrade path.

func sampleMetal(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if NdotV < CosEpsilon {
		return false
	}

	fresnel := math.FresnelMetal(NdotV, ctx.Material.IoR, ctx.Material.K)

	ctx.OutColor = ctx.Params.BaseColor.Scale(fresnel)
	ctx.OutIncomingDir = math.Reflect(ctx.OutgoingDir, math.Vec3Front).Negate()
	ctx.OutPdf = 1
	ctx.OutEventType = SpecularReflectionEvent
	return true
}

func sampleRoughMetal(ctx *SamplingContext) bool {
	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return sampleMetal(ctx)
	}

	NdotV := ctx.OutgoingDir.Z
	if NdotV < CosEpsilon {
		return false
	}

	microfacet := NewMicrofacet(roughness * roughness)
	m := microfacet.Sample(ctx.Random.GetVec2())

	ctx.OutIncomingDir = math.Reflect(ctx.OutgoingDir, m).Negate()
	if ctx.OutIncomingDir.Z < CosEpsilon {
		return false
	}

	NdotL := ctx.OutIncomingDir.Z
	VdotH := m.Dot(ctx.OutgoingDir)

	pdf := microfacet.Pdf(m)
	d := microfacet.D(m)
	g := microfacet.G(NdotV, NdotL)
	fresnel := math.FresnelMetal(VdotH, ctx.Material.IoR, ctx.Material.K)

	ctx.OutPdf = pdf / (4 * VdotH)
	ctx.OutColor = ctx.Params.BaseColor.Scale(VdotH * fresnel * g * d / (pdf * NdotV))
	ctx.OutEventType = GlossyReflectionEvent
	return true
}

func evaluateRoughMetal(ctx *EvaluationContext, outDirectPdfW, outReversePdfW *float32) color.RayColor {
	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return color.RayColorZero()
	}

	m := ctx.OutgoingDir.Sub(ctx.IncomingDir).Normalize()

	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z
	VdotH := m.Dot(ctx.OutgoingDir)

	if NdotV < CosEpsilon || NdotL < CosEpsilon || VdotH < CosEpsilon {
		return color.RayColorZero()
	}

	microfacet := NewMicrofacet(roughness * roughness)
	d := microfacet.D(m)
	g := microfacet.G(NdotV, NdotL)
	fresnel := math.FresnelMetal(VdotH, ctx.Material.IoR, ctx.Material.K)

	pdf := microfacet.Pdf(m) / (4 * VdotH)
	if outDirectPdfW != nil {
		*outDirectPdfW = pdf
	}
	if outReversePdfW != nil {
		*outReversePdfW = pdf
	}

	return ctx.Params.BaseColor.Scale(fresnel * g * d / (4 * NdotV))
}

func pdfRoughMetal(ctx *EvaluationContext) float32 {
	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return 0
	}

	m := ctx.OutgoingDir.Sub(ctx.IncomingDir).Normalize()

	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z
	VdotH := m.Dot(ctx.OutgoingDir)

	if NdotV < CosEpsilon || NdotL < CosEpsilon || VdotH < CosEpsilon {
		return 0
	}

	microfacet := NewMicrofacet(roughness * roughness)
	return microfacet.Pdf(m) / (4 * VdotH)
}
