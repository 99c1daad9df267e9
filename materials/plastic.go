package materials

import (
	"ray-engine/color"
	"ray-engine/math"
)

// plasticWeights returns the lobe selection probabilities of the two-lobe
// plastic model: a Fresnel-weighted specular coat over a diffuse base.
func plasticWeights(fresnelIn float32, params *MaterialParams) (specularProbability float32) {
	specularWeight := fresnelIn
	diffuseWeight := (1 - fresnelIn) * params.BaseColor.MaxComponent()
	return specularWeight / (specularWeight + diffuseWeight)
}

func samplePlastic(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if NdotV < CosEpsilon {
		return false
	}

	ior := ctx.Params.IoR
	fresnelIn, _ := math.FresnelDielectric(NdotV, ior)

	specularProbability := plasticWeights(fresnelIn, &ctx.Params)
	diffuseProbability := 1 - specularProbability
	specular := ctx.Random.GetFloat() < specularProbability

	if specular {
		ctx.OutColor = color.NewRayColorScalar(fresnelIn / specularProbability)
		ctx.OutIncomingDir = math.Reflect(ctx.OutgoingDir, math.Vec3Front).Negate()
		ctx.OutPdf = specularProbability
		ctx.OutEventType = SpecularReflectionEvent
	} else {
		ctx.OutIncomingDir = math.SampleHemisphereCos(ctx.Random.GetVec2())
		NdotL := ctx.OutIncomingDir.Z

		ctx.OutPdf = NdotL * math.InvPi * diffuseProbability

		fresnelOut, _ := math.FresnelDielectric(NdotL, ior)
		ctx.OutColor = ctx.Params.BaseColor.Scale((1 - fresnelIn) * (1 - fresnelOut) / diffuseProbability)
		ctx.OutEventType = DiffuseReflectionEvent
	}

	return true
}

func evaluatePlastic(ctx *EvaluationContext, outDirectPdfW, outReversePdfW *float32) color.RayColor {
	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV < CosEpsilon || NdotL < CosEpsilon {
		return color.RayColorZero()
	}

	ior := ctx.Params.IoR
	fresnelIn, _ := math.FresnelDielectric(NdotV, ior)
	fresnelOut, _ := math.FresnelDielectric(NdotL, ior)

	specularProbability := plasticWeights(fresnelIn, &ctx.Params)
	diffuseProbability := 1 - specularProbability

	if outDirectPdfW != nil {
		*outDirectPdfW = NdotL * math.InvPi * diffuseProbability
	}
	if outReversePdfW != nil {
		*outReversePdfW = NdotV * math.InvPi * diffuseProbability
	}

	return ctx.Params.BaseColor.Scale(NdotL * math.InvPi * (1 - fresnelIn) * (1 - fresnelOut))
}

func pdfPlastic(ctx *EvaluationContext, dir PdfDirection) float32 {
	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV < CosEpsilon || NdotL < CosEpsilon {
		return 0
	}

	fresnelIn, _ := math.FresnelDielectric(NdotV, ctx.Params.IoR)
	specularProbability := plasticWeights(fresnelIn, &ctx.Params)
	diffuseProbability := 1 - specularProbability

	if dir == ForwardPdf {
		return NdotL * math.InvPi * diffuseProbability
	}
	return NdotV * math.InvPi * diffuseProbability
}

func sampleRoughPlastic(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if NdotV < CosEpsilon {
		return false
	}

	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return samplePlastic(ctx)
	}

	ior := ctx.Params.IoR
	fresnelIn, _ := math.FresnelDielectric(NdotV, ior)

	specularProbability := plasticWeights(fresnelIn, &ctx.Params)
	diffuseProbability := 1 - specularProbability
	specular := ctx.Random.GetFloat() < specularProbability

	if specular {
		microfacet := NewMicrofacet(roughness * roughness)
		m := microfacet.Sample(ctx.Random.GetVec2())

		ctx.OutIncomingDir = math.Reflect(ctx.OutgoingDir, m).Negate()

		NdotL := ctx.OutIncomingDir.Z
		VdotH := m.Dot(ctx.OutgoingDir)

		if NdotL < CosEpsilon || VdotH < CosEpsilon {
			return false
		}

		pdf := microfacet.Pdf(m)
		d := microfacet.D(m)
		g := microfacet.G(NdotV, NdotL)
		fresnel, _ := math.FresnelDielectric(VdotH, ior)

		ctx.OutPdf = pdf / (4 * VdotH) * specularProbability
		ctx.OutColor = color.NewRayColorScalar(VdotH * fresnel * g * d / (pdf * NdotV * specularProbability))
		ctx.OutEventType = GlossyReflectionEvent
	} else {
		ctx.OutIncomingDir = math.SampleHemisphereCos(ctx.Random.GetVec2())
		NdotL := ctx.OutIncomingDir.Z

		ctx.OutPdf = NdotL * math.InvPi * diffuseProbability

		fresnelOut, _ := math.FresnelDielectric(NdotL, ior)
		ctx.OutColor = ctx.Params.BaseColor.Scale((1 - fresnelIn) * (1 - fresnelOut) / diffuseProbability)
		ctx.OutEventType = DiffuseReflectionEvent
	}

	return true
}

func evaluateRoughPlastic(ctx *EvaluationContext, outDirectPdfW, outReversePdfW *float32) color.RayColor {
	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return evaluatePlastic(ctx, outDirectPdfW, outReversePdfW)
	}

	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV < CosEpsilon || NdotL < CosEpsilon {
		return color.RayColorZero()
	}

	ior := ctx.Params.IoR
	fresnelIn, _ := math.FresnelDielectric(NdotV, ior)
	fresnelOut, _ := math.FresnelDielectric(NdotL, ior)

	specularProbability := plasticWeights(fresnelIn, &ctx.Params)
	diffuseProbability := 1 - specularProbability

	diffusePdf := NdotL * math.InvPi // cosine-weighted hemisphere
	diffuseReversePdf := NdotV * math.InvPi
	specularPdf := float32(0)

	diffuseTerm := ctx.Params.BaseColor.Scale(NdotL * math.InvPi * (1 - fresnelIn) * (1 - fresnelOut))
	specularTerm := color.RayColorZero()

	m := ctx.OutgoingDir.Sub(ctx.IncomingDir).Normalize()
	VdotH := m.Dot(ctx.OutgoingDir)
	if VdotH >= CosEpsilon {
		microfacet := NewMicrofacet(roughness * roughness)
		d := microfacet.D(m)
		g := microfacet.G(NdotV, NdotL)
		fresnel, _ := math.FresnelDielectric(VdotH, ior)

		specularPdf = microfacet.Pdf(m) / (4 * VdotH)
		specularTerm = color.NewRayColorScalar(fresnel * g * d / (4 * NdotV))
	}

	if outDirectPdfW != nil {
		*outDirectPdfW = diffusePdf*diffuseProbability + specularPdf*specularProbability
	}
	if outReversePdfW != nil {
		*outReversePdfW = diffuseReversePdf*diffuseProbability + specularPdf*specularProbability
	}

	return diffuseTerm.Add(specularTerm)
}

func pdfRoughPlastic(ctx *EvaluationContext, dir PdfDirection) float32 {
	roughness := ctx.Params.Roughness
	if roughness < SpecularRoughnessThreshold {
		return pdfPlastic(ctx, dir)
	}

	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV < CosEpsilon || NdotL < CosEpsilon {
		return 0
	}

	fresnelIn, _ := math.FresnelDielectric(NdotV, ctx.Params.IoR)
	specularProbability := plasticWeights(fresnelIn, &ctx.Params)
	diffuseProbability := 1 - specularProbability

	var diffusePdf float32
	if dir == ForwardPdf {
		diffusePdf = NdotL * math.InvPi
	} else {
		diffusePdf = NdotV * math.InvPi
	}

	specularPdf := float32(0)
	m := ctx.OutgoingDir.Sub(ctx.IncomingDir).Normalize()
	VdotH := m.Dot(ctx.OutgoingDir)
	if VdotH >= CosEpsilon {
		microfacet := NewMicrofacet(roughness * roughness)
		specularPdf = microfacet.Pdf(m) / (4 * VdotH)
	}

	return diffusePdf*diffuseProbability + specularPdf*specularProbability
}
