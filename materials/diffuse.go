package materials

import (
	"ray-engine/color"
	"ray-engine/math"
)

func sampleDiffuse(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if NdotV < CosEpsilon {
		return false
	}

	ctx.OutIncomingDir = math.SampleHemisphereCos(ctx.Random.GetVec2())
	ctx.OutPdf = ctx.OutIncomingDir.Z * math.InvPi
	ctx.OutColor = ctx.Params.BaseColor
	ctx.OutEventType = DiffuseReflectionEvent
	return true
}

func evaluateDiffuse(ctx *EvaluationContext, outDirectPdfW, outReversePdfW *float32) color.RayColor {
	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV > CosEpsilon && NdotL > CosEpsilon {
		if outDirectPdfW != nil {
			// cosine-weighted hemisphere distribution
			*outDirectPdfW = NdotL * math.InvPi
		}
		if outReversePdfW != nil {
			*outReversePdfW = NdotV * math.InvPi
		}
		return ctx.Params.BaseColor.Scale(NdotL * math.InvPi)
	}

	return color.RayColorZero()
}

func pdfCosHemisphere(ctx *EvaluationContext, dir PdfDirection) float32 {
	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV > CosEpsilon && NdotL > CosEpsilon {
		if dir == ForwardPdf {
			return NdotL * math.InvPi
		}
		return NdotV * math.InvPi
	}
	return 0
}

// Improved Oren-Nayar term, after "An improved Oren-Nayar model of diffuse
// reflectance" (Fujii).
func roughDiffuseTerm(NdotL, NdotV, LdotV, roughness float32) float32 {
	s2 := roughness * roughness
	a := 1 - 0.50*s2/(0.33+s2)
	b := 0.45 * s2 / (0.09 + s2)
	s := LdotV - NdotL*NdotV

	stinv := float32(0)
	if s > 0 {
		stinv = s / math.Max(NdotL, NdotV)
	}

	return math.Max(a+b*stinv, 0)
}

func sampleRoughDiffuse(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if NdotV < CosEpsilon {
		return false
	}

	ctx.OutIncomingDir = math.SampleHemisphereCos(ctx.Random.GetVec2())

	NdotL := ctx.OutIncomingDir.Z
	LdotV := math.Max(0, ctx.OutgoingDir.Dot(ctx.OutIncomingDir))
	value := roughDiffuseTerm(NdotL, NdotV, LdotV, ctx.Params.Roughness)

	ctx.OutPdf = NdotL * math.InvPi
	ctx.OutColor = ctx.Params.BaseColor.Scale(value)
	ctx.OutEventType = DiffuseReflectionEvent
	return true
}

func evaluateRoughDiffuse(ctx *EvaluationContext, outDirectPdfW, outReversePdfW *float32) color.RayColor {
	NdotV := ctx.OutgoingDir.Z
	NdotL := -ctx.IncomingDir.Z

	if NdotV > CosEpsilon && NdotL > CosEpsilon {
		if outDirectPdfW != nil {
			*outDirectPdfW = NdotL * math.InvPi
		}
		if outReversePdfW != nil {
			*outReversePdfW = NdotV * math.InvPi
		}

		LdotV := math.Max(0, ctx.OutgoingDir.Dot(ctx.IncomingDir.Negate()))
		value := NdotL * math.InvPi * roughDiffuseTerm(NdotL, NdotV, LdotV, ctx.Params.Roughness)
		return ctx.Params.BaseColor.Scale(value)
	}

	return color.RayColorZero()
}
