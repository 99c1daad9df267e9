package materials

import (
	"ray-engine/color"
	"ray-engine/math"
)

// dispersiveIoR perturbs the index of refraction per wavelength with
// Cauchy's equation and collapses transport to the hero wavelength. The
// returned weight is the collapse mask (identity when nothing happened).
func dispersiveIoR(material *Material, wavelength *color.Wavelength, ior float32) (float32, color.RayColor, bool) {
	if !color.SpectralRendering || !material.IsDispersive {
		return ior, color.RayColorOne(), false
	}

	lambda := 1.0e6 * (color.WavelengthLower +
		float64(wavelength.Base())*(color.WavelengthHigher-color.WavelengthLower))
	lambda2 := float32(lambda * lambda)
	lambda4 := lambda2 * lambda2
	ior += material.Dispersion.C / lambda2
	ior += material.Dispersion.D / lambda4

	if !wavelength.IsSingle {
		wavelength.IsSingle = true
		return ior, color.SingleWavelengthFallback(), true
	}
	return ior, color.RayColorOne(), false
}

func sampleDielectric(ctx *SamplingContext) bool {
	NdotV := ctx.OutgoingDir.Z
	if math.Abs(NdotV) < CosEpsilon {
		return false
	}

	ior, fallbackWeight, _ := dispersiveIoR(ctx.Material, ctx.Wavelength, ctx.Params.IoR)

	fresnel, _ := math.FresnelDielectric(NdotV, ior)
	reflection := fresnel == 1 || ctx.Random.GetFloat() < fresnel

	if reflection {
		ctx.OutIncomingDir = math.Reflect(ctx.OutgoingDir, math.Vec3Front).Negate()
		ctx.OutEventType = SpecularReflectionEvent
	} else {
		ctx.OutIncomingDir = math.Refract(ctx.OutgoingDir.Negate(), math.Vec3Front, ior)
		ctx.OutEventType = SpecularRefractionEvent
	}

	NdotL := ctx.OutIncomingDir.Z

	// discard samples landing on the wrong side
	if (NdotV*NdotL > 0) != reflection {
		return false
	}

	if reflection {
		ctx.OutPdf = fresnel
		ctx.OutColor = color.RayColorOne()
	} else {
		ctx.OutPdf = 1 - fresnel
		ctx.OutColor = ctx.Params.BaseColor
	}

	ctx.OutColor = ctx.OutColor.Mul(fallbackWeight)
	return true
}
