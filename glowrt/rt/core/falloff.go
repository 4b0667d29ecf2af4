package core

import "math"

// Falloff maps a light-to-point distance to an attenuation factor. cutoff is
// the light's Distance; 0 disables the cutoff.
type Falloff interface {
	Attenuation(dist, cutoff float32) float32
}

// WindowedInverseSquare is 1/(1+d²) multiplied by a smooth window
// (1-(d/r)^4)^2 that reaches zero at the cutoff. It is 1 at d=0.
type WindowedInverseSquare struct{}

func (WindowedInverseSquare) Attenuation(dist, cutoff float32) float32 {
	if dist < 0 {
		dist = -dist
	}
	att := 1.0 / (1.0 + dist*dist)
	if cutoff > 0 {
		att *= distanceWindow(dist, cutoff)
	}
	return att
}

func distanceWindow(dist, cutoff float32) float32 {
	ratio := dist / cutoff
	r2 := ratio * ratio
	w := 1 - r2*r2
	if w <= 0 {
		return 0
	}
	if w > 1 {
		w = 1
	}
	return w * w
}

// LegacyFalloff is the linear-to-cutoff curve raised to Decay:
// (1-d/r)^Decay, or 1 everywhere when there is no cutoff.
type LegacyFalloff struct {
	Decay float32
}

func (f LegacyFalloff) Attenuation(dist, cutoff float32) float32 {
	if cutoff <= 0 {
		return 1
	}
	if dist < 0 {
		dist = -dist
	}
	base := 1 - dist/cutoff
	if base <= 0 {
		return 0
	}
	if base > 1 {
		base = 1
	}
	decay := f.Decay
	if decay == 0 {
		decay = 1
	}
	return float32(math.Pow(float64(base), float64(decay)))
}
