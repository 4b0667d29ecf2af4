package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShadingContext binds a lighting model to a light set. It keeps no per-point
// state, so Evaluate may be called from several goroutines as long as the
// light set is not being written at the same time.
type ShadingContext struct {
	Lights  *LightSet
	Model   LightingModel
	Falloff Falloff
}

// NewShadingContext uses the additive model and windowed inverse-square
// falloff when model or falloff are nil.
func NewShadingContext(lights *LightSet, model LightingModel, falloff Falloff) *ShadingContext {
	if model == nil {
		model = AdditiveLightingModel{}
	}
	if falloff == nil {
		falloff = WindowedInverseSquare{}
	}
	return &ShadingContext{
		Lights:  lights,
		Model:   model,
		Falloff: falloff,
	}
}

// AttenuatedColor is the colour light l delivers at point p.
func (sc *ShadingContext) AttenuatedColor(l *Light, p mgl32.Vec3) Color {
	dist := l.Position.Sub(p).Len()
	return l.Color.Mul(l.Intensity * sc.Falloff.Attenuation(dist, l.Distance))
}

// Evaluate shades one point against every active light.
func (sc *ShadingContext) Evaluate(p mgl32.Vec3) Color {
	return sc.EvaluateLights(p, sc.Lights.Active())
}

// EvaluateLights shades p against an explicit light slice. The result does
// not depend on the slice order.
func (sc *ShadingContext) EvaluateLights(p mgl32.Vec3, lights []Light) Color {
	var reflected ReflectedLight
	normal := unitOrZero(p)

	for i := range lights {
		l := &lights[i]
		in := DirectInput{
			LightColor: sc.AttenuatedColor(l, p),
			LightDir:   unitOrZero(l.Position.Sub(p)),
			Normal:     normal,
		}
		sc.Model.Direct(in, &reflected)
	}
	return reflected.Total()
}

// EvaluateAll shades points into out, which must be at least as long as
// points.
func (sc *ShadingContext) EvaluateAll(points []mgl32.Vec3, out []Color) {
	lights := sc.Lights.Active()
	for i, p := range points {
		out[i] = sc.EvaluateLights(p, lights)
	}
}

func unitOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
