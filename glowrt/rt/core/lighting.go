package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ReflectedLight accumulates the light leaving a shaded point. It is reset
// for every evaluation.
type ReflectedLight struct {
	DirectDiffuse   Color
	IndirectDiffuse Color
}

// Total is the outgoing colour of the point.
func (r *ReflectedLight) Total() Color {
	return r.DirectDiffuse.Add(r.IndirectDiffuse)
}

// DirectInput is what a lighting model receives for one light and one point.
// LightColor is already attenuated. LightDir points from the surface towards
// the light and Normal is the surface normal; both are unit length or zero.
type DirectInput struct {
	LightColor Color
	LightDir   mgl32.Vec3
	Normal     mgl32.Vec3
}

// LightingModel folds one direct light contribution into the accumulator.
type LightingModel interface {
	Direct(in DirectInput, reflected *ReflectedLight)
}

// AdditiveLightingModel adds every light's colour unconditionally, ignoring
// orientation. Every point gets the full attenuated colour of every light.
type AdditiveLightingModel struct{}

func (AdditiveLightingModel) Direct(in DirectInput, reflected *ReflectedLight) {
	reflected.DirectDiffuse = reflected.DirectDiffuse.Add(in.LightColor)
}

// LambertLightingModel is the conventional diffuse term. A zero normal
// receives nothing.
type LambertLightingModel struct{}

func (LambertLightingModel) Direct(in DirectInput, reflected *ReflectedLight) {
	nDotL := in.Normal.Dot(in.LightDir)
	if nDotL <= 0 {
		return
	}
	reflected.DirectDiffuse = reflected.DirectDiffuse.Add(in.LightColor.Mul(nDotL))
}
