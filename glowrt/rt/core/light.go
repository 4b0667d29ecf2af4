package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NumLights is the fixed size of the scene's light set.
const NumLights = 6

// Light is a point light. Distance is the falloff cutoff; 0 means no cutoff.
type Light struct {
	Index     int
	Position  mgl32.Vec3
	Color     Color
	Intensity float32
	Distance  float32
}

// LightSpec describes a light before it is placed into a LightSet.
type LightSpec struct {
	Hex       uint32
	Intensity float32
	Distance  float32
}

// DefaultLights are the six scene lights in slot order.
var DefaultLights = [NumLights]LightSpec{
	{Hex: 0xfffb00, Intensity: 1, Distance: 1},
	{Hex: 0x0040ff, Intensity: 1, Distance: 1},
	{Hex: 0x783f04, Intensity: 1, Distance: 1},
	{Hex: 0xff0000, Intensity: 1, Distance: 1},
	{Hex: 0x8300ff, Intensity: 1, Distance: 1},
	{Hex: 0x00ff7b, Intensity: 1, Distance: 1},
}

// LightSet holds a fixed number of lights addressed by slot. The slice is
// allocated once; the set never grows or shrinks.
type LightSet struct {
	lights []Light
}

// NewLightSet places specs into slots in order. It panics unless exactly
// NumLights specs are given; the GPU uniform has no room for more.
func NewLightSet(specs []LightSpec) *LightSet {
	if len(specs) != NumLights {
		panic(fmt.Sprintf("core: light set needs %d lights, got %d", NumLights, len(specs)))
	}
	ls := &LightSet{lights: make([]Light, len(specs))}
	for i, s := range specs {
		ls.lights[i] = Light{
			Index:     i,
			Color:     HexColor(s.Hex),
			Intensity: s.Intensity,
			Distance:  s.Distance,
		}
	}
	return ls
}

// NewDefaultLightSet builds the six-light scene set, all at the origin until
// the first Advance.
func NewDefaultLightSet() *LightSet {
	return NewLightSet(DefaultLights[:])
}

func (ls *LightSet) Len() int {
	return len(ls.lights)
}

// At returns a pointer to the light in slot i.
func (ls *LightSet) At(i int) *Light {
	return &ls.lights[i]
}

// SetPosition moves the light in slot i.
func (ls *LightSet) SetPosition(i int, p mgl32.Vec3) {
	ls.lights[i].Position = p
}

// Active returns the lights in slot order. Callers must treat the slice as
// read-only.
func (ls *LightSet) Active() []Light {
	return ls.lights
}

// Snapshot copies the current light state.
func (ls *LightSet) Snapshot() []Light {
	out := make([]Light, len(ls.lights))
	copy(out, ls.lights)
	return out
}
