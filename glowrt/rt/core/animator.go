package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitScale bounds each axis of a light's orbit.
const OrbitScale = 0.9

// TimeScale converts elapsed milliseconds into animation time.
const TimeScale = 0.002

// Wave selects the trig function used on one axis.
type Wave uint8

const (
	Sin Wave = iota
	Cos
)

func (w Wave) eval(x float64) float64 {
	if w == Cos {
		return math.Cos(x)
	}
	return math.Sin(x)
}

func (w Wave) String() string {
	if w == Cos {
		return "cos"
	}
	return "sin"
}

// Orbit is one light's trajectory: axis k is Waves[k](t*Freq[k]) * scale.
type Orbit struct {
	Freq  [3]float64
	Waves [3]Wave
}

// DefaultOrbits are the per-slot trajectories of the default light set.
var DefaultOrbits = [NumLights]Orbit{
	{Freq: [3]float64{0.7, 0.5, 0.3}, Waves: [3]Wave{Sin, Cos, Cos}},
	{Freq: [3]float64{0.5, 0.9, 0.1}, Waves: [3]Wave{Cos, Sin, Sin}},
	{Freq: [3]float64{0.8, 0.4, 0.2}, Waves: [3]Wave{Sin, Cos, Sin}},
	{Freq: [3]float64{0.4, 0.6, 0.2}, Waves: [3]Wave{Sin, Cos, Cos}},
	{Freq: [3]float64{0.5, 0.8, 0.9}, Waves: [3]Wave{Sin, Cos, Cos}},
	{Freq: [3]float64{0.9, 0.4, 0.8}, Waves: [3]Wave{Sin, Cos, Cos}},
}

// Position evaluates the orbit at time t.
func (o Orbit) Position(t, scale float64) mgl32.Vec3 {
	var p mgl32.Vec3
	for k := 0; k < 3; k++ {
		p[k] = float32(o.Waves[k].eval(t*o.Freq[k]) * scale)
	}
	return p
}

// Animator places lights on their orbits. Positions depend only on t; the
// animator holds no reference to the light set between calls.
type Animator struct {
	Orbits []Orbit
	Scale  float64
}

func NewAnimator() *Animator {
	return &Animator{
		Orbits: DefaultOrbits[:],
		Scale:  OrbitScale,
	}
}

// Advance writes every light's position for time t. Lights without an orbit
// are left where they are.
func (a *Animator) Advance(t float64, lights *LightSet) {
	n := lights.Len()
	if len(a.Orbits) < n {
		n = len(a.Orbits)
	}
	for i := 0; i < n; i++ {
		lights.SetPosition(i, a.Orbits[i].Position(t, a.Scale))
	}
}

// MaxRadius is the largest distance from the origin any orbit can reach.
func (a *Animator) MaxRadius() float64 {
	return a.Scale * math.Sqrt(3)
}
