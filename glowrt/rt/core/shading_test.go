package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertColorInDelta(t *testing.T, want, got Color, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, msgAndArgs...)
	}
}

// singleLight fills slot 0 with spec and leaves the other slots unlit.
func singleLight(spec LightSpec) []LightSpec {
	specs := make([]LightSpec, NumLights)
	specs[0] = spec
	return specs
}

func TestEvaluateLightAtPointIsFullColour(t *testing.T) {
	lights := NewLightSet(singleLight(LightSpec{Hex: 0x783f04, Intensity: 1, Distance: 1}))
	lights.SetPosition(0, mgl32.Vec3{0.3, -0.2, 0.1})
	sc := NewShadingContext(lights, nil, nil)

	got := sc.Evaluate(mgl32.Vec3{0.3, -0.2, 0.1})
	assert.Equal(t, HexColor(0x783f04), got)
}

func TestEvaluateOriginAtTimeZero(t *testing.T) {
	lights := NewDefaultLightSet()
	NewAnimator().Advance(0, lights)
	sc := NewShadingContext(lights, AdditiveLightingModel{}, WindowedInverseSquare{})

	// independent attenuation-then-sum in float64
	var want [3]float64
	for i, spec := range DefaultLights {
		p := lights.At(i).Position
		d := math.Sqrt(float64(p.Dot(p)))
		att := 1 / (1 + d*d)
		if r := float64(spec.Distance); r > 0 {
			w := 1 - math.Pow(d/r, 4)
			if w < 0 {
				w = 0
			}
			att *= w * w
		}
		c := HexColor(spec.Hex)
		for k := 0; k < 3; k++ {
			want[k] += float64(c[k]) * float64(spec.Intensity) * att
		}
	}

	got := sc.Evaluate(mgl32.Vec3{})
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], float64(got[k]), 1e-6)
	}
	// only the two lights inside the unit cutoff reach the origin
	assert.Greater(t, got.Max(), float32(0))
}

func TestEvaluateIsIdempotent(t *testing.T) {
	lights := NewDefaultLightSet()
	NewAnimator().Advance(17.3, lights)
	sc := NewShadingContext(lights, nil, nil)

	p := mgl32.Vec3{0.1, 0.4, -0.3}
	assert.Equal(t, sc.Evaluate(p), sc.Evaluate(p))
}

func TestEvaluateIsOrderIndependent(t *testing.T) {
	lights := NewDefaultLightSet()
	NewAnimator().Advance(5.5, lights)
	sc := NewShadingContext(lights, nil, nil)

	rng := rand.New(rand.NewSource(7))
	cloud := GeneratePointCloud(rng, 200)

	for _, p := range cloud.Points {
		base := sc.Evaluate(p)
		shuffled := lights.Snapshot()
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assertColorInDelta(t, base, sc.EvaluateLights(p, shuffled), 1e-6)
	}
}

func TestEvaluateAllMatchesEvaluate(t *testing.T) {
	lights := NewDefaultLightSet()
	NewAnimator().Advance(2, lights)
	sc := NewShadingContext(lights, nil, nil)

	cloud := GeneratePointCloud(rand.New(rand.NewSource(1)), 64)
	out := make([]Color, cloud.Len())
	sc.EvaluateAll(cloud.Points, out)

	for i, p := range cloud.Points {
		require.Equal(t, sc.Evaluate(p), out[i], "point %d", i)
	}
}

func TestEvaluateOutsideEveryCutoffIsBlack(t *testing.T) {
	lights := NewDefaultLightSet()
	NewAnimator().Advance(0, lights)
	sc := NewShadingContext(lights, nil, nil)

	assert.Equal(t, Color{}, sc.Evaluate(mgl32.Vec3{-5, -5, -5}))
}

func TestEvaluateWithLambertUsesOrientation(t *testing.T) {
	lights := NewLightSet(singleLight(LightSpec{Hex: 0xffffff, Intensity: 1}))
	lights.SetPosition(0, mgl32.Vec3{0, 0, 2})
	sc := NewShadingContext(lights, LambertLightingModel{}, nil)

	// radial normal of (0,0,1) faces the light, (0,0,-1) faces away
	facing := sc.Evaluate(mgl32.Vec3{0, 0, 1})
	away := sc.Evaluate(mgl32.Vec3{0, 0, -1})

	assertColorInDelta(t, Color{0.5, 0.5, 0.5}, facing, 1e-6)
	assert.Equal(t, Color{}, away)

	additive := NewShadingContext(lights, AdditiveLightingModel{}, nil)
	assert.Greater(t, additive.Evaluate(mgl32.Vec3{0, 0, -1}).Max(), float32(0))
}
