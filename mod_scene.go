package glowcloud

import (
	"math/rand"
	"time"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"
)

// Scene is the shared lighting state: the light slots, the static point
// cloud and the shading context that binds them.
type Scene struct {
	Lights   *core.LightSet
	Cloud    *core.PointCloud
	Shading  *core.ShadingContext
	Animator *core.Animator
	Seed     int64
}

// SceneModule builds the Scene resource. Zero fields fall back to the
// default six lights, 30000 points, additive lighting and windowed
// inverse-square falloff. A zero Seed picks one from the clock. A non-empty
// Lights must hold exactly core.NumLights specs.
type SceneModule struct {
	Seed       int64
	PointCount int
	Lights     []core.LightSpec
	Model      core.LightingModel
	Falloff    core.Falloff
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	scene := NewScene(mod)
	cmd.AddResources(scene)
	app.Logger().Infof("Scene: %d lights, %d points, seed %d", scene.Lights.Len(), scene.Cloud.Len(), scene.Seed)

	app.UseSystem(
		System(animateLightsSystem).
			InStage(Update),
	)
}

func NewScene(mod SceneModule) *Scene {
	seed := mod.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	count := mod.PointCount
	if count <= 0 {
		count = core.DefaultPointCount
	}

	var lights *core.LightSet
	if len(mod.Lights) > 0 {
		lights = core.NewLightSet(mod.Lights)
	} else {
		lights = core.NewDefaultLightSet()
	}

	return &Scene{
		Lights:   lights,
		Cloud:    core.GeneratePointCloud(rand.New(rand.NewSource(seed)), count),
		Shading:  core.NewShadingContext(lights, mod.Model, mod.Falloff),
		Animator: core.NewAnimator(),
		Seed:     seed,
	}
}

func animateLightsSystem(scene *Scene, t *Time) {
	scene.Animator.Advance(t.T, scene.Lights)
}
