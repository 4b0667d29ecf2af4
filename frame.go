package glowcloud

import (
	"time"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// RenderCommand is everything a renderer needs for one frame. Lights is a
// copy taken after the animator ran, so renderers never observe a
// half-updated set.
type RenderCommand struct {
	Session    uuid.UUID
	Frame      uint64
	T          float64
	Elapsed    time.Duration
	Lights     []core.Light
	View       mgl32.Mat4
	Proj       mgl32.Mat4
	ViewProj   mgl32.Mat4
	Width      int
	Height     int
	PixelRatio float32
}

// FrameModule builds the RenderCommand in PreRender, after the animator
// and input systems have run.
type FrameModule struct{}

func (mod FrameModule) Install(app *App, cmd *Commands) {
	session := uuid.New()
	cmd.AddResources(&RenderCommand{Session: session})
	app.Logger().Infof("Session %s", session)

	app.UseSystem(
		System(buildRenderCommandSystem).
			InStage(PreRender),
	)
}

func buildRenderCommandSystem(rc *RenderCommand, t *Time, scene *Scene, cam *OrbitCamera, surface *Surface) {
	aspect := surface.Aspect()

	rc.Frame = t.Frame - 1
	rc.T = t.T
	rc.Elapsed = t.Elapsed
	rc.Lights = scene.Lights.Snapshot()
	rc.View = cam.GetViewMatrix()
	rc.Proj = cam.GetProjectionMatrix(aspect)
	rc.ViewProj = rc.Proj.Mul4(rc.View)
	rc.Width = surface.Width
	rc.Height = surface.Height
	rc.PixelRatio = surface.PixelRatio
}
