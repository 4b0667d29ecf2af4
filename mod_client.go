package glowcloud

import (
	"errors"
	"fmt"

	glowapp "github.com/gekko3d/glowcloud/glowrt/rt/app"
	"github.com/gekko3d/glowcloud/glowrt/rt/gpu"
	"github.com/gekko3d/glowcloud/glowrt/rt/raster"
)

// ErrDeviceLost is returned, wrapped, when the GPU surface or command
// encoder fails mid-frame.
var ErrDeviceLost = glowapp.ErrDeviceLost

// ClientModule renders through WebGPU into a GLFW window. Install it after
// InputModule and CameraModule.
type ClientModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	HideMarkers  bool
}

type clientState struct {
	rt          *glowapp.App
	hideMarkers bool
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererWGPU))
	NewPlatformWindow(mod.WindowWidth, mod.WindowHeight, mod.WindowTitle).Install(app, cmd)

	state := &clientState{hideMarkers: mod.HideMarkers}
	cmd.AddResources(state)
	cmd.OnClose(func() error {
		if state.rt != nil {
			state.rt.Release()
		}
		return nil
	})

	app.UseSystem(
		System(gpuRenderSystem).
			InStage(Render),
	)
}

func (s *clientState) init(ws *WindowState, scene *Scene, surface *Surface) error {
	rt := glowapp.NewApp(ws.windowGlfw)
	if err := rt.Init(); err != nil {
		return fmt.Errorf("wgpu init: %w", err)
	}
	rt.GlowPass.ShowMarkers = !s.hideMarkers
	if err := rt.UploadPoints(scene.Cloud.Points); err != nil {
		rt.Release()
		return err
	}
	s.rt = rt
	syncSurface(ws, surface)
	return nil
}

// syncSurface copies the window's logical size into the Surface and derives
// the pixel ratio from the framebuffer.
func syncSurface(ws *WindowState, surface *Surface) {
	w, h := ws.windowGlfw.GetSize()
	fbw, _ := ws.windowGlfw.GetFramebufferSize()
	surface.Resize(w, h)
	if w > 0 {
		surface.PixelRatio = float32(fbw) / float32(w)
	}
}

// frameError drops skipped frames and tags everything else with the frame
// index.
func frameError(log Logger, frame uint64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, glowapp.ErrFrameSkipped) {
		log.Debugf("frame %d skipped: %v", frame, err)
		return nil
	}
	return fmt.Errorf("frame %d: %w", frame, err)
}

func gpuRenderSystem(state *clientState, ws *WindowState, rc *RenderCommand, scene *Scene, surface *Surface, cmd *Commands) error {
	if state.rt == nil {
		if err := state.init(ws, scene, surface); err != nil {
			return err
		}
	}
	if ws.resized {
		ws.resized = false
		state.rt.Resize(ws.WindowWidth, ws.WindowHeight)
		syncSurface(ws, surface)
	}

	err := state.rt.Update(gpu.SceneUniforms{
		ViewProj:     rc.ViewProj,
		Proj:         rc.Proj,
		Exposure:     1,
		MarkerRadius: raster.DefaultMarkerRadius,
		Lights:       rc.Lights,
	})
	if err != nil {
		return err
	}
	return frameError(cmd.Logger(), rc.Frame, state.rt.Render())
}
