package glowcloud

import (
	"fmt"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"
	"github.com/gekko3d/glowcloud/glowrt/rt/raster"
)

// SoftwareRendererModule rasterises frames on the CPU and hands them to a
// PNG sequence, an animated GIF or both. After Frames frames it stops the
// app; Frames <= 0 renders until something else stops it.
type SoftwareRendererModule struct {
	Frames   int
	OutDir   string
	Prefix   string
	GIFPath  string
	GIFDelay int
	HUD      bool

	// Sink overrides OutDir/GIFPath when set.
	Sink raster.FrameSink
}

type softwareState struct {
	mod      SoftwareRendererModule
	sink     raster.FrameSink
	renderer *raster.Renderer
	text     *core.TextRenderer
	written  int
}

func (mod SoftwareRendererModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererSoftware))

	sink, err := mod.buildSink()
	if err != nil {
		panic(err)
	}
	state := &softwareState{mod: mod, sink: sink}
	if mod.HUD {
		state.text, err = core.NewTextRenderer(nil, 12)
		if err != nil {
			panic(err)
		}
	}
	cmd.AddResources(state)
	cmd.OnClose(func() error {
		app.Logger().Infof("Software renderer wrote %d frames", state.written)
		return state.sink.Close()
	})

	app.UseSystem(
		System(softwareRenderSystem).
			InStage(Render),
	)
}

func (mod SoftwareRendererModule) buildSink() (raster.FrameSink, error) {
	if mod.Sink != nil {
		return mod.Sink, nil
	}
	var sinks raster.MultiSink
	if mod.OutDir != "" {
		prefix := mod.Prefix
		if prefix == "" {
			prefix = "frame"
		}
		seq, err := raster.NewPNGSequence(mod.OutDir, prefix)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, seq)
	}
	if mod.GIFPath != "" {
		sinks = append(sinks, raster.NewGIFSink(mod.GIFPath, mod.GIFDelay))
	}
	return sinks, nil
}

func softwareRenderSystem(state *softwareState, rc *RenderCommand, scene *Scene, cmd *Commands) error {
	if state.renderer == nil {
		state.renderer = raster.NewRenderer(scene.Shading, state.text)
	}

	frame := raster.Frame{
		Width:      rc.Width,
		Height:     rc.Height,
		PixelRatio: rc.PixelRatio,
		ViewProj:   rc.ViewProj,
		Proj:       rc.Proj,
		Lights:     rc.Lights,
	}
	if state.text != nil {
		frame.HUD = []core.TextItem{{
			Text:     fmt.Sprintf("frame %d  t=%.3f\n%s", rc.Frame, rc.T, rc.Session.String()[:8]),
			Position: [2]float32{4, 4},
			Color:    [4]float32{1, 1, 1, 1},
		}}
	}

	img, err := state.renderer.Render(scene.Cloud.Points, frame)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", rc.Frame, err)
	}
	if err := state.sink.WriteFrame(int(rc.Frame), img); err != nil {
		return fmt.Errorf("write frame %d: %w", rc.Frame, err)
	}
	state.written++
	cmd.Logger().Debugf("frame %d t=%.3f written", rc.Frame, rc.T)

	if state.mod.Frames > 0 && state.written >= state.mod.Frames {
		cmd.Stop()
	}
	return nil
}
