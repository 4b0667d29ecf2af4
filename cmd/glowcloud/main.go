package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gekko3d/glowcloud"
	"github.com/gekko3d/glowcloud/glowrt/rt/core"
)

type options struct {
	renderer   string
	frames     int
	outDir     string
	gif        string
	seed       int64
	points     int
	width      int
	height     int
	pixelRatio float64
	fps        int
	hud        bool
	legacy     float64
	debug      bool
}

// GLFW must run on the main thread.
func init() {
	runtime.LockOSThread()
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.renderer, "renderer", "software", "renderer: software, terminal or wgpu")
	flag.IntVar(&o.frames, "frames", 120, "frames to render with the software renderer")
	flag.StringVar(&o.outDir, "out", "", "directory for a PNG sequence (software renderer)")
	flag.StringVar(&o.gif, "gif", "glowcloud.gif", "animated GIF path, empty to disable (software renderer)")
	flag.Int64Var(&o.seed, "seed", 0, "point cloud seed, 0 picks one from the clock")
	flag.IntVar(&o.points, "points", core.DefaultPointCount, "number of points")
	flag.IntVar(&o.width, "width", 640, "output width in logical pixels")
	flag.IntVar(&o.height, "height", 480, "output height in logical pixels")
	flag.Float64Var(&o.pixelRatio, "pixel-ratio", 1, "device pixel ratio for the software renderer")
	flag.IntVar(&o.fps, "fps", 60, "fixed frame rate of the software clock, frame rate cap of the terminal renderer")
	flag.BoolVar(&o.hud, "hud", false, "draw frame index and time on software frames")
	flag.Float64Var(&o.legacy, "legacy-decay", 0, "use (1-d/r)^decay falloff instead of windowed inverse-square when > 0")
	flag.BoolVar(&o.debug, "debug", false, "enable debug logging (also DEBUG env)")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()
	logger := glowcloud.NewDefaultLogger("glowcloud", o.debug || os.Getenv("DEBUG") != "")

	if err := run(o, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(o options, logger glowcloud.Logger) error {
	app, err := build(o, logger)
	if err != nil {
		return err
	}
	return app.Run()
}

// recoverAs turns a panic into an error labelled with the phase it hit.
func recoverAs(phase string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %v", phase, r)
	}
}

// build installs every module. Modules panic on misconfiguration, which is
// reported as a startup error.
func build(o options, logger glowcloud.Logger) (app *glowcloud.App, err error) {
	defer recoverAs("startup", &err)

	name, err := glowcloud.ParseRendererName(o.renderer)
	if err != nil {
		return nil, err
	}

	sceneMod := glowcloud.SceneModule{Seed: o.seed, PointCount: o.points}
	if o.legacy > 0 {
		sceneMod.Falloff = core.LegacyFalloff{Decay: float32(o.legacy)}
	}

	var step, pace time.Duration
	var renderer glowcloud.Module
	builder := glowcloud.NewAppBuilder().
		UseModule(glowcloud.LoggingModule{Prefix: "glowcloud", Debug: logger.DebugEnabled()})

	switch name {
	case glowcloud.RendererSoftware:
		if o.fps > 0 {
			step = time.Second / time.Duration(o.fps)
		}
		renderer = glowcloud.SoftwareRendererModule{
			Frames:  o.frames,
			OutDir:  o.outDir,
			GIFPath: o.gif,
			HUD:     o.hud,
		}
	case glowcloud.RendererTerminal:
		if o.fps > 0 {
			pace = time.Second / time.Duration(o.fps)
		}
		renderer = glowcloud.TerminalRendererModule{}
	case glowcloud.RendererWGPU:
		builder.UseModule(glowcloud.InputModule{})
		renderer = glowcloud.ClientModule{
			WindowWidth:  o.width,
			WindowHeight: o.height,
			WindowTitle:  "glowcloud",
		}
	}

	app = builder.
		UseModule(
			glowcloud.TimeModule{Step: step, Pace: pace},
			sceneMod,
			glowcloud.CameraModule{Width: o.width, Height: o.height, PixelRatio: float32(o.pixelRatio)},
			glowcloud.FrameModule{},
		).
		Build()
	app.UseRenderer(name, renderer)
	return app, nil
}
