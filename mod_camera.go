package glowcloud

import (
	"github.com/gekko3d/glowcloud/glowrt/rt/core"
	"github.com/gekko3d/glowcloud/glowrt/rt/raster"
)

// OrbitCamera is the view resource, an orbit around the origin.
type OrbitCamera struct {
	core.CameraState
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{CameraState: *core.NewCameraState()}
}

// Surface is the output size in logical pixels plus the device pixel ratio.
type Surface struct {
	Width      int
	Height     int
	PixelRatio float32
}

// Resize only updates dimensions; the scene and camera are untouched.
func (s *Surface) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.Width = w
	s.Height = h
}

func (s *Surface) Aspect() float32 {
	if s.Height <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

// BufferSize is the framebuffer size after applying the pixel ratio.
func (s *Surface) BufferSize() (int, int) {
	return raster.InternalSize(s.Width, s.Height, s.PixelRatio)
}

type CameraModule struct {
	Width      int
	Height     int
	PixelRatio float32
}

func (mod CameraModule) Install(app *App, cmd *Commands) {
	w, h := mod.Width, mod.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	pr := mod.PixelRatio
	if pr <= 0 {
		pr = 1
	}
	cmd.AddResources(
		NewOrbitCamera(),
		&Surface{Width: w, Height: h, PixelRatio: pr},
	)
}
