package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"
	"github.com/gekko3d/glowcloud/glowrt/rt/gpu"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDeviceLost wraps failures the renderer cannot recover from: a lost
	// surface or device and encoder or submit errors.
	ErrDeviceLost = errors.New("glowrt: gpu device lost")
	// ErrFrameSkipped is returned when the surface was temporarily unusable.
	// The surface has been reconfigured where needed; render the next frame.
	ErrFrameSkipped = errors.New("glowrt: frame skipped")
)

// surfaceStatus extracts the status wgpu reports when acquiring a texture
// fails, or "" if err carries none.
func surfaceStatus(err error) string {
	const marker = "surface status "
	msg := err.Error()
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(msg[i+len(marker):])
}

// transientSurface reports whether an acquire failure clears up on its own
// (timeout) or after reconfiguring (outdated).
func transientSurface(err error) (transient, reconfigure bool) {
	switch surfaceStatus(err) {
	case wgpu.SurfaceGetCurrentTextureStatusTimeout.String():
		return true, false
	case wgpu.SurfaceGetCurrentTextureStatusOutdated.String():
		return true, true
	}
	return false, false
}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	BufferManager *gpu.BufferManager
	GlowPass      *gpu.GlowRenderPass

	Background core.Color
}

func NewApp(window *glfw.Window) *App {
	return &App{Window: window}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format := caps.Formats[0]
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.BufferManager = gpu.NewBufferManager(a.Device)
	a.GlowPass, err = gpu.NewGlowRenderPass(a.Device, format)
	if err != nil {
		return err
	}
	return nil
}

// Resize reconfigures the surface. Zero sizes (minimised window) are ignored.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
}

// Aspect is the framebuffer width over height.
func (a *App) Aspect() float32 {
	if a.Config == nil || a.Config.Height == 0 {
		return 1
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

func (a *App) UploadPoints(points []mgl32.Vec3) error {
	if _, err := a.BufferManager.UpdatePoints(points); err != nil {
		return fmt.Errorf("upload points: %w", err)
	}
	return nil
}

// Update writes the per-frame scene uniform and rebinds it if the buffer
// was recreated.
func (a *App) Update(u gpu.SceneUniforms) error {
	recreated, err := a.BufferManager.UpdateScene(u)
	if err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	if recreated || a.GlowPass.BindGroup == nil {
		return a.GlowPass.CreateBindGroup(a.BufferManager.SceneBuf)
	}
	return nil
}

func (a *App) Render() error {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		transient, reconfigure := transientSurface(err)
		if !transient {
			return fmt.Errorf("%w: get current texture: %w", ErrDeviceLost, err)
		}
		if reconfigure {
			a.Resize(a.Window.GetFramebufferSize())
		}
		return fmt.Errorf("%w: %w", ErrFrameSkipped, err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("%w: create view: %w", ErrDeviceLost, err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %w", ErrDeviceLost, err)
	}

	bg := a.Background
	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: 1},
		}},
	})
	a.GlowPass.Draw(rPass, a.BufferManager)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("%w: render pass: %w", ErrDeviceLost, err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("%w: finish encoder: %w", ErrDeviceLost, err)
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()
	return nil
}

// Release frees GPU objects in reverse creation order. It is safe after a
// partial Init.
func (a *App) Release() {
	if a.GlowPass != nil {
		a.GlowPass.Release()
		a.GlowPass = nil
	}
	if a.BufferManager != nil {
		a.BufferManager.Release()
		a.BufferManager = nil
	}
	if a.Queue != nil {
		a.Queue.Release()
		a.Queue = nil
	}
	if a.Device != nil {
		a.Device.Release()
		a.Device = nil
	}
	if a.Adapter != nil {
		a.Adapter.Release()
		a.Adapter = nil
	}
	if a.Surface != nil {
		a.Surface.Release()
		a.Surface = nil
	}
	if a.Instance != nil {
		a.Instance.Release()
		a.Instance = nil
	}
}
