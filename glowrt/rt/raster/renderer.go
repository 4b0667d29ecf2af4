package raster

import (
	"errors"
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// DefaultMarkerRadius is the world-space radius of the sphere drawn at each
// light.
const DefaultMarkerRadius = 0.02

var ErrEmptyTarget = errors.New("raster: render target has zero size")

// Frame is everything the rasteriser needs for one image.
type Frame struct {
	Width      int
	Height     int
	PixelRatio float32
	ViewProj   mgl32.Mat4
	Proj       mgl32.Mat4
	Lights     []core.Light
	HUD        []core.TextItem
}

// Renderer is a CPU point renderer. Points are shaded in parallel bands and
// then splatted one pixel each with a depth test; light markers are filled
// discs in the light's base colour.
type Renderer struct {
	Shading      *core.ShadingContext
	ToneMap      core.ToneMapping
	Text         *core.TextRenderer
	Background   core.Color
	MarkerRadius float32
	Workers      int

	colors []core.Color
	depth  []float32
	target *image.RGBA
	output *image.RGBA
}

func NewRenderer(shading *core.ShadingContext, text *core.TextRenderer) *Renderer {
	return &Renderer{
		Shading:      shading,
		ToneMap:      core.LinearToneMapping{Exposure: 1},
		Text:         text,
		MarkerRadius: DefaultMarkerRadius,
		Workers:      runtime.NumCPU(),
	}
}

// InternalSize is the resolution actually rasterised: the output size times
// the pixel ratio.
func InternalSize(w, h int, pixelRatio float32) (int, int) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	iw := int(math.Round(float64(float32(w) * pixelRatio)))
	ih := int(math.Round(float64(float32(h) * pixelRatio)))
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}
	return iw, ih
}

// Render draws the cloud. The returned image is reused by the next call.
func (r *Renderer) Render(points []mgl32.Vec3, f Frame) (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, ErrEmptyTarget
	}
	iw, ih := InternalSize(f.Width, f.Height, f.PixelRatio)
	r.ensureTargets(iw, ih, f.Width, f.Height)
	r.clear()

	r.shade(points, f.Lights)
	r.splatPoints(points, f)
	r.drawMarkers(f, iw, ih)

	out := r.target
	if r.output != r.target {
		draw.BiLinear.Scale(r.output, r.output.Bounds(), r.target, r.target.Bounds(), draw.Src, nil)
		out = r.output
	}

	for _, item := range f.HUD {
		r.Text.DrawText(out, item)
	}
	return out, nil
}

// Colors returns the shaded colours from the last Render, one per point.
func (r *Renderer) Colors() []core.Color {
	return r.colors
}

func (r *Renderer) ensureTargets(iw, ih, w, h int) {
	if r.target == nil || r.target.Bounds().Dx() != iw || r.target.Bounds().Dy() != ih {
		r.target = image.NewRGBA(image.Rect(0, 0, iw, ih))
		r.depth = make([]float32, iw*ih)
	}
	if iw == w && ih == h {
		r.output = r.target
	} else if r.output == nil || r.output == r.target || r.output.Bounds().Dx() != w || r.output.Bounds().Dy() != h {
		r.output = image.NewRGBA(image.Rect(0, 0, w, h))
	}
}

func (r *Renderer) clear() {
	bg := r.Background.RGBA8()
	pix := r.target.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = bg[0]
		pix[i+1] = bg[1]
		pix[i+2] = bg[2]
		pix[i+3] = 255
	}
	for i := range r.depth {
		r.depth[i] = math.MaxFloat32
	}
}

func (r *Renderer) shade(points []mgl32.Vec3, lights []core.Light) {
	if cap(r.colors) < len(points) {
		r.colors = make([]core.Color, len(points))
	}
	r.colors = r.colors[:len(points)]

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	band := (len(points) + workers - 1) / workers
	if band == 0 {
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < len(points); start += band {
		end := start + band
		if end > len(points) {
			end = len(points)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				r.colors[i] = r.Shading.EvaluateLights(points[i], lights)
			}
		}(start, end)
	}
	wg.Wait()
}

func (r *Renderer) splatPoints(points []mgl32.Vec3, f Frame) {
	iw, ih := r.target.Bounds().Dx(), r.target.Bounds().Dy()
	for i, p := range points {
		x, y, z, ok := core.Project(f.ViewProj, p, iw, ih)
		if !ok {
			continue
		}
		r.plot(int(x), int(y), z, r.ToneMap.Map(r.colors[i]))
	}
}

func (r *Renderer) drawMarkers(f Frame, iw, ih int) {
	if r.MarkerRadius <= 0 {
		return
	}
	focal := f.Proj.At(1, 1) * float32(ih) * 0.5
	for _, l := range f.Lights {
		x, y, z, ok := core.Project(f.ViewProj, l.Position, iw, ih)
		if !ok {
			continue
		}
		clipW := f.ViewProj.Mul4x1(l.Position.Vec4(1)).W()
		radius := r.MarkerRadius * focal / clipW
		if radius < 1 {
			radius = 1
		}
		r.disc(x, y, radius, z, r.ToneMap.Map(l.Color))
	}
}

func (r *Renderer) disc(cx, cy, radius, z float32, c core.Color) {
	x0 := int(cx - radius)
	x1 := int(cx + radius)
	y0 := int(cy - radius)
	y1 := int(cy + radius)
	r2 := radius * radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float32(x) + 0.5 - cx
			dy := float32(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				r.plot(x, y, z, c)
			}
		}
	}
}

func (r *Renderer) plot(x, y int, z float32, c core.Color) {
	b := r.target.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return
	}
	idx := y*b.Dx() + x
	if z >= r.depth[idx] {
		return
	}
	r.depth[idx] = z

	px := c.RGBA8()
	off := r.target.PixOffset(x, y)
	r.target.Pix[off+0] = px[0]
	r.target.Pix[off+1] = px[1]
	r.target.Pix[off+2] = px[2]
	r.target.Pix[off+3] = 255
}
