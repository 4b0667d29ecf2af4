package raster

import (
	"image"
	"image/gif"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleLight fills slot 0 with spec and leaves the other slots unlit.
func singleLight(spec core.LightSpec) []core.LightSpec {
	specs := make([]core.LightSpec, core.NumLights)
	specs[0] = spec
	return specs
}

func testFrame(w, h int, lights *core.LightSet) Frame {
	cam := core.NewCameraState()
	aspect := float32(w) / float32(h)
	return Frame{
		Width:      w,
		Height:     h,
		PixelRatio: 1,
		ViewProj:   cam.ViewProj(aspect),
		Proj:       cam.GetProjectionMatrix(aspect),
		Lights:     lights.Snapshot(),
	}
}

func TestRenderPointAtLightIsFullColour(t *testing.T) {
	lights := core.NewLightSet(singleLight(core.LightSpec{Hex: 0xff0000, Intensity: 1, Distance: 1}))
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), nil)
	r.MarkerRadius = 0

	img, err := r.Render([]mgl32.Vec3{{0, 0, 0}}, testFrame(64, 64, lights))
	require.NoError(t, err)

	off := img.PixOffset(32, 32)
	assert.Equal(t, []uint8{255, 0, 0, 255}, img.Pix[off:off+4])

	off = img.PixOffset(0, 0)
	assert.Equal(t, []uint8{0, 0, 0, 255}, img.Pix[off:off+4], "background")
	require.Len(t, r.Colors(), 1)
	assert.Equal(t, core.Color{1, 0, 0}, r.Colors()[0])
}

func TestRenderNearerPointWins(t *testing.T) {
	specs := make([]core.LightSpec, core.NumLights)
	specs[0] = core.LightSpec{Hex: 0x00ff00, Intensity: 1, Distance: 0.05}
	specs[1] = core.LightSpec{Hex: 0x0000ff, Intensity: 1, Distance: 0.05}
	lights := core.NewLightSet(specs)
	lights.SetPosition(0, mgl32.Vec3{0, 0, 0.2})
	lights.SetPosition(1, mgl32.Vec3{0, 0, -0.2})
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), nil)
	r.MarkerRadius = 0

	// both project to the centre; the one closer to the eye at z=0.5 is green
	pts := []mgl32.Vec3{{0, 0, -0.2}, {0, 0, 0.2}}
	img, err := r.Render(pts, testFrame(32, 32, lights))
	require.NoError(t, err)

	off := img.PixOffset(16, 16)
	assert.Equal(t, []uint8{0, 255, 0, 255}, img.Pix[off:off+4])
}

func TestRenderMarkers(t *testing.T) {
	lights := core.NewLightSet(singleLight(core.LightSpec{Hex: 0x8300ff, Intensity: 1, Distance: 1}))
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), nil)

	img, err := r.Render(nil, testFrame(128, 128, lights))
	require.NoError(t, err)

	lit := 0
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			off := img.PixOffset(x, y)
			if img.Pix[off] == 0x83 && img.Pix[off+2] == 0xff {
				lit++
			}
		}
	}
	// a 0.02 sphere seen from 0.5 with a 100 degree fov covers a few pixels
	assert.Greater(t, lit, 1)
}

func TestRenderPixelRatioKeepsOutputSize(t *testing.T) {
	lights := core.NewDefaultLightSet()
	core.NewAnimator().Advance(1, lights)
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), nil)

	cloud := core.GeneratePointCloud(rand.New(rand.NewSource(3)), 2000)
	f := testFrame(80, 60, lights)
	f.PixelRatio = 2

	img, err := r.Render(cloud.Points, f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())

	iw, ih := InternalSize(80, 60, 2)
	assert.Equal(t, 160, iw)
	assert.Equal(t, 120, ih)
}

func TestRenderResizeReallocates(t *testing.T) {
	lights := core.NewDefaultLightSet()
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), nil)

	img, err := r.Render(nil, testFrame(40, 30, lights))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	img, err = r.Render(nil, testFrame(50, 20, lights))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 20), img.Bounds())
}

func TestRenderEmptyTarget(t *testing.T) {
	lights := core.NewDefaultLightSet()
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), nil)

	_, err := r.Render(nil, testFrame(0, 10, lights))
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestRenderHUD(t *testing.T) {
	lights := core.NewDefaultLightSet()
	text, err := core.NewTextRenderer(nil, 10)
	require.NoError(t, err)
	r := NewRenderer(core.NewShadingContext(lights, nil, nil), text)
	r.MarkerRadius = 0

	f := testFrame(96, 32, lights)
	f.HUD = []core.TextItem{{Text: "frame 1", Position: [2]float32{1, 1}, Color: [4]float32{1, 1, 1, 1}}}
	img, err := r.Render(nil, f)
	require.NoError(t, err)

	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			lit++
		}
	}
	assert.Greater(t, lit, 0)
}

func TestPNGSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	seq, err := NewPNGSequence(dir, "glow")
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	require.NoError(t, seq.WriteFrame(0, img))
	require.NoError(t, seq.WriteFrame(1, img))
	require.NoError(t, seq.Close())
	assert.Equal(t, 2, seq.Written())

	f, err := os.Open(seq.Path(1))
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	assert.Equal(t, "glow_00001.png", filepath.Base(seq.Path(1)))
}

func TestGIFSinkAndMultiSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "glow.gif")
	g := NewGIFSink(path, 0)
	seq, err := NewPNGSequence(t.TempDir(), "f")
	require.NoError(t, err)
	sink := MultiSink{g, seq}

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < 3; i++ {
		require.NoError(t, sink.WriteFrame(i, img))
	}
	assert.Equal(t, 3, g.Frames())
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{4, 4, 4}, anim.Delay)
}

func TestGIFSinkWithoutFramesWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gif")
	require.NoError(t, NewGIFSink(path, 5).Close())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
