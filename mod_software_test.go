package glowcloud

import (
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	indices []int
	last    *image.RGBA
	closed  bool
}

func (m *memorySink) WriteFrame(index int, img *image.RGBA) error {
	m.indices = append(m.indices, index)
	m.last = img
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func buildSoftwareApp(t *testing.T, sw SoftwareRendererModule) *App {
	t.Helper()
	app := NewAppBuilder().
		UseModule(
			TimeModule{Step: 50 * time.Millisecond},
			SceneModule{Seed: 7, PointCount: 500},
			CameraModule{Width: 64, Height: 48, PixelRatio: 1},
			FrameModule{},
		).
		Build()
	app.UseRenderer(RendererSoftware, sw)
	return app
}

func TestSoftwareRendererStopsAfterFrames(t *testing.T) {
	sink := &memorySink{}
	app := buildSoftwareApp(t, SoftwareRendererModule{Frames: 4, Sink: sink})

	require.NoError(t, app.Run())
	assert.Equal(t, []int{0, 1, 2, 3}, sink.indices)
	assert.True(t, sink.closed)
	require.NotNil(t, sink.last)
	assert.Equal(t, image.Rect(0, 0, 64, 48), sink.last.Bounds())

	rc := app.Frame()
	require.NotNil(t, rc)
	assert.Equal(t, uint64(3), rc.Frame)
	assert.InDelta(t, 0.3, rc.T, 1e-9, "three 50ms steps")
	assert.Len(t, rc.Lights, core.NumLights)
}

func TestSoftwareRendererWritesGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glow.gif")
	app := buildSoftwareApp(t, SoftwareRendererModule{Frames: 2, GIFPath: path, HUD: true})

	require.NoError(t, app.Run())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 2)
}

func TestFrameTickMatchesAnimator(t *testing.T) {
	app := buildSoftwareApp(t, SoftwareRendererModule{Sink: &memorySink{}})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rc, err := app.Tick(start)
	require.NoError(t, err)
	// at t=0 light 0 sits at (sin 0, cos 0, cos 0)*0.9
	assert.Equal(t, float64(0), rc.T)
	assert.InDelta(t, 0, rc.Lights[0].Position.X(), 1e-6)
	assert.InDelta(t, 0.9, rc.Lights[0].Position.Y(), 1e-6)
	assert.InDelta(t, 0.9, rc.Lights[0].Position.Z(), 1e-6)

	rc, err = app.Tick(start.Add(1000 * time.Millisecond))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, rc.T, 1e-9)

	want := core.NewDefaultLightSet()
	core.NewAnimator().Advance(2.0, want)
	for i, l := range rc.Lights {
		assert.InDelta(t, 0, l.Position.Sub(want.At(i).Position).Len(), 1e-6, "light %d", i)
	}
}

func TestRenderCommandSnapshotIsolated(t *testing.T) {
	app := buildSoftwareApp(t, SoftwareRendererModule{Sink: &memorySink{}})
	rc, err := app.Tick(time.Now())
	require.NoError(t, err)

	scene := app.resources[typeOf[Scene]()].(*Scene)
	before := rc.Lights[0].Position
	scene.Lights.SetPosition(0, mgl32.Vec3{5, 5, 5})
	assert.Equal(t, before, rc.Lights[0].Position)
}

func TestSurfaceResizeOnlyTouchesDimensions(t *testing.T) {
	app := buildSoftwareApp(t, SoftwareRendererModule{Sink: &memorySink{}})
	surface := app.resources[typeOf[Surface]()].(*Surface)
	cam := app.resources[typeOf[OrbitCamera]()].(*OrbitCamera)
	distance := cam.Distance

	surface.Resize(100, 50)
	surface.Resize(0, 10)
	rc, err := app.Tick(time.Now())
	require.NoError(t, err)

	assert.Equal(t, 100, rc.Width)
	assert.Equal(t, 50, rc.Height)
	assert.Equal(t, float32(2), surface.Aspect())
	assert.Equal(t, distance, cam.Distance)
	assert.Equal(t, cam.GetProjectionMatrix(2), rc.Proj)
}
