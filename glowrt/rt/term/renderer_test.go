package term

import (
	"testing"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"
	"github.com/gekko3d/glowcloud/glowrt/rt/raster"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

// singleLight fills slot 0 with spec and leaves the other slots unlit.
func singleLight(spec core.LightSpec) []core.LightSpec {
	specs := make([]core.LightSpec, core.NumLights)
	specs[0] = spec
	return specs
}

func TestRenderFillsEveryCell(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	lights := core.NewLightSet(singleLight(core.LightSpec{Hex: 0x00ff7b, Intensity: 1, Distance: 1}))
	r := NewRenderer(screen, core.NewShadingContext(lights, nil, nil))
	r.Raster.MarkerRadius = 0

	cam := core.NewCameraState()
	w, h := r.PixelSize()
	require.Equal(t, 20, w)
	require.Equal(t, 20, h)
	aspect := float32(w) / float32(h)

	err := r.Render([]mgl32.Vec3{{0, 0, 0}}, raster.Frame{
		ViewProj: cam.ViewProj(aspect),
		Proj:     cam.GetProjectionMatrix(aspect),
		Lights:   lights.Snapshot(),
	})
	require.NoError(t, err)

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			mainc, _, _, _ := screen.GetContent(x, y)
			assert.Equal(t, halfBlock, mainc)
		}
	}

	// the point projects to pixel (10,10): top half of cell (10,5)
	_, _, style, _ := screen.GetContent(10, 5)
	want := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(0x00, 0xff, 0x7b)).
		Background(tcell.NewRGBColor(0, 0, 0))
	assert.Equal(t, want, style)
}

func TestHandleEvent(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	r := NewRenderer(screen, core.NewShadingContext(core.NewDefaultLightSet(), nil, nil))

	assert.Equal(t, ActionQuit, r.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Equal(t, ActionQuit, r.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.Equal(t, ActionNone, r.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Equal(t, ActionResize, r.HandleEvent(tcell.NewEventResize(30, 12)))
}
