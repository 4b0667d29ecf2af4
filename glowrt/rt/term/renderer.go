package term

import (
	"github.com/gekko3d/glowcloud/glowrt/rt/core"
	"github.com/gekko3d/glowcloud/glowrt/rt/raster"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// halfBlock draws the top half of a cell in the foreground colour, so every
// cell carries two vertically stacked pixels.
const halfBlock = '▀'

// Renderer shows the cloud in a terminal. Each cell is two pixels of a CPU
// frame rendered at cols x 2*rows.
type Renderer struct {
	Screen tcell.Screen
	Raster *raster.Renderer
}

func NewRenderer(screen tcell.Screen, shading *core.ShadingContext) *Renderer {
	r := raster.NewRenderer(shading, nil)
	r.MarkerRadius = raster.DefaultMarkerRadius * 2
	return &Renderer{
		Screen: screen,
		Raster: r,
	}
}

// PixelSize is the frame resolution that matches the current screen.
func (r *Renderer) PixelSize() (int, int) {
	cols, rows := r.Screen.Size()
	return cols, rows * 2
}

// Render draws one frame. f.Width and f.Height are replaced with the screen's
// pixel size.
func (r *Renderer) Render(points []mgl32.Vec3, f raster.Frame) error {
	f.Width, f.Height = r.PixelSize()
	f.PixelRatio = 1
	f.HUD = nil
	img, err := r.Raster.Render(points, f)
	if err != nil {
		return err
	}

	cols, rows := r.Screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := img.PixOffset(x, 2*y)
			bottom := img.PixOffset(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(img.Pix[top]), int32(img.Pix[top+1]), int32(img.Pix[top+2]))).
				Background(tcell.NewRGBColor(int32(img.Pix[bottom]), int32(img.Pix[bottom+1]), int32(img.Pix[bottom+2])))
			r.Screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	r.Screen.Show()
	return nil
}

// Action is what the frame loop should do after an input event.
type Action int

const (
	ActionNone Action = iota
	ActionResize
	ActionQuit
)

// HandleEvent classifies a tcell event. Esc, Ctrl-C and q quit.
func (r *Renderer) HandleEvent(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return ActionQuit
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
			return ActionQuit
		}
	case *tcell.EventResize:
		r.Screen.Sync()
		return ActionResize
	}
	return ActionNone
}
