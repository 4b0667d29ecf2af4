package glowcloud

const (
	KeyEscape int = iota
	KeyQ
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEqual
	KeyMinus
	KeyKPPlus
	KeyKPMinus
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

const (
	// keyRotateStep is the rotation, in pixels of mouse drag, applied per
	// frame while an arrow key is held.
	keyRotateStep  = 8
	keyZoomStep    = 0.05
	scrollZoomStep = 0.1
)

type InputModule struct{}

// Input is the backend-neutral input state for one frame. Window backends
// fill it in PreUpdate; orbitControlSystem consumes it in Update.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64
}

// SetPressed records the current state of a key or button and derives the
// edge flags from the previous state.
func (input *Input) SetPressed(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// MoveMouse records an absolute cursor position. The delta is only kept
// while the left button is held so a click does not jump the camera.
func (input *Input) MoveMouse(x, y float64) {
	if input.Pressed[MouseButtonLeft] {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.MouseX = x
	input.MouseY = y
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(orbitControlSystem).
			InStage(Update),
	)
}

func orbitControlSystem(input *Input, cam *OrbitCamera, cmd *Commands) {
	if input.JustPressed[KeyEscape] || input.JustPressed[KeyQ] {
		cmd.Stop()
		return
	}

	dx := float32(input.MouseDeltaX)
	dy := float32(input.MouseDeltaY)
	if input.Pressed[KeyLeft] {
		dx -= keyRotateStep
	}
	if input.Pressed[KeyRight] {
		dx += keyRotateStep
	}
	if input.Pressed[KeyUp] {
		dy -= keyRotateStep
	}
	if input.Pressed[KeyDown] {
		dy += keyRotateStep
	}
	if dx != 0 || dy != 0 {
		cam.Rotate(dx, dy)
	}

	zoom := float32(-input.ScrollY * scrollZoomStep)
	if input.Pressed[KeyEqual] || input.Pressed[KeyKPPlus] {
		zoom -= keyZoomStep
	}
	if input.Pressed[KeyMinus] || input.Pressed[KeyKPMinus] {
		zoom += keyZoomStep
	}
	if zoom != 0 {
		cam.Zoom(zoom)
	}

	input.MouseDeltaX = 0
	input.MouseDeltaY = 0
	input.ScrollY = 0
}
