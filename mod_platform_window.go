package glowcloud

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState is the shared GLFW window. Size callbacks keep the Surface in
// step with the framebuffer.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	// scroll accumulates wheel offsets between frames.
	scroll float64
	// resized is set by the framebuffer callback and cleared by the renderer.
	resized bool
}

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is
// created and made available as a resource for the renderer and input.
// Install is idempotent.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module that provides a shared WindowState
// resource. If Width/Height are zero, defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "glowcloud"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		panic(err)
	}
	app.addResources(ws)
	cmd.OnClose(func() error {
		ws.windowGlfw.Destroy()
		glfw.Terminate()
		return nil
	})

	if app.hasResource((*Input)(nil)) {
		app.UseSystem(
			System(glfwInputSystem).
				InStage(PreUpdate),
		)
	} else {
		app.UseSystem(
			System(windowEventsSystem).
				InStage(PreUpdate),
		)
	}
	app.Logger().Infof("Created window (%dx%d) '%s'", m.Width, m.Height, m.Title)
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // no OpenGL context, wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	ws := &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		ws.scroll += yoff
	})
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		ws.WindowWidth = width
		ws.WindowHeight = height
		ws.resized = true
	})
	return ws, nil
}

func windowEventsSystem(s *WindowState, cmd *Commands) {
	glfw.PollEvents()
	if s.windowGlfw.ShouldClose() {
		cmd.Stop()
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape:  glfw.KeyEscape,
	KeyQ:       glfw.KeyQ,
	KeyLeft:    glfw.KeyLeft,
	KeyRight:   glfw.KeyRight,
	KeyUp:      glfw.KeyUp,
	KeyDown:    glfw.KeyDown,
	KeyEqual:   glfw.KeyEqual,
	KeyMinus:   glfw.KeyMinus,
	KeyKPPlus:  glfw.KeyKPAdd,
	KeyKPMinus: glfw.KeyKPSubtract,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}

func glfwInputSystem(s *WindowState, input *Input, cmd *Commands) {
	glfw.PollEvents()
	if s.windowGlfw.ShouldClose() {
		cmd.Stop()
		return
	}

	for key, glfwKey := range keyToGlfw {
		input.SetPressed(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.SetPressed(btn, s.windowGlfw.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.MoveMouse(s.windowGlfw.GetCursorPos())
	input.ScrollY += s.scroll
	s.scroll = 0
}
