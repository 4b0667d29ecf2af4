package glowcloud

import (
	"fmt"

	"github.com/gekko3d/glowcloud/glowrt/rt/raster"
	"github.com/gekko3d/glowcloud/glowrt/rt/term"

	"github.com/gdamore/tcell/v2"
)

// TerminalRendererModule previews the cloud in a true-colour terminal.
// Screen is opened on first use when nil.
type TerminalRendererModule struct {
	Screen tcell.Screen
}

type terminalState struct {
	screen   tcell.Screen
	renderer *term.Renderer
	events   chan tcell.Event
	stop     chan struct{}
	done     chan struct{}
}

func (mod TerminalRendererModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererTerminal))

	state := &terminalState{screen: mod.Screen}
	cmd.AddResources(state)
	cmd.OnClose(state.close)

	app.UseSystem(
		System(terminalEventsSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(terminalRenderSystem).
			InStage(Render),
	)
}

func (s *terminalState) open(scene *Scene) error {
	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		s.screen = screen
	}
	s.screen.Clear()
	s.renderer = term.NewRenderer(s.screen, scene.Shading)

	s.events = make(chan tcell.Event, 16)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.poll()
	return nil
}

// poll forwards screen events until the screen is finalised.
func (s *terminalState) poll() {
	defer close(s.done)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.stop:
			return
		}
	}
}

func (s *terminalState) close() error {
	if s.renderer == nil {
		return nil
	}
	close(s.stop)
	s.screen.Fini()
	<-s.done
	s.renderer = nil
	return nil
}

func terminalEventsSystem(state *terminalState, scene *Scene, surface *Surface, cmd *Commands) error {
	if state.renderer == nil {
		if err := state.open(scene); err != nil {
			return err
		}
		surface.PixelRatio = 1
		surface.Resize(state.renderer.PixelSize())
	}

	for {
		select {
		case ev := <-state.events:
			switch state.renderer.HandleEvent(ev) {
			case term.ActionQuit:
				cmd.Stop()
			case term.ActionResize:
				surface.Resize(state.renderer.PixelSize())
			}
		default:
			return nil
		}
	}
}

func terminalRenderSystem(state *terminalState, rc *RenderCommand, scene *Scene) error {
	err := state.renderer.Render(scene.Cloud.Points, raster.Frame{
		ViewProj: rc.ViewProj,
		Proj:     rc.Proj,
		Lights:   rc.Lights,
	})
	if err != nil {
		return fmt.Errorf("terminal frame %d: %w", rc.Frame, err)
	}
	return nil
}
