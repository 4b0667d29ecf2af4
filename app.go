package glowcloud

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"time"
)

type systemFn any

// Module wires resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	now     time.Time
	stopped bool
	closers []func() error
	closed  bool
}

func newApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, s := range defaultStages {
		app.stages = append(app.stages, s)
		app.systems[s.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, m := range modules {
		m.Install(app, cmd)
	}
	return app
}

// Tick runs every stage once for the given wall-clock instant and returns the
// render command built during the frame. The first failing system aborts the
// tick; its error is returned wrapped with the stage name.
func (app *App) Tick(now time.Time) (*RenderCommand, error) {
	app.now = now
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			if err := app.callSystem(system); err != nil {
				return nil, fmt.Errorf("%s: %w", stage.Name, err)
			}
			if app.stopped {
				return app.Frame(), nil
			}
		}
	}
	return app.Frame(), nil
}

// Run ticks until a system calls Commands.Stop or returns an error, then
// releases everything registered with Commands.OnClose.
func (app *App) Run() (err error) {
	defer func() {
		err = errors.Join(err, app.Close())
	}()

	for !app.stopped {
		if _, err := app.Tick(app.clockNow()); err != nil {
			return err
		}
	}
	return nil
}

// Stopped reports whether a system asked the loop to end.
func (app *App) Stopped() bool {
	return app.stopped
}

// Frame returns the render command of the last tick, or nil if FrameModule
// is not installed.
func (app *App) Frame() *RenderCommand {
	if rc, ok := app.resources[reflect.TypeOf(RenderCommand{})]; ok {
		return rc.(*RenderCommand)
	}
	return nil
}

// Close runs the registered closers in reverse order. It is safe to call more
// than once.
func (app *App) Close() error {
	if app.closed {
		return nil
	}
	app.closed = true
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (app *App) clockNow() time.Time {
	if c, ok := app.resources[reflect.TypeOf(FrameClock{})]; ok {
		return c.(*FrameClock).Now()
	}
	return time.Now()
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(ptr any) bool {
	_, ok := app.resources[reflect.TypeOf(ptr).Elem()]
	return ok
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

// callSystem resolves the system's pointer arguments from resources and calls
// it. A system may return nothing or a single error.
func (app *App) callSystem(system systemFn) error {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Ptr {
			panic(app.unresolved(systemValue, systemType, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := app.unresolved(systemValue, systemType, argType)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}

	out := systemValue.Call(args)
	if len(out) == 1 && systemType.Out(0) == typeOfError && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) string {
	return fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
}
