package glowcloud

import (
	"fmt"
	"strings"
)

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererSoftware RendererName = "software"
	RendererTerminal RendererName = "terminal"
	RendererWGPU     RendererName = "wgpu"
)

var rendererNames = []RendererName{RendererSoftware, RendererTerminal, RendererWGPU}

func ParseRendererName(s string) (RendererName, error) {
	for _, n := range rendererNames {
		if strings.EqualFold(s, string(n)) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown renderer %q (want one of %v)", s, rendererNames)
}

// UseRenderer installs exactly one renderer module, enforcing exclusivity via
// ensureSingleRenderer.
//
//	app.UseRenderer(RendererSoftware, SoftwareRendererModule{Frames: 60})
func (app *App) UseRenderer(name RendererName, mod Module) *App {
	ensureSingleRenderer(app, string(name))
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}
