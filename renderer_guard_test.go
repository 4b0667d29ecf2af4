package glowcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSingleRenderer(t *testing.T) {
	app := newApp()
	ensureSingleRenderer(app, "software")
	assert.NotPanics(t, func() { ensureSingleRenderer(app, "software") })
	assert.PanicsWithValue(t, "Multiple renderers installed: software and wgpu", func() {
		ensureSingleRenderer(app, "wgpu")
	})
}

func TestUseRendererRejectsSecondRenderer(t *testing.T) {
	app := newApp()
	app.UseRenderer(RendererSoftware, SoftwareRendererModule{Sink: &memorySink{}})
	assert.Panics(t, func() {
		app.UseRenderer(RendererTerminal, TerminalRendererModule{})
	})
}

func TestParseRendererName(t *testing.T) {
	n, err := ParseRendererName("WGPU")
	require.NoError(t, err)
	assert.Equal(t, RendererWGPU, n)

	_, err = ParseRendererName("vulkan")
	assert.Error(t, err)
}
