package glowcloud

import "time"

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Stop ends App.Run after the current system returns.
func (cmd *Commands) Stop() {
	cmd.app.stopped = true
}

// OnClose registers a release function. Closers run in reverse order when
// the app shuts down.
func (cmd *Commands) OnClose(fn func() error) {
	cmd.app.closers = append(cmd.app.closers, fn)
}

// Now is the instant passed to the current App.Tick.
func (cmd *Commands) Now() time.Time {
	return cmd.app.now
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
