package glowcloud

import (
	"time"

	"github.com/gekko3d/glowcloud/glowrt/rt/core"
)

// Time is the frame clock as seen by systems. T is the animation time:
// elapsed milliseconds scaled by core.TimeScale.
type Time struct {
	Start   time.Time
	Now     time.Time
	Dt      time.Duration
	Elapsed time.Duration
	T       float64
	Frame   uint64
}

// FrameClock supplies the instant App.Run passes to each tick. With a zero
// Step it follows the wall clock; otherwise it advances Step per frame from
// Start, which makes offline renders reproducible.
//
// Pace only applies to the wall clock: Now blocks until at least Pace has
// passed since the previous call.
type FrameClock struct {
	Start time.Time
	Step  time.Duration
	Pace  time.Duration

	frames int64
	last   time.Time
	now    func() time.Time
	sleep  func(time.Duration)
}

func (c *FrameClock) Now() time.Time {
	if c.Step > 0 {
		now := c.Start.Add(time.Duration(c.frames) * c.Step)
		c.frames++
		return now
	}

	clock, sleep := c.now, c.sleep
	if clock == nil {
		clock = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	now := clock()
	if c.Pace > 0 && !c.last.IsZero() {
		if wait := c.Pace - now.Sub(c.last); wait > 0 {
			sleep(wait)
			now = clock()
		}
	}
	c.last = now
	return now
}

// TimeModule installs Time and FrameClock. Step fixes the frame interval for
// offline rendering; Pace caps the real-time frame rate.
type TimeModule struct {
	Step time.Duration
	Pace time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	start := time.Now()
	cmd.AddResources(
		&Time{},
		&FrameClock{Start: start, Step: mod.Step, Pace: mod.Pace},
	)
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(t *Time, cmd *Commands) {
	now := cmd.Now()
	if t.Frame == 0 && t.Start.IsZero() {
		t.Start = now
		t.Now = now
	}

	t.Dt = now.Sub(t.Now)
	t.Now = now
	t.Elapsed = now.Sub(t.Start)
	t.T = animationTime(t.Elapsed)
	t.Frame++
}

func animationTime(elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	return ms * core.TimeScale
}
