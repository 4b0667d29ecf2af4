package glowcloud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameClockFixedStep(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &FrameClock{Start: start, Step: 20 * time.Millisecond}

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(20*time.Millisecond), c.Now())
	assert.Equal(t, start.Add(40*time.Millisecond), c.Now())
}

func TestFrameClockPacesWallClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var slept []time.Duration
	c := &FrameClock{
		Pace:  50 * time.Millisecond,
		now:   func() time.Time { return now },
		sleep: func(d time.Duration) { slept = append(slept, d); now = now.Add(d) },
	}

	first := c.Now()
	assert.Empty(t, slept, "first frame does not wait")

	now = now.Add(20 * time.Millisecond)
	second := c.Now()
	assert.Equal(t, []time.Duration{30 * time.Millisecond}, slept)
	assert.Equal(t, 50*time.Millisecond, second.Sub(first))

	now = now.Add(80 * time.Millisecond)
	c.Now()
	assert.Len(t, slept, 1, "slow frame does not wait")
}

func TestFrameClockWithoutPaceNeverSleeps(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &FrameClock{
		now:   func() time.Time { return now },
		sleep: func(time.Duration) { t.Fatal("unexpected sleep") },
	}
	c.Now()
	c.Now()
}

func TestTimeSystemScalesElapsed(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{}).Build()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := app.Tick(start)
	require.NoError(t, err)
	tm := app.resources[typeOf[Time]()].(*Time)
	assert.Equal(t, uint64(1), tm.Frame)
	assert.Zero(t, tm.T, "first frame is t=0")

	_, err = app.Tick(start.Add(500 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tm.Frame)
	assert.Equal(t, 500*time.Millisecond, tm.Dt)
	assert.InDelta(t, 1.0, tm.T, 1e-12, "500ms * 0.002")
}
