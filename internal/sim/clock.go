package sim

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/zombierush/sim/internal/core/system"
)

// Clock turns host wall-clock timestamps into simulation frames and runs the
// phase runner once per frame.
//
// Simulation time only advances while running: paused wall time is skipped,
// backwards steps count as zero and long frames are clamped to maxDelta.
type Clock struct {
	runner   *coresys.Runner
	maxDelta time.Duration
	log      *zap.Logger

	last   time.Time // wall time of the previous Tick
	now    time.Time // simulation time of the latest frame
	ticks  uint64
	paused bool
}

// NewClock wraps runner. maxDelta <= 0 disables clamping.
func NewClock(runner *coresys.Runner, maxDelta time.Duration, log *zap.Logger) *Clock {
	return &Clock{runner: runner, maxDelta: maxDelta, log: log}
}

// Tick advances to wall and runs one frame. Returns false while paused.
func (c *Clock) Tick(wall time.Time) bool {
	var dt time.Duration
	if c.last.IsZero() {
		c.now = wall
	} else {
		dt = wall.Sub(c.last)
	}
	c.last = wall

	if dt < 0 {
		dt = 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		c.log.Debug("frame delta clamped", zap.Duration("delta", dt), zap.Duration("max", c.maxDelta))
		dt = c.maxDelta
	}
	if c.paused {
		return false
	}

	c.now = c.now.Add(dt)
	c.ticks++
	c.runner.Tick(coresys.Frame{Now: c.now, Delta: dt, Tick: c.ticks})
	return true
}

// Now is the simulation time of the latest frame.
func (c *Clock) Now() time.Time { return c.now }

// Ticks is the number of frames run.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Pause stops frames from running. Wall time that passes while paused is
// never handed to the systems.
func (c *Clock) Pause() {
	if !c.paused {
		c.paused = true
		c.log.Info("simulation paused", zap.Uint64("tick", c.ticks))
	}
}

// Resume lets frames run again.
func (c *Clock) Resume() {
	if c.paused {
		c.paused = false
		c.log.Info("simulation resumed", zap.Uint64("tick", c.ticks))
	}
}

func (c *Clock) Paused() bool { return c.paused }
