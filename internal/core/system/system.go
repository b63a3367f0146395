package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: deliver last tick's events, purge detached entities
	PhaseWave                  // 1: wave clock, eviction + rescale on transition
	PhaseSpawn                 // 2: hostile and pickup spawn / age-out
	PhaseMovement              // 3: position integration, modifier expiry
	PhaseDeferred              // 4: due scheduled tasks (delayed area effects)
	PhaseCleanup               // 5: flush queued destruction
)

// Frame is the per-tick time snapshot handed to every system.
// Delta is already clamped to be non-negative.
type Frame struct {
	Now   time.Time
	Delta time.Duration
	Tick  uint64
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(f Frame)
}
