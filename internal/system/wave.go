package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/core/event"
	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/world"
)

// WavePhase is the state of the wave machine.
type WavePhase uint8

const (
	WaveActive WavePhase = iota
	WaveAnnouncing
)

func (p WavePhase) String() string {
	if p == WaveAnnouncing {
		return "announcing"
	}
	return "active"
}

// WaveState is the current wave. Number never decreases; Elapsed restarts at
// every phase change.
type WaveState struct {
	Number  int
	Elapsed time.Duration
	Phase   WavePhase
}

// Multipliers are the difficulty factors applied to base speed and health.
type Multipliers struct {
	Speed  float64
	Health float64
}

// WaveTransition is produced when a new wave begins.
type WaveTransition struct {
	From        int
	To          int
	Multipliers Multipliers
	Now         time.Time
}

// WaveListener is notified synchronously inside the tick that changed the
// wave, before the spawn phase runs.
type WaveListener interface {
	OnWaveTransition(t WaveTransition)
}

// MultipliersFor computes the capped exponential factors for wave n.
func MultipliersFor(b data.WaveBalance, n int) Multipliers {
	if n < 1 {
		n = 1
	}
	exp := float64(n - 1)
	return Multipliers{
		Speed:  math.Min(math.Pow(b.SpeedBase, exp), b.SpeedCap),
		Health: math.Min(math.Pow(b.HealthBase, exp), b.HealthCap),
	}
}

// PlayerBonus is the linear move-speed bonus the player gets at wave n.
func PlayerBonus(b data.WaveBalance, n int) float64 {
	if n < 1 {
		n = 1
	}
	return math.Min(float64(n-1)*b.PlayerBonus, b.PlayerBonusCap)
}

// WaveSystem runs the wave state machine. Phase 1 (Wave).
type WaveSystem struct {
	bal       data.WaveBalance
	reg       *world.Registry
	bus       *event.Bus
	log       *zap.Logger
	state     WaveState
	last      time.Time
	listeners []WaveListener
}

func NewWaveSystem(bal data.WaveBalance, reg *world.Registry, bus *event.Bus, log *zap.Logger) *WaveSystem {
	s := &WaveSystem{bal: bal, reg: reg, bus: bus, log: log}
	s.Reset()
	return s
}

func (s *WaveSystem) Phase() coresys.Phase { return coresys.PhaseWave }

func (s *WaveSystem) Update(f coresys.Frame) {
	s.last = f.Now
	s.Advance(f.Now, f.Delta)
	s.applyPlayerBonus() // player may have been swapped by the host
}

// AddListener registers l for wave transitions. Listeners run in
// registration order.
func (s *WaveSystem) AddListener(l WaveListener) {
	s.listeners = append(s.listeners, l)
}

// State returns the current wave state.
func (s *WaveSystem) State() WaveState { return s.state }

// Number returns the current wave number.
func (s *WaveSystem) Number() int { return s.state.Number }

// Multipliers returns the factors for the current wave.
func (s *WaveSystem) Multipliers() Multipliers { return MultipliersFor(s.bal, s.state.Number) }

// Reset returns to wave 1, active phase.
func (s *WaveSystem) Reset() {
	s.state = WaveState{Number: 1, Phase: WaveActive}
	s.last = time.Time{}
	s.applyPlayerBonus()
}

// Tick advances the machine to now using the time since the previous call.
// The first call only records the timestamp.
func (s *WaveSystem) Tick(now time.Time) (WaveTransition, bool) {
	var dt time.Duration
	if !s.last.IsZero() {
		dt = now.Sub(s.last)
	}
	s.last = now
	return s.Advance(now, dt)
}

// Advance adds dt to the elapsed time and changes phase when due.
// Negative dt counts as zero.
func (s *WaveSystem) Advance(now time.Time, dt time.Duration) (WaveTransition, bool) {
	if dt < 0 {
		dt = 0
	}
	s.state.Elapsed += dt

	switch s.state.Phase {
	case WaveActive:
		if s.bal.Duration > 0 && s.state.Elapsed >= s.bal.Duration {
			return s.transition(now, s.state.Number+1), true
		}
	case WaveAnnouncing:
		if s.state.Elapsed >= s.bal.Announce {
			s.state.Phase = WaveActive
			s.state.Elapsed = 0
			event.Emit(s.bus, event.WaveActive{Number: s.state.Number})
		}
	}
	return WaveTransition{}, false
}

// JumpTo skips straight to wave n, running the full transition. Values not
// above the current wave are ignored.
func (s *WaveSystem) JumpTo(now time.Time, n int) (WaveTransition, bool) {
	if n <= s.state.Number {
		return WaveTransition{}, false
	}
	return s.transition(now, n), true
}

func (s *WaveSystem) transition(now time.Time, to int) WaveTransition {
	t := WaveTransition{
		From:        s.state.Number,
		To:          to,
		Multipliers: MultipliersFor(s.bal, to),
		Now:         now,
	}
	s.state = WaveState{Number: to, Phase: WaveAnnouncing}
	s.applyPlayerBonus()

	for _, l := range s.listeners {
		l.OnWaveTransition(t)
	}

	event.Emit(s.bus, event.WaveStarted{
		Number:           to,
		SpeedMultiplier:  t.Multipliers.Speed,
		HealthMultiplier: t.Multipliers.Health,
	})
	s.log.Info("wave started",
		zap.Int("wave", to),
		zap.Float64("speed_mul", t.Multipliers.Speed),
		zap.Float64("health_mul", t.Multipliers.Health),
	)
	return t
}

func (s *WaveSystem) applyPlayerBonus() {
	if p := s.reg.Player(); p != nil {
		p.SpeedBonus = PlayerBonus(s.bal, s.state.Number)
	}
}
