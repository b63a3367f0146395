package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/scripting"
	"github.com/zombierush/sim/internal/system"
	"github.com/zombierush/sim/internal/world"
)

// Options configures a simulation.
type Options struct {
	Balance  *data.Balance
	Bounds   world.Bounds
	Seed     int64             // 0 = seed from clock
	MaxDelta time.Duration     // frame delta clamp, 0 = none
	Scripts  *scripting.Engine // optional balance hooks
	Log      *zap.Logger
}

// Sim is the assembled gameplay core. The host calls Tick once per frame and
// forwards contacts to Dispatch; everything runs on the caller's goroutine.
type Sim struct {
	Registry   *world.Registry
	Bus        *event.Bus
	Clock      *Clock
	Waves      *system.WaveSystem
	Population *system.PopulationSystem
	Items      *system.ItemSystem
	Router     *system.CollisionRouter
	Area       *system.AreaEffectEngine
	Tasks      *system.TaskQueue

	bal   *data.Balance
	log   *zap.Logger
	stats Stats
}

// New wires registry, systems and clock.
func New(opts Options) *Sim {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	bal := opts.Balance
	if bal == nil {
		bal = data.DefaultBalance()
	}

	reg := world.NewRegistry()
	bus := event.NewBus()
	rng := system.NewRand(opts.Seed)
	runner := coresys.NewRunner()

	s := &Sim{
		Registry: reg,
		Bus:      bus,
		Clock:    NewClock(runner, opts.MaxDelta, log.Named("clock")),
		Tasks:    system.NewTaskQueue(),
		bal:      bal,
		log:      log,
	}

	s.Waves = system.NewWaveSystem(bal.Waves, reg, bus, log.Named("wave"))
	s.Population = system.NewPopulationSystem(reg, bal, s.Waves, rng, bus, opts.Bounds, log.Named("population"))
	s.Items = system.NewItemSystem(reg, bal, s.Waves, rng, bus, opts.Bounds, log.Named("items"))
	s.Waves.AddListener(s.Population)

	var scorer system.Scorer
	if opts.Scripts != nil {
		scorer = opts.Scripts
	}
	kills := system.NewKillReporter(reg, bal, s.Waves, bus, scorer)
	s.Area = system.NewAreaEffectEngine(reg, kills, s.Tasks)
	effects := system.NewPickupEffects(reg, bal, s.Waves, s.Area, opts.Scripts, log.Named("pickup"))
	s.Router = system.NewCollisionRouter(reg, bal, bus, kills, effects, s.Clock, log.Named("collision"))

	// Phase order is fixed by the runner; registration order breaks ties.
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewCleanupSystem(reg, log.Named("cleanup")))
	runner.Register(s.Waves)
	runner.Register(s.Population)
	runner.Register(s.Items)
	runner.Register(system.NewMovementSystem(reg))
	runner.Register(s.Tasks)
	runner.Register(system.NewModifierSystem(reg, bus))

	s.subscribeStats()
	return s
}

// Tick runs one frame at wall-clock time now.
func (s *Sim) Tick(now time.Time) bool { return s.Clock.Tick(now) }

// Dispatch forwards one host contact to the collision router.
func (s *Sim) Dispatch(a, b world.Category, refA, refB ecs.EntityID) {
	s.Router.Dispatch(a, b, refA, refB)
}

// ApplyAreaEffect runs an immediate area blast and returns the killed ids.
func (s *Sim) ApplyAreaEffect(center world.Vec2, radius float64, damage int) []ecs.EntityID {
	return s.Area.Apply(center, radius, damage)
}

// SetPlayer installs the host's player. nil is allowed.
func (s *Sim) SetPlayer(p *world.Player) { s.Registry.SetPlayer(p) }

// Balance returns the table the simulation runs on.
func (s *Sim) Balance() *data.Balance { return s.bal }

// Pause and Resume stop and restart simulation time.
func (s *Sim) Pause()  { s.Clock.Pause() }
func (s *Sim) Resume() { s.Clock.Resume() }

// Reset starts a fresh run: every entity, pending task and queued event is
// dropped and the wave machine returns to wave 1. Deferred blasts from the
// old run never fire.
func (s *Sim) Reset() {
	s.Registry.Clear()
	s.Tasks.Clear()
	s.Bus.Reset()
	s.Waves.Reset()
	s.Population.Reset()
	s.Items.Reset()
	s.stats = Stats{}
	s.log.Info("simulation reset")
}
