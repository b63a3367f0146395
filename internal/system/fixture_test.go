package system

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/world"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// fixture wires the systems the way sim.New does, minus the runner.
type fixture struct {
	reg    *world.Registry
	bus    *event.Bus
	bal    *data.Balance
	bounds world.Bounds
	waves  *WaveSystem
	pop    *PopulationSystem
	items  *ItemSystem
	tasks  *TaskQueue
	kills  *KillReporter
	area   *AreaEffectEngine
	router *CollisionRouter
	clock  *fakeClock
	events []any
}

func newFixture(t *testing.T, bal *data.Balance) *fixture {
	t.Helper()
	if bal == nil {
		bal = data.DefaultBalance()
	}
	log := zaptest.NewLogger(t)
	f := &fixture{
		reg:    world.NewRegistry(),
		bus:    event.NewBus(),
		bal:    bal,
		bounds: world.Bounds{Width: 1920, Height: 1080},
		tasks:  NewTaskQueue(),
		clock:  &fakeClock{now: t0},
	}
	rng := NewRand(7)
	f.waves = NewWaveSystem(bal.Waves, f.reg, f.bus, log)
	f.pop = NewPopulationSystem(f.reg, bal, f.waves, rng, f.bus, f.bounds, log)
	f.items = NewItemSystem(f.reg, bal, f.waves, rng, f.bus, f.bounds, log)
	f.waves.AddListener(f.pop)
	f.kills = NewKillReporter(f.reg, bal, f.waves, f.bus, nil)
	f.area = NewAreaEffectEngine(f.reg, f.kills, f.tasks)
	effects := NewPickupEffects(f.reg, bal, f.waves, f.area, nil, log)
	f.router = NewCollisionRouter(f.reg, bal, f.bus, f.kills, effects, f.clock, log)

	event.Subscribe(f.bus, func(e event.EntityRemoved) { f.events = append(f.events, e) })
	event.Subscribe(f.bus, func(e event.HostileKilled) { f.events = append(f.events, e) })
	event.Subscribe(f.bus, func(e event.PickupCollected) { f.events = append(f.events, e) })
	event.Subscribe(f.bus, func(e event.ProjectileConsumed) { f.events = append(f.events, e) })
	event.Subscribe(f.bus, func(e event.PlayerDamaged) { f.events = append(f.events, e) })
	event.Subscribe(f.bus, func(e event.WaveStarted) { f.events = append(f.events, e) })
	event.Subscribe(f.bus, func(e event.WaveActive) { f.events = append(f.events, e) })
	return f
}

// drain delivers everything emitted so far and returns it in emission order.
func (f *fixture) drain() []any {
	f.bus.SwapBuffers()
	f.bus.DispatchAll()
	out := f.events
	f.events = nil
	return out
}

func (f *fixture) addHostile(kind world.HostileKind, pos world.Vec2, health, maxHealth, spawnWave int) ecs.EntityID {
	st := f.bal.Hostile(kind)
	return f.reg.AddHostile(
		world.Hostile{Kind: kind, Speed: st.BaseSpeed, SpawnWave: spawnWave},
		world.Body{Position: pos, Radius: st.Radius},
		world.Health{Current: health, Max: maxHealth},
	)
}

func (f *fixture) addPickup(kind world.PickupKind, pos world.Vec2, at time.Time) ecs.EntityID {
	return f.reg.AddPickup(world.Pickup{Kind: kind, SpawnTime: at}, world.Body{Position: pos, Radius: 18})
}

func (f *fixture) newPlayer() *world.Player {
	p := world.NewPlayer(world.Vec2{X: 960, Y: 540}, 100, 120, 200, 24)
	f.reg.SetPlayer(p)
	return p
}

func countEvents[T any](events []any) int {
	n := 0
	for _, e := range events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}
