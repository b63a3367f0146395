package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/world"
)

// ItemSystem ages out and replenishes pickups. Phase 2 (Spawn), after the
// hostile spawner.
type ItemSystem struct {
	reg    *world.Registry
	bal    *data.Balance
	waves  *WaveSystem
	rng    *Rand
	bus    *event.Bus
	bounds world.Bounds
	log    *zap.Logger

	lastSpawn time.Time
}

func NewItemSystem(reg *world.Registry, bal *data.Balance, waves *WaveSystem, rng *Rand, bus *event.Bus, bounds world.Bounds, log *zap.Logger) *ItemSystem {
	return &ItemSystem{
		reg:    reg,
		bal:    bal,
		waves:  waves,
		rng:    rng,
		bus:    bus,
		bounds: bounds,
		log:    log,
	}
}

func (s *ItemSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *ItemSystem) Update(f coresys.Frame) {
	s.Tick(f.Now, s.waves.Number())
}

// Reset forgets the spawn timer.
func (s *ItemSystem) Reset() { s.lastSpawn = time.Time{} }

// Cap is the pickup limit for wave: min(floor(base * mult^(wave-1)), max).
func (s *ItemSystem) Cap(wave int) int {
	it := s.bal.Items
	if wave < 1 {
		wave = 1
	}
	c := int(math.Floor(it.BaseCount * math.Pow(it.Multiplier, float64(wave-1))))
	if c > it.MaxCount {
		c = it.MaxCount
	}
	return c
}

// Eligible returns the pickup kinds unlocked at wave, ascending.
func (s *ItemSystem) Eligible(wave int) []world.PickupKind {
	var out []world.PickupKind
	for _, k := range s.bal.PickupKinds() {
		st, _ := s.bal.Pickup(k)
		if st.MinWave <= wave {
			out = append(out, k)
		}
	}
	return out
}

// Tick expires old pickups, then spawns at most one when the interval has
// passed and the population is below the cap.
func (s *ItemSystem) Tick(now time.Time, wave int) {
	s.Expire(now)

	limit := s.Cap(wave)
	if limit <= 0 || s.reg.PickupCount() >= limit {
		return
	}
	if !s.lastSpawn.IsZero() && now.Sub(s.lastSpawn) < s.bal.Items.Interval {
		return
	}
	if _, ok := s.Spawn(now, wave); ok {
		s.lastSpawn = now
	}
}

// Expire removes every pickup whose age has reached the lifetime.
// A non-positive lifetime disables expiry.
func (s *ItemSystem) Expire(now time.Time) []ecs.EntityID {
	life := s.bal.Items.Lifetime
	if life <= 0 {
		return nil
	}
	var expired []ecs.EntityID
	for _, id := range s.reg.PickupIDs() {
		p, ok := s.reg.Pickups.Get(id)
		if !ok || p.Age(now) < life {
			continue
		}
		expired = append(expired, id)
	}
	for _, id := range expired {
		s.reg.RemovePickup(id)
		event.Emit(s.bus, event.EntityRemoved{ID: id, Category: world.CategoryPickup, Reason: event.RemovedExpired})
	}
	return expired
}

// Spawn places one pickup of a uniformly chosen eligible kind. ok is false
// when nothing is unlocked yet.
func (s *ItemSystem) Spawn(now time.Time, wave int) (ecs.EntityID, bool) {
	eligible := s.Eligible(wave)
	if len(eligible) == 0 {
		return 0, false
	}
	kind := eligible[s.rng.Intn(len(eligible))]
	id := s.reg.AddPickup(
		world.Pickup{Kind: kind, SpawnTime: now},
		world.Body{Position: s.randomPoint(), Radius: s.bal.Items.Radius},
	)
	s.log.Debug("pickup spawned", zap.Stringer("kind", kind), zap.Int("wave", wave))
	return id, true
}

func (s *ItemSystem) randomPoint() world.Vec2 {
	m := s.bal.Items.EdgeMargin
	coord := func(length float64) float64 {
		if length <= 2*m {
			return length / 2
		}
		return m + s.rng.Float64()*(length-2*m)
	}
	return world.Vec2{X: coord(s.bounds.Width), Y: coord(s.bounds.Height)}
}
