package system

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/world"
)

// PopulationSystem keeps the hostile population at the wave's cap.
// Phase 2 (Spawn).
//
// Early waves (<= InstantFillWaves) refill to the cap every tick. Later waves
// spawn one hostile per elapsed interval, the interval shrinking each wave.
type PopulationSystem struct {
	reg    *world.Registry
	bal    *data.Balance
	waves  *WaveSystem
	rng    *Rand
	bus    *event.Bus
	bounds world.Bounds
	log    *zap.Logger

	lastSpawn time.Time // interval regime only
}

func NewPopulationSystem(reg *world.Registry, bal *data.Balance, waves *WaveSystem, rng *Rand, bus *event.Bus, bounds world.Bounds, log *zap.Logger) *PopulationSystem {
	return &PopulationSystem{
		reg:    reg,
		bal:    bal,
		waves:  waves,
		rng:    rng,
		bus:    bus,
		bounds: bounds,
		log:    log,
	}
}

func (s *PopulationSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *PopulationSystem) Update(f coresys.Frame) {
	s.Tick(f.Now, s.waves.State())
}

// Reset forgets the interval timer.
func (s *PopulationSystem) Reset() { s.lastSpawn = time.Time{} }

// Cap is the hostile limit for wave. Zero or less disables spawning.
func (s *PopulationSystem) Cap(wave int) int {
	p := s.bal.Population
	if wave < 1 {
		wave = 1
	}
	c := p.BaseCap + p.PerWave*(wave-1)
	if c > p.HardCap {
		c = p.HardCap
	}
	return c
}

// Interval is the spawn interval used once wave is past the instant-fill waves.
func (s *PopulationSystem) Interval(wave int) time.Duration {
	p := s.bal.Population
	if wave < 1 {
		wave = 1
	}
	iv := p.BaseInterval - p.IntervalDecrement*time.Duration(wave-1)
	if iv < p.MinInterval {
		iv = p.MinInterval
	}
	return iv
}

// Tick spawns hostiles for the current wave. Spawning carries on during the
// announcement phase.
func (s *PopulationSystem) Tick(now time.Time, ws WaveState) {
	limit := s.Cap(ws.Number)
	if limit <= 0 {
		return
	}
	live := s.reg.HostileCount()

	if ws.Number <= s.bal.Population.InstantFillWaves {
		for ; live < limit; live++ {
			s.Spawn(now, ws.Number)
		}
		s.lastSpawn = now
		return
	}

	iv := s.Interval(ws.Number)
	if s.lastSpawn.IsZero() || iv <= 0 {
		s.lastSpawn = now
		return
	}
	if live >= limit {
		// A full population does not bank spawns for later.
		s.lastSpawn = now
		return
	}
	due := int(now.Sub(s.lastSpawn) / iv)
	if due <= 0 {
		return
	}
	s.lastSpawn = s.lastSpawn.Add(iv * time.Duration(due))
	for ; due > 0 && live < limit; due-- {
		s.Spawn(now, ws.Number)
		live++
	}
}

// Spawn creates one hostile on a random edge and aims it at the player.
func (s *PopulationSystem) Spawn(now time.Time, wave int) ecs.EntityID {
	kind := SelectKind(s.bal.Weights(), s.rng.Draw100())
	st := s.bal.Hostile(kind)
	mul := MultipliersFor(s.bal.Waves, wave)

	maxHP := scaledHealth(st.BaseHealth, mul.Health)
	speed := st.BaseSpeed * mul.Speed
	pos := s.edgePoint()

	var vel world.Vec2
	if p := s.reg.Player(); p != nil {
		vel = pos.Toward(p.Position, speed)
	}

	return s.reg.AddHostile(
		world.Hostile{Kind: kind, Speed: speed, SpawnWave: wave},
		world.Body{Position: pos, Velocity: vel, Radius: st.Radius},
		world.Health{Current: maxHP, Max: maxHP},
	)
}

// edgePoint picks one of the four edges uniformly and a point along it,
// inset by the edge margin.
func (s *PopulationSystem) edgePoint() world.Vec2 {
	m := s.bal.Population.EdgeMargin
	w, h := s.bounds.Width, s.bounds.Height
	along := func(length float64) float64 {
		if length <= 2*m {
			return length / 2
		}
		return m + s.rng.Float64()*(length-2*m)
	}
	inset := func(length float64) float64 {
		if length <= 2*m {
			return length / 2
		}
		return m
	}

	switch s.rng.Intn(4) {
	case 0: // top
		return world.Vec2{X: along(w), Y: inset(h)}
	case 1: // bottom
		return world.Vec2{X: along(w), Y: h - inset(h)}
	case 2: // left
		return world.Vec2{X: inset(w), Y: along(h)}
	default: // right
		return world.Vec2{X: w - inset(w), Y: along(h)}
	}
}

// OnWaveTransition evicts hostiles two or more waves old and rescales the
// survivors to the new wave's multipliers.
func (s *PopulationSystem) OnWaveTransition(t WaveTransition) {
	evicted := s.Evict(t.To)
	drained := s.Rescale(t.Multipliers)
	s.log.Debug("population rescaled",
		zap.Int("wave", t.To),
		zap.Int("evicted", len(evicted)),
		zap.Int("drained", len(drained)),
		zap.Int("survivors", s.reg.HostileCount()),
	)
}

// Evict removes every hostile with wave - SpawnWave >= 2 and returns their
// ids in ascending order.
func (s *PopulationSystem) Evict(wave int) []ecs.EntityID {
	var stale []ecs.EntityID
	for _, id := range s.reg.HostileIDs() {
		h, ok := s.reg.Hostiles.Get(id)
		if !ok || wave-h.SpawnWave < 2 {
			continue
		}
		stale = append(stale, id)
	}
	for _, id := range stale {
		s.reg.RemoveHostile(id)
		event.Emit(s.bus, event.EntityRemoved{ID: id, Category: world.CategoryHostile, Reason: event.RemovedStale})
	}
	return stale
}

// Rescale applies mul to every live hostile. Max health is recomputed from
// the base value and current health moves by the same delta, so damaged
// hostiles keep their damage instead of being healed to full. Hostiles the
// delta leaves at zero health are removed without score. Returns their ids
// in ascending order.
func (s *PopulationSystem) Rescale(mul Multipliers) []ecs.EntityID {
	var drained []ecs.EntityID
	ecs.Each2(s.reg.Hostiles, s.reg.Healths, func(id ecs.EntityID, h *world.Hostile, hp *world.Health) {
		if hp.Dead() {
			return
		}
		st := s.bal.Hostile(h.Kind)
		newMax := scaledHealth(st.BaseHealth, mul.Health)
		delta := newMax - hp.Max
		hp.Max = newMax
		hp.Current += delta
		if hp.Current > hp.Max {
			hp.Current = hp.Max
		}
		if hp.Current <= 0 {
			hp.Current = 0
			drained = append(drained, id)
		}
		h.Speed = st.BaseSpeed * mul.Speed
	})
	sort.Slice(drained, func(i, j int) bool { return drained[i] < drained[j] })
	for _, id := range drained {
		s.reg.RemoveHostile(id)
		event.Emit(s.bus, event.EntityRemoved{ID: id, Category: world.CategoryHostile, Reason: event.RemovedDrained})
	}
	return drained
}

// scaledHealth rounds base*mul and never returns less than 1.
func scaledHealth(base int, mul float64) int {
	v := int(math.Round(float64(base) * mul))
	if v < 1 {
		v = 1
	}
	return v
}
