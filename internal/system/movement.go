package system

import (
	"github.com/zombierush/sim/internal/core/ecs"
	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/world"
)

// MovementSystem steers every hostile toward the player and integrates its
// position. Phase 3 (Movement). All hostiles move every tick.
type MovementSystem struct {
	reg *world.Registry
}

func NewMovementSystem(reg *world.Registry) *MovementSystem {
	return &MovementSystem{reg: reg}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(f coresys.Frame) {
	dt := f.Delta.Seconds()
	p := s.reg.Player()

	ecs.Each3(s.reg.Hostiles, s.reg.Bodies, s.reg.Healths, func(_ ecs.EntityID, h *world.Hostile, b *world.Body, hp *world.Health) {
		if hp.Dead() {
			return
		}
		// no player: hold position
		if p == nil {
			b.Velocity = world.Vec2{}
			return
		}
		b.Velocity = b.Position.Toward(p.Position, h.Speed)
		if dt > 0 {
			b.Position = b.Position.Add(b.Velocity.Scale(dt))
		}
	})
}
