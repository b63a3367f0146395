package system

import (
	"time"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/world"
)

// AreaEffectEngine applies radius-bounded damage to hostiles.
//
// Distances are compared squared, so no square root is taken. The scan is
// linear in the live hostile count; a spatial index would go here if caps
// grow well past the low hundreds.
type AreaEffectEngine struct {
	reg   *world.Registry
	kills *KillReporter
	tasks *TaskQueue
}

func NewAreaEffectEngine(reg *world.Registry, kills *KillReporter, tasks *TaskQueue) *AreaEffectEngine {
	return &AreaEffectEngine{reg: reg, kills: kills, tasks: tasks}
}

// Apply damages every live hostile within radius of center (inclusive) and
// returns the ids it killed, ascending.
func (a *AreaEffectEngine) Apply(center world.Vec2, radius float64, damage int) []ecs.EntityID {
	if radius < 0 || damage <= 0 {
		return nil
	}
	r2 := radius * radius

	var killed []ecs.EntityID
	for _, id := range a.reg.HostileIDs() {
		body, ok := a.reg.Bodies.Get(id)
		if !ok {
			continue
		}
		hp, ok := a.reg.Healths.Get(id)
		if !ok || hp.Dead() {
			continue
		}
		if body.Position.DistSq(center) > r2 {
			continue
		}
		if hp.Damage(damage) <= 0 {
			a.kills.Kill(id)
			killed = append(killed, id)
		}
	}
	return killed
}

// Schedule fires Apply at the given time. alive is checked when the task
// comes due; if it reports false the blast is dropped.
func (a *AreaEffectEngine) Schedule(at time.Time, center world.Vec2, radius float64, damage int, alive func() bool) {
	a.tasks.Schedule(at, alive, func(time.Time) {
		a.Apply(center, radius, damage)
	})
}
