package system

import (
	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/world"
)

// Scorer turns a kill into score. *scripting.Engine implements it.
type Scorer interface {
	KillScore(kind string, wave, base int) int
}

// KillReporter removes dead hostiles and reports them as scoring kills.
// Shared by the collision handlers and the area effect engine.
type KillReporter struct {
	reg    *world.Registry
	bal    *data.Balance
	waves  *WaveSystem
	bus    *event.Bus
	scorer Scorer
}

func NewKillReporter(reg *world.Registry, bal *data.Balance, waves *WaveSystem, bus *event.Bus, scorer Scorer) *KillReporter {
	return &KillReporter{reg: reg, bal: bal, waves: waves, bus: bus, scorer: scorer}
}

// Kill removes id and emits HostileKilled and EntityRemoved. Returns false
// when id is not a live hostile.
func (k *KillReporter) Kill(id ecs.EntityID) bool {
	h, ok := k.reg.Hostiles.Get(id)
	if !ok {
		return false
	}
	kind := h.Kind
	wave := k.waves.Number()
	score := k.bal.Hostile(kind).Score
	if k.scorer != nil {
		score = k.scorer.KillScore(kind.String(), wave, score)
	}

	k.reg.RemoveHostile(id)
	event.Emit(k.bus, event.HostileKilled{ID: id, Kind: kind, Wave: wave, Score: score})
	event.Emit(k.bus, event.EntityRemoved{ID: id, Category: world.CategoryHostile, Reason: event.RemovedKilled})
	return true
}
