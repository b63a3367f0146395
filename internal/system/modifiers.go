package system

import (
	"github.com/zombierush/sim/internal/core/event"
	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/world"
)

// ModifierSystem expires timed player modifiers. Phase 4 (Deferred).
type ModifierSystem struct {
	reg *world.Registry
	bus *event.Bus
}

func NewModifierSystem(reg *world.Registry, bus *event.Bus) *ModifierSystem {
	return &ModifierSystem{reg: reg, bus: bus}
}

func (s *ModifierSystem) Phase() coresys.Phase { return coresys.PhaseDeferred }

func (s *ModifierSystem) Update(f coresys.Frame) {
	p := s.reg.Player()
	if p == nil {
		return
	}
	for _, m := range p.ExpireModifiers(f.Now) {
		event.Emit(s.bus, event.ModifierExpired{Modifier: m})
	}
}
