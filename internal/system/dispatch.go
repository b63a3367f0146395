package system

import (
	"github.com/zombierush/sim/internal/core/event"
	coresys "github.com/zombierush/sim/internal/core/system"
)

// EventDispatchSystem delivers the previous tick's events at tick start.
// Phase 0 (Input), registered before anything else in that phase.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EventDispatchSystem) Update(_ coresys.Frame) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
