package system

import (
	"go.uber.org/zap"

	coresys "github.com/zombierush/sim/internal/core/system"
	"github.com/zombierush/sim/internal/world"
)

// CleanupSystem drops registry entries whose host-side node is gone.
// Phase 0 (Input), so the spawners see the true population.
type CleanupSystem struct {
	reg *world.Registry
	log *zap.Logger
}

func NewCleanupSystem(reg *world.Registry, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{reg: reg, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *CleanupSystem) Update(_ coresys.Frame) {
	if purged := s.reg.PurgeDetached(); len(purged) > 0 {
		s.log.Debug("purged detached entities", zap.Int("count", len(purged)))
	}
}
