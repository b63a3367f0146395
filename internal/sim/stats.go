package sim

import (
	"github.com/zombierush/sim/internal/core/event"
)

// Stats summarises the current run. Counters are fed from the event bus, so
// they trail the simulation by one frame.
type Stats struct {
	Kills            int
	Score            int
	HighestWave      int
	PickupsCollected int
	DamageTaken      int
	ContactKills     int
}

// Stats returns a copy of the run counters.
func (s *Sim) Stats() Stats {
	st := s.stats
	if st.HighestWave < s.Waves.Number() {
		st.HighestWave = s.Waves.Number()
	}
	return st
}

func (s *Sim) subscribeStats() {
	event.Subscribe(s.Bus, func(e event.HostileKilled) {
		s.stats.Kills++
		s.stats.Score += e.Score
	})
	event.Subscribe(s.Bus, func(e event.WaveStarted) {
		if e.Number > s.stats.HighestWave {
			s.stats.HighestWave = e.Number
		}
	})
	event.Subscribe(s.Bus, func(event.PickupCollected) {
		s.stats.PickupsCollected++
	})
	event.Subscribe(s.Bus, func(e event.PlayerDamaged) {
		s.stats.DamageTaken += e.Amount
	})
	event.Subscribe(s.Bus, func(e event.EntityRemoved) {
		if e.Reason == event.RemovedContact {
			s.stats.ContactKills++
		}
	})
}
