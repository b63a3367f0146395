package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	name  string
	phase Phase
	log   *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }
func (s *recordingSystem) Update(Frame) { *s.log = append(*s.log, s.name) }

func TestRunner_PhaseOrderIsStable(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "cleanup", phase: PhaseCleanup, log: &log})
	r.Register(&recordingSystem{name: "spawn-hostiles", phase: PhaseSpawn, log: &log})
	r.Register(&recordingSystem{name: "wave", phase: PhaseWave, log: &log})
	r.Register(&recordingSystem{name: "spawn-items", phase: PhaseSpawn, log: &log})
	r.Register(&recordingSystem{name: "input", phase: PhaseInput, log: &log})

	r.Tick(Frame{Now: time.Unix(0, 0)})

	want := []string{"input", "wave", "spawn-hostiles", "spawn-items", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("expected %d updates, got %v", len(want), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestRunner_TickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "wave", phase: PhaseWave, log: &log})
	r.Register(&recordingSystem{name: "deferred", phase: PhaseDeferred, log: &log})

	r.TickPhase(PhaseDeferred, Frame{})

	if len(log) != 1 || log[0] != "deferred" {
		t.Errorf("TickPhase should only run the deferred phase, got %v", log)
	}
}
