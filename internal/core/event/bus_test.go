package event

import "testing"

func TestBus_DeliversNextTickInEmissionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e WaveActive) { got = append(got, "active") })
	Subscribe(b, func(e WaveStarted) { got = append(got, "started") })

	Emit(b, WaveStarted{Number: 2})
	Emit(b, WaveActive{Number: 2})
	Emit(b, WaveStarted{Number: 3})

	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("events must not be visible before SwapBuffers, delivered %d", n)
	}
	if b.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", b.Pending())
	}

	b.SwapBuffers()
	if n := b.DispatchAll(); n != 3 {
		t.Fatalf("expected 3 delivered, got %d", n)
	}

	want := []string{"started", "active", "started"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBus_EmitDuringDispatchWaitsForNextSwap(t *testing.T) {
	b := NewBus()
	calls := 0
	Subscribe(b, func(e WaveActive) {
		calls++
		if e.Number < 3 {
			Emit(b, WaveActive{Number: e.Number + 1})
		}
	})

	Emit(b, WaveActive{Number: 1})
	b.SwapBuffers()
	b.DispatchAll()
	if calls != 1 {
		t.Fatalf("re-emitted event delivered in the same pass: %d calls", calls)
	}
	b.SwapBuffers()
	b.DispatchAll()
	if calls != 2 {
		t.Errorf("expected second delivery after swap, got %d calls", calls)
	}
}

func TestBus_UnsubscribedTypesAreDropped(t *testing.T) {
	b := NewBus()
	Emit(b, ProjectileConsumed{Ref: 7})
	b.SwapBuffers()
	if n := b.DispatchAll(); n != 1 {
		t.Errorf("event without handlers still counts as delivered, got %d", n)
	}
}
