package system

import (
	"math"
	"testing"
	"time"

	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/world"
)

func TestAreaEffect_MeteorScenario(t *testing.T) {
	f := newFixture(t, nil)
	outside := f.addHostile(world.HostileStrong, world.Vec2{X: 901, Y: 0}, 60, 60, 1)
	inside := f.addHostile(world.HostileNormal, world.Vec2{X: 0, Y: 899}, 25, 25, 1)

	killed := f.area.Apply(world.Vec2{}, 900, 999)

	if len(killed) != 1 || killed[0] != inside {
		t.Fatalf("expected only %v killed, got %v", inside, killed)
	}
	if !f.reg.Alive(outside) {
		t.Error("hostile at 901 must survive")
	}
	if f.reg.Alive(inside) {
		t.Error("hostile at 899 must be removed")
	}
	if countEvents[event.HostileKilled](f.drain()) != 1 {
		t.Error("area kill must be reported")
	}
}

func TestAreaEffect_RadiusIsInclusive(t *testing.T) {
	f := newFixture(t, nil)
	onEdge := f.addHostile(world.HostileNormal, world.Vec2{X: 300, Y: 400}, 25, 25, 1) // distance exactly 500
	beyond := f.addHostile(world.HostileNormal, world.Vec2{X: math.Nextafter(500, 1000), Y: 0}, 25, 25, 1)

	killed := f.area.Apply(world.Vec2{}, 500, 999)
	if len(killed) != 1 || killed[0] != onEdge {
		t.Errorf("expected the boundary hostile only, got %v", killed)
	}
	if !f.reg.Alive(beyond) {
		t.Error("hostile just past the radius must survive")
	}
}

func TestAreaEffect_NonLethalDamage(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileStrong, world.Vec2{X: 10}, 60, 60, 1)
	if killed := f.area.Apply(world.Vec2{}, 50, 20); len(killed) != 0 {
		t.Errorf("non-lethal blast reported kills: %v", killed)
	}
	st, _ := f.reg.Hostile(h)
	if st.Health != 40 {
		t.Errorf("expected 40 health, got %d", st.Health)
	}
}

func TestAreaEffect_SkipsDead(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileNormal, world.Vec2{}, 0, 25, 1)
	if killed := f.area.Apply(world.Vec2{}, 10, 999); len(killed) != 0 {
		t.Errorf("dead hostile counted again: %v", killed)
	}
	if !f.reg.Alive(h) {
		t.Error("already-dead entry is not the blast's to remove")
	}
}

func TestAreaEffect_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)
	if killed := f.area.Apply(world.Vec2{}, -1, 999); killed != nil {
		t.Error("negative radius must do nothing")
	}
	if killed := f.area.Apply(world.Vec2{}, 100, 0); killed != nil {
		t.Error("zero damage must do nothing")
	}
}

func TestAreaEffect_ScheduledFiresWhenDue(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileNormal, world.Vec2{X: 10}, 25, 25, 1)

	f.area.Schedule(t0.Add(1500*time.Millisecond), world.Vec2{}, 900, 999, func() bool { return true })

	f.tasks.RunDue(t0.Add(time.Second))
	if !f.reg.Alive(h) {
		t.Fatal("blast fired before its due time")
	}
	f.tasks.RunDue(t0.Add(1500 * time.Millisecond))
	if f.reg.Alive(h) {
		t.Error("blast did not fire at its due time")
	}
	if f.tasks.Len() != 0 {
		t.Error("one-shot task left in the queue")
	}
}

func TestAreaEffect_ScheduledDroppedWhenContextGone(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileNormal, world.Vec2{X: 10}, 25, 25, 1)

	session := true
	f.area.Schedule(t0.Add(time.Second), world.Vec2{}, 900, 999, func() bool { return session })
	session = false // torn down during the wind-up

	if ran := f.tasks.RunDue(t0.Add(2 * time.Second)); ran != 0 {
		t.Errorf("expected the task to be dropped, ran %d", ran)
	}
	if !f.reg.Alive(h) {
		t.Error("dropped blast still killed")
	}
}
