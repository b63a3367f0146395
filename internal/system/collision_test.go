package system

import (
	"reflect"
	"testing"
	"time"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/world"
)

const projectileRef = ecs.EntityID(1 << 40) // host-owned, not in the registry

type contactCase struct {
	name  string
	a, b  world.Category
	setup func(f *fixture) (refA, refB ecs.EntityID)
}

func contactCases() []contactCase {
	return []contactCase{
		{
			name: "projectile hits hostile",
			a:    world.CategoryProjectile, b: world.CategoryHostile,
			setup: func(f *fixture) (ecs.EntityID, ecs.EntityID) {
				return projectileRef, f.addHostile(world.HostileNormal, world.Vec2{X: 50}, 25, 25, 1)
			},
		},
		{
			name: "projectile kills hostile",
			a:    world.CategoryProjectile, b: world.CategoryHostile,
			setup: func(f *fixture) (ecs.EntityID, ecs.EntityID) {
				return projectileRef, f.addHostile(world.HostileFast, world.Vec2{X: 50}, 5, 15, 1)
			},
		},
		{
			name: "hostile touches player",
			a:    world.CategoryPlayer, b: world.CategoryHostile,
			setup: func(f *fixture) (ecs.EntityID, ecs.EntityID) {
				return 0, f.addHostile(world.HostileStrong, world.Vec2{X: 50}, 60, 60, 1)
			},
		},
		{
			name: "player takes pickup",
			a:    world.CategoryPlayer, b: world.CategoryPickup,
			setup: func(f *fixture) (ecs.EntityID, ecs.EntityID) {
				return 0, f.addPickup(world.PickupHealthKit, world.Vec2{X: 5}, t0)
			},
		},
		{
			name: "area weapon hits hostile",
			a:    world.CategoryAreaWeapon, b: world.CategoryHostile,
			setup: func(f *fixture) (ecs.EntityID, ecs.EntityID) {
				return 0, f.addHostile(world.HostileStrong, world.Vec2{X: 50}, 60, 60, 1)
			},
		},
	}
}

type snapshot struct {
	Hostiles []world.HostileState
	Pickups  []world.PickupState
	Player   world.Player
	Events   []any
}

func takeSnapshot(f *fixture) snapshot {
	s := snapshot{
		Hostiles: f.reg.HostileStates(),
		Pickups:  f.reg.PickupStates(),
		Events:   f.drain(),
	}
	if p := f.reg.Player(); p != nil {
		s.Player = *p
	}
	return s
}

func TestCollisionRouter_Symmetric(t *testing.T) {
	for _, tc := range contactCases() {
		t.Run(tc.name, func(t *testing.T) {
			fwd := newFixture(t, nil)
			fwd.newPlayer().Health = 50
			ra, rb := tc.setup(fwd)
			fwd.router.Dispatch(tc.a, tc.b, ra, rb)

			rev := newFixture(t, nil)
			rev.newPlayer().Health = 50
			ra2, rb2 := tc.setup(rev)
			rev.router.Dispatch(tc.b, tc.a, rb2, ra2)

			got, want := takeSnapshot(rev), takeSnapshot(fwd)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("swapped dispatch diverged:\nforward:  %+v\nreversed: %+v", want, got)
			}
			if len(want.Events) == 0 {
				t.Error("contact produced no events")
			}
		})
	}
}

func TestCollisionRouter_ProjectileDamage(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)

	f.router.Dispatch(world.CategoryProjectile, world.CategoryHostile, projectileRef, h)
	st, ok := f.reg.Hostile(h)
	if !ok || st.Health != 15 {
		t.Fatalf("expected hostile at 15 health, got %+v ok=%v", st, ok)
	}
	events := f.drain()
	if countEvents[event.ProjectileConsumed](events) != 1 {
		t.Errorf("projectile must be consumed even when the hostile survives: %v", events)
	}

	f.router.Dispatch(world.CategoryHostile, world.CategoryProjectile, h, projectileRef)
	f.router.Dispatch(world.CategoryProjectile, world.CategoryHostile, projectileRef, h)
	if f.reg.Alive(h) {
		t.Fatal("hostile should be dead after three hits")
	}

	events = f.drain()
	var killed *event.HostileKilled
	for _, e := range events {
		if k, ok := e.(event.HostileKilled); ok {
			killed = &k
		}
	}
	if killed == nil || killed.ID != h || killed.Score != f.bal.Hostile(world.HostileNormal).Score {
		t.Errorf("expected scoring kill for %v, got %+v", h, killed)
	}
}

func TestCollisionRouter_PlayerContact(t *testing.T) {
	f := newFixture(t, nil)
	p := f.newPlayer()
	h := f.addHostile(world.HostileStrong, world.Vec2{}, 60, 60, 1)

	f.router.Dispatch(world.CategoryHostile, world.CategoryPlayer, h, 0)

	if f.reg.Alive(h) {
		t.Error("contact must remove the hostile")
	}
	if p.Health != 90 {
		t.Errorf("expected player at 90, got %d", p.Health)
	}
	events := f.drain()
	if countEvents[event.HostileKilled](events) != 0 {
		t.Error("contact removal must not score")
	}
	if countEvents[event.PlayerDamaged](events) != 1 {
		t.Errorf("expected PlayerDamaged, got %v", events)
	}
}

func TestCollisionRouter_ContactNeverKillsPastZero(t *testing.T) {
	f := newFixture(t, nil)
	p := f.newPlayer()
	p.Health = 3
	for i := 0; i < 3; i++ {
		h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)
		f.router.Dispatch(world.CategoryPlayer, world.CategoryHostile, 0, h)
	}
	if p.Health != 0 {
		t.Errorf("expected health clamped at 0, got %d", p.Health)
	}
	if f.reg.HostileCount() != 0 {
		t.Error("hostiles must still be removed once the player is down")
	}
}

func TestCollisionRouter_ShieldAbsorbsContact(t *testing.T) {
	f := newFixture(t, nil)
	p := f.newPlayer()
	p.Grant(world.ModifierShield, t0, 5*time.Second, 0)
	h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)

	f.router.Dispatch(world.CategoryPlayer, world.CategoryHostile, 0, h)
	if p.Health != 100 {
		t.Errorf("shield should absorb contact damage, health %d", p.Health)
	}
	if f.reg.Alive(h) {
		t.Error("hostile must be removed even when shielded")
	}
	if countEvents[event.PlayerDamaged](f.drain()) != 0 {
		t.Error("absorbed hit must not report damage")
	}
}

func TestCollisionRouter_PickupCollected(t *testing.T) {
	f := newFixture(t, nil)
	p := f.newPlayer()
	p.Health = 40
	pk := f.addPickup(world.PickupHealthKit, world.Vec2{}, t0)

	f.router.Dispatch(world.CategoryPickup, world.CategoryPlayer, pk, 0)
	if f.reg.Alive(pk) {
		t.Error("pickup must be removed")
	}
	if p.Health != 65 {
		t.Errorf("expected heal to 65, got %d", p.Health)
	}
	events := f.drain()
	if countEvents[event.PickupCollected](events) != 1 {
		t.Errorf("expected PickupCollected, got %v", events)
	}

	// second contact with the same, now stale, pickup
	f.router.Dispatch(world.CategoryPlayer, world.CategoryPickup, 0, pk)
	if p.Health != 65 || len(f.drain()) != 0 {
		t.Error("stale pickup contact must be a no-op")
	}
}

func TestCollisionRouter_AreaWeaponIsLethal(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileStrong, world.Vec2{}, 60, 60, 1)
	f.router.Dispatch(world.CategoryAreaWeapon, world.CategoryHostile, 0, h)
	if f.reg.Alive(h) {
		t.Error("area weapon must kill")
	}
	if countEvents[event.HostileKilled](f.drain()) != 1 {
		t.Error("area weapon kill must score")
	}
}

func TestCollisionRouter_IgnoredContacts(t *testing.T) {
	tests := []struct {
		name string
		a, b world.Category
	}{
		{"hostile vs hostile", world.CategoryHostile, world.CategoryHostile},
		{"boundary vs boundary", world.CategoryWorldBoundary, world.CategoryWorldBoundary},
		{"hostile vs boundary", world.CategoryHostile, world.CategoryWorldBoundary},
		{"projectile vs pickup", world.CategoryProjectile, world.CategoryPickup},
		{"player vs projectile", world.CategoryPlayer, world.CategoryProjectile},
		{"unknown tag", world.Category(0x80), world.CategoryHostile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			p := f.newPlayer()
			h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)
			pk := f.addPickup(world.PickupAmmoBox, world.Vec2{}, t0)
			before := takeSnapshot(f)

			f.router.Dispatch(tt.a, tt.b, h, pk)
			f.router.Dispatch(tt.b, tt.a, pk, h)

			after := takeSnapshot(f)
			if !reflect.DeepEqual(before, after) {
				t.Errorf("ignored contact changed state")
			}
			if p.Health != 100 {
				t.Errorf("player touched: %d", p.Health)
			}
			if f.router.Handles(tt.a, tt.b) {
				t.Error("Handles reports an ignored pair")
			}
		})
	}
}

func TestCollisionRouter_NoPlayerIsNoOp(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)
	pk := f.addPickup(world.PickupAmmoBox, world.Vec2{}, t0)

	f.router.Dispatch(world.CategoryPlayer, world.CategoryHostile, 0, h)
	f.router.Dispatch(world.CategoryPlayer, world.CategoryPickup, 0, pk)
	if !f.reg.Alive(h) || !f.reg.Alive(pk) {
		t.Error("player handlers must no-op without a player")
	}
}

func TestCollisionRouter_StaleHostileStillConsumesProjectile(t *testing.T) {
	f := newFixture(t, nil)
	h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)
	f.reg.Remove(h)
	fresh := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1) // may reuse the slot

	f.router.Dispatch(world.CategoryProjectile, world.CategoryHostile, projectileRef, h)
	st, _ := f.reg.Hostile(fresh)
	if st.Health != 25 {
		t.Errorf("stale id damaged a reused slot: %+v", st)
	}
	events := f.drain()
	if len(events) != 1 {
		t.Fatalf("expected only the consumed projectile, got %v", events)
	}
	if e, ok := events[0].(event.ProjectileConsumed); !ok || e.Ref != projectileRef {
		t.Errorf("expected ProjectileConsumed for %v, got %#v", projectileRef, events[0])
	}
}

func TestCollisionRouter_StaleHostileContactIsNoOp(t *testing.T) {
	f := newFixture(t, nil)
	p := f.newPlayer()
	h := f.addHostile(world.HostileNormal, world.Vec2{}, 25, 25, 1)
	f.reg.Remove(h)

	f.router.Dispatch(world.CategoryPlayer, world.CategoryHostile, 0, h)
	if p.Health != p.MaxHealth {
		t.Errorf("stale contact damaged the player: %d", p.Health)
	}
	if len(f.drain()) != 0 {
		t.Error("stale contact emitted events")
	}
}

func TestCollisionRouter_WrongCategoryRef(t *testing.T) {
	f := newFixture(t, nil)
	pk := f.addPickup(world.PickupAmmoBox, world.Vec2{}, t0)
	// a pickup id passed where a hostile is expected
	f.router.Dispatch(world.CategoryAreaWeapon, world.CategoryHostile, 0, pk)
	if !f.reg.Alive(pk) {
		t.Error("router acted on an id of the wrong category")
	}
}
