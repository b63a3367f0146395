package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/world"
)

// TimeSource reports the simulation's current time. *sim.Clock implements it.
type TimeSource interface {
	Now() time.Time
}

// contactHandler receives refs ordered to match the pair's declared order.
type contactHandler struct {
	first world.Category
	fn    func(first, second ecs.EntityID)
}

// CollisionRouter dispatches host-reported contacts through a table keyed by
// the unordered pair of categories. Unmapped pairs and equal categories are
// ignored.
type CollisionRouter struct {
	reg     *world.Registry
	bal     *data.Balance
	bus     *event.Bus
	kills   *KillReporter
	effects *PickupEffects
	clock   TimeSource
	log     *zap.Logger

	handlers map[world.PairKey]contactHandler
}

func NewCollisionRouter(reg *world.Registry, bal *data.Balance, bus *event.Bus, kills *KillReporter, effects *PickupEffects, clock TimeSource, log *zap.Logger) *CollisionRouter {
	r := &CollisionRouter{
		reg:     reg,
		bal:     bal,
		bus:     bus,
		kills:   kills,
		effects: effects,
		clock:   clock,
		log:     log,
	}
	r.handlers = make(map[world.PairKey]contactHandler)
	r.handle(world.CategoryProjectile, world.CategoryHostile, r.projectileHostile)
	r.handle(world.CategoryPlayer, world.CategoryHostile, r.playerHostile)
	r.handle(world.CategoryPlayer, world.CategoryPickup, r.playerPickup)
	r.handle(world.CategoryAreaWeapon, world.CategoryHostile, r.areaWeaponHostile)
	return r
}

func (r *CollisionRouter) handle(first, second world.Category, fn func(first, second ecs.EntityID)) {
	key, ok := world.MakePair(first, second)
	if !ok {
		return
	}
	r.handlers[key] = contactHandler{first: first, fn: fn}
}

// Handles reports whether a contact between a and b does anything.
func (r *CollisionRouter) Handles(a, b world.Category) bool {
	key, ok := world.MakePair(a, b)
	if !ok {
		return false
	}
	_, ok = r.handlers[key]
	return ok
}

// Dispatch routes one contact. The categories may arrive in either order.
func (r *CollisionRouter) Dispatch(a, b world.Category, refA, refB ecs.EntityID) {
	key, ok := world.MakePair(a, b)
	if !ok {
		return
	}
	h, ok := r.handlers[key]
	if !ok {
		return
	}
	if a != h.first {
		refA, refB = refB, refA
	}
	h.fn(refA, refB)
}

// ==================== Handlers ====================

// projectileHostile: fixed damage, the projectile is spent, kill on zero health.
func (r *CollisionRouter) projectileHostile(projectile, hostile ecs.EntityID) {
	event.Emit(r.bus, event.ProjectileConsumed{Ref: projectile})
	if !r.reg.Hostiles.Has(hostile) {
		return
	}
	if remaining, ok := r.reg.DamageHostile(hostile, r.bal.Combat.ProjectileDamage); ok && remaining <= 0 {
		r.kills.Kill(hostile)
	}
}

// playerHostile: the hostile always dies on contact, without score. The
// player takes fixed damage unless shielded; player death is the host's call.
func (r *CollisionRouter) playerHostile(_, hostile ecs.EntityID) {
	p := r.reg.Player()
	if p == nil || !r.reg.Hostiles.Has(hostile) {
		return
	}
	if taken := p.Damage(r.bal.Combat.ContactDamage, r.clock.Now()); taken > 0 {
		event.Emit(r.bus, event.PlayerDamaged{Amount: taken, Remaining: p.Health})
	}
	r.reg.RemoveHostile(hostile)
	event.Emit(r.bus, event.EntityRemoved{ID: hostile, Category: world.CategoryHostile, Reason: event.RemovedContact})
}

// playerPickup: apply the effect and consume the pickup.
func (r *CollisionRouter) playerPickup(_, pickup ecs.EntityID) {
	p := r.reg.Player()
	if p == nil {
		return
	}
	pk, ok := r.reg.Pickups.Get(pickup)
	if !ok {
		return
	}
	kind := pk.Kind
	r.reg.RemovePickup(pickup)
	r.effects.Apply(kind, p, r.clock.Now())
	event.Emit(r.bus, event.PickupCollected{ID: pickup, Kind: kind})
	event.Emit(r.bus, event.EntityRemoved{ID: pickup, Category: world.CategoryPickup, Reason: event.RemovedCollected})
	r.log.Debug("pickup collected", zap.Stringer("kind", kind))
}

// areaWeaponHostile: a placed hazard deals lethal damage.
func (r *CollisionRouter) areaWeaponHostile(_, hostile ecs.EntityID) {
	if remaining, ok := r.reg.DamageHostile(hostile, r.bal.Combat.AreaWeaponDamage); ok && remaining <= 0 {
		r.kills.Kill(hostile)
	}
}
