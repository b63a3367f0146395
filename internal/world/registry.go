package world

import (
	"sort"

	"github.com/zombierush/sim/internal/core/ecs"
)

// Liveness is the host-side probe for entities whose visual node may have
// been torn down without going through the registry.
type Liveness interface {
	Alive(id ecs.EntityID) bool
}

// LivenessFunc adapts a plain function to Liveness.
type LivenessFunc func(id ecs.EntityID) bool

func (f LivenessFunc) Alive(id ecs.EntityID) bool { return f(id) }

// Registry owns the authoritative hostile and pickup records. Everything else
// refers to entities by ecs.EntityID and resolves them here on each use;
// generational ids make references to removed entities inert.
// Accessed only from the game loop goroutine, no locks.
type Registry struct {
	world *ecs.World

	Bodies   *ecs.PtrComponentStore[Body]
	Healths  *ecs.PtrComponentStore[Health]
	Hostiles *ecs.PtrComponentStore[Hostile]
	Pickups  *ecs.PtrComponentStore[Pickup]
	tags     *ecs.PtrComponentStore[Category]

	player   *Player
	liveness Liveness
}

func NewRegistry() *Registry {
	r := &Registry{
		world:    ecs.NewWorld(),
		Bodies:   ecs.NewPtrComponentStore[Body](),
		Healths:  ecs.NewPtrComponentStore[Health](),
		Hostiles: ecs.NewPtrComponentStore[Hostile](),
		Pickups:  ecs.NewPtrComponentStore[Pickup](),
		tags:     ecs.NewPtrComponentStore[Category](),
	}
	r.world.Registry().Register(r.Bodies, r.Healths, r.Hostiles, r.Pickups, r.tags)
	return r
}

// ==================== Player ====================

// SetPlayer installs the host-owned player. nil is allowed and makes
// targeting and player-side collision handlers no-op.
func (r *Registry) SetPlayer(p *Player) { r.player = p }

// Player returns the current player or nil.
func (r *Registry) Player() *Player { return r.player }

// SetLiveness installs the host probe used by PurgeDetached. nil disables purging.
func (r *Registry) SetLiveness(l Liveness) { r.liveness = l }

// ==================== Add / Remove ====================

// AddHostile registers a hostile and returns its id. Health is clamped to [0, Max].
func (r *Registry) AddHostile(h Hostile, body Body, health Health) ecs.EntityID {
	if health.Current > health.Max {
		health.Current = health.Max
	}
	if health.Current < 0 {
		health.Current = 0
	}
	id := r.world.CreateEntity()
	tag := CategoryHostile
	r.Hostiles.Set(id, &h)
	r.Bodies.Set(id, &body)
	r.Healths.Set(id, &health)
	r.tags.Set(id, &tag)
	return id
}

// AddPickup registers a pickup and returns its id.
func (r *Registry) AddPickup(p Pickup, body Body) ecs.EntityID {
	id := r.world.CreateEntity()
	tag := CategoryPickup
	r.Pickups.Set(id, &p)
	r.Bodies.Set(id, &body)
	r.tags.Set(id, &tag)
	return id
}

// Remove deregisters any entity. Returns false for unknown or stale ids.
func (r *Registry) Remove(id ecs.EntityID) bool {
	return r.world.Destroy(id)
}

// RemoveHostile removes id only if it is a live hostile.
func (r *Registry) RemoveHostile(id ecs.EntityID) bool {
	if !r.Hostiles.Has(id) {
		return false
	}
	return r.world.Destroy(id)
}

// RemovePickup removes id only if it is a live pickup.
func (r *Registry) RemovePickup(id ecs.EntityID) bool {
	if !r.Pickups.Has(id) {
		return false
	}
	return r.world.Destroy(id)
}

// Clear removes every entity. The player and liveness probe are kept.
func (r *Registry) Clear() {
	for _, id := range r.tags.IDs() {
		r.world.MarkForDestruction(id)
	}
	r.world.FlushDestroyQueue()
}

// PurgeDetached asks the liveness probe about every entity and removes the
// ones the host no longer has. Returns the purged ids in ascending order.
func (r *Registry) PurgeDetached() []ecs.EntityID {
	if r.liveness == nil {
		return nil
	}
	r.tags.Each(func(id ecs.EntityID, _ *Category) {
		if !r.liveness.Alive(id) {
			r.world.MarkForDestruction(id)
		}
	})
	purged := r.world.FlushDestroyQueue()
	sortIDs(purged)
	return purged
}

// ==================== Queries ====================

// Alive reports whether id is a live registry entity.
func (r *Registry) Alive(id ecs.EntityID) bool {
	return r.world.Alive(id) && r.tags.Has(id)
}

// CategoryOf returns the tag of a live entity.
func (r *Registry) CategoryOf(id ecs.EntityID) (Category, bool) {
	c, ok := r.tags.Get(id)
	if !ok {
		return 0, false
	}
	return *c, true
}

func (r *Registry) HostileCount() int { return r.Hostiles.Len() }
func (r *Registry) PickupCount() int  { return r.Pickups.Len() }

// HostileIDs returns live hostile ids in ascending order.
func (r *Registry) HostileIDs() []ecs.EntityID { return r.Hostiles.IDs() }

// PickupIDs returns live pickup ids in ascending order.
func (r *Registry) PickupIDs() []ecs.EntityID { return r.Pickups.IDs() }

// Hostile returns a snapshot of one hostile.
func (r *Registry) Hostile(id ecs.EntityID) (HostileState, bool) {
	h, ok := r.Hostiles.Get(id)
	if !ok {
		return HostileState{}, false
	}
	st := HostileState{ID: id, Kind: h.Kind, Speed: h.Speed, SpawnWave: h.SpawnWave}
	if b, ok := r.Bodies.Get(id); ok {
		st.Position, st.Velocity, st.Radius = b.Position, b.Velocity, b.Radius
	}
	if hp, ok := r.Healths.Get(id); ok {
		st.Health, st.MaxHealth = hp.Current, hp.Max
	}
	return st, true
}

// Pickup returns a snapshot of one pickup.
func (r *Registry) Pickup(id ecs.EntityID) (PickupState, bool) {
	p, ok := r.Pickups.Get(id)
	if !ok {
		return PickupState{}, false
	}
	st := PickupState{ID: id, Kind: p.Kind, SpawnTime: p.SpawnTime}
	if b, ok := r.Bodies.Get(id); ok {
		st.Position, st.Radius = b.Position, b.Radius
	}
	return st, true
}

// HostileStates snapshots every hostile in id order.
func (r *Registry) HostileStates() []HostileState {
	ids := r.Hostiles.IDs()
	out := make([]HostileState, 0, len(ids))
	for _, id := range ids {
		if st, ok := r.Hostile(id); ok {
			out = append(out, st)
		}
	}
	return out
}

// PickupStates snapshots every pickup in id order.
func (r *Registry) PickupStates() []PickupState {
	ids := r.Pickups.IDs()
	out := make([]PickupState, 0, len(ids))
	for _, id := range ids {
		if st, ok := r.Pickup(id); ok {
			out = append(out, st)
		}
	}
	return out
}

// DamageHostile applies amount to a live hostile and returns its remaining
// health. ok is false when id is not a live hostile.
func (r *Registry) DamageHostile(id ecs.EntityID, amount int) (remaining int, ok bool) {
	if !r.Hostiles.Has(id) {
		return 0, false
	}
	h, ok := r.Healths.Get(id)
	if !ok {
		return 0, false
	}
	return h.Damage(amount), true
}

func sortIDs(ids []ecs.EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
