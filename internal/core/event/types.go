package event

import (
	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/world"
)

// RemovalReason says why an entity left the registry.
type RemovalReason uint8

const (
	RemovedKilled    RemovalReason = iota + 1 // health reached zero
	RemovedContact                            // touched the player
	RemovedStale                              // outlived two waves
	RemovedCollected                          // pickup taken by the player
	RemovedExpired                            // pickup lifetime ran out
	RemovedDrained                            // rescale left it without health
)

func (r RemovalReason) String() string {
	switch r {
	case RemovedKilled:
		return "killed"
	case RemovedContact:
		return "contact"
	case RemovedStale:
		return "stale"
	case RemovedCollected:
		return "collected"
	case RemovedExpired:
		return "expired"
	case RemovedDrained:
		return "drained"
	}
	return "unknown"
}

// EntityRemoved asks the host to tear down the visual for ID.
type EntityRemoved struct {
	ID       ecs.EntityID
	Category world.Category
	Reason   RemovalReason
}

// HostileKilled is a scoring kill.
type HostileKilled struct {
	ID    ecs.EntityID
	Kind  world.HostileKind
	Wave  int
	Score int
}

// PickupCollected fires when the player consumes a pickup.
type PickupCollected struct {
	ID   ecs.EntityID
	Kind world.PickupKind
}

// ProjectileConsumed tells the host to retire a projectile it owns.
type ProjectileConsumed struct {
	Ref ecs.EntityID
}

// PlayerDamaged reports damage actually taken (zero while shielded is not reported).
type PlayerDamaged struct {
	Amount    int
	Remaining int
}

// WaveStarted fires on every wave transition; the announcement phase begins.
type WaveStarted struct {
	Number           int
	SpeedMultiplier  float64
	HealthMultiplier float64
}

// WaveActive fires when the announcement phase ends.
type WaveActive struct {
	Number int
}

// ModifierExpired fires when a timed player effect ends.
type ModifierExpired struct {
	Modifier world.Modifier
}
