package world

import (
	"fmt"
	"strings"
	"time"

	"github.com/zombierush/sim/internal/core/ecs"
)

// PickupKind is the closed set of collectible items.
type PickupKind uint8

const (
	PickupHealthKit PickupKind = iota
	PickupAmmoBox
	PickupSpeedBoost
	PickupShield
	PickupMeteor
)

// PickupKinds lists every kind in table order.
var PickupKinds = []PickupKind{PickupHealthKit, PickupAmmoBox, PickupSpeedBoost, PickupShield, PickupMeteor}

var pickupNames = [...]string{
	PickupHealthKit:  "health_kit",
	PickupAmmoBox:    "ammo_box",
	PickupSpeedBoost: "speed_boost",
	PickupShield:     "shield",
	PickupMeteor:     "meteor",
}

func (k PickupKind) String() string {
	if int(k) < len(pickupNames) {
		return pickupNames[k]
	}
	return fmt.Sprintf("pickup(%d)", uint8(k))
}

// ParsePickupKind maps a balance-table key to a kind.
func ParsePickupKind(s string) (PickupKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range pickupNames {
		if n == s {
			return PickupKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pickup kind %q", s)
}

// Pickup is an item lying in the world. Not persisted, exists only in memory.
type Pickup struct {
	Kind      PickupKind
	SpawnTime time.Time
}

// Age returns how long the pickup has existed at now. Never negative.
func (p *Pickup) Age(now time.Time) time.Duration {
	d := now.Sub(p.SpawnTime)
	if d < 0 {
		return 0
	}
	return d
}

// PickupState is a read-only snapshot of one pickup.
type PickupState struct {
	ID        ecs.EntityID
	Kind      PickupKind
	Position  Vec2
	Radius    float64
	SpawnTime time.Time
}
