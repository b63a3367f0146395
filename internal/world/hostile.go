package world

import (
	"fmt"
	"strings"

	"github.com/zombierush/sim/internal/core/ecs"
)

// HostileKind is the closed set of hostile variants.
type HostileKind uint8

const (
	HostileNormal HostileKind = iota
	HostileFast
	HostileStrong
)

// HostileKinds lists every kind in selection order.
var HostileKinds = []HostileKind{HostileNormal, HostileFast, HostileStrong}

func (k HostileKind) String() string {
	switch k {
	case HostileNormal:
		return "normal"
	case HostileFast:
		return "fast"
	case HostileStrong:
		return "strong"
	}
	return fmt.Sprintf("hostile(%d)", uint8(k))
}

// ParseHostileKind maps a balance-table key to a kind.
func ParseHostileKind(s string) (HostileKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return HostileNormal, nil
	case "fast":
		return HostileFast, nil
	case "strong":
		return HostileStrong, nil
	}
	return 0, fmt.Errorf("unknown hostile kind %q", s)
}

// Body is the spatial capability: anything that occupies space.
type Body struct {
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// Health is the damageable capability. Current never goes below zero.
type Health struct {
	Current int
	Max     int
}

// Dead reports whether the entity has no health left.
func (h *Health) Dead() bool { return h.Current <= 0 }

// Damage subtracts amount (negative amounts are ignored) and returns the
// remaining health.
func (h *Health) Damage(amount int) int {
	if amount <= 0 {
		return h.Current
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	return h.Current
}

// Hostile carries the per-hostile data that is neither spatial nor health.
type Hostile struct {
	Kind      HostileKind
	Speed     float64
	SpawnWave int
}

// HostileState is a read-only snapshot of one hostile.
type HostileState struct {
	ID        ecs.EntityID
	Kind      HostileKind
	Position  Vec2
	Velocity  Vec2
	Radius    float64
	Health    int
	MaxHealth int
	Speed     float64
	SpawnWave int
}
