package world

import "fmt"

// Category is the collidable role of a body. Values are single bits so an
// unordered pair can be keyed by OR-ing its two members.
type Category uint8

const (
	CategoryPlayer Category = 1 << iota
	CategoryHostile
	CategoryProjectile
	CategoryPickup
	CategoryAreaWeapon
	CategoryWorldBoundary
)

var categoryNames = map[Category]string{
	CategoryPlayer:        "player",
	CategoryHostile:       "hostile",
	CategoryProjectile:    "projectile",
	CategoryPickup:        "pickup",
	CategoryAreaWeapon:    "area_weapon",
	CategoryWorldBoundary: "world_boundary",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is exactly one known category bit.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// PairKey identifies an unordered pair of distinct categories.
type PairKey uint8

// MakePair returns the key for {a, b}. ok is false for equal or unknown tags.
func MakePair(a, b Category) (PairKey, bool) {
	if a == b || !a.Valid() || !b.Valid() {
		return 0, false
	}
	return PairKey(a | b), true
}
