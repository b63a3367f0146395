package system

import (
	"math/rand"
	"time"

	"github.com/zombierush/sim/internal/world"
)

// Rand is the seeded generator shared by the spawners so a run can be replayed
// from its seed.
type Rand struct {
	rng *rand.Rand
}

// NewRand seeds a generator. Seed 0 uses the current time.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 { return r.rng.Float64() }

// Draw100 returns a value in [1, 100].
func (r *Rand) Draw100() int { return r.rng.Intn(100) + 1 }

// SelectKind maps a draw in [1, 100] onto the weighted hostile kinds.
// weights are in world.HostileKinds order. The same draw always yields the
// same kind, so a selection can be replayed from the draw alone.
func SelectKind(weights []int, draw int) world.HostileKind {
	if draw < 1 {
		draw = 1
	}
	if draw > 100 {
		draw = 100
	}
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return world.HostileKinds[0]
	}

	// (draw-1)/100 of the way through the cumulative weights.
	pos := (draw - 1) * total / 100
	upto := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if upto+w > pos && i < len(world.HostileKinds) {
			return world.HostileKinds[i]
		}
		upto += w
	}
	return world.HostileKinds[len(world.HostileKinds)-1]
}
