package system

import (
	"testing"

	"github.com/zombierush/sim/internal/world"
)

func TestSelectKind_DrawBoundaries(t *testing.T) {
	weights := []int{60, 25, 15}
	tests := []struct {
		draw int
		want world.HostileKind
	}{
		{1, world.HostileNormal},
		{60, world.HostileNormal},
		{61, world.HostileFast},
		{85, world.HostileFast},
		{86, world.HostileStrong},
		{100, world.HostileStrong},
		{0, world.HostileNormal},   // clamped up
		{250, world.HostileStrong}, // clamped down
	}
	for _, tt := range tests {
		if got := SelectKind(weights, tt.draw); got != tt.want {
			t.Errorf("draw %d: expected %s, got %s", tt.draw, tt.want, got)
		}
	}
}

func TestSelectKind_EveryDrawCountsOnce(t *testing.T) {
	counts := make(map[world.HostileKind]int)
	for d := 1; d <= 100; d++ {
		counts[SelectKind([]int{60, 25, 15}, d)]++
	}
	if counts[world.HostileNormal] != 60 || counts[world.HostileFast] != 25 || counts[world.HostileStrong] != 15 {
		t.Errorf("expected exact 60/25/15 split over [1,100], got %v", counts)
	}
}

func TestSelectKind_ZeroWeightNeverChosen(t *testing.T) {
	for d := 1; d <= 100; d++ {
		if SelectKind([]int{50, 0, 50}, d) == world.HostileFast {
			t.Fatalf("draw %d selected a zero-weight kind", d)
		}
	}
	if got := SelectKind([]int{0, 0, 0}, 42); got != world.HostileNormal {
		t.Errorf("all-zero weights should fall back to the first kind, got %s", got)
	}
}

func TestSelectKind_ChiSquare(t *testing.T) {
	const n = 100000
	rng := NewRand(20240101)
	weights := []int{60, 25, 15}

	observed := make([]float64, 3)
	for i := 0; i < n; i++ {
		observed[SelectKind(weights, rng.Draw100())]++
	}

	chi := 0.0
	for i, w := range weights {
		exp := float64(n) * float64(w) / 100
		d := observed[i] - exp
		chi += d * d / exp
	}
	// df=2, p=0.001
	if chi > 13.816 {
		t.Errorf("chi-square %.3f exceeds critical value; observed %v", chi, observed)
	}
}

func TestRand_Draw100Range(t *testing.T) {
	rng := NewRand(1)
	for i := 0; i < 10000; i++ {
		d := rng.Draw100()
		if d < 1 || d > 100 {
			t.Fatalf("draw out of range: %d", d)
		}
	}
	if rng.Intn(0) != 0 || rng.Intn(-3) != 0 {
		t.Error("Intn with non-positive n must return 0")
	}
}
