package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zombierush/sim/internal/world"
)

func TestLoadBalance_ShippedTable(t *testing.T) {
	b, err := LoadBalance(filepath.Join("..", "..", "data", "yaml", "balance.yaml"))
	if err != nil {
		t.Fatalf("LoadBalance: %v", err)
	}

	if got := b.Weights(); got[0] != 60 || got[1] != 25 || got[2] != 15 {
		t.Errorf("expected weights 60/25/15, got %v", got)
	}
	if b.Population.BaseCap != 40 {
		t.Errorf("expected base cap 40, got %d", b.Population.BaseCap)
	}
	if b.Waves.Duration != 30*time.Second {
		t.Errorf("expected 30s waves, got %v", b.Waves.Duration)
	}
	meteor, ok := b.Pickup(world.PickupMeteor)
	if !ok {
		t.Fatal("meteor pickup missing")
	}
	if meteor.AreaRadius != 900 || meteor.AreaDamage != 999 || meteor.Delay != 1500*time.Millisecond {
		t.Errorf("unexpected meteor stats %+v", meteor)
	}
	if n := len(b.PickupKinds()); n != len(world.PickupKinds) {
		t.Errorf("expected %d pickup kinds, got %d", len(world.PickupKinds), n)
	}
}

func TestParseBalance_OverlaysDefaults(t *testing.T) {
	b, err := ParseBalance([]byte("population:\n  base_cap: 12\n"))
	if err != nil {
		t.Fatalf("ParseBalance: %v", err)
	}
	if b.Population.BaseCap != 12 {
		t.Errorf("expected overlay base cap 12, got %d", b.Population.BaseCap)
	}
	if b.Population.HardCap != DefaultBalance().Population.HardCap {
		t.Errorf("untouched field lost its default: %d", b.Population.HardCap)
	}
	if b.Hostile(world.HostileStrong).BaseHealth != 60 {
		t.Errorf("expected default strong health, got %d", b.Hostile(world.HostileStrong).BaseHealth)
	}
}

func TestParseBalance_PartialEntriesKeepDefaults(t *testing.T) {
	raw := "hostiles:\n  fast:\n    weight: 40\npickups:\n  meteor:\n    min_wave: 9\n"
	b, err := ParseBalance([]byte(raw))
	if err != nil {
		t.Fatalf("ParseBalance: %v", err)
	}
	def := DefaultBalance()

	fast := b.Hostile(world.HostileFast)
	wantFast := def.Hostile(world.HostileFast)
	wantFast.Weight = 40
	if fast != wantFast {
		t.Errorf("fast: expected %+v, got %+v", wantFast, fast)
	}

	meteor, ok := b.Pickup(world.PickupMeteor)
	if !ok {
		t.Fatal("meteor missing after overlay")
	}
	wantMeteor, _ := def.Pickup(world.PickupMeteor)
	wantMeteor.MinWave = 9
	if meteor != wantMeteor {
		t.Errorf("meteor: expected %+v, got %+v", wantMeteor, meteor)
	}

	if got, want := b.Hostile(world.HostileNormal), def.Hostile(world.HostileNormal); got != want {
		t.Errorf("unlisted kind changed: %+v", got)
	}
}

func TestParseBalance_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "zero base health",
			yaml:    "hostiles:\n  fast:\n    base_speed: 100\n    base_health: 0\n    weight: 25\n",
			wantErr: "base_health",
		},
		{
			name:    "partial entry zeroing base health",
			yaml:    "hostiles:\n  normal:\n    base_health: 0\n",
			wantErr: "base_health",
		},
		{
			name:    "negative base speed",
			yaml:    "hostiles:\n  strong:\n    base_speed: -1\n    base_health: 10\n    weight: 15\n",
			wantErr: "base_speed",
		},
		{
			name:    "unknown hostile kind",
			yaml:    "hostiles:\n  giant:\n    base_speed: 10\n    base_health: 10\n",
			wantErr: "unknown hostile kind",
		},
		{
			name:    "unknown pickup kind",
			yaml:    "pickups:\n  laser:\n    min_wave: 1\n",
			wantErr: "unknown pickup kind",
		},
		{
			name:    "malformed yaml",
			yaml:    "waves: [",
			wantErr: "parse balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBalance([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadBalance_MissingFile(t *testing.T) {
	_, err := LoadBalance(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read balance") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadBalance_FromTempDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	body := "items:\n  lifetime: 2s\ncombat:\n  contact_damage: 7\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := LoadBalance(path)
	if err != nil {
		t.Fatalf("LoadBalance: %v", err)
	}
	if b.Items.Lifetime != 2*time.Second || b.Combat.ContactDamage != 7 {
		t.Errorf("overlay not applied: items=%+v combat=%+v", b.Items, b.Combat)
	}
}
