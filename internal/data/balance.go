package data

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zombierush/sim/internal/world"
)

// HostileStats holds the base values of one hostile kind before wave scaling.
type HostileStats struct {
	BaseSpeed  float64 `yaml:"base_speed"`  // world units per second
	BaseHealth int     `yaml:"base_health"` // max health at wave 1
	Radius     float64 `yaml:"radius"`
	Weight     int     `yaml:"weight"` // spawn weight, default 60/25/15
	Score      int     `yaml:"score"`  // score for a kill
}

// WaveBalance drives the wave state machine and the difficulty curve.
type WaveBalance struct {
	Duration       time.Duration `yaml:"duration"`   // active phase length
	Announce       time.Duration `yaml:"announce"`   // announcement phase length
	SpeedBase      float64       `yaml:"speed_base"` // speed multiplier = min(base^(n-1), cap)
	SpeedCap       float64       `yaml:"speed_cap"`
	HealthBase     float64       `yaml:"health_base"` // health multiplier = min(base^(n-1), cap)
	HealthCap      float64       `yaml:"health_cap"`
	PlayerBonus    float64       `yaml:"player_bonus"` // player move-speed bonus per wave
	PlayerBonusCap float64       `yaml:"player_bonus_cap"`
}

// PopulationBalance controls the hostile spawner.
type PopulationBalance struct {
	BaseCap           int           `yaml:"base_cap"`
	PerWave           int           `yaml:"per_wave"`
	HardCap           int           `yaml:"hard_cap"`
	InstantFillWaves  int           `yaml:"instant_fill_waves"` // waves <= this fill to cap every tick
	BaseInterval      time.Duration `yaml:"base_interval"`
	IntervalDecrement time.Duration `yaml:"interval_decrement"`
	MinInterval       time.Duration `yaml:"min_interval"`
	EdgeMargin        float64       `yaml:"edge_margin"`
}

// ItemBalance controls the pickup spawner.
type ItemBalance struct {
	BaseCount  float64       `yaml:"base_count"`
	Multiplier float64       `yaml:"multiplier"` // cap = min(floor(base * mult^(n-1)), max)
	MaxCount   int           `yaml:"max_count"`
	Interval   time.Duration `yaml:"interval"`
	Lifetime   time.Duration `yaml:"lifetime"`
	EdgeMargin float64       `yaml:"edge_margin"`
	Radius     float64       `yaml:"radius"`
}

// PickupStats describes one pickup kind. Which fields matter depends on the kind.
type PickupStats struct {
	MinWave    int           `yaml:"min_wave"`
	Amount     int           `yaml:"amount"`      // health_kit, ammo_box
	Duration   time.Duration `yaml:"duration"`    // speed_boost, shield
	Magnitude  float64       `yaml:"magnitude"`   // speed_boost
	AreaRadius float64       `yaml:"area_radius"` // meteor
	AreaDamage int           `yaml:"area_damage"` // meteor
	Delay      time.Duration `yaml:"delay"`       // meteor wind-up
}

// CombatBalance holds the fixed damages used by the collision handlers.
type CombatBalance struct {
	ProjectileDamage int `yaml:"projectile_damage"`
	ContactDamage    int `yaml:"contact_damage"`
	AreaWeaponDamage int `yaml:"area_weapon_damage"`
}

// Balance is the gameplay table supplied at startup.
type Balance struct {
	Hostiles   map[string]HostileStats `yaml:"hostiles"`
	Waves      WaveBalance             `yaml:"waves"`
	Population PopulationBalance       `yaml:"population"`
	Items      ItemBalance             `yaml:"items"`
	Pickups    map[string]PickupStats  `yaml:"pickups"`
	Combat     CombatBalance           `yaml:"combat"`

	hostiles [3]HostileStats
	pickups  map[world.PickupKind]PickupStats
}

// LoadBalance reads a YAML balance table. See ParseBalance for how the file
// overlays the defaults.
func LoadBalance(path string) (*Balance, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	b, err := ParseBalance(raw)
	if err != nil {
		return nil, fmt.Errorf("balance %s: %w", path, err)
	}
	return b, nil
}

// balanceEntries captures the per-kind entries undecoded so each one can be
// laid over its default instead of a zero value.
type balanceEntries struct {
	Hostiles map[string]yaml.Node `yaml:"hostiles"`
	Pickups  map[string]yaml.Node `yaml:"pickups"`
}

// ParseBalance decodes and validates a balance table from raw YAML.
// Fields missing from the file, including fields of a partially listed
// hostile or pickup, keep their defaults.
func ParseBalance(raw []byte) (*Balance, error) {
	b := DefaultBalance()
	hostiles := copyMap(b.Hostiles)
	pickups := copyMap(b.Pickups)
	if err := yaml.Unmarshal(raw, b); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}

	var entries balanceEntries
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	for name, node := range entries.Hostiles {
		st := hostiles[name]
		if err := node.Decode(&st); err != nil {
			return nil, fmt.Errorf("hostile %s: %w", name, err)
		}
		b.Hostiles[name] = st
	}
	for name, node := range entries.Pickups {
		st := pickups[name]
		if err := node.Decode(&st); err != nil {
			return nil, fmt.Errorf("pickup %s: %w", name, err)
		}
		b.Pickups[name] = st
	}

	if err := b.resolve(); err != nil {
		return nil, err
	}
	return b, nil
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DefaultBalance returns the stock table, already resolved.
func DefaultBalance() *Balance {
	b := &Balance{
		Hostiles: map[string]HostileStats{
			"normal": {BaseSpeed: 80, BaseHealth: 25, Radius: 20, Weight: 60, Score: 10},
			"fast":   {BaseSpeed: 140, BaseHealth: 15, Radius: 16, Weight: 25, Score: 15},
			"strong": {BaseSpeed: 55, BaseHealth: 60, Radius: 28, Weight: 15, Score: 30},
		},
		Waves: WaveBalance{
			Duration:       30 * time.Second,
			Announce:       3 * time.Second,
			SpeedBase:      1.13,
			SpeedCap:       3.5,
			HealthBase:     1.1,
			HealthCap:      5.5,
			PlayerBonus:    0.05,
			PlayerBonusCap: 0.5,
		},
		Population: PopulationBalance{
			BaseCap:           40,
			PerWave:           5,
			HardCap:           120,
			InstantFillWaves:  3,
			BaseInterval:      time.Second,
			IntervalDecrement: 100 * time.Millisecond,
			MinInterval:       250 * time.Millisecond,
			EdgeMargin:        20,
		},
		Items: ItemBalance{
			BaseCount:  2,
			Multiplier: 1.2,
			MaxCount:   6,
			Interval:   8 * time.Second,
			Lifetime:   15 * time.Second,
			EdgeMargin: 60,
			Radius:     18,
		},
		Pickups: map[string]PickupStats{
			"health_kit":  {MinWave: 1, Amount: 25},
			"ammo_box":    {MinWave: 1, Amount: 30},
			"speed_boost": {MinWave: 3, Duration: 8 * time.Second, Magnitude: 1.5},
			"shield":      {MinWave: 5, Duration: 5 * time.Second},
			"meteor":      {MinWave: 7, AreaRadius: 900, AreaDamage: 999, Delay: 1500 * time.Millisecond},
		},
		Combat: CombatBalance{
			ProjectileDamage: 10,
			ContactDamage:    10,
			AreaWeaponDamage: 999,
		},
	}
	if err := b.resolve(); err != nil {
		panic(fmt.Sprintf("default balance: %v", err))
	}
	return b
}

// resolve validates the named tables and indexes them by kind.
func (b *Balance) resolve() error {
	var seen [3]bool
	for _, name := range sortedKeys(b.Hostiles) {
		st := b.Hostiles[name]
		kind, err := world.ParseHostileKind(name)
		if err != nil {
			return err
		}
		if st.BaseHealth <= 0 {
			return fmt.Errorf("hostile %s: base_health must be positive, got %d", name, st.BaseHealth)
		}
		if st.BaseSpeed <= 0 {
			return fmt.Errorf("hostile %s: base_speed must be positive, got %g", name, st.BaseSpeed)
		}
		if st.Weight < 0 {
			return fmt.Errorf("hostile %s: weight cannot be negative, got %d", name, st.Weight)
		}
		b.hostiles[kind] = st
		seen[kind] = true
	}
	total := 0
	for _, k := range world.HostileKinds {
		if !seen[k] {
			return fmt.Errorf("hostile %s: missing from table", k)
		}
		total += b.hostiles[k].Weight
	}
	if total <= 0 {
		return fmt.Errorf("hostile weights must sum to a positive value")
	}

	b.pickups = make(map[world.PickupKind]PickupStats, len(b.Pickups))
	for _, name := range sortedKeys(b.Pickups) {
		kind, err := world.ParsePickupKind(name)
		if err != nil {
			return err
		}
		b.pickups[kind] = b.Pickups[name]
	}
	return nil
}

// Hostile returns the base stats of kind.
func (b *Balance) Hostile(kind world.HostileKind) HostileStats {
	if int(kind) >= len(b.hostiles) {
		return HostileStats{}
	}
	return b.hostiles[kind]
}

// Weights returns the spawn weights in world.HostileKinds order.
func (b *Balance) Weights() []int {
	w := make([]int, len(world.HostileKinds))
	for i, k := range world.HostileKinds {
		w[i] = b.hostiles[k].Weight
	}
	return w
}

// Pickup returns the stats of a configured pickup kind.
func (b *Balance) Pickup(kind world.PickupKind) (PickupStats, bool) {
	st, ok := b.pickups[kind]
	return st, ok
}

// PickupKinds returns the configured pickup kinds in ascending order.
func (b *Balance) PickupKinds() []world.PickupKind {
	kinds := make([]world.PickupKind, 0, len(b.pickups))
	for k := range b.pickups {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
