package world

import (
	"fmt"
	"sort"
	"time"
)

// Modifier is a timed effect a pickup can place on the player.
type Modifier uint8

const (
	ModifierSpeedBoost Modifier = iota + 1
	ModifierShield
)

func (m Modifier) String() string {
	switch m {
	case ModifierSpeedBoost:
		return "speed_boost"
	case ModifierShield:
		return "shield"
	}
	return fmt.Sprintf("modifier(%d)", uint8(m))
}

// ParseModifier maps a script/table name to a modifier. Unknown names yield ok=false.
func ParseModifier(s string) (Modifier, bool) {
	switch s {
	case "speed_boost":
		return ModifierSpeedBoost, true
	case "shield":
		return ModifierShield, true
	}
	return 0, false
}

// ActiveModifier is one running timed effect.
type ActiveModifier struct {
	Until     time.Time
	Magnitude float64
}

// Player is the agent the host controls. The host owns it; the simulation reads
// its position and applies damage and pickup effects to it.
// Accessed only from the game loop goroutine, no locks.
type Player struct {
	Position   Vec2
	Radius     float64
	Health     int
	MaxHealth  int
	Ammo       int
	MaxAmmo    int
	BaseSpeed  float64
	SpeedBonus float64 // wave-driven additive bonus, see WaveSystem
	Modifiers  map[Modifier]ActiveModifier
}

// NewPlayer returns a full-health player at pos.
func NewPlayer(pos Vec2, maxHealth, maxAmmo int, baseSpeed, radius float64) *Player {
	return &Player{
		Position:  pos,
		Radius:    radius,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Ammo:      maxAmmo,
		MaxAmmo:   maxAmmo,
		BaseSpeed: baseSpeed,
		Modifiers: make(map[Modifier]ActiveModifier),
	}
}

// Dead reports whether the player has no health left. Acting on it is the host's job.
func (p *Player) Dead() bool { return p.Health <= 0 }

// Has reports whether m is active at now.
func (p *Player) Has(m Modifier, now time.Time) bool {
	a, ok := p.Modifiers[m]
	return ok && now.Before(a.Until)
}

// Grant starts or extends m. A shorter grant never cuts a running one short.
func (p *Player) Grant(m Modifier, now time.Time, d time.Duration, magnitude float64) {
	if p.Modifiers == nil {
		p.Modifiers = make(map[Modifier]ActiveModifier)
	}
	until := now.Add(d)
	if cur, ok := p.Modifiers[m]; ok && cur.Until.After(until) {
		until = cur.Until
	}
	p.Modifiers[m] = ActiveModifier{Until: until, Magnitude: magnitude}
}

// ExpireModifiers drops every modifier whose time is up and returns them sorted.
func (p *Player) ExpireModifiers(now time.Time) []Modifier {
	var expired []Modifier
	for m, a := range p.Modifiers {
		if !now.Before(a.Until) {
			expired = append(expired, m)
			delete(p.Modifiers, m)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired
}

// Damage applies amount unless a shield is up and returns what was taken.
// Health is clamped at zero.
func (p *Player) Damage(amount int, now time.Time) int {
	if amount <= 0 || p.Has(ModifierShield, now) {
		return 0
	}
	if amount > p.Health {
		amount = p.Health
	}
	p.Health -= amount
	return amount
}

// Heal restores up to amount, capped at MaxHealth, and returns what was restored.
func (p *Player) Heal(amount int) int {
	if amount <= 0 || p.Health >= p.MaxHealth {
		return 0
	}
	if p.Health+amount > p.MaxHealth {
		amount = p.MaxHealth - p.Health
	}
	p.Health += amount
	return amount
}

// AddAmmo refills up to amount. MaxAmmo <= 0 means no cap.
func (p *Player) AddAmmo(amount int) int {
	if amount <= 0 {
		return 0
	}
	if p.MaxAmmo > 0 && p.Ammo+amount > p.MaxAmmo {
		amount = p.MaxAmmo - p.Ammo
		if amount < 0 {
			amount = 0
		}
	}
	p.Ammo += amount
	return amount
}

// MoveSpeed is the effective movement speed at now.
func (p *Player) MoveSpeed(now time.Time) float64 {
	speed := p.BaseSpeed * (1 + p.SpeedBonus)
	if a, ok := p.Modifiers[ModifierSpeedBoost]; ok && now.Before(a.Until) && a.Magnitude > 0 {
		speed *= a.Magnitude
	}
	return speed
}
