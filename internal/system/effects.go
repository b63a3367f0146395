package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/scripting"
	"github.com/zombierush/sim/internal/world"
)

// PickupEffects turns a collected pickup into changes on the player.
// Defaults come from the balance table; a loaded apply_pickup hook may
// override them.
type PickupEffects struct {
	reg     *world.Registry
	bal     *data.Balance
	waves   *WaveSystem
	area    *AreaEffectEngine
	scripts *scripting.Engine // nil = table defaults only
	log     *zap.Logger
}

func NewPickupEffects(reg *world.Registry, bal *data.Balance, waves *WaveSystem, area *AreaEffectEngine, scripts *scripting.Engine, log *zap.Logger) *PickupEffects {
	return &PickupEffects{reg: reg, bal: bal, waves: waves, area: area, scripts: scripts, log: log}
}

// DefaultEffect is the table-driven effect of kind.
func (e *PickupEffects) DefaultEffect(kind world.PickupKind) scripting.PickupEffect {
	st, ok := e.bal.Pickup(kind)
	if !ok {
		return scripting.PickupEffect{}
	}
	switch kind {
	case world.PickupHealthKit:
		return scripting.PickupEffect{Heal: st.Amount}
	case world.PickupAmmoBox:
		return scripting.PickupEffect{Ammo: st.Amount}
	case world.PickupSpeedBoost:
		return scripting.PickupEffect{Modifier: world.ModifierSpeedBoost.String(), Duration: st.Duration, Magnitude: st.Magnitude}
	case world.PickupShield:
		return scripting.PickupEffect{Modifier: world.ModifierShield.String(), Duration: st.Duration}
	case world.PickupMeteor:
		return scripting.PickupEffect{AreaRadius: st.AreaRadius, AreaDamage: st.AreaDamage, Delay: st.Delay}
	}
	return scripting.PickupEffect{}
}

// Apply runs kind's effect on p at now.
func (e *PickupEffects) Apply(kind world.PickupKind, p *world.Player, now time.Time) {
	if p == nil {
		return
	}
	eff := e.scripts.ApplyPickup(scripting.PickupContext{
		Kind:      kind.String(),
		Wave:      e.waves.Number(),
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Ammo:      p.Ammo,
		MaxAmmo:   p.MaxAmmo,
		Default:   e.DefaultEffect(kind),
	})

	p.Heal(eff.Heal)
	p.AddAmmo(eff.Ammo)
	if eff.Modifier != "" && eff.Duration > 0 {
		if m, ok := world.ParseModifier(eff.Modifier); ok {
			p.Grant(m, now, eff.Duration, eff.Magnitude)
		} else {
			e.log.Warn("unknown pickup modifier", zap.String("modifier", eff.Modifier))
		}
	}
	if eff.AreaRadius > 0 && eff.AreaDamage > 0 {
		// The blast is centred where the player stood when collecting and
		// is dropped if the player has been swapped out or cleared by then.
		center := p.Position
		e.area.Schedule(now.Add(eff.Delay), center, eff.AreaRadius, eff.AreaDamage, func() bool {
			return e.reg.Player() == p
		})
	}
}
