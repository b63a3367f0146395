package host

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/config"
	"github.com/zombierush/sim/internal/core/ecs"
	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/sim"
	"github.com/zombierush/sim/internal/world"
)

// Projectile is a host-owned bullet. The simulation only ever sees its id.
type Projectile struct {
	ID        ecs.EntityID
	Position  world.Vec2
	Velocity  world.Vec2
	Radius    float64
	Travelled float64
}

// Arena is a reference host: it owns the player and the projectiles, runs an
// auto-firing bot, detects circle contacts and forwards them to the
// simulation. It is what a renderer would do, without the rendering.
type Arena struct {
	sim    *sim.Sim
	cfg    config.PlayerConfig
	bounds world.Bounds
	log    *zap.Logger

	player      *world.Player
	projectiles map[ecs.EntityID]*Projectile
	ids         *ecs.EntityPool
	lastShot    time.Time
	lastNow     time.Time
	deaths      int
}

func NewArena(s *sim.Sim, cfg config.PlayerConfig, bounds world.Bounds, log *zap.Logger) *Arena {
	a := &Arena{
		sim:         s,
		cfg:         cfg,
		bounds:      bounds,
		log:         log,
		projectiles: make(map[ecs.EntityID]*Projectile),
		ids:         ecs.NewEntityPool(),
	}
	event.Subscribe(s.Bus, func(e event.ProjectileConsumed) {
		a.retire(e.Ref)
	})
	a.spawnPlayer()
	return a
}

func (a *Arena) spawnPlayer() {
	center := world.Vec2{X: a.bounds.Width / 2, Y: a.bounds.Height / 2}
	a.player = world.NewPlayer(center, a.cfg.MaxHealth, a.cfg.MaxAmmo, a.cfg.Speed, a.cfg.Radius)
	a.sim.SetPlayer(a.player)
}

// Player returns the current player.
func (a *Arena) Player() *world.Player { return a.player }

// Projectiles returns the live projectiles. The map must not be modified.
func (a *Arena) Projectiles() map[ecs.EntityID]*Projectile { return a.projectiles }

// Deaths counts how many times the player has died.
func (a *Arena) Deaths() int { return a.deaths }

// Step runs one frame: simulation tick first, then host-side motion and
// contact detection against the post-tick registry.
// Returns true when the player died during this frame.
func (a *Arena) Step(now time.Time) bool {
	if !a.sim.Tick(now) {
		return false
	}
	simNow := a.sim.Clock.Now()
	var dt float64
	if !a.lastNow.IsZero() {
		dt = simNow.Sub(a.lastNow).Seconds()
	}
	a.lastNow = simNow

	a.steer(dt, simNow)
	a.fire(simNow)
	a.moveProjectiles(dt)
	a.detectContacts()

	if a.player.Dead() {
		a.deaths++
		a.log.Info("player died",
			zap.Int("wave", a.sim.Waves.Number()),
			zap.Int("deaths", a.deaths),
		)
		return true
	}
	return false
}

// Restart resets the simulation and puts a fresh player in the middle.
func (a *Arena) Restart() {
	a.sim.Reset()
	for id := range a.projectiles {
		a.retire(id)
	}
	a.lastShot = time.Time{}
	a.lastNow = time.Time{}
	a.spawnPlayer()
}

// steer moves the bot away from nearby hostiles, or back toward the centre
// when nothing is close.
func (a *Arena) steer(dt float64, now time.Time) {
	if dt <= 0 {
		return
	}
	const danger = 250.0
	p := a.player
	var away world.Vec2
	for _, h := range a.sim.Registry.HostileStates() {
		d := p.Position.Sub(h.Position)
		if l := d.LenSq(); l > 0 && l < danger*danger {
			away = away.Add(d.Scale(1 / l))
		}
	}
	speed := p.MoveSpeed(now)
	var dir world.Vec2
	if away.LenSq() > 0 {
		dir = world.Vec2{}.Toward(away, speed)
	} else {
		center := world.Vec2{X: a.bounds.Width / 2, Y: a.bounds.Height / 2}
		if p.Position.DistSq(center) > 100*100 {
			dir = p.Position.Toward(center, speed*0.5)
		}
	}
	p.Position = a.clamp(p.Position.Add(dir.Scale(dt)), p.Radius)
}

// fire shoots at the nearest hostile when the fire rate allows.
func (a *Arena) fire(now time.Time) {
	p := a.player
	if p.Ammo <= 0 {
		return
	}
	if !a.lastShot.IsZero() && now.Sub(a.lastShot) < a.cfg.FireRate {
		return
	}
	target, ok := a.nearestHostile()
	if !ok {
		return
	}
	p.Ammo--
	a.lastShot = now
	id := a.ids.Create()
	a.projectiles[id] = &Projectile{
		ID:       id,
		Position: p.Position,
		Velocity: p.Position.Toward(target, a.cfg.BulletSpeed),
		Radius:   4,
	}
}

func (a *Arena) nearestHostile() (world.Vec2, bool) {
	best, found := 0.0, false
	var at world.Vec2
	for _, h := range a.sim.Registry.HostileStates() {
		d := a.player.Position.DistSq(h.Position)
		if !found || d < best {
			best, at, found = d, h.Position, true
		}
	}
	return at, found
}

func (a *Arena) moveProjectiles(dt float64) {
	for id, pr := range a.projectiles {
		step := pr.Velocity.Scale(dt)
		pr.Position = pr.Position.Add(step)
		pr.Travelled += math.Sqrt(step.LenSq())
		if !a.bounds.Contains(pr.Position) || pr.Travelled > a.cfg.BulletRange {
			a.retire(id)
		}
	}
}

// detectContacts finds every touching pair and hands it to the router.
func (a *Arena) detectContacts() {
	p := a.player
	for _, h := range a.sim.Registry.HostileStates() {
		if Touching(p.Position, p.Radius, h.Position, h.Radius) {
			a.sim.Dispatch(world.CategoryPlayer, world.CategoryHostile, 0, h.ID)
			continue
		}
		for id, pr := range a.projectiles {
			if Touching(pr.Position, pr.Radius, h.Position, h.Radius) {
				a.sim.Dispatch(world.CategoryProjectile, world.CategoryHostile, id, h.ID)
				a.retire(id) // spent now; the consumed event arrives next frame
				break
			}
		}
	}
	for _, pk := range a.sim.Registry.PickupStates() {
		if Touching(p.Position, p.Radius, pk.Position, pk.Radius) {
			a.sim.Dispatch(world.CategoryPlayer, world.CategoryPickup, 0, pk.ID)
		}
	}
}

func (a *Arena) retire(id ecs.EntityID) {
	if _, ok := a.projectiles[id]; !ok {
		return
	}
	delete(a.projectiles, id)
	a.ids.Destroy(id)
}

func (a *Arena) clamp(v world.Vec2, r float64) world.Vec2 {
	if v.X < r {
		v.X = r
	}
	if v.Y < r {
		v.Y = r
	}
	if v.X > a.bounds.Width-r {
		v.X = a.bounds.Width - r
	}
	if v.Y > a.bounds.Height-r {
		v.Y = a.bounds.Height - r
	}
	return v
}

// Touching reports whether two circles overlap or touch.
func Touching(a world.Vec2, ra float64, b world.Vec2, rb float64) bool {
	sum := ra + rb
	return a.DistSq(b) <= sum*sum
}
