// zombierush-view runs the reference arena inside an ebiten window.
// Space pauses, R restarts, N skips to the next wave.
package main

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/zombierush/sim/internal/config"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/host"
	"github.com/zombierush/sim/internal/scripting"
	"github.com/zombierush/sim/internal/sim"
	"github.com/zombierush/sim/internal/system"
	"github.com/zombierush/sim/internal/world"
)

var (
	colorBackground = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	colorPlayer     = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	colorShield     = color.RGBA{R: 160, G: 220, B: 255, A: 255}
	colorProjectile = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	colorHealthBar  = color.RGBA{R: 200, G: 40, B: 40, A: 255}

	hostileColors = map[world.HostileKind]color.RGBA{
		world.HostileNormal: {R: 110, G: 160, B: 90, A: 255},
		world.HostileFast:   {R: 200, G: 200, B: 70, A: 255},
		world.HostileStrong: {R: 150, G: 70, B: 160, A: 255},
	}
	pickupColors = map[world.PickupKind]color.RGBA{
		world.PickupHealthKit:  {R: 230, G: 60, B: 60, A: 255},
		world.PickupAmmoBox:    {R: 220, G: 160, B: 60, A: 255},
		world.PickupSpeedBoost: {R: 60, G: 220, B: 200, A: 255},
		world.PickupShield:     {R: 140, G: 200, B: 255, A: 255},
		world.PickupMeteor:     {R: 255, G: 110, B: 20, A: 255},
	}
)

type Game struct {
	sim    *sim.Sim
	arena  *host.Arena
	bounds world.Bounds
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.sim.Clock.Paused() {
			g.sim.Resume()
		} else {
			g.sim.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.arena.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sim.Waves.JumpTo(g.sim.Clock.Now(), g.sim.Waves.Number()+1)
	}
	if g.arena.Step(time.Now()) {
		g.arena.Restart()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	now := g.sim.Clock.Now()

	for _, pk := range g.sim.Registry.PickupStates() {
		vector.DrawFilledRect(screen,
			float32(pk.Position.X-pk.Radius), float32(pk.Position.Y-pk.Radius),
			float32(pk.Radius*2), float32(pk.Radius*2),
			pickupColors[pk.Kind], true)
	}

	for _, h := range g.sim.Registry.HostileStates() {
		x, y, r := float32(h.Position.X), float32(h.Position.Y), float32(h.Radius)
		vector.DrawFilledCircle(screen, x, y, r, hostileColors[h.Kind], true)
		if h.Health < h.MaxHealth && h.MaxHealth > 0 {
			frac := float32(h.Health) / float32(h.MaxHealth)
			vector.DrawFilledRect(screen, x-r, y-r-6, 2*r*frac, 3, colorHealthBar, false)
		}
	}

	for _, pr := range g.arena.Projectiles() {
		vector.DrawFilledCircle(screen, float32(pr.Position.X), float32(pr.Position.Y), float32(pr.Radius), colorProjectile, true)
	}

	p := g.arena.Player()
	vector.DrawFilledCircle(screen, float32(p.Position.X), float32(p.Position.Y), float32(p.Radius), colorPlayer, true)
	if p.Has(world.ModifierShield, now) {
		vector.StrokeCircle(screen, float32(p.Position.X), float32(p.Position.Y), float32(p.Radius+6), 2, colorShield, true)
	}

	st := g.sim.Stats()
	hud := fmt.Sprintf("wave %d  hostiles %d/%d  pickups %d\nhp %d/%d  ammo %d/%d\nkills %d  score %d  deaths %d",
		g.sim.Waves.Number(), g.sim.Registry.HostileCount(), g.sim.Population.Cap(g.sim.Waves.Number()),
		g.sim.Registry.PickupCount(),
		p.Health, p.MaxHealth, p.Ammo, p.MaxAmmo,
		st.Kills, st.Score, g.arena.Deaths())
	if g.sim.Waves.State().Phase == system.WaveAnnouncing {
		hud += fmt.Sprintf("\n-- WAVE %d --", g.sim.Waves.Number())
	}
	if g.sim.Clock.Paused() {
		hud += "\n[paused]"
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.bounds.Width), int(g.bounds.Height)
}

func main() {
	cfgPath := "config/server.toml"
	if p := os.Getenv("ZOMBIERUSH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cfg = config.Default()
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	bal, err := data.LoadBalance(cfg.Simulation.BalancePath)
	if err != nil {
		log.Warn("balance table unavailable, using defaults", zap.Error(err))
		bal = data.DefaultBalance()
	}
	scripts, err := scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
	if err != nil {
		log.Warn("scripts unavailable, using built-in rules", zap.Error(err))
		scripts = nil
	}
	defer scripts.Close()

	bounds := world.Bounds{Width: cfg.Simulation.WorldWidth, Height: cfg.Simulation.WorldHeight}
	s := sim.New(sim.Options{
		Balance:  bal,
		Bounds:   bounds,
		Seed:     cfg.Simulation.Seed,
		MaxDelta: cfg.Simulation.MaxDelta,
		Scripts:  scripts,
		Log:      log.Named("sim"),
	})
	g := &Game{
		sim:    s,
		arena:  host.NewArena(s, cfg.Player, bounds, log.Named("arena")),
		bounds: bounds,
	}

	ebiten.SetWindowSize(int(bounds.Width)/2, int(bounds.Height)/2)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("ZombieRush")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal("run game", zap.Error(err))
	}
}
