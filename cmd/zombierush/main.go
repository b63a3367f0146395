package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zombierush/sim/internal/config"
	"github.com/zombierush/sim/internal/core/event"
	"github.com/zombierush/sim/internal/data"
	"github.com/zombierush/sim/internal/host"
	"github.com/zombierush/sim/internal/persist"
	"github.com/zombierush/sim/internal/scripting"
	"github.com/zombierush/sim/internal/sim"
	"github.com/zombierush/sim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, seed int64) {
	fmt.Println()
	fmt.Println("\033[32;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[32;1m  │\033[0m            ZombieRush  v0.1.0             \033[32;1m│\033[0m")
	fmt.Println("\033[32;1m  │\033[0m       生存模擬核心 · headless host        \033[32;1m│\033[0m")
	fmt.Println("\033[32;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m名稱:\033[0m %s \033[90m(seed: %d)\033[0m\n\n", name, seed)
}

// displayWidth counts CJK runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

func printSection(title string) {
	lineLen := 46 - displayWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value string) {
	dotsLen := 42 - displayWidth(label) - len(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("ZOMBIERUSH_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "server config (TOML)")
	balancePath := flag.String("balance", "", "balance table override (YAML)")
	limit := flag.Duration("duration", 0, "stop after this much wall time (0 = until signalled)")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *balancePath != "" {
		cfg.Simulation.BalancePath = *balancePath
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Simulation.Seed)

	// 3. Load balance data and scripts
	printSection("資料載入")

	bal, err := data.LoadBalance(cfg.Simulation.BalancePath)
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}
	printStat("敵人種類", fmt.Sprintf("%d", len(bal.Hostiles)))
	printStat("道具種類", fmt.Sprintf("%d", len(bal.Pickups)))
	printStat("波次長度", bal.Waves.Duration.String())

	luaEngine, err := scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua 腳本載入完成")
	fmt.Println()

	// 4. Optional run journal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var journal *persist.Journal
	if cfg.Database.Enabled {
		printSection("資料庫")
		db, version, err := openDB(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		journal = persist.NewJournal(persist.NewRunRepo(db), 256, log.Named("journal"))
		journal.Start(ctx)
		defer journal.Close()
		printOK("PostgreSQL 連線成功")
		printStat("資料庫版本", fmt.Sprintf("%d", version))
		fmt.Println()
	}

	// 5. Build the simulation and the host arena
	bounds := world.Bounds{Width: cfg.Simulation.WorldWidth, Height: cfg.Simulation.WorldHeight}
	s := sim.New(sim.Options{
		Balance:  bal,
		Bounds:   bounds,
		Seed:     cfg.Simulation.Seed,
		MaxDelta: cfg.Simulation.MaxDelta,
		Scripts:  luaEngine,
		Log:      log.Named("sim"),
	})
	arena := host.NewArena(s, cfg.Player, bounds, log.Named("arena"))

	if journal != nil {
		event.Subscribe(s.Bus, func(e event.WaveStarted) {
			journal.Wave(persist.WaveEntry{
				Wave:      e.Number,
				SpeedMul:  e.SpeedMultiplier,
				HealthMul: e.HealthMultiplier,
				StartedAt: time.Now(),
			})
		})
	}

	// 6. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if *limit > 0 {
		deadline = time.After(*limit)
	}

	var statsC <-chan time.Time
	if cfg.Simulation.StatsEvery > 0 {
		statsTicker := time.NewTicker(cfg.Simulation.StatsEvery)
		defer statsTicker.Stop()
		statsC = statsTicker.C
	}

	printSection("模擬就緒")
	printReady(fmt.Sprintf("世界大小 %.0fx%.0f", bounds.Width, bounds.Height))
	printReady(fmt.Sprintf("遊戲迴圈啟動 (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	runStart := time.Now()
	if journal != nil {
		journal.BeginRun(cfg.Simulation.Seed, runStart)
	}

	for {
		select {
		case now := <-ticker.C:
			if !arena.Step(now) {
				continue
			}
			st := s.Stats()
			logRun(log, st, arena)
			if journal != nil {
				journal.Finish(summary(cfg.Simulation.Seed, runStart, now, st))
			}
			arena.Restart()
			runStart = now
			if journal != nil {
				journal.BeginRun(cfg.Simulation.Seed, runStart)
			}
		case <-statsC:
			logStats(log, s, arena)
		case <-deadline:
			log.Info("time limit reached", zap.Duration("limit", *limit))
			finish(log, journal, cfg.Simulation.Seed, runStart, s, arena)
			return nil
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			finish(log, journal, cfg.Simulation.Seed, runStart, s, arena)
			log.Info("模擬已停止")
			return nil
		}
	}
}

func openDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*persist.DB, int64, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(connectCtx, cfg, log)
	if err != nil {
		return nil, 0, fmt.Errorf("database: %w", err)
	}
	version, err := persist.RunMigrations(connectCtx, db.Pool, log)
	if err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("migrations: %w", err)
	}
	return db, version, nil
}

func summary(seed int64, started, ended time.Time, st sim.Stats) persist.RunSummary {
	return persist.RunSummary{
		Seed:        seed,
		StartedAt:   started,
		EndedAt:     ended,
		HighestWave: st.HighestWave,
		Kills:       st.Kills,
		Score:       st.Score,
		Pickups:     st.PickupsCollected,
		DamageTaken: st.DamageTaken,
	}
}

func finish(log *zap.Logger, journal *persist.Journal, seed int64, started time.Time, s *sim.Sim, arena *host.Arena) {
	st := s.Stats()
	logRun(log, st, arena)
	if journal != nil {
		journal.Finish(summary(seed, started, time.Now(), st))
	}
}

func logRun(log *zap.Logger, st sim.Stats, arena *host.Arena) {
	log.Info("run finished",
		zap.Int("highest_wave", st.HighestWave),
		zap.Int("kills", st.Kills),
		zap.Int("score", st.Score),
		zap.Int("pickups", st.PickupsCollected),
		zap.Int("damage_taken", st.DamageTaken),
		zap.Int("deaths", arena.Deaths()),
	)
}

func logStats(log *zap.Logger, s *sim.Sim, arena *host.Arena) {
	st := s.Stats()
	p := arena.Player()
	log.Info("stats",
		zap.Int("wave", s.Waves.Number()),
		zap.Int("hostiles", s.Registry.HostileCount()),
		zap.Int("cap", s.Population.Cap(s.Waves.Number())),
		zap.Int("pickups", s.Registry.PickupCount()),
		zap.Int("projectiles", len(arena.Projectiles())),
		zap.Int("health", p.Health),
		zap.Int("ammo", p.Ammo),
		zap.Int("kills", st.Kills),
		zap.Int("score", st.Score),
	)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
