package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for balance hooks.
// Single-goroutine access only (game loop).
//
// Every hook has a Go fallback: a missing function, a script error or a nil
// *Engine all yield the table-driven default.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Core helpers first, then hook directories
	for _, sub := range []string{"core", "pickup", "score"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// --- Pickup Effect Bridge ---

// PickupEffect is what collecting a pickup does to the player.
type PickupEffect struct {
	Heal       int
	Ammo       int
	Modifier   string // "speed_boost", "shield" or empty
	Duration   time.Duration
	Magnitude  float64
	AreaRadius float64 // > 0 schedules an area blast around the player
	AreaDamage int
	Delay      time.Duration
}

// PickupContext is the input to apply_pickup.
type PickupContext struct {
	Kind      string
	Wave      int
	Health    int
	MaxHealth int
	Ammo      int
	MaxAmmo   int
	Default   PickupEffect
}

// ApplyPickup calls the Lua apply_pickup(ctx) hook. Fields the script leaves
// out keep their default; a nil return keeps the whole default.
func (e *Engine) ApplyPickup(ctx PickupContext) PickupEffect {
	if e == nil {
		return ctx.Default
	}
	fn := e.vm.GetGlobal("apply_pickup")
	if fn == lua.LNil {
		return ctx.Default
	}

	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("wave", lua.LNumber(ctx.Wave))

	pl := e.vm.NewTable()
	pl.RawSetString("health", lua.LNumber(ctx.Health))
	pl.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	pl.RawSetString("ammo", lua.LNumber(ctx.Ammo))
	pl.RawSetString("max_ammo", lua.LNumber(ctx.MaxAmmo))
	t.RawSetString("player", pl)
	t.RawSetString("default", e.effectTable(ctx.Default))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua apply_pickup error", zap.String("kind", ctx.Kind), zap.Error(err))
		return ctx.Default
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		if result != lua.LNil {
			e.log.Error("lua apply_pickup returned non-table", zap.String("kind", ctx.Kind))
		}
		return ctx.Default
	}

	d := ctx.Default
	return PickupEffect{
		Heal:       lIntOr(rt, "heal", d.Heal),
		Ammo:       lIntOr(rt, "ammo", d.Ammo),
		Modifier:   lStrOr(rt, "modifier", d.Modifier),
		Duration:   lMillisOr(rt, "duration_ms", d.Duration),
		Magnitude:  lFloatOr(rt, "magnitude", d.Magnitude),
		AreaRadius: lFloatOr(rt, "area_radius", d.AreaRadius),
		AreaDamage: lIntOr(rt, "area_damage", d.AreaDamage),
		Delay:      lMillisOr(rt, "delay_ms", d.Delay),
	}
}

func (e *Engine) effectTable(p PickupEffect) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("heal", lua.LNumber(p.Heal))
	t.RawSetString("ammo", lua.LNumber(p.Ammo))
	t.RawSetString("modifier", lua.LString(p.Modifier))
	t.RawSetString("duration_ms", lua.LNumber(p.Duration.Milliseconds()))
	t.RawSetString("magnitude", lua.LNumber(p.Magnitude))
	t.RawSetString("area_radius", lua.LNumber(p.AreaRadius))
	t.RawSetString("area_damage", lua.LNumber(p.AreaDamage))
	t.RawSetString("delay_ms", lua.LNumber(p.Delay.Milliseconds()))
	return t
}

// --- Kill Score Bridge ---

// KillScore calls Lua kill_score(kind, wave, base). Falls back to base.
func (e *Engine) KillScore(kind string, wave, base int) int {
	if e == nil {
		return base
	}
	fn := e.vm.GetGlobal("kill_score")
	if fn == lua.LNil {
		return base
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(kind), lua.LNumber(wave), lua.LNumber(base)); err != nil {
		e.log.Error("lua kill_score error", zap.String("kind", kind), zap.Error(err))
		return base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		return base
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// --- Lua helpers ---

// lIntOr reads an integer field, or def when the field is absent.
func lIntOr(t *lua.LTable, key string, def int) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

func lFloatOr(t *lua.LTable, key string, def float64) float64 {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

func lStrOr(t *lua.LTable, key string, def string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return def
}

// lMillisOr reads a millisecond count as a duration.
func lMillisOr(t *lua.LTable, key string, def time.Duration) time.Duration {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return time.Duration(float64(n) * float64(time.Millisecond))
	}
	return def
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.vm.Close()
}
