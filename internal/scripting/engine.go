package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nikamura/archerio-clone-sub003/internal/difficulty"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for difficulty tuning scripts.
// Single-goroutine access only (game loop).
//
// Scripts define room_multipliers(ctx) returning a table with any of
// room_scaling, enemy_health, enemy_damage, enemy_speed, boss_health,
// boss_damage. Missing keys, errors, and a missing function all fall back to
// the wrapped provider.
type Engine struct {
	vm       *lua.LState
	fallback difficulty.Provider
	log      *zap.Logger
}

// NewEngine creates a Lua engine and loads path, which may be a single .lua
// file or a directory of them.
func NewEngine(path string, fallback difficulty.Provider, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("ENDLESS_BASE", lua.LNumber(difficulty.EndlessBase))

	e := &Engine{vm: vm, fallback: fallback, log: log}

	info, err := os.Stat(path)
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("stat difficulty script: %w", err)
	}
	if info.IsDir() {
		err = e.loadDir(path)
	} else {
		err = e.loadFile(path)
	}
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("load difficulty scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// Multipliers implements difficulty.Provider.
func (e *Engine) Multipliers(ctx difficulty.Context) difficulty.Multipliers {
	base := e.fallback.Multipliers(ctx)

	fn := e.vm.GetGlobal("room_multipliers")
	if fn == lua.LNil {
		return base
	}

	t := e.vm.NewTable()
	t.RawSetString("level", lua.LString(ctx.Level))
	t.RawSetString("chapter", lua.LNumber(ctx.Chapter))
	t.RawSetString("room", lua.LNumber(ctx.RoomIndex))
	t.RawSetString("total_rooms", lua.LNumber(ctx.TotalRooms))
	t.RawSetString("endless_wave", lua.LNumber(ctx.EndlessWave))

	bt := e.vm.NewTable()
	bt.RawSetString("room_scaling", lua.LNumber(base.RoomScaling))
	bt.RawSetString("enemy_health", lua.LNumber(base.EnemyHealth))
	bt.RawSetString("enemy_damage", lua.LNumber(base.EnemyDamage))
	bt.RawSetString("enemy_speed", lua.LNumber(base.EnemySpeed))
	bt.RawSetString("boss_health", lua.LNumber(base.BossHealth))
	bt.RawSetString("boss_damage", lua.LNumber(base.BossDamage))
	t.RawSetString("base", bt)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua room_multipliers error", zap.Error(err))
		return base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua room_multipliers returned non-table")
		return base
	}

	return difficulty.Multipliers{
		RoomScaling: lFloat(rt, "room_scaling", base.RoomScaling),
		EnemyHealth: lFloat(rt, "enemy_health", base.EnemyHealth),
		EnemyDamage: lFloat(rt, "enemy_damage", base.EnemyDamage),
		EnemySpeed:  lFloat(rt, "enemy_speed", base.EnemySpeed),
		BossHealth:  lFloat(rt, "boss_health", base.BossHealth),
		BossDamage:  lFloat(rt, "boss_damage", base.BossDamage),
	}
}

// lFloat reads a positive number field from a Lua table, or returns def.
func lFloat(t *lua.LTable, key string, def float64) float64 {
	v, ok := t.RawGetString(key).(lua.LNumber)
	if !ok || float64(v) <= 0 {
		return def
	}
	return float64(v)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
