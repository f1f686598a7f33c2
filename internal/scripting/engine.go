package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/event"
	"github.com/l1jgo/spawnpool/internal/pool"
	"github.com/l1jgo/spawnpool/internal/world"
)

// Engine wraps a single gopher-lua VM driving the pools from scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	mgr *pool.Manager
	st  *world.State
	log *zap.Logger
}

// NewEngine creates a Lua engine with the pool API installed, loads every
// script under scriptsDir/lib and then runs entry (relative to scriptsDir).
// An empty entry loads the library scripts only.
func NewEngine(scriptsDir, entry string, mgr *pool.Manager, st *world.State, bus *event.Bus, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	e := &Engine{vm: vm, mgr: mgr, st: st, log: log}
	e.install()

	if err := e.loadDir(filepath.Join(scriptsDir, "lib")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lib scripts: %w", err)
	}
	if entry != "" {
		path := filepath.Join(scriptsDir, entry)
		if err := vm.DoFile(path); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		log.Info("lua entry script loaded", zap.String("file", path))
	}

	if bus != nil {
		event.Subscribe(bus, e.poolCleared)
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

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Tick calls the script's on_tick(dt) hook, if defined. dt is in seconds.
func (e *Engine) Tick(dt time.Duration) {
	e.callHook("on_tick", lua.LNumber(dt.Seconds()))
}

func (e *Engine) poolCleared(ev event.PoolCleared) {
	e.callHook("on_pool_cleared", lua.LString(ev.Template), lua.LString(ev.Category), lua.LNumber(ev.Destroyed))
}

// callHook calls a global Lua function if the scripts define one.
func (e *Engine) callHook(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook error", zap.String("func", name), zap.Error(err))
	}
}

// GlobalNumber reads a numeric global, 0 if unset. Handy for scripts that
// publish counters.
func (e *Engine) GlobalNumber(name string) float64 {
	return float64(lua.LVAsNumber(e.vm.GetGlobal(name)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
