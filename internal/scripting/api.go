package scripting

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	"github.com/l1jgo/spawnpool/internal/pool"
	"github.com/l1jgo/spawnpool/internal/world"
)

// Entity IDs cross into Lua as numbers. Generations stay far below 2^21 in
// practice, so the float64 conversion is exact.

var up = mgl64.Vec3{0, 1, 0}

// APIVersion is exposed to scripts as pool.version. Bump it when a pool.*
// function changes its arguments or results.
const APIVersion = 1

func (e *Engine) install() {
	t := e.vm.NewTable()
	e.vm.SetFuncs(t, map[string]lua.LGFunction{
		"spawn":          e.luaSpawn,
		"spawn_under":    e.luaSpawnUnder,
		"despawn":        e.luaDespawn,
		"despawn_after":  e.luaDespawnAfter,
		"prewarm":        e.luaPrewarm,
		"size":           e.luaSize,
		"clear":          e.luaClear,
		"clear_category": e.luaClearCategory,
		"clear_all":      e.luaClearAll,
		"set_velocity":   e.luaSetVelocity,
		"position":       e.luaPosition,
		"play":           e.luaPlay,
	})
	t.RawSetString("version", lua.LNumber(APIVersion))
	e.vm.SetGlobal("pool", t)
	e.vm.SetGlobal("log", e.vm.NewFunction(e.luaLog))
}

func (e *Engine) prototype(L *lua.LState, n int) *world.Prototype {
	name := L.CheckString(n)
	p := e.st.Prototype(name)
	if p == nil {
		L.ArgError(n, "unknown template "+name)
	}
	return p
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	return ecs.EntityID(uint64(L.CheckNumber(n)))
}

func pushEntity(L *lua.LState, id ecs.EntityID) {
	if id.IsZero() {
		L.Push(lua.LNil)
		return
	}
	L.Push(lua.LNumber(uint64(id)))
}

// category resolves an optional category argument, falling back to the
// category of the prototype that produced id.
func (e *Engine) category(L *lua.LState, n int, id ecs.EntityID) pool.Category {
	if L.GetTop() >= n && L.Get(n) != lua.LNil {
		c, err := pool.ParseCategory(L.CheckString(n))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		return c
	}
	if t, ok := e.mgr.Owner(id); ok {
		if p, ok := t.(*world.Prototype); ok {
			return p.Category()
		}
	}
	return pool.Projectile
}

// pool.spawn(name, x, y, z [, yaw_degrees]) -> id | nil
func (e *Engine) luaSpawn(L *lua.LState) int {
	p := e.prototype(L, 1)
	pos := mgl64.Vec3{float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4))}
	rot := mgl64.QuatRotate(mgl64.DegToRad(float64(L.OptNumber(5, 0))), up)

	id, err := e.mgr.Spawn(p, pool.At(pos, rot), p.Category())
	if err != nil {
		e.log.Error("lua spawn failed", zap.String("template", p.Name()), zap.Error(err))
		L.Push(lua.LNil)
		return 1
	}
	pushEntity(L, id)
	return 1
}

// pool.spawn_under(name, parent [, yaw_degrees]) -> id | nil
func (e *Engine) luaSpawnUnder(L *lua.LState) int {
	p := e.prototype(L, 1)
	parent := checkEntity(L, 2)
	rot := mgl64.QuatRotate(mgl64.DegToRad(float64(L.OptNumber(3, 0))), up)
	if !e.st.Alive(parent) {
		L.ArgError(2, "parent entity does not exist")
	}

	id, err := e.mgr.Spawn(p, pool.Under(parent, rot), p.Category())
	if err != nil {
		e.log.Error("lua spawn failed", zap.String("template", p.Name()), zap.Error(err))
		L.Push(lua.LNil)
		return 1
	}
	pushEntity(L, id)
	return 1
}

// pool.despawn(id [, category]) -> bool
func (e *Engine) luaDespawn(L *lua.LState) int {
	id := checkEntity(L, 1)
	L.Push(lua.LBool(e.mgr.Return(id, e.category(L, 2, id))))
	return 1
}

// pool.despawn_after(id, seconds [, category])
func (e *Engine) luaDespawnAfter(L *lua.LState) int {
	id := checkEntity(L, 1)
	secs := float64(L.CheckNumber(2))
	e.mgr.ReturnAfter(id, e.category(L, 3, id), seconds(secs))
	return 0
}

// pool.prewarm(name, n) -> created
func (e *Engine) luaPrewarm(L *lua.LState) int {
	p := e.prototype(L, 1)
	n, err := e.mgr.Prewarm(p, p.Category(), L.CheckInt(2))
	if err != nil {
		e.log.Error("lua prewarm failed", zap.String("template", p.Name()), zap.Error(err))
	}
	L.Push(lua.LNumber(n))
	return 1
}

// pool.size(name) -> total, active, inactive
func (e *Engine) luaSize(L *lua.LState) int {
	p := e.prototype(L, 1)
	c := e.mgr.PoolSize(p.Category(), p)
	L.Push(lua.LNumber(c.Total))
	L.Push(lua.LNumber(c.Active))
	L.Push(lua.LNumber(c.Inactive))
	return 3
}

// pool.clear(name) -> bool
func (e *Engine) luaClear(L *lua.LState) int {
	p := e.prototype(L, 1)
	L.Push(lua.LBool(e.mgr.ClearPool(p)))
	return 1
}

// pool.clear_category(category) -> pools cleared
func (e *Engine) luaClearCategory(L *lua.LState) int {
	c, err := pool.ParseCategory(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	L.Push(lua.LNumber(e.mgr.ClearCategory(c)))
	return 1
}

// pool.clear_all() -> pools cleared
func (e *Engine) luaClearAll(L *lua.LState) int {
	L.Push(lua.LNumber(e.mgr.ClearAll()))
	return 1
}

// pool.set_velocity(id, x, y, z) -> bool
func (e *Engine) luaSetVelocity(L *lua.LState) int {
	id := checkEntity(L, 1)
	v := mgl64.Vec3{float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4))}
	m, ok := e.st.Motion(id)
	if ok {
		m.SetVelocity(v)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// pool.position(id) -> x, y, z
func (e *Engine) luaPosition(L *lua.LState) int {
	pos, _, _ := e.st.WorldTransform(checkEntity(L, 1))
	L.Push(lua.LNumber(pos[0]))
	L.Push(lua.LNumber(pos[1]))
	L.Push(lua.LNumber(pos[2]))
	return 3
}

// pool.play(id) -> bool
func (e *Engine) luaPlay(L *lua.LState) int {
	a, ok := e.st.Audio(checkEntity(L, 1))
	if ok {
		a.Play()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
