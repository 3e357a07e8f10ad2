package scripting

import (
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.catalog.exists(id) -> bool
//	engine.catalog.info(id) -> {id, name, policy, capacity} | nil
//	engine.catalog.ids() -> array of ids, sorted
//	engine.random(lo, hi) -> integer in [lo, hi]
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	engine.RawSetString("log", m.logModule(L))
	engine.RawSetString("catalog", m.catalogModule(L))
	engine.RawSetString("random", L.NewFunction(m.luaRandom))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logf := range levels {
		mod.RawSetString(name, L.NewFunction(func(L *lua.LState) int {
			logf(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) catalogModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	mod.RawSetString("exists", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		ok := false
		if m.LookupWeapon != nil {
			_, ok = m.LookupWeapon(id)
		}
		L.Push(lua.LBool(ok))
		return 1
	}))
	mod.RawSetString("info", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.LookupWeapon == nil {
			L.Push(lua.LNil)
			return 1
		}
		info, ok := m.LookupWeapon(id)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		t.RawSetString("id", lua.LString(info.ID))
		t.RawSetString("name", lua.LString(info.Name))
		t.RawSetString("policy", lua.LString(info.Policy))
		t.RawSetString("capacity", lua.LNumber(info.MagazineCapacity))
		L.Push(t)
		return 1
	}))
	mod.RawSetString("ids", L.NewFunction(func(L *lua.LState) int {
		t := L.NewTable()
		if m.WeaponIDs != nil {
			ids := m.WeaponIDs()
			sort.Strings(ids)
			for _, id := range ids {
				t.Append(lua.LString(id))
			}
		}
		L.Push(t)
		return 1
	}))
	return mod
}

func (m *Manager) luaRandom(L *lua.LState) int {
	lo := L.CheckInt(1)
	hi := L.CheckInt(2)
	if hi < lo {
		L.ArgError(2, "hi must be >= lo")
		return 0
	}
	n := lo
	if m.RandomInt != nil {
		n = m.RandomInt(lo, hi)
	}
	L.Push(lua.LNumber(n))
	return 1
}
