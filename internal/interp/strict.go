package interp

import lua "github.com/yuin/gopher-lua"

// installStrictGlobals makes reads of undefined globals raise an error
// instead of silently yielding nil, the well-known "strict.lua" idiom
// (setmetatable(_G, {__index=...})). Without this, session isolation
// (spec.md §8 property: names bound in one Session are not visible in
// another) would be observable only as a silent nil rather than the
// visible failure the spec's end-to-end scenarios describe.
func installStrictGlobals(L *lua.LState) {
	mt := L.NewTable()
	mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		name := L.ToString(2)
		L.RaiseError("NameError: name '%s' is not defined", name)
		return 0
	}))
	L.G.Global.Metatable = mt
}
