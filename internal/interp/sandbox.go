package interp

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedOS mirrors spec.md §4.4's filesystem blacklist: entry points
// that create, remove, rename or execute something on the filesystem.
// os.time, os.clock, os.date and friends are left in place — explicitly
// permitted "introspection... pure computation" per spec.md §4.4.
var blockedOS = []string{"execute", "remove", "rename", "tmpname", "exit"}

// blockedIO mirrors the generic "open" entry point and its equivalents.
// write, read, close, flush and type are included alongside the
// file-opening entry points: gopher-lua's io.write/io.read operate on
// the VM's default output/input file, which is the process's real
// stdout/stdin — the same file descriptors worker_main.go uses as the
// wire-protocol pipe to the supervisor. Leaving them open would let
// user code inject raw bytes into (or block forever reading from) that
// framed channel instead of raising a visible permission error.
var blockedIO = []string{"open", "popen", "lines", "input", "output", "tmpfile", "write", "read", "close", "flush", "type"}

// installSandbox applies capability substitution to a freshly created
// state, before any user code runs: the builtin/library entry points
// that touch the filesystem are replaced with stubs that raise a
// permission-denied error when invoked, visible to user code exactly
// like any other raised error (spec.md §4.4).
func installSandbox(L *lua.LState) {
	blockTable(L, "os", blockedOS)
	blockTable(L, "io", blockedIO)
	blockLoaders(L)
}

func blockTable(L *lua.LState, tableName string, names []string) {
	tbl, ok := L.GetGlobal(tableName).(*lua.LTable)
	if !ok {
		return
	}
	for _, name := range names {
		tbl.RawSetString(name, L.NewFunction(denyCall(name)))
	}
}

// blockLoaders disables every way gopher-lua exposes to pull in code (or
// indirectly, a capability) from outside the sandboxed namespace. There
// is no socket/network library in gopher-lua's stdlib to begin with, so
// disabling these loaders is sufficient to satisfy spec.md §4.4's network
// capability requirement for this runtime.
func blockLoaders(L *lua.LState) {
	for _, name := range []string{"require", "dofile", "loadfile"} {
		L.SetGlobal(name, L.NewFunction(denyCall(name)))
	}
}

func denyCall(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		L.RaiseError("permission denied: %s", name)
		return 0
	}
}
