// Package interp hosts the persistent embedded interpreter a Worker
// process runs user code fragments against (spec.md §4.3). The runtime is
// a Lua 5.1 virtual machine; see SPEC_FULL.md's "target-dependent
// resolution" section for why Lua stands in for the Python the original
// implementation used.
package interp

import (
	"bytes"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Interpreter wraps one *lua.LState: a single persistent namespace that
// survives across calls to Eval, exactly as spec.md §4.3's invariant
// requires ("variables... defined in request N are visible in request
// N+1"). It is never shared across Workers.
type Interpreter struct {
	L   *lua.LState
	buf *bytes.Buffer
}

// New creates an Interpreter with the sandbox installed, per spec.md
// §4.3's startup sequence: this must run before any user code is
// accepted.
func New() *Interpreter {
	it := &Interpreter{
		L:   lua.NewState(),
		buf: &bytes.Buffer{},
	}
	it.L.SetGlobal("print", it.L.NewFunction(it.luaPrint))
	installSandbox(it.L)
	installStrictGlobals(it.L)
	return it
}

// Close releases the underlying VM. Called once the owning Worker exits.
func (it *Interpreter) Close() {
	it.L.Close()
}

// Eval compiles and evaluates code against the persistent namespace and
// returns whatever was captured on the output channel plus formatted
// error text, if the code raised (spec.md §4.3 request loop, steps 2-3).
// Each call's output buffer is fresh; spec.md requires captured output
// contain only bytes produced during that request.
func (it *Interpreter) Eval(code string) (stdout, stderr string) {
	it.buf.Reset()
	if err := it.L.DoString(code); err != nil {
		return it.buf.String(), formatError(err)
	}
	return it.buf.String(), ""
}

func (it *Interpreter) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	it.buf.WriteString(strings.Join(parts, "\t"))
	it.buf.WriteByte('\n')
	return 0
}

// formatError renders a Lua error (compile-time or runtime) as traceback
// text, the cross-process-safe representation spec.md §9 calls for
// ("the Worker must serialize exception text... not exception objects").
func formatError(err error) string {
	apiErr, ok := err.(*lua.ApiError)
	if !ok {
		return err.Error()
	}
	return fmt.Sprintf("Traceback (most recent call last):\n  %s", apiErr.Object.String())
}
