package session

import (
	"bufio"
	"os"
	"testing"

	"codecell/internal/interp"
	"codecell/internal/workerproc"
)

// helperProcessEnv marks this test binary as acting as a real worker
// process when Manager re-execs it via workerproc.Spawn, the same
// self-reexec pattern the standard library's os/exec tests use.
const helperProcessEnv = "CODECELL_SESSION_TEST_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(helperProcessEnv) == "1" {
		runInterpreterHelper()
		return
	}
	os.Exit(m.Run())
}

func runInterpreterHelper() {
	it := interp.New()
	defer it.Close()

	if err := workerproc.WriteReady(os.Stdout); err != nil {
		os.Exit(1)
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		req, err := workerproc.ReadRequest(reader)
		if err != nil {
			return
		}
		stdout, stderr := it.Eval(req.Code)
		if err := workerproc.WriteResponse(os.Stdout, workerproc.Response{Stdout: stdout, Stderr: stderr}); err != nil {
			return
		}
	}
}

func withHelperEnv(t *testing.T) {
	t.Helper()
	if err := os.Setenv(helperProcessEnv, "1"); err != nil {
		t.Fatalf("setenv: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv(helperProcessEnv) })
}
