package workerproc

import (
	"bufio"
	"os"
	"testing"
)

// helperProcessEnv, when set in the current process's environment, marks
// this test binary as acting as a worker process when Spawn re-execs it.
// This mirrors the standard library's own os/exec test helper pattern
// (GO_WANT_HELPER_PROCESS), adapted so Spawn's re-exec has something real
// to attach to under `go test`.
const helperProcessEnv = "CODECELL_WORKERPROC_TEST_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(helperProcessEnv) == "1" {
		runEchoHelper()
		return
	}
	os.Exit(m.Run())
}

// runEchoHelper stands in for a real interpreter worker: it echoes each
// request's code back as stdout, letting TestSpawnRoundTrip exercise the
// full framed pipe without depending on internal/interp.
func runEchoHelper() {
	if err := WriteReady(os.Stdout); err != nil {
		os.Exit(1)
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		req, err := ReadRequest(reader)
		if err != nil {
			return
		}
		if err := WriteResponse(os.Stdout, Response{Stdout: req.Code}); err != nil {
			return
		}
	}
}

func TestSpawnRoundTrip(t *testing.T) {
	if err := os.Setenv(helperProcessEnv, "1"); err != nil {
		t.Fatalf("setenv: %v", err)
	}
	defer os.Unsetenv(helperProcessEnv)

	h, err := Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer h.Kill()

	h.Inbox <- Request{Code: "echoed"}
	select {
	case resp := <-h.Outbox:
		if resp.Stdout != "echoed" {
			t.Fatalf("got stdout %q, want %q", resp.Stdout, "echoed")
		}
	case err := <-h.Done():
		t.Fatalf("worker I/O failed: %v", err)
	}

	if h.PID() <= 0 {
		t.Fatalf("expected positive pid, got %d", h.PID())
	}
	if _, err := h.RSSBytes(); err != nil {
		t.Fatalf("RSSBytes: %v", err)
	}
}

func TestKillIsIdempotent(t *testing.T) {
	if err := os.Setenv(helperProcessEnv, "1"); err != nil {
		t.Fatalf("setenv: %v", err)
	}
	defer os.Unsetenv(helperProcessEnv)

	h, err := Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	h.Kill()
	h.Kill()
}
