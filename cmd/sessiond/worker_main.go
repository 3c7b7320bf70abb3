package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"codecell/internal/interp"
	"codecell/internal/workerproc"
)

// runWorker is the entrypoint for a re-exec'd worker process: it installs
// the sandboxed interpreter, signals readiness on stdout, then services
// one framed Request at a time from stdin until the pipe closes
// (spec.md §4.3's startup sequence and request loop).
func runWorker() {
	it := interp.New()
	defer it.Close()

	stdout := os.Stdout
	if err := workerproc.WriteReady(stdout); err != nil {
		fmt.Fprintln(os.Stderr, "worker: write ready line:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		req, err := workerproc.ReadRequest(reader)
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintln(os.Stderr, "worker: read request:", err)
			return
		}

		out, errText := it.Eval(req.Code)
		resp := workerproc.Response{Stdout: out, Stderr: errText}
		if err := workerproc.WriteResponse(stdout, resp); err != nil {
			fmt.Fprintln(os.Stderr, "worker: write response:", err)
			return
		}
	}
}
