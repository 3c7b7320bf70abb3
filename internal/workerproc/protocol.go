// Package workerproc frames the request/response traffic between a Session
// and the child process that hosts its persistent interpreter, and owns
// the OS-process lifecycle of that child (spawn, RSS sampling, kill).
package workerproc

import (
	"bufio"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Request is one code fragment submitted to a worker.
type Request struct {
	Code string `json:"code"`
}

// Response is a worker's reply to one Request. A non-empty Err means the
// worker process itself failed to evaluate the fragment at the protocol
// level (never set for ordinary user-code exceptions, which travel as
// Stderr text per spec.md §4.2's edge-case policy).
type Response struct {
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
	Err    string `json:"err,omitempty"`
}

// readyLine is the literal first line a worker writes to its stdout pipe
// once the sandbox is installed and it is ready to accept requests.
const readyLine = "ready"

func encode(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func decode(line []byte, v interface{}) error {
	return json.Unmarshal(line, v)
}

// WriteReady writes the readiness line a worker emits on its stdout pipe
// once the sandbox is installed (spec.md §4.3 startup step 3), letting
// the supervisor's Spawn unblock.
func WriteReady(w io.Writer) error {
	_, err := w.Write([]byte(readyLine + "\n"))
	return err
}

// ReadRequest reads and decodes one framed Request, called from the
// worker's own request loop.
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Request{}, err
	}
	var req Request
	if err := decode([]byte(strings.TrimRight(line, "\n")), &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// WriteResponse encodes and writes one framed Response, called from the
// worker's own request loop.
func WriteResponse(w io.Writer, resp Response) error {
	line, err := encode(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(line)
	return err
}
