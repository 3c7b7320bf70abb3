package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"codecell/internal/session"
)

func newTestRouter(manager *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(manager)
	router.POST("/execute", h.Execute)
	return router
}

func TestExecuteRejectsMissingCode(t *testing.T) {
	router := newTestRouter(session.NewManager(session.DefaultConfig()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/execute", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestExecuteUnknownSessionReturns200WithDomainError(t *testing.T) {
	router := newTestRouter(session.NewManager(session.DefaultConfig()))

	body := `{"code": "x = 1", "id": "00000000-0000-0000-0000-000000000000"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/execute", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d (domain outcomes are never transport errors)", rec.Code, http.StatusOK)
	}

	var resp executeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || *resp.Error != "session not found" {
		t.Fatalf("got error %v, want %q", resp.Error, "session not found")
	}
	if resp.ID == nil || *resp.ID != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("got id %v, want the echoed id", resp.ID)
	}
	if resp.Stdout != nil || resp.Stderr != nil {
		t.Fatalf("got stdout=%v stderr=%v, want both null", resp.Stdout, resp.Stderr)
	}
}

func TestToResponseMutualExclusivity(t *testing.T) {
	cases := []struct {
		name    string
		outcome session.Outcome
	}{
		{"success with output", session.Outcome{ID: "a", Stdout: strPtr("hi\n")}},
		{"silent success", session.Outcome{ID: "b"}},
		{"error", session.Outcome{ID: "c", Error: session.ErrExecutionTimeout}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := toResponse(tc.outcome)
			hasError := resp.Error != nil
			hasOutput := resp.Stdout != nil || resp.Stderr != nil
			if hasError && hasOutput {
				t.Fatalf("response has both error and output fields populated: %+v", resp)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
