// Package api holds the gin handler for the supervisor's single
// HTTP operation, execute (spec.md §4.5).
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codecell/internal/session"
)

// Handler wires the HTTP façade to a SessionManager.
type Handler struct {
	manager *session.Manager
}

// NewHandler constructs a Handler bound to manager.
func NewHandler(manager *session.Manager) *Handler {
	return &Handler{manager: manager}
}

// Execute handles POST /execute: validates the request, dispatches it
// to the SessionManager, and renders the outcome. Every core-level
// outcome — including resource-limit and capacity errors, which are
// domain outcomes rather than transport errors — is reported as HTTP
// 200; only a request-validation failure produces a different status.
func (h *Handler) Execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "code is required"})
		return
	}

	outcome := h.manager.Execute(c.Request.Context(), req.ID, req.Code)
	c.JSON(http.StatusOK, toResponse(outcome))
}

func toResponse(o session.Outcome) executeResponse {
	resp := executeResponse{
		Stdout: o.Stdout,
		Stderr: o.Stderr,
	}
	if o.ID != "" {
		id := o.ID
		resp.ID = &id
	}
	if o.Error != "" {
		errText := string(o.Error)
		resp.Error = &errText
	}
	return resp
}
