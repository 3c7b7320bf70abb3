// Package httpmw holds the gin middleware the supervisor's HTTP façade
// installs ahead of the execute handler.
package httpmw

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codecell/pkg/utils/logger"
)

const traceIDHeader = "X-Trace-Id"

// TraceContext ensures every request carries a trace id, in its context
// (for log correlation) and echoed back on the response header.
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader(traceIDHeader))
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set(traceIDHeader, traceID)
		c.Next()
	}
}
