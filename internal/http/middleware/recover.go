package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pukpuk-backend/internal/http/response"
	"github.com/yungbote/pukpuk-backend/internal/platform/ctxutil"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

// Fallback renders the response for a request whose handler panicked. Render
// writes the response; Reset, when set, runs afterwards so shared handler
// state can be restored before the next request.
type Fallback struct {
	Render func(c *gin.Context, recovered any)
	Reset  func()
}

// DefaultFallback answers with the generic 500 envelope.
func DefaultFallback() Fallback {
	return Fallback{Render: func(c *gin.Context, _ any) {
		response.RespondError(c, http.StatusInternalServerError, "internal", "Internal server error")
	}}
}

func Recover(log *logger.Logger, fb Fallback) gin.HandlerFunc {
	if fb.Render == nil {
		fb.Render = DefaultFallback().Render
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			fields := []interface{}{"panic", rec, "path", c.Request.URL.Path, "stack", string(debug.Stack())}
			if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
				fields = append(fields, "request_id", td.RequestID)
			}
			log.Error("panic recovered", fields...)

			if !c.Writer.Written() {
				fb.Render(c, rec)
			}
			c.Abort()
			if fb.Reset != nil {
				fb.Reset()
			}
		}()
		c.Next()
	}
}
