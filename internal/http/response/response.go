package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
)

type ErrorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: message, Code: code})
}

// Fail renders err as the error envelope. Typed errors keep their status,
// message and opted-in details; anything else is an opaque 500.
func Fail(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: "Internal server error",
			Code:  apierr.KindInternal.String(),
		})
		return
	}
	if ae.Err != nil {
		_ = c.Error(ae.Err)
	}
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(ae.Status())
	}
	c.AbortWithStatusJSON(ae.Status(), ErrorEnvelope{Error: msg, Code: ae.Code, Details: ae.Details})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, SuccessEnvelope{Success: true, Message: message, Data: data})
}
