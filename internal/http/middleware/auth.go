package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pukpuk-backend/internal/http/response"
	"github.com/yungbote/pukpuk-backend/internal/platform/ctxutil"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier services.IdentityVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier services.IdentityVerifier) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, verifier: verifier}
}

// RequireAuth rejects requests without a verifiable bearer token before any
// handler or data access runs.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		id := am.verifier.Verify(c.Request.Context(), token)
		if id == nil {
			response.RespondError(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
			return
		}

		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID: id.UID,
			Email:  id.Email,
			Admin:  id.Admin,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
