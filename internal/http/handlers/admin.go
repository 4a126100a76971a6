package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/http/response"
	"github.com/yungbote/pukpuk-backend/internal/platform/ctxutil"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

type AdminHandler struct {
	log   *logger.Logger
	admin services.AdminService
}

func NewAdminHandler(log *logger.Logger, admin services.AdminService) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "AdminHandler"), admin: admin}
}

// DELETE /api/demands/clear-all
//
// Admins clear every user's records; anyone else clears only their own.
func (h *AdminHandler) ClearAll(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}
	scope := repos.ForUser(rd.UserID)
	if rd.Admin {
		scope = repos.AllUsers()
	}

	res, err := h.admin.ClearAll(c.Request.Context(), scope)
	if err != nil {
		response.Fail(c, err)
		return
	}
	msg := "No demand data to clear"
	if res.DeletedCount > 0 {
		msg = fmt.Sprintf("Cleared %d demand records", res.DeletedCount)
	}
	h.log.Info("Clear-all served", "user_id", rd.UserID, "global", scope.Global(), "deleted", res.DeletedCount)
	response.RespondSuccess(c, http.StatusOK, msg, res)
}
