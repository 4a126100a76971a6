package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/http/response"
	"github.com/yungbote/pukpuk-backend/internal/platform/ctxutil"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

type DemandHandler struct {
	demands services.DemandService
}

func NewDemandHandler(demands services.DemandService) *DemandHandler {
	return &DemandHandler{demands: demands}
}

// GET /api/demands
func (h *DemandHandler) List(c *gin.Context) {
	q := services.ListQuery{
		ProductID: c.Query("productId"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		Sort:      c.Query("sort"),
		Order:     c.Query("order"),
		Page:      cast.ToInt(c.Query("page")),
		PerPage:   cast.ToInt(c.Query("perPage")),
	}
	page, err := h.demands.List(c.Request.Context(), ctxutil.UserID(c.Request.Context()), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/demands/:id
func (h *DemandHandler) Get(c *gin.Context) {
	rec, err := h.demands.Get(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// POST /api/demands
func (h *DemandHandler) Create(c *gin.Context) {
	var in types.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	rec, err := h.demands.Create(c.Request.Context(), ctxutil.UserID(c.Request.Context()), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// PUT /api/demands/:id
func (h *DemandHandler) Update(c *gin.Context) {
	var in types.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	rec, err := h.demands.Update(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Param("id"), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// DELETE /api/demands/:id
func (h *DemandHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.demands.Delete(c.Request.Context(), ctxutil.UserID(c.Request.Context()), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Demand record deleted", gin.H{"id": id})
}
