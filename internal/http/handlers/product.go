package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pukpuk-backend/internal/http/response"
	"github.com/yungbote/pukpuk-backend/internal/platform/ctxutil"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

type ProductHandler struct {
	products services.ProductService
}

func NewProductHandler(products services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	out, err := h.products.ListProducts(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/products/stats
func (h *ProductHandler) Stats(c *gin.Context) {
	out, err := h.products.Stats(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/products/:id/summary
func (h *ProductHandler) Summary(c *gin.Context) {
	out, err := h.products.Summary(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/products/last-updated
func (h *ProductHandler) LastUpdated(c *gin.Context) {
	out, err := h.products.LastUpdated(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, out)
}
