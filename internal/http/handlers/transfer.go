package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pukpuk-backend/internal/http/response"
	"github.com/yungbote/pukpuk-backend/internal/platform/ctxutil"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

const maxImportBytes = 10 << 20

type TransferHandler struct {
	transfer services.TransferService
}

func NewTransferHandler(transfer services.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// POST /api/demands/import
//
// Accepts a multipart "file" field or a raw text/csv body.
func (h *TransferHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var src io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", "CSV body too large")
			return
		}
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "missing_file", "Missing CSV file")
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "missing_file", "Could not open uploaded file")
			return
		}
		defer f.Close()
		src = f
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", "CSV body too large")
			return
		}
		src = bytes.NewReader(raw)
	}

	n, err := h.transfer.Import(c.Request.Context(), ctxutil.UserID(c.Request.Context()), src)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, fmt.Sprintf("Imported %d demand records", n), gin.H{"imported": n})
}

// GET /api/demands/export
func (h *TransferHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.transfer.Export(c.Request.Context(), ctxutil.UserID(c.Request.Context()), &buf); err != nil {
		response.Fail(c, err)
		return
	}
	name := fmt.Sprintf("demands-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
