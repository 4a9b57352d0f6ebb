package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/traineo/agenda-api/internal/service"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
	"github.com/traineo/agenda-api/pkg/response"
)

// ExportHandler serves agenda exports as file downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the export handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Agenda streams the project's agenda in the requested format. Defaults to
// CSV when no format is given.
func (h *ExportHandler) Agenda(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format := c.DefaultQuery("format", "csv")
	result, err := h.exports.ExportAgenda(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
