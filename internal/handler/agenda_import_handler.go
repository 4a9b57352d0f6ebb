package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traineo/agenda-api/internal/dto"
	"github.com/traineo/agenda-api/internal/service"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
	"github.com/traineo/agenda-api/pkg/response"
)

// AgendaImportHandler exposes the async training-plan import endpoints.
type AgendaImportHandler struct {
	imports *service.AgendaImportService
}

// NewAgendaImportHandler constructs the agenda import handler.
func NewAgendaImportHandler(imports *service.AgendaImportService) *AgendaImportHandler {
	return &AgendaImportHandler{imports: imports}
}

// Kickoff accepts an import request and returns 202 with the job id.
func (h *AgendaImportHandler) Kickoff(c *gin.Context) {
	if h.imports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.ImportAgendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
		return
	}
	req.ProjectID = c.Param("id")
	resp, err := h.imports.Kickoff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// Status returns the polling snapshot for an import job.
func (h *AgendaImportHandler) Status(c *gin.Context) {
	if h.imports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	resp, err := h.imports.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
