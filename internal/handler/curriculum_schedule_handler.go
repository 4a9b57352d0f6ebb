package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traineo/agenda-api/internal/dto"
	"github.com/traineo/agenda-api/internal/service"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
	"github.com/traineo/agenda-api/pkg/response"
)

// CurriculumScheduleHandler exposes the synchronous curriculum scheduler.
type CurriculumScheduleHandler struct {
	scheduler *service.CurriculumScheduleService
}

// NewCurriculumScheduleHandler constructs the curriculum schedule handler.
func NewCurriculumScheduleHandler(scheduler *service.CurriculumScheduleService) *CurriculumScheduleHandler {
	return &CurriculumScheduleHandler{scheduler: scheduler}
}

// Schedule runs the curriculum walk for a project and returns the created
// events in one response.
func (h *CurriculumScheduleHandler) Schedule(c *gin.Context) {
	if h.scheduler == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	req := dto.CurriculumScheduleRequest{ProjectID: c.Param("id")}
	resp, err := h.scheduler.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
