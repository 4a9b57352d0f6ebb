package dto

import (
	"time"

	"github.com/traineo/agenda-api/internal/models"
)

// ImportAgendaRequest kicks off a background agenda import for a training
// plan. The call returns a job id immediately; results are observed by
// polling the job.
type ImportAgendaRequest struct {
	ProjectID              string   `json:"projectId" validate:"required"`
	TrainingPlanID         string   `json:"trainingPlanId" validate:"required"`
	SelectedGroups         []string `json:"selectedGroups,omitempty"`
	IncludeAllParticipants bool     `json:"includeAllParticipants,omitempty"`
	FollowProjectHours     bool     `json:"followProjectHours,omitempty"`
	AssignByRole           bool     `json:"assignByRole,omitempty"`
	SelectedRoles          []string `json:"selectedRoles,omitempty"`
	PreserveExistingEvents bool     `json:"preserveExistingEvents,omitempty"`
}

// ImportJobResponse acknowledges an accepted import.
type ImportJobResponse struct {
	JobID  string              `json:"jobId"`
	Status models.ImportStatus `json:"status"`
}

// ImportStatusResponse is the polling snapshot of a running or finished
// import job.
type ImportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ImportStatus `json:"status"`
	Processed int                 `json:"processed"`
	Total     int                 `json:"total"`
	Warnings  []string            `json:"warnings,omitempty"`
	Events    []models.Event      `json:"events,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// CurriculumScheduleRequest triggers the synchronous curriculum scheduler
// for a project.
type CurriculumScheduleRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// CurriculumScheduleResponse summarises the synchronous scheduling pass.
type CurriculumScheduleResponse struct {
	Events           []models.Event `json:"events"`
	Created          int            `json:"created"`
	LunchBreaks      int            `json:"lunchBreaks"`
	TruncatedCourses int            `json:"truncatedCourses"`
	ScheduledThrough *time.Time     `json:"scheduledThrough,omitempty"`
}
