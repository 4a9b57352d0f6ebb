package models

import "time"

// ImportStatus captures the agenda-import job lifecycle.
type ImportStatus string

const (
	ImportStatusStarting   ImportStatus = "starting"
	ImportStatusInProgress ImportStatus = "in-progress"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s ImportStatus) Terminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// ImportJob is the progress snapshot of one background agenda import.
// Exactly one worker mutates a given job; pollers read uncoordinated
// snapshots of whatever state the worker last flushed.
type ImportJob struct {
	ID             string       `json:"id"`
	ProjectID      string       `json:"project_id"`
	TrainingPlanID string       `json:"training_plan_id"`
	Status         ImportStatus `json:"status"`
	Processed      int          `json:"processed"`
	Total          int          `json:"total"`
	Warnings       []string     `json:"warnings,omitempty"`
	Events         []Event      `json:"events,omitempty"`
	Message        string       `json:"message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	FinishedAt     *time.Time   `json:"finished_at,omitempty"`
}
