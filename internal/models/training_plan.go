package models

import "time"

// TrainingPlan is an ordered sequence of plan days to be mapped onto the
// calendar by the agenda import.
type TrainingPlan struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Name      string    `db:"name" json:"name"`
	Days      []PlanDay `db:"-" json:"days,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PlanDay groups plan items under a logical day number.
type PlanDay struct {
	ID             string     `db:"id" json:"id"`
	TrainingPlanID string     `db:"training_plan_id" json:"training_plan_id"`
	DayNumber      int        `db:"day_number" json:"day_number"`
	Items          []PlanItem `db:"-" json:"items,omitempty"`
}

// PlanItem references exactly one of: a whole course, a single course
// module, a support activity, or a free-form custom activity. An explicit
// duration overrides whatever the referenced entity computes.
type PlanItem struct {
	ID                    string  `db:"id" json:"id"`
	PlanDayID             string  `db:"plan_day_id" json:"plan_day_id"`
	Position              int     `db:"position" json:"position"`
	CourseID              *string `db:"course_id" json:"course_id,omitempty"`
	ModuleID              *string `db:"module_id" json:"module_id,omitempty"`
	SupportActivityID     *string `db:"support_activity_id" json:"support_activity_id,omitempty"`
	CustomTitle           *string `db:"custom_title" json:"custom_title,omitempty"`
	CustomDurationMinutes *int    `db:"custom_duration_minutes" json:"custom_duration_minutes,omitempty"`
}
