package models

import "time"

// Curriculum bundles courses assigned to groups; only active curricula feed
// the curriculum-schedule generator.
type Curriculum struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	Courses   []Course  `db:"-" json:"courses,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupCurriculum is the group-to-curriculum association row.
type GroupCurriculum struct {
	GroupID      string `db:"group_id" json:"group_id"`
	CurriculumID string `db:"curriculum_id" json:"curriculum_id"`
}
