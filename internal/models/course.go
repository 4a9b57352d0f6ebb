package models

import "time"

// Course is a schedulable training unit composed of modules.
type Course struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	RequiredRoles   StringSlice    `db:"required_roles" json:"required_roles,omitempty"`
	Modules         []CourseModule `db:"-" json:"modules,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// CourseModule is one teachable unit within a course.
type CourseModule struct {
	ID              string `db:"id" json:"id"`
	CourseID        string `db:"course_id" json:"course_id"`
	Title           string `db:"title" json:"title"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
	Position        int    `db:"position" json:"position"`
}

// SupportActivity is a non-course item placed on the agenda (coaching,
// review sessions, logistics blocks).
type SupportActivity struct {
	ID              string `db:"id" json:"id"`
	Title           string `db:"title" json:"title"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
}
