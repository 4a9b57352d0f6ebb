package models

import "time"

// EventType classifies scheduled events.
type EventType string

const (
	EventTypeCourse  EventType = "course"
	EventTypeSupport EventType = "support"
	EventTypeCustom  EventType = "custom"
	EventTypeLunch   EventType = "lunch"
)

// Event is one scheduled [start,end) block on a project agenda. Events are
// written once by the schedulers and never mutated afterwards.
type Event struct {
	ID             string      `db:"id" json:"id"`
	ProjectID      string      `db:"project_id" json:"project_id"`
	Title          string      `db:"title" json:"title"`
	Start          time.Time   `db:"starts_at" json:"start"`
	End            time.Time   `db:"ends_at" json:"end"`
	Type           EventType   `db:"event_type" json:"type"`
	CourseID       *string     `db:"course_id" json:"course_id,omitempty"`
	GroupID        *string     `db:"group_id" json:"group_id,omitempty"`
	ParticipantIDs StringSlice `db:"participant_ids" json:"participant_ids,omitempty"`
	Metadata       StringMap   `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// DurationMinutes returns the event length in whole minutes.
func (e Event) DurationMinutes() int {
	return int(e.End.Sub(e.Start).Minutes())
}
