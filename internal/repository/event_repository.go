package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/traineo/agenda-api/internal/models"
)

// EventRepository persists scheduled events and their associations. Events
// are written one at a time in processing order; there is no batching and no
// compensation for a run that stops midway.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event row with generated defaults.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO events (id, project_id, title, starts_at, ends_at, event_type, course_id, group_id, participant_ids, metadata, created_at)
VALUES (:id, :project_id, :title, :starts_at, :ends_at, :event_type, :course_id, :group_id, :participant_ids, :metadata, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// AssociateGroup links an event to a target group.
func (r *EventRepository) AssociateGroup(ctx context.Context, eventID, groupID string) error {
	const query = `INSERT INTO event_groups (event_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, eventID, groupID); err != nil {
		return fmt.Errorf("associate event group: %w", err)
	}
	return nil
}

// AssociateAttendees links an event to its eligible participants.
func (r *EventRepository) AssociateAttendees(ctx context.Context, eventID string, participantIDs []string) error {
	const query = `INSERT INTO event_attendees (event_id, participant_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, participantID := range participantIDs {
		if _, err := r.db.ExecContext(ctx, query, eventID, participantID); err != nil {
			return fmt.Errorf("associate event attendee: %w", err)
		}
	}
	return nil
}

// ListByProject returns a project's events ordered by start time.
func (r *EventRepository) ListByProject(ctx context.Context, projectID string) ([]models.Event, error) {
	const query = `SELECT id, project_id, title, starts_at, ends_at, event_type, course_id, group_id, participant_ids, metadata, created_at
FROM events WHERE project_id = $1 ORDER BY starts_at, id`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, projectID); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
