package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traineo/agenda-api/internal/models"
)

func newEventRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEventRepositoryCreateGeneratesDefaults(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	groupID := "group-a"
	event := &models.Event{
		ProjectID: "project-1",
		Title:     "Go Basics",
		Start:     time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		End:       time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC),
		Type:      models.EventTypeCourse,
		GroupID:   &groupID,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAssociations(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_groups (event_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs("ev-1", "group-a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.AssociateGroup(context.Background(), "ev-1", "group-a"))

	for _, participantID := range []string{"p-1", "p-2"} {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_attendees (event_id, participant_id) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
			WithArgs("ev-1", participantID).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	require.NoError(t, repo.AssociateAttendees(context.Background(), "ev-1", []string{"p-1", "p-2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListByProject(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows([]string{"id", "project_id", "title", "starts_at", "ends_at", "event_type", "course_id", "group_id", "participant_ids", "metadata", "created_at"}).
		AddRow("ev-1", "project-1", "Go Basics",
			time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC),
			"course", "course-go", "group-a", []byte(`["p-1","p-2"]`), nil, time.Now())
	mock.ExpectQuery("SELECT id, project_id, title, starts_at, ends_at, event_type, course_id, group_id, participant_ids, metadata, created_at").
		WithArgs("project-1").
		WillReturnRows(rows)

	events, err := repo.ListByProject(context.Background(), "project-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Go Basics", events[0].Title)
	assert.Equal(t, models.StringSlice{"p-1", "p-2"}, events[0].ParticipantIDs)
	assert.Equal(t, 480, events[0].DurationMinutes())
	assert.NoError(t, mock.ExpectationsWereMet())
}
