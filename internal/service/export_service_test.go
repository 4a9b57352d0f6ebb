package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traineo/agenda-api/internal/models"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
)

func newExportFixture(t *testing.T) (*ExportService, *fakeEventStore) {
	t.Helper()
	groupID := "group-a"
	events := newFakeEventStore()
	events.existing = []models.Event{
		{
			ID: "ev-1", ProjectID: "project-1", Title: "Go Basics",
			Start: monday(9, 0), End: monday(12, 0),
			Type: models.EventTypeCourse, GroupID: &groupID,
			ParticipantIDs: models.StringSlice{"p-1", "p-2"},
		},
		{
			ID: "ev-2", ProjectID: "project-1", Title: "Lunch break",
			Start: monday(12, 0), End: monday(13, 0),
			Type: models.EventTypeLunch,
		},
	}
	projects := &fakeProjectReader{projects: map[string]*models.Project{
		"project-1": {
			ID: "project-1", Name: "Onboarding Wave 7",
			Groups: []models.Group{{ID: "group-a", Name: "Alpha"}},
		},
	}}
	return NewExportService(projects, events, zap.NewNop()), events
}

func TestExportAgendaCSV(t *testing.T) {
	service, _ := newExportFixture(t)

	result, err := service.ExportAgenda(context.Background(), "project-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "agenda-onboarding-wave-7-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Content)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Start,End,Title,Type,Group,Attendees", lines[0])
	assert.Contains(t, lines[1], "Go Basics")
	assert.Contains(t, lines[1], "Alpha")
	assert.Contains(t, lines[1], "2")
	assert.Contains(t, lines[2], "Lunch break")
}

func TestExportAgendaPDF(t *testing.T) {
	service, _ := newExportFixture(t)

	result, err := service.ExportAgenda(context.Background(), "project-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportAgendaRejectsUnknownFormat(t *testing.T) {
	service, _ := newExportFixture(t)

	_, err := service.ExportAgenda(context.Background(), "project-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportAgendaRejectsUnknownProject(t *testing.T) {
	service, _ := newExportFixture(t)

	_, err := service.ExportAgenda(context.Background(), "nope", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
