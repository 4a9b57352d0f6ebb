package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traineo/agenda-api/internal/dto"
	"github.com/traineo/agenda-api/internal/models"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
)

type fakeCurriculumReader struct {
	byGroup map[string][]models.Curriculum
}

func (f *fakeCurriculumReader) ListActiveByGroup(_ context.Context, groupID string) ([]models.Curriculum, error) {
	return f.byGroup[groupID], nil
}

type curriculumFixture struct {
	service   *CurriculumScheduleService
	projects  *fakeProjectReader
	curricula *fakeCurriculumReader
	events    *fakeEventStore
}

func newCurriculumFixture(t *testing.T, courses ...models.Course) *curriculumFixture {
	t.Helper()

	project := &models.Project{
		ID:   "project-1",
		Name: "Onboarding Wave 7",
		Settings: &models.ProjectSettings{
			StartDate: monday(0, 0),
			EndDate:   dayAt(28, 0, 0),
		},
		Groups: []models.Group{
			{
				ID: "group-a", ProjectID: "project-1", Name: "Alpha",
				Participants: []models.Participant{
					{ID: "p-1", GroupID: "group-a", Name: "Kim"},
					{ID: "p-2", GroupID: "group-a", Name: "Ravi"},
				},
			},
		},
	}

	fixture := &curriculumFixture{
		projects: &fakeProjectReader{projects: map[string]*models.Project{"project-1": project}},
		curricula: &fakeCurriculumReader{byGroup: map[string][]models.Curriculum{
			"group-a": {{ID: "cur-1", Name: "Core", Active: true, Courses: courses}},
		}},
		events: newFakeEventStore(),
	}
	fixture.service = NewCurriculumScheduleService(
		fixture.projects, fixture.curricula, fixture.events, nil, nil, zap.NewNop(),
		CurriculumScheduleConfig{},
	)
	return fixture
}

func TestCurriculumScheduleSplitsAroundLunch(t *testing.T) {
	fixture := newCurriculumFixture(t, models.Course{ID: "course-go", Title: "Go Basics", DurationMinutes: 480})

	resp, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "project-1"})
	require.NoError(t, err)

	// A full working day of course time cannot fit around lunch, so it
	// spills into Tuesday morning: lunch, 09-12, 13-17, Tuesday lunch,
	// Tuesday 09-10.
	require.Len(t, resp.Events, 5)
	assert.Equal(t, 2, resp.LunchBreaks)
	assert.Equal(t, 0, resp.TruncatedCourses)

	assert.Equal(t, models.EventTypeLunch, resp.Events[0].Type)
	assert.Equal(t, monday(12, 0), resp.Events[0].Start)
	assert.Equal(t, monday(13, 0), resp.Events[0].End)

	assert.Equal(t, monday(9, 0), resp.Events[1].Start)
	assert.Equal(t, monday(12, 0), resp.Events[1].End)
	assert.Equal(t, monday(13, 0), resp.Events[2].Start)
	assert.Equal(t, monday(17, 0), resp.Events[2].End)

	assert.Equal(t, models.EventTypeLunch, resp.Events[3].Type)
	assert.Equal(t, dayAt(11, 12, 0), resp.Events[3].Start)
	assert.Equal(t, dayAt(11, 9, 0), resp.Events[4].Start)
	assert.Equal(t, dayAt(11, 10, 0), resp.Events[4].End)

	require.NotNil(t, resp.ScheduledThrough)
	assert.Equal(t, dayAt(11, 10, 0), *resp.ScheduledThrough)
}

func TestCurriculumScheduleCreatesOneLunchPerDay(t *testing.T) {
	fixture := newCurriculumFixture(t,
		models.Course{ID: "c-1", Title: "Intro", DurationMinutes: 60},
		models.Course{ID: "c-2", Title: "Deep dive", DurationMinutes: 60},
	)

	resp, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "project-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.LunchBreaks)
	lunches := 0
	for _, ev := range resp.Events {
		if ev.Type == models.EventTypeLunch {
			lunches++
		}
	}
	assert.Equal(t, 1, lunches)
}

func TestCurriculumScheduleRunsCoursesBackToBack(t *testing.T) {
	fixture := newCurriculumFixture(t,
		models.Course{ID: "c-1", Title: "Intro", DurationMinutes: 60},
		models.Course{ID: "c-2", Title: "Deep dive", DurationMinutes: 90},
	)

	resp, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "project-1"})
	require.NoError(t, err)

	var courses []models.Event
	for _, ev := range resp.Events {
		if ev.Type == models.EventTypeCourse {
			courses = append(courses, ev)
		}
	}
	require.Len(t, courses, 2)
	assert.Equal(t, monday(9, 0), courses[0].Start)
	assert.Equal(t, monday(10, 0), courses[0].End)
	assert.Equal(t, monday(10, 0), courses[1].Start)
	assert.Equal(t, monday(11, 30), courses[1].End)
}

func TestCurriculumScheduleStopsAtProjectEnd(t *testing.T) {
	fixture := newCurriculumFixture(t,
		models.Course{ID: "c-1", Title: "Intro", DurationMinutes: 240},
		models.Course{ID: "c-2", Title: "Deep dive", DurationMinutes: 240},
	)
	fixture.projects.projects["project-1"].Settings.EndDate = monday(0, 0)

	resp, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "project-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TruncatedCourses)
	for _, ev := range resp.Events {
		assert.Equal(t, ev.Start.Day(), 10, "nothing may land past the project end date")
	}

	var titles []string
	for _, ev := range resp.Events {
		if ev.Type == models.EventTypeCourse {
			titles = append(titles, ev.Title)
		}
	}
	assert.Equal(t, []string{"Intro", "Intro"}, titles, "the first course splits around lunch, the second is dropped")
}

func TestCurriculumScheduleAssociatesGroupAndAttendees(t *testing.T) {
	fixture := newCurriculumFixture(t, models.Course{ID: "c-1", Title: "Intro", DurationMinutes: 60})

	resp, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "project-1"})
	require.NoError(t, err)

	for _, ev := range resp.Events {
		switch ev.Type {
		case models.EventTypeCourse:
			assert.Equal(t, []string{"group-a"}, fixture.events.groups[ev.ID])
			assert.Equal(t, []string{"p-1", "p-2"}, fixture.events.attendees[ev.ID])
		case models.EventTypeLunch:
			assert.Empty(t, fixture.events.groups[ev.ID])
			assert.Empty(t, fixture.events.attendees[ev.ID])
		}
	}
}

func TestCurriculumScheduleRejectsUnknownProject(t *testing.T) {
	fixture := newCurriculumFixture(t, models.Course{ID: "c-1", Title: "Intro", DurationMinutes: 60})

	_, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCurriculumScheduleRequiresActiveCurricula(t *testing.T) {
	fixture := newCurriculumFixture(t)
	fixture.curricula.byGroup = map[string][]models.Curriculum{}

	_, err := fixture.service.Schedule(context.Background(), dto.CurriculumScheduleRequest{ProjectID: "project-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoEligibleTargets.Code, appErrors.FromError(err).Code)
}
