package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/traineo/agenda-api/internal/dto"
	"github.com/traineo/agenda-api/internal/models"
	"github.com/traineo/agenda-api/internal/schedule"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
)

type curriculumReader interface {
	ListActiveByGroup(ctx context.Context, groupID string) ([]models.Curriculum, error)
}

type eventCounter interface {
	EventsCreated(n int)
}

// CurriculumScheduleConfig carries the scheduling fallbacks for projects
// whose settings leave hours or lunch unset.
type CurriculumScheduleConfig struct {
	DefaultWorkingHours models.WorkingHours
	LunchStart          int
	LunchDuration       int
}

// CurriculumScheduleService lays out every course assigned to a project's
// groups through their active curricula. Unlike the plan import this runs
// synchronously: courses go back to back from the project start date, each
// touched calendar day gets one lunch break, and the walk stops quietly once
// the project end date cannot hold the next course.
type CurriculumScheduleService struct {
	projects  agendaProjectReader
	curricula curriculumReader
	events    agendaEventWriter
	metrics   eventCounter
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CurriculumScheduleConfig
}

// NewCurriculumScheduleService wires the curriculum scheduler.
func NewCurriculumScheduleService(
	projects agendaProjectReader,
	curricula curriculumReader,
	events agendaEventWriter,
	metrics eventCounter,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg CurriculumScheduleConfig,
) *CurriculumScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.DefaultWorkingHours.WorkingDays) == 0 {
		cfg.DefaultWorkingHours = models.DefaultWorkingHours()
	}
	if cfg.LunchStart <= 0 {
		cfg.LunchStart = 12 * 60
	}
	if cfg.LunchDuration <= 0 {
		cfg.LunchDuration = 60
	}
	return &CurriculumScheduleService{
		projects:  projects,
		curricula: curricula,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// courseAssignment is one curriculum course plus every group it must be
// scheduled for, in group discovery order.
type courseAssignment struct {
	course *models.Course
	groups []models.Group
}

// Schedule runs the full curriculum walk for a project and persists the
// resulting events.
func (s *CurriculumScheduleService) Schedule(ctx context.Context, req dto.CurriculumScheduleRequest) (*dto.CurriculumScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum schedule payload")
	}

	project, err := s.projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	hours := s.cfg.DefaultWorkingHours
	lunchStart, lunchDuration := s.cfg.LunchStart, s.cfg.LunchDuration
	if project.Settings != nil {
		if len(project.Settings.WorkingHours.WorkingDays) > 0 {
			hours = project.Settings.WorkingHours
		}
		if project.Settings.LunchStart > 0 {
			lunchStart = project.Settings.LunchStart
		}
		if project.Settings.LunchDuration > 0 {
			lunchDuration = project.Settings.LunchDuration
		}
	}
	cal, err := schedule.NewWorkingCalendar(hours)
	if err != nil {
		return nil, err
	}

	assignments, err := s.collectAssignments(ctx, project)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoEligibleTargets, "no active curricula assigned to this project's groups")
	}

	base := time.Now().In(cal.Location())
	if project.Settings != nil && !project.Settings.StartDate.IsZero() {
		base = project.Settings.StartDate.In(cal.Location())
	}
	cursor := cal.ClampToWorkingHours(cal.At(base, hours.StartOfDay))

	var bound time.Time
	if project.Settings != nil && !project.Settings.EndDate.IsZero() {
		bound = cal.At(project.Settings.EndDate.In(cal.Location()), hours.EndOfDay)
	}

	walk := &curriculumWalk{
		svc:           s,
		cal:           cal,
		projectID:     project.ID,
		lunchStart:    lunchStart,
		lunchDuration: lunchDuration,
		lunchDates:    make(map[string]bool),
		cursor:        cursor,
	}

	truncated := 0
	for _, assignment := range assignments {
		duration := courseDuration(assignment.course)
		for _, group := range assignment.groups {
			// A session that would run past the project end date stops the
			// remaining sessions for this course only; later courses still
			// get their chance.
			if !bound.IsZero() && walk.cursor.Add(time.Duration(duration)*time.Minute).After(bound) {
				truncated++
				break
			}
			if err := walk.scheduleCourse(ctx, assignment.course, group, duration); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
					fmt.Sprintf("failed to schedule %q", assignment.course.Title))
			}
		}
	}

	if s.metrics != nil && len(walk.events) > 0 {
		s.metrics.EventsCreated(len(walk.events))
	}
	s.logger.Sugar().Infow("curriculum schedule completed",
		"project_id", project.ID, "events", len(walk.events),
		"lunch_breaks", walk.lunchBreaks, "truncated_courses", truncated)

	resp := &dto.CurriculumScheduleResponse{
		Events:           walk.events,
		Created:          len(walk.events),
		LunchBreaks:      walk.lunchBreaks,
		TruncatedCourses: truncated,
	}
	if n := len(walk.events); n > 0 {
		last := walk.events[n-1].End
		resp.ScheduledThrough = &last
	}
	return resp, nil
}

// collectAssignments flattens the project's active curricula into an ordered
// course list, merging the groups assigned to each course. Order follows
// group declaration order, then curriculum course position.
func (s *CurriculumScheduleService) collectAssignments(ctx context.Context, project *models.Project) ([]courseAssignment, error) {
	var order []string
	byCourse := make(map[string]*courseAssignment)

	for _, group := range project.Groups {
		curricula, err := s.curricula.ListActiveByGroup(ctx, group.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				fmt.Sprintf("failed to load curricula for group %q", group.Name))
		}
		for _, curriculum := range curricula {
			for i := range curriculum.Courses {
				course := curriculum.Courses[i]
				assignment, ok := byCourse[course.ID]
				if !ok {
					assignment = &courseAssignment{course: &course}
					byCourse[course.ID] = assignment
					order = append(order, course.ID)
				}
				if !containsGroup(assignment.groups, group.ID) {
					assignment.groups = append(assignment.groups, group)
				}
			}
		}
	}

	assignments := make([]courseAssignment, 0, len(order))
	for _, id := range order {
		assignments = append(assignments, *byCourse[id])
	}
	return assignments, nil
}

// curriculumWalk holds the mutable state of one scheduling pass.
type curriculumWalk struct {
	svc           *CurriculumScheduleService
	cal           *schedule.WorkingCalendar
	projectID     string
	lunchStart    int
	lunchDuration int
	lunchDates    map[string]bool
	cursor        time.Time
	events        []models.Event
	lunchBreaks   int
}

// scheduleCourse places one course session for one group, splitting it
// across days and around the lunch break as needed.
func (w *curriculumWalk) scheduleCourse(ctx context.Context, course *models.Course, group models.Group, duration int) error {
	remaining := duration
	var sessionEvents []string

	for remaining > 0 {
		if !w.cal.IsWorkingDay(w.cursor) {
			w.cursor = w.cal.NextWorkingDay(w.cursor)
		}
		w.cursor = w.cal.ClampToWorkingHours(w.cursor)

		lunchFrom := w.cal.At(w.cursor, w.lunchStart)
		lunchTo := lunchFrom.Add(time.Duration(w.lunchDuration) * time.Minute)
		if !w.cursor.Before(lunchFrom) && w.cursor.Before(lunchTo) {
			w.cursor = lunchTo
			continue
		}

		available := w.cal.MinutesRemaining(w.cursor)
		if w.cursor.Before(lunchFrom) {
			untilLunch := int(lunchFrom.Sub(w.cursor).Minutes())
			if untilLunch < available {
				available = untilLunch
			}
		}
		if available <= 0 {
			w.cursor = w.cal.StartOfNextWorkingDay(w.cursor)
			continue
		}

		if err := w.ensureLunch(ctx); err != nil {
			return err
		}

		segment := remaining
		if available < segment {
			segment = available
		}
		end := w.cursor.Add(time.Duration(segment) * time.Minute)

		groupID := group.ID
		courseID := course.ID
		event := models.Event{
			ID:             uuid.NewString(),
			ProjectID:      w.projectID,
			Title:          course.Title,
			Start:          w.cursor,
			End:            end,
			Type:           models.EventTypeCourse,
			CourseID:       &courseID,
			GroupID:        &groupID,
			ParticipantIDs: participantIDs(group.Participants),
			CreatedAt:      time.Now().UTC(),
		}
		if group.ColorTag != "" {
			event.Metadata = models.StringMap{"colorTag": group.ColorTag}
		}
		if err := w.svc.events.Create(ctx, &event); err != nil {
			return err
		}
		w.events = append(w.events, event)
		sessionEvents = append(sessionEvents, event.ID)

		remaining -= segment
		w.cursor = end
	}

	for _, eventID := range sessionEvents {
		if err := w.svc.events.AssociateGroup(ctx, eventID, group.ID); err != nil {
			return err
		}
		if ids := participantIDs(group.Participants); len(ids) > 0 {
			if err := w.svc.events.AssociateAttendees(ctx, eventID, ids); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureLunch creates the single lunch event for the cursor's calendar date
// the first time that date is touched.
func (w *curriculumWalk) ensureLunch(ctx context.Context) error {
	key := w.cursor.Format("2006-01-02")
	if w.lunchDates[key] {
		return nil
	}
	w.lunchDates[key] = true

	start := w.cal.At(w.cursor, w.lunchStart)
	event := models.Event{
		ID:        uuid.NewString(),
		ProjectID: w.projectID,
		Title:     "Lunch break",
		Start:     start,
		End:       start.Add(time.Duration(w.lunchDuration) * time.Minute),
		Type:      models.EventTypeLunch,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.svc.events.Create(ctx, &event); err != nil {
		return err
	}
	w.events = append(w.events, event)
	w.lunchBreaks++
	return nil
}

func containsGroup(groups []models.Group, id string) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}
