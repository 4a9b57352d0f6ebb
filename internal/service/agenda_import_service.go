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
	"github.com/traineo/agenda-api/internal/repository"
	"github.com/traineo/agenda-api/internal/schedule"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
	"github.com/traineo/agenda-api/pkg/jobs"
)

// TaskTypeAgendaImport identifies agenda-import tasks on the queue.
const TaskTypeAgendaImport = "agenda-import"

type agendaProjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
}

type agendaPlanReader interface {
	FindByID(ctx context.Context, id string) (*models.TrainingPlan, error)
}

type agendaCatalogReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindModuleByID(ctx context.Context, id string) (*models.CourseModule, error)
	FindSupportActivityByID(ctx context.Context, id string) (*models.SupportActivity, error)
}

type agendaEventWriter interface {
	Create(ctx context.Context, event *models.Event) error
	AssociateGroup(ctx context.Context, eventID, groupID string) error
	AssociateAttendees(ctx context.Context, eventID string, participantIDs []string) error
	ListByProject(ctx context.Context, projectID string) ([]models.Event, error)
}

type importJobStore interface {
	Create(ctx context.Context, job *models.ImportJob) error
	Get(ctx context.Context, id string) (*models.ImportJob, error)
	Save(ctx context.Context, job *models.ImportJob) error
}

type taskDispatcher interface {
	Enqueue(task jobs.Task) error
}

type importMetrics interface {
	ImportStarted()
	ImportFinished(status string, events, warnings int, duration time.Duration)
}

// AgendaImportService turns training plans into scheduled calendar events.
// Kickoff is synchronous and cheap; the walk over the plan runs on the task
// queue, flushing progress to the job store after every (item, group)
// pairing so pollers see the run advance.
type AgendaImportService struct {
	projects  agendaProjectReader
	plans     agendaPlanReader
	catalog   agendaCatalogReader
	events    agendaEventWriter
	jobStore  importJobStore
	queue     taskDispatcher
	metrics   importMetrics
	validator *validator.Validate
	logger    *zap.Logger
	defaults  models.WorkingHours
}

// AgendaImportConfig governs scheduling fallbacks.
type AgendaImportConfig struct {
	DefaultWorkingHours models.WorkingHours
}

// NewAgendaImportService wires the import dependencies.
func NewAgendaImportService(
	projects agendaProjectReader,
	plans agendaPlanReader,
	catalog agendaCatalogReader,
	events agendaEventWriter,
	jobStore importJobStore,
	queue taskDispatcher,
	metrics importMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AgendaImportConfig,
) *AgendaImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := cfg.DefaultWorkingHours
	if len(defaults.WorkingDays) == 0 {
		defaults = models.DefaultWorkingHours()
	}
	return &AgendaImportService{
		projects:  projects,
		plans:     plans,
		catalog:   catalog,
		events:    events,
		jobStore:  jobStore,
		queue:     queue,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		defaults:  defaults,
	}
}

// AttachQueue sets the dispatcher after construction. The queue's handler is
// the service itself, so the two are wired in two steps.
func (s *AgendaImportService) AttachQueue(queue taskDispatcher) {
	s.queue = queue
}

// Kickoff validates the request, records the job, and enqueues the import.
// It returns before any scheduling work has happened.
func (s *AgendaImportService) Kickoff(ctx context.Context, req dto.ImportAgendaRequest) (*dto.ImportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid agenda import payload")
	}

	job := &models.ImportJob{
		ID:             uuid.NewString(),
		ProjectID:      req.ProjectID,
		TrainingPlanID: req.TrainingPlanID,
		Status:         models.ImportStatusStarting,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.jobStore.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create import job")
	}

	if err := s.queue.Enqueue(jobs.Task{ID: job.ID, Type: TaskTypeAgendaImport, Payload: req}); err != nil {
		now := time.Now().UTC()
		job.Status = models.ImportStatusFailed
		job.Message = "failed to enqueue import"
		job.FinishedAt = &now
		if saveErr := s.jobStore.Save(ctx, job); saveErr != nil {
			s.logger.Sugar().Warnw("failed to mark unqueued job failed", "job_id", job.ID, "error", saveErr)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue agenda import")
	}

	return &dto.ImportJobResponse{JobID: job.ID, Status: job.Status}, nil
}

// Status returns the current snapshot of an import job.
func (s *AgendaImportService) Status(ctx context.Context, jobID string) (*dto.ImportStatusResponse, error) {
	job, err := s.jobStore.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "import job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load import job")
	}
	return &dto.ImportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Processed: job.Processed,
		Total:     job.Total,
		Warnings:  job.Warnings,
		Events:    job.Events,
		Message:   job.Message,
	}, nil
}

// HandleTask bridges queue tasks to RunImport.
func (s *AgendaImportService) HandleTask(ctx context.Context, task jobs.Task) error {
	req, ok := task.Payload.(dto.ImportAgendaRequest)
	if !ok {
		return fmt.Errorf("unexpected payload %T for task %s", task.Payload, task.ID)
	}
	return s.RunImport(ctx, task.ID, req)
}

// RunImport executes the full scheduling walk for one job. Fatal pre-run
// failures flip the job to failed; per-item failures become warnings and the
// walk continues.
func (s *AgendaImportService) RunImport(ctx context.Context, jobID string, req dto.ImportAgendaRequest) error {
	started := time.Now()
	job, err := s.jobStore.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", jobID, err)
	}

	if s.metrics != nil {
		s.metrics.ImportStarted()
	}
	outcome := string(models.ImportStatusCompleted)
	defer func() {
		if s.metrics != nil {
			s.metrics.ImportFinished(outcome, len(job.Events), len(job.Warnings), time.Since(started))
		}
	}()

	fail := func(msg string, cause error) error {
		now := time.Now().UTC()
		job.Status = models.ImportStatusFailed
		job.Message = msg
		if cause != nil {
			job.Message = fmt.Sprintf("%s: %v", msg, cause)
		}
		job.FinishedAt = &now
		if saveErr := s.jobStore.Save(ctx, job); saveErr != nil {
			s.logger.Sugar().Warnw("failed to persist failed job", "job_id", job.ID, "error", saveErr)
		}
		outcome = string(models.ImportStatusFailed)
		if cause != nil {
			return fmt.Errorf("%s: %w", msg, cause)
		}
		return errors.New(msg)
	}

	project, err := s.projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail("project not found", nil)
		}
		return fail("failed to load project", err)
	}
	plan, err := s.plans.FindByID(ctx, req.TrainingPlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail("training plan not found", nil)
		}
		return fail("failed to load training plan", err)
	}

	hours := s.defaults
	if req.FollowProjectHours && project.Settings != nil && len(project.Settings.WorkingHours.WorkingDays) > 0 {
		hours = project.Settings.WorkingHours
	}
	cal, err := schedule.NewWorkingCalendar(hours)
	if err != nil {
		return fail("invalid working hours configuration", err)
	}

	groups := selectGroups(project.Groups, req.SelectedGroups)
	if len(groups) == 0 {
		return fail("no eligible target groups selected", nil)
	}

	var conflicts *schedule.ConflictIndex
	if req.PreserveExistingEvents {
		existing, err := s.events.ListByProject(ctx, req.ProjectID)
		if err != nil {
			return fail("failed to load existing events", err)
		}
		conflicts = schedule.NewConflictIndex(cal)
		for _, ev := range existing {
			conflicts.Add(schedule.Interval{Start: ev.Start, End: ev.End})
		}
	}
	placer := schedule.NewPlacer(cal, conflicts)

	days := s.resolvePlan(ctx, plan)
	total := 0
	for _, day := range days {
		total += len(day)
	}
	job.Total = total * len(groups)
	job.Status = models.ImportStatusInProgress
	if err := s.jobStore.Save(ctx, job); err != nil {
		s.logger.Sugar().Warnw("failed to persist job start", "job_id", job.ID, "error", err)
	}

	base := time.Now().In(cal.Location())
	if project.Settings != nil && !project.Settings.StartDate.IsZero() {
		base = project.Settings.StartDate.In(cal.Location())
	}
	cursor := cal.ClampToWorkingHours(cal.At(base, hours.StartOfDay))

	for _, day := range days {
		for _, entry := range day {
			for _, group := range groups {
				if err := s.scheduleEntry(ctx, job, placer, conflicts, &cursor, entry, group, req); err != nil {
					job.Warnings = append(job.Warnings, fmt.Sprintf("Failed to process %q: %v", entry.title, err))
				}
				job.Processed++
				if err := s.jobStore.Save(ctx, job); err != nil {
					s.logger.Sugar().Warnw("failed to flush job progress", "job_id", job.ID, "error", err)
				}
			}
		}
	}

	now := time.Now().UTC()
	job.Status = models.ImportStatusCompleted
	job.FinishedAt = &now
	if err := s.jobStore.Save(ctx, job); err != nil {
		return fmt.Errorf("persist completed job: %w", err)
	}
	s.logger.Sugar().Infow("agenda import completed",
		"job_id", job.ID, "events", len(job.Events), "warnings", len(job.Warnings))
	return nil
}

// planEntry is one schedulable item resolved from the plan: a per-day course
// bundle, a support activity, or a custom activity.
type planEntry struct {
	kind          models.EventType
	title         string
	duration      int
	courseID      string
	requiredRoles []string
	resolveErr    error
}

// resolvePlan flattens plan days into ordered entries. Within a day, items
// referencing the same course collapse into one bundle; bundles come first,
// then support activities, then custom activities. Resolution failures are
// carried on the entry so they surface as per-item warnings, not fatal
// errors.
func (s *AgendaImportService) resolvePlan(ctx context.Context, plan *models.TrainingPlan) [][]planEntry {
	courseCache := make(map[string]*models.Course)
	course := func(id string) (*models.Course, error) {
		if c, ok := courseCache[id]; ok {
			return c, nil
		}
		c, err := s.catalog.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		courseCache[id] = c
		return c, nil
	}

	days := make([][]planEntry, 0, len(plan.Days))
	for _, day := range plan.Days {
		var order []string
		bundles := make(map[string]*planEntry)
		var supports, customs []planEntry

		addCourseMinutes := func(c *models.Course, minutes int) {
			entry, ok := bundles[c.ID]
			if !ok {
				entry = &planEntry{
					kind:          models.EventTypeCourse,
					title:         c.Title,
					courseID:      c.ID,
					requiredRoles: c.RequiredRoles,
				}
				bundles[c.ID] = entry
				order = append(order, c.ID)
			}
			entry.duration += minutes
		}

		for _, item := range day.Items {
			switch {
			case item.CourseID != nil:
				c, err := course(*item.CourseID)
				if err != nil {
					supports = appendUnresolved(supports, *item.CourseID, err)
					continue
				}
				addCourseMinutes(c, itemDuration(item, courseDuration(c)))
			case item.ModuleID != nil:
				module, err := s.catalog.FindModuleByID(ctx, *item.ModuleID)
				if err != nil {
					supports = appendUnresolved(supports, *item.ModuleID, err)
					continue
				}
				c, err := course(module.CourseID)
				if err != nil {
					supports = appendUnresolved(supports, module.CourseID, err)
					continue
				}
				addCourseMinutes(c, itemDuration(item, module.DurationMinutes))
			case item.SupportActivityID != nil:
				activity, err := s.catalog.FindSupportActivityByID(ctx, *item.SupportActivityID)
				if err != nil {
					supports = appendUnresolved(supports, *item.SupportActivityID, err)
					continue
				}
				supports = append(supports, planEntry{
					kind:     models.EventTypeSupport,
					title:    activity.Title,
					duration: itemDuration(item, activity.DurationMinutes),
				})
			case item.CustomTitle != nil:
				customs = append(customs, planEntry{
					kind:     models.EventTypeCustom,
					title:    *item.CustomTitle,
					duration: itemDuration(item, 0),
				})
			default:
				supports = appendUnresolved(supports, item.ID, errors.New("plan item references nothing schedulable"))
			}
		}

		entries := make([]planEntry, 0, len(order)+len(supports)+len(customs))
		for _, id := range order {
			entries = append(entries, *bundles[id])
		}
		entries = append(entries, supports...)
		entries = append(entries, customs...)
		days = append(days, entries)
	}
	return days
}

// scheduleEntry places one (item, group) pairing: resolves eligible
// participants, obtains segments from the placer, persists one event per
// segment, and advances the shared cursor to the end of the last segment.
func (s *AgendaImportService) scheduleEntry(
	ctx context.Context,
	job *models.ImportJob,
	placer *schedule.Placer,
	conflicts *schedule.ConflictIndex,
	cursor *time.Time,
	entry planEntry,
	group models.Group,
	req dto.ImportAgendaRequest,
) error {
	if entry.resolveErr != nil {
		return entry.resolveErr
	}

	roles := requiredRoles(entry, req)
	eligible := eligibleParticipants(group, roles, req.IncludeAllParticipants)
	if len(roles) > 0 && len(eligible) == 0 {
		job.Warnings = append(job.Warnings,
			fmt.Sprintf("No participants in group %q match the required roles for %q", group.Name, entry.title))
	}

	segments := placer.Place(*cursor, entry.duration)
	for _, seg := range segments {
		groupID := group.ID
		event := models.Event{
			ID:        uuid.NewString(),
			ProjectID: req.ProjectID,
			Title:     entry.title,
			Start:     seg.Start,
			End:       seg.End,
			Type:      entry.kind,
			GroupID:   &groupID,
			CreatedAt: time.Now().UTC(),
		}
		if group.ColorTag != "" {
			event.Metadata = models.StringMap{"colorTag": group.ColorTag}
		}
		if entry.kind == models.EventTypeCourse {
			courseID := entry.courseID
			event.CourseID = &courseID
			event.ParticipantIDs = participantIDs(eligible)
		} else if entry.kind == models.EventTypeCustom {
			event.ParticipantIDs = participantIDs(eligible)
		}

		if err := s.events.Create(ctx, &event); err != nil {
			return err
		}
		if entry.kind != models.EventTypeSupport {
			if err := s.events.AssociateGroup(ctx, event.ID, group.ID); err != nil {
				return err
			}
			if len(event.ParticipantIDs) > 0 {
				if err := s.events.AssociateAttendees(ctx, event.ID, event.ParticipantIDs); err != nil {
					return err
				}
			}
		}
		if conflicts != nil {
			conflicts.Add(seg)
		}
		job.Events = append(job.Events, event)
	}

	if len(segments) > 0 {
		*cursor = segments[len(segments)-1].End
	}
	return nil
}

func requiredRoles(entry planEntry, req dto.ImportAgendaRequest) []string {
	if !req.AssignByRole || entry.kind != models.EventTypeCourse {
		return nil
	}
	if len(entry.requiredRoles) > 0 {
		return entry.requiredRoles
	}
	return req.SelectedRoles
}

func eligibleParticipants(group models.Group, roles []string, includeAll bool) []models.Participant {
	if includeAll || len(roles) == 0 {
		return group.Participants
	}
	roleSet := make(map[string]bool, len(roles))
	for _, role := range roles {
		roleSet[role] = true
	}
	var eligible []models.Participant
	for _, p := range group.Participants {
		if p.RoleID != nil && roleSet[*p.RoleID] {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

func participantIDs(participants []models.Participant) models.StringSlice {
	if len(participants) == 0 {
		return nil
	}
	ids := make(models.StringSlice, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	return ids
}

func selectGroups(groups []models.Group, selected []string) []models.Group {
	if len(selected) == 0 {
		return groups
	}
	wanted := make(map[string]bool, len(selected))
	for _, id := range selected {
		wanted[id] = true
	}
	var out []models.Group
	for _, g := range groups {
		if wanted[g.ID] {
			out = append(out, g)
		}
	}
	return out
}

// courseDuration resolves a course's own minutes: explicit value, else the
// sum of its modules, else the one-hour default.
func courseDuration(c *models.Course) int {
	if c.DurationMinutes > 0 {
		return c.DurationMinutes
	}
	total := 0
	for _, m := range c.Modules {
		total += m.DurationMinutes
	}
	if total > 0 {
		return total
	}
	return 60
}

// itemDuration applies the plan item's explicit override on top of the
// computed fallback; 60 minutes when neither is usable.
func itemDuration(item models.PlanItem, computed int) int {
	if item.CustomDurationMinutes != nil && *item.CustomDurationMinutes > 0 {
		return *item.CustomDurationMinutes
	}
	if computed > 0 {
		return computed
	}
	return 60
}

func appendUnresolved(entries []planEntry, ref string, err error) []planEntry {
	return append(entries, planEntry{
		kind:       models.EventTypeSupport,
		title:      ref,
		resolveErr: err,
	})
}
