package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/traineo/agenda-api/internal/models"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
	"github.com/traineo/agenda-api/pkg/export"
)

type exportEventReader interface {
	ListByProject(ctx context.Context, projectID string) ([]models.Event, error)
}

type exportProjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
}

// ExportService renders a project's scheduled agenda as CSV or PDF.
type ExportService struct {
	projects exportProjectReader
	events   exportEventReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// ExportResult carries the rendered bytes plus the HTTP metadata the handler
// needs to serve them.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// NewExportService wires the export dependencies.
func NewExportService(projects exportProjectReader, events exportEventReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		projects: projects,
		events:   events,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ExportAgenda renders the project's events in the requested format
// ("csv" or "pdf").
func (s *ExportService) ExportAgenda(ctx context.Context, projectID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	events, err := s.events.ListByProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	dataset := buildAgendaDataset(project, events)
	filename := fmt.Sprintf("agenda-%s-%s", slugify(project.Name), time.Now().UTC().Format("20060102"))

	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: filename + ".csv"}, nil
	default:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Agenda - %s", project.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: filename + ".pdf"}, nil
	}
}

func buildAgendaDataset(project *models.Project, events []models.Event) export.Dataset {
	groupNames := make(map[string]string, len(project.Groups))
	for _, g := range project.Groups {
		groupNames[g.ID] = g.Name
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Title", "Type", "Group", "Attendees"},
		Rows:    make([]map[string]string, 0, len(events)),
	}
	for _, ev := range events {
		groupName := ""
		if ev.GroupID != nil {
			groupName = groupNames[*ev.GroupID]
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":      ev.Start.Format("2006-01-02"),
			"Start":     ev.Start.Format("15:04"),
			"End":       ev.End.Format("15:04"),
			"Title":     ev.Title,
			"Type":      string(ev.Type),
			"Group":     groupName,
			"Attendees": strconv.Itoa(len(ev.ParticipantIDs)),
		})
	}
	return dataset
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "project"
	}
	return slug
}
