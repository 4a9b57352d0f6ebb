package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/traineo/agenda-api/internal/models"
)

// ProjectRepository manages persistence for projects, groups, and
// participants.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs a ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID returns a project with its groups and participants resolved.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	const query = `SELECT id, name, settings, created_at, updated_at FROM projects WHERE id = $1`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	groups, err := r.listGroups(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Groups = groups
	return &project, nil
}

func (r *ProjectRepository) listGroups(ctx context.Context, projectID string) ([]models.Group, error) {
	const groupQuery = `SELECT id, project_id, name, color_tag FROM groups WHERE project_id = $1 ORDER BY created_at, id`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, groupQuery, projectID); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	const participantQuery = `SELECT p.id, p.group_id, p.name, p.role_id
FROM participants p
JOIN groups g ON g.id = p.group_id
WHERE g.project_id = $1
ORDER BY p.group_id, p.name`
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, participantQuery, projectID); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	byGroup := make(map[string][]models.Participant, len(groups))
	for _, p := range participants {
		byGroup[p.GroupID] = append(byGroup[p.GroupID], p)
	}
	for i := range groups {
		groups[i].Participants = byGroup[groups[i].ID]
	}
	return groups, nil
}
