package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/traineo/agenda-api/internal/models"
)

// CourseRepository fetches courses, course modules, and support activities.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course with its modules resolved.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, duration_minutes, required_roles, created_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	const moduleQuery = `SELECT id, course_id, title, duration_minutes, position
FROM course_modules WHERE course_id = $1 ORDER BY position`
	if err := r.db.SelectContext(ctx, &course.Modules, moduleQuery, id); err != nil {
		return nil, fmt.Errorf("list course modules: %w", err)
	}
	return &course, nil
}

// FindModuleByID returns a single course module.
func (r *CourseRepository) FindModuleByID(ctx context.Context, id string) (*models.CourseModule, error) {
	const query = `SELECT id, course_id, title, duration_minutes, position FROM course_modules WHERE id = $1`
	var module models.CourseModule
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, fmt.Errorf("get course module: %w", err)
	}
	return &module, nil
}

// FindSupportActivityByID returns a support activity.
func (r *CourseRepository) FindSupportActivityByID(ctx context.Context, id string) (*models.SupportActivity, error) {
	const query = `SELECT id, title, duration_minutes FROM support_activities WHERE id = $1`
	var activity models.SupportActivity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		return nil, fmt.Errorf("get support activity: %w", err)
	}
	return &activity, nil
}
