package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/traineo/agenda-api/internal/models"
)

// CurriculumRepository resolves group-to-curriculum assignments.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs a CurriculumRepository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// ListActiveByGroup returns a group's active curricula with their courses
// (and course modules) resolved, courses in curriculum order.
func (r *CurriculumRepository) ListActiveByGroup(ctx context.Context, groupID string) ([]models.Curriculum, error) {
	const query = `SELECT c.id, c.name, c.active, c.created_at
FROM curricula c
JOIN group_curricula gc ON gc.curriculum_id = c.id
WHERE gc.group_id = $1 AND c.active = TRUE
ORDER BY c.created_at, c.id`
	var curricula []models.Curriculum
	if err := r.db.SelectContext(ctx, &curricula, query, groupID); err != nil {
		return nil, fmt.Errorf("list curricula for group: %w", err)
	}

	for i := range curricula {
		courses, err := r.listCourses(ctx, curricula[i].ID)
		if err != nil {
			return nil, err
		}
		curricula[i].Courses = courses
	}
	return curricula, nil
}

func (r *CurriculumRepository) listCourses(ctx context.Context, curriculumID string) ([]models.Course, error) {
	const query = `SELECT co.id, co.title, co.duration_minutes, co.required_roles, co.created_at
FROM courses co
JOIN curriculum_courses cc ON cc.course_id = co.id
WHERE cc.curriculum_id = $1
ORDER BY cc.position`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, curriculumID); err != nil {
		return nil, fmt.Errorf("list curriculum courses: %w", err)
	}
	if len(courses) == 0 {
		return courses, nil
	}

	const moduleQuery = `SELECT m.id, m.course_id, m.title, m.duration_minutes, m.position
FROM course_modules m
JOIN curriculum_courses cc ON cc.course_id = m.course_id
WHERE cc.curriculum_id = $1
ORDER BY m.course_id, m.position`
	var modules []models.CourseModule
	if err := r.db.SelectContext(ctx, &modules, moduleQuery, curriculumID); err != nil {
		return nil, fmt.Errorf("list curriculum course modules: %w", err)
	}
	byCourse := make(map[string][]models.CourseModule)
	for _, m := range modules {
		byCourse[m.CourseID] = append(byCourse[m.CourseID], m)
	}
	for i := range courses {
		courses[i].Modules = byCourse[courses[i].ID]
	}
	return courses, nil
}
