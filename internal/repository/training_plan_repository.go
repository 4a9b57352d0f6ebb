package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/traineo/agenda-api/internal/models"
)

// TrainingPlanRepository fetches training plans with their day structure.
type TrainingPlanRepository struct {
	db *sqlx.DB
}

// NewTrainingPlanRepository constructs a TrainingPlanRepository.
func NewTrainingPlanRepository(db *sqlx.DB) *TrainingPlanRepository {
	return &TrainingPlanRepository{db: db}
}

// FindByID returns a plan with days and items resolved, days ordered by day
// number and items by position.
func (r *TrainingPlanRepository) FindByID(ctx context.Context, id string) (*models.TrainingPlan, error) {
	const query = `SELECT id, project_id, name, created_at FROM training_plans WHERE id = $1`
	var plan models.TrainingPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, fmt.Errorf("get training plan: %w", err)
	}

	const dayQuery = `SELECT id, training_plan_id, day_number FROM plan_days
WHERE training_plan_id = $1 ORDER BY day_number`
	if err := r.db.SelectContext(ctx, &plan.Days, dayQuery, id); err != nil {
		return nil, fmt.Errorf("list plan days: %w", err)
	}
	if len(plan.Days) == 0 {
		return &plan, nil
	}

	const itemQuery = `SELECT i.id, i.plan_day_id, i.position, i.course_id, i.module_id,
	i.support_activity_id, i.custom_title, i.custom_duration_minutes
FROM plan_items i
JOIN plan_days d ON d.id = i.plan_day_id
WHERE d.training_plan_id = $1
ORDER BY d.day_number, i.position`
	var items []models.PlanItem
	if err := r.db.SelectContext(ctx, &items, itemQuery, id); err != nil {
		return nil, fmt.Errorf("list plan items: %w", err)
	}

	byDay := make(map[string][]models.PlanItem, len(plan.Days))
	for _, item := range items {
		byDay[item.PlanDayID] = append(byDay[item.PlanDayID], item)
	}
	for i := range plan.Days {
		plan.Days[i].Items = byDay[plan.Days[i].ID]
	}
	return &plan, nil
}
