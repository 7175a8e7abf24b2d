package repository

import (
	"context"
	"database/sql"
	"fmt"

	"adaptcoach/internal/models"
)

// NutritionRepository works with nutrition_targets and meal_ingredients.
type NutritionRepository struct {
	db *sql.DB
}

// NewNutritionRepository creates the nutrition repository.
func NewNutritionRepository(db *sql.DB) *NutritionRepository {
	return &NutritionRepository{db: db}
}

// GetTarget returns the athlete's unadjusted daily target.
func (r *NutritionRepository) GetTarget(ctx context.Context, athleteID int) (*models.NutritionTarget, error) {
	t := &models.NutritionTarget{}
	err := r.db.QueryRowContext(ctx, `
		SELECT athlete_id, kcal, protein_g, carbs_g, fats_g
		FROM public.nutrition_targets
		WHERE athlete_id = $1`, athleteID).Scan(
		&t.AthleteID, &t.Kcal, &t.ProteinG, &t.CarbsG, &t.FatsG,
	)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("nutrition target of athlete %d", athleteID))
	}
	return t, nil
}

// ListIngredients returns the athlete's meal plan lines.
func (r *NutritionRepository) ListIngredients(ctx context.Context, athleteID int) ([]models.MealIngredient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, athlete_id, meal, name, cantidad, unidad, macro
		FROM public.meal_ingredients
		WHERE athlete_id = $1
		ORDER BY meal, id`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients of athlete %d: %w", athleteID, err)
	}
	defer rows.Close()

	var out []models.MealIngredient
	for rows.Next() {
		var in models.MealIngredient
		if err := rows.Scan(&in.ID, &in.AthleteID, &in.Meal, &in.Name, &in.Cantidad, &in.Unidad, &in.Macro); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
