package repository

import (
	"context"
	"database/sql"
	"fmt"

	"adaptcoach/internal/models"
)

// BaselineRepository works with the exercise_baselines table.
type BaselineRepository struct {
	db *sql.DB
}

// NewBaselineRepository creates the baseline repository.
func NewBaselineRepository(db *sql.DB) *BaselineRepository {
	return &BaselineRepository{db: db}
}

// ListByAthlete returns the athlete's baselines in program order.
func (r *BaselineRepository) ListByAthlete(ctx context.Context, athleteID int) ([]models.ExerciseBaseline, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, athlete_id, exercise, sets, series, reps, load_kg, position, created_at
		FROM public.exercise_baselines
		WHERE athlete_id = $1
		ORDER BY position, id`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("list baselines of athlete %d: %w", athleteID, err)
	}
	defer rows.Close()

	var baselines []models.ExerciseBaseline
	for rows.Next() {
		var (
			b      models.ExerciseBaseline
			series sql.NullInt64
		)
		err := rows.Scan(&b.ID, &b.AthleteID, &b.Exercise, &b.Sets, &series,
			&b.Reps, &b.LoadKg, &b.Position, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		if series.Valid {
			s := int(series.Int64)
			b.Series = &s
		}
		baselines = append(baselines, b)
	}
	return baselines, rows.Err()
}

// Save inserts the baseline when ID is zero and updates it otherwise.
func (r *BaselineRepository) Save(ctx context.Context, b *models.ExerciseBaseline) error {
	var series sql.NullInt64
	if b.Series != nil {
		series = sql.NullInt64{Int64: int64(*b.Series), Valid: true}
	}

	if b.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO public.exercise_baselines (athlete_id, exercise, sets, series, reps, load_kg, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			b.AthleteID, b.Exercise, b.Sets, series, b.Reps, b.LoadKg, b.Position,
		).Scan(&b.ID, &b.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert baseline: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE public.exercise_baselines
		SET exercise = $1, sets = $2, series = $3, reps = $4, load_kg = $5, position = $6
		WHERE id = $7`,
		b.Exercise, b.Sets, series, b.Reps, b.LoadKg, b.Position, b.ID)
	if err != nil {
		return fmt.Errorf("update baseline %d: %w", b.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update baseline %d: %w", b.ID, ErrNotFound)
	}
	return nil
}
