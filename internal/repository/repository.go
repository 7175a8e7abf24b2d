package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Repository groups every repository over one database.
type Repository struct {
	Athlete      *AthleteRepository
	Baseline     *BaselineRepository
	Prescription *PrescriptionRepository
	Nutrition    *NutritionRepository
}

// New creates a Repository.
func New(db *sql.DB) *Repository {
	return &Repository{
		Athlete:      NewAthleteRepository(db),
		Baseline:     NewBaselineRepository(db),
		Prescription: NewPrescriptionRepository(db),
		Nutrition:    NewNutritionRepository(db),
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS public.athletes (
		id             SERIAL PRIMARY KEY,
		telegram_id    BIGINT UNIQUE,
		name           TEXT NOT NULL,
		training_level TEXT NOT NULL DEFAULT '',
		activity_level TEXT NOT NULL DEFAULT '',
		ages           INTEGER[] NOT NULL DEFAULT '{}',
		genders        TEXT[] NOT NULL DEFAULT '{}',
		bmis           DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
		weight_kg      DOUBLE PRECISION,
		injuries       TEXT[] NOT NULL DEFAULT '{}',
		lang           TEXT NOT NULL DEFAULT 'es',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS public.exercise_baselines (
		id         SERIAL PRIMARY KEY,
		athlete_id INTEGER NOT NULL REFERENCES public.athletes(id) ON DELETE CASCADE,
		exercise   TEXT NOT NULL,
		sets       INTEGER NOT NULL,
		series     INTEGER,
		reps       INTEGER NOT NULL,
		load_kg    DOUBLE PRECISION NOT NULL DEFAULT 0,
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS public.prescriptions (
		id          UUID PRIMARY KEY,
		athlete_id  INTEGER NOT NULL REFERENCES public.athletes(id) ON DELETE CASCADE,
		baseline_id INTEGER NOT NULL REFERENCES public.exercise_baselines(id) ON DELETE CASCADE,
		exercise    TEXT NOT NULL,
		rule_ids    INTEGER[] NOT NULL DEFAULT '{}',
		result      JSONB NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS prescriptions_athlete_computed_idx
		ON public.prescriptions (athlete_id, computed_at DESC)`,
	`CREATE TABLE IF NOT EXISTS public.nutrition_targets (
		athlete_id INTEGER PRIMARY KEY REFERENCES public.athletes(id) ON DELETE CASCADE,
		kcal       DOUBLE PRECISION NOT NULL,
		protein_g  DOUBLE PRECISION NOT NULL,
		carbs_g    DOUBLE PRECISION NOT NULL,
		fats_g     DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS public.meal_ingredients (
		id         SERIAL PRIMARY KEY,
		athlete_id INTEGER NOT NULL REFERENCES public.athletes(id) ON DELETE CASCADE,
		meal       TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		cantidad   TEXT NOT NULL,
		unidad     TEXT NOT NULL DEFAULT '',
		macro      TEXT NOT NULL DEFAULT 'kcal'
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func toInt64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func fromInt64s(in []int64) []int {
	if len(in) == 0 {
		return nil
	}
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
