package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"adaptcoach/internal/models"
)

// AthleteRepository works with the athletes table.
type AthleteRepository struct {
	db *sql.DB
}

// NewAthleteRepository creates the athlete repository.
func NewAthleteRepository(db *sql.DB) *AthleteRepository {
	return &AthleteRepository{db: db}
}

const athleteColumns = `id, COALESCE(telegram_id, 0), name, training_level, activity_level,
	ages, genders, bmis, weight_kg, injuries, lang, created_at`

func scanAthlete(row interface{ Scan(...any) error }) (*models.Athlete, error) {
	a := &models.Athlete{}
	var (
		ages   []int64
		weight sql.NullFloat64
	)
	err := row.Scan(
		&a.ID, &a.TelegramID, &a.Name, &a.TrainingLevel, &a.ActivityLevel,
		pq.Array(&ages), pq.Array(&a.Genders), pq.Array(&a.BMIs), &weight,
		pq.Array(&a.Injuries), &a.Lang, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Ages = fromInt64s(ages)
	if weight.Valid {
		w := weight.Float64
		a.WeightKg = &w
	}
	return a, nil
}

// GetByID returns the athlete by ID.
func (r *AthleteRepository) GetByID(ctx context.Context, id int) (*models.Athlete, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+athleteColumns+` FROM public.athletes WHERE id = $1`, id)
	a, err := scanAthlete(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("athlete %d", id))
	}
	return a, nil
}

// GetByTelegramID returns the athlete linked to a Telegram user.
func (r *AthleteRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Athlete, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+athleteColumns+` FROM public.athletes WHERE telegram_id = $1`, telegramID)
	a, err := scanAthlete(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("athlete with telegram id %d", telegramID))
	}
	return a, nil
}

// ListIDs returns the IDs of every athlete, oldest first.
func (r *AthleteRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM public.athletes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan athlete id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Save inserts the athlete when ID is zero and updates it otherwise.
func (r *AthleteRepository) Save(ctx context.Context, a *models.Athlete) error {
	var telegramID sql.NullInt64
	if a.TelegramID != 0 {
		telegramID = sql.NullInt64{Int64: a.TelegramID, Valid: true}
	}
	var weight sql.NullFloat64
	if a.WeightKg != nil {
		weight = sql.NullFloat64{Float64: *a.WeightKg, Valid: true}
	}
	lang := a.Lang
	if lang == "" {
		lang = "es"
	}

	args := []any{
		telegramID, a.Name, a.TrainingLevel, a.ActivityLevel,
		pq.Array(toInt64s(a.Ages)), pq.Array(nonNil(a.Genders)), pq.Array(nonNilFloats(a.BMIs)),
		weight, pq.Array(nonNil(a.Injuries)), lang,
	}

	if a.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO public.athletes
				(telegram_id, name, training_level, activity_level, ages, genders, bmis, weight_kg, injuries, lang)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at`, args...).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert athlete: %w", err)
		}
		a.Lang = lang
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE public.athletes
		SET telegram_id = $1, name = $2, training_level = $3, activity_level = $4,
		    ages = $5, genders = $6, bmis = $7, weight_kg = $8, injuries = $9, lang = $10
		WHERE id = $11`, append(args, a.ID)...)
	if err != nil {
		return fmt.Errorf("update athlete %d: %w", a.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update athlete %d: %w", a.ID, ErrNotFound)
	}
	a.Lang = lang
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFloats(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}
