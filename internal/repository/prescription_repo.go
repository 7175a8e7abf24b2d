package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"adaptcoach/internal/models"
)

// PrescriptionRepository works with the prescriptions table. The engine result
// is stored whole as JSONB so the audit trail survives table changes.
type PrescriptionRepository struct {
	db *sql.DB
}

// NewPrescriptionRepository creates the prescription repository.
func NewPrescriptionRepository(db *sql.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

// Save stores a batch of prescriptions in one transaction.
func (r *PrescriptionRepository) Save(ctx context.Context, prescriptions []models.Prescription) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO public.prescriptions (id, athlete_id, baseline_id, exercise, rule_ids, result, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range prescriptions {
		result, err := json.Marshal(p.Result)
		if err != nil {
			return fmt.Errorf("encode result of %s: %w", p.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			p.ID, p.AthleteID, p.BaselineID, p.Exercise,
			pq.Array(toInt64s(p.RuleIDs)), result, p.ComputedAt)
		if err != nil {
			return fmt.Errorf("insert prescription %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// listLatestQuery picks the newest row per baseline, then orders the picks the
// way the athlete's routine lists its exercises.
const listLatestQuery = `
	SELECT latest.id, latest.athlete_id, latest.baseline_id, latest.exercise,
	       latest.rule_ids, latest.result, latest.computed_at
	FROM (
		SELECT DISTINCT ON (p.baseline_id)
		       p.id, p.athlete_id, p.baseline_id, p.exercise, p.rule_ids, p.result, p.computed_at,
		       b.position
		FROM public.prescriptions p
		JOIN public.exercise_baselines b ON b.id = p.baseline_id
		WHERE p.athlete_id = $1
		ORDER BY p.baseline_id, p.computed_at DESC
	) latest
	ORDER BY latest.position, latest.baseline_id`

// ListLatestByAthlete returns the most recent prescription of every baseline,
// in routine order.
func (r *PrescriptionRepository) ListLatestByAthlete(ctx context.Context, athleteID int) ([]models.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, listLatestQuery, athleteID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions of athlete %d: %w", athleteID, err)
	}
	defer rows.Close()

	var out []models.Prescription
	for rows.Next() {
		var (
			p       models.Prescription
			ruleIDs []int64
			result  []byte
		)
		err := rows.Scan(&p.ID, &p.AthleteID, &p.BaselineID, &p.Exercise,
			pq.Array(&ruleIDs), &result, &p.ComputedAt)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		if err := json.Unmarshal(result, &p.Result); err != nil {
			return nil, fmt.Errorf("decode result of %s: %w", p.ID, err)
		}
		p.RuleIDs = fromInt64s(ruleIDs)
		out = append(out, p)
	}
	return out, rows.Err()
}
