// Package service runs the adaptive engine against stored athletes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/models"
)

// ErrNoBaselines is returned when an athlete has nothing to prescribe from.
var ErrNoBaselines = errors.New("athlete has no exercise baselines")

// EngineSource hands out the current engine; rules.Store implements it.
type EngineSource interface {
	Engine() *adaptive.Engine
}

// AthleteReader loads athletes.
type AthleteReader interface {
	GetByID(ctx context.Context, id int) (*models.Athlete, error)
}

// BaselineReader loads exercise baselines.
type BaselineReader interface {
	ListByAthlete(ctx context.Context, athleteID int) ([]models.ExerciseBaseline, error)
}

// PrescriptionStore persists engine results.
type PrescriptionStore interface {
	Save(ctx context.Context, prescriptions []models.Prescription) error
	ListLatestByAthlete(ctx context.Context, athleteID int) ([]models.Prescription, error)
}

// PrescriptionService recomputes and serves exercise prescriptions.
type PrescriptionService struct {
	engines       EngineSource
	athletes      AthleteReader
	baselines     BaselineReader
	prescriptions PrescriptionStore
	logger        *zap.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewPrescriptionService wires the service.
func NewPrescriptionService(engines EngineSource, athletes AthleteReader, baselines BaselineReader,
	prescriptions PrescriptionStore, logger *zap.Logger) *PrescriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrescriptionService{
		engines:       engines,
		athletes:      athletes,
		baselines:     baselines,
		prescriptions: prescriptions,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.New,
	}
}

// Preview runs the engine without touching storage.
func (s *PrescriptionService) Preview(base adaptive.Baseline, profile adaptive.AthleteProfile, ruleIDs []int) (adaptive.AdaptiveResult, error) {
	if err := ValidateBaseline(base); err != nil {
		return adaptive.AdaptiveResult{}, err
	}
	if err := ValidateProfile(profile); err != nil {
		return adaptive.AdaptiveResult{}, err
	}
	return s.engines.Engine().ReconstructPrescription(base, profile, ruleIDs...), nil
}

// Recompute prescribes every baseline of the athlete and stores the results.
func (s *PrescriptionService) Recompute(ctx context.Context, athleteID int, ruleIDs []int) ([]models.Prescription, error) {
	athlete, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	baselines, err := s.baselines.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if len(baselines) == 0 {
		return nil, fmt.Errorf("athlete %d: %w", athleteID, ErrNoBaselines)
	}

	// One engine for the whole batch, so a reload mid-run cannot mix tables.
	engine := s.engines.Engine()
	profile := athlete.Profile()
	computedAt := s.now().UTC()

	out := make([]models.Prescription, 0, len(baselines))
	for _, b := range baselines {
		result := engine.ReconstructPrescription(b.Baseline(), profile, ruleIDs...)
		out = append(out, models.Prescription{
			ID:         s.newID(),
			AthleteID:  athleteID,
			BaselineID: b.ID,
			Exercise:   b.Exercise,
			RuleIDs:    append([]int(nil), ruleIDs...),
			Result:     result,
			ComputedAt: computedAt,
		})
		s.logger.Info("prescription computed",
			zap.Int("athlete_id", athleteID),
			zap.String("exercise", b.Exercise),
			zap.Float64("factor_peso_total", result.LoadFactor),
			zap.Float64("factor_series_total", result.SeriesFactor),
			zap.Float64("factor_reps_total", result.RepsFactor),
			zap.Bool("capped_load", result.WasCapped.Load),
			zap.Bool("capped_series", result.WasCapped.Series),
		)
	}

	if err := s.prescriptions.Save(ctx, out); err != nil {
		return nil, fmt.Errorf("save prescriptions of athlete %d: %w", athleteID, err)
	}
	return out, nil
}

// Latest returns the most recent stored prescription of every baseline.
func (s *PrescriptionService) Latest(ctx context.Context, athleteID int) ([]models.Prescription, error) {
	if _, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return nil, err
	}
	return s.prescriptions.ListLatestByAthlete(ctx, athleteID)
}

// Athlete returns the stored athlete.
func (s *PrescriptionService) Athlete(ctx context.Context, athleteID int) (*models.Athlete, error) {
	return s.athletes.GetByID(ctx, athleteID)
}
