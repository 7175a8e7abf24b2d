package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

// AthleteStore loads and stores athletes; repository.AthleteRepository implements it.
type AthleteStore interface {
	AthleteReader
	Save(ctx context.Context, a *models.Athlete) error
}

// BaselineWriter stores exercise baselines; repository.BaselineRepository implements it.
type BaselineWriter interface {
	Save(ctx context.Context, b *models.ExerciseBaseline) error
}

// AthleteService registers athletes and their exercise baselines.
type AthleteService struct {
	athletes  AthleteStore
	baselines BaselineWriter
	logger    *zap.Logger
}

// NewAthleteService wires the service.
func NewAthleteService(athletes AthleteStore, baselines BaselineWriter, logger *zap.Logger) *AthleteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AthleteService{athletes: athletes, baselines: baselines, logger: logger}
}

// SaveAthlete validates and stores a. A zero ID creates the athlete; otherwise
// the existing row is replaced and repository.ErrNotFound reports a missing one.
func (s *AthleteService) SaveAthlete(ctx context.Context, a *models.Athlete) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ValidationError{Field: "name", Message: "is required"}
	}
	if a.Lang != "" {
		if !i18n.IsValidLanguage(a.Lang) {
			return ValidationError{Field: "lang", Message: fmt.Sprintf("unsupported language %q", a.Lang)}
		}
		a.Lang = string(i18n.ParseLanguage(a.Lang))
	}
	if err := ValidateProfile(a.Profile()); err != nil {
		return err
	}

	created := a.ID == 0
	if err := s.athletes.Save(ctx, a); err != nil {
		return fmt.Errorf("save athlete: %w", err)
	}
	s.logger.Info("athlete saved", zap.Int("athlete_id", a.ID), zap.Bool("created", created))
	return nil
}

// SaveBaseline stores b for the athlete. The athlete must exist; b.AthleteID is
// overwritten with athleteID.
func (s *AthleteService) SaveBaseline(ctx context.Context, athleteID int, b *models.ExerciseBaseline) error {
	if err := ValidateAthleteID(athleteID); err != nil {
		return err
	}
	b.Exercise = strings.TrimSpace(b.Exercise)
	if b.Exercise == "" {
		return ValidationError{Field: "exercise", Message: "is required"}
	}
	if b.Position < 0 {
		return ValidationError{Field: "position", Message: "must not be negative"}
	}
	if err := ValidateBaseline(b.Baseline()); err != nil {
		return err
	}
	if _, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return err
	}

	b.AthleteID = athleteID
	if err := s.baselines.Save(ctx, b); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	s.logger.Info("baseline saved",
		zap.Int("athlete_id", athleteID),
		zap.Int("baseline_id", b.ID),
		zap.String("exercise", b.Exercise),
	)
	return nil
}
