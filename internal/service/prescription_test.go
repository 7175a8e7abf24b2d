package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/models"
	"adaptcoach/internal/repository"
)

func seededStore() *fakeStore {
	store := newFakeStore()
	store.athletes[1] = &models.Athlete{
		ID:            1,
		Name:          "Martín",
		TrainingLevel: "Advanced",
		Ages:          []int{40},
		Genders:       []string{"male"},
		Injuries:      []string{"Rodilla_high"},
	}
	four := 4
	store.baselines[1] = []models.ExerciseBaseline{
		{ID: 10, AthleteID: 1, Exercise: "Sentadilla", Sets: 4, Series: &four, Reps: 8, LoadKg: 80},
		{ID: 11, AthleteID: 1, Exercise: "Plancha", Sets: 3, Reps: 1},
	}
	store.athletes[2] = &models.Athlete{ID: 2, Name: "Sin plan"}
	return store
}

func newPrescriptionService(t *testing.T, store *fakeStore) *PrescriptionService {
	s := NewPrescriptionService(defaultEngines(), store, store, store, zaptest.NewLogger(t))
	s.now = func() time.Time { return time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC) }
	return s
}

func TestPrescriptionService_Recompute(t *testing.T) {
	store := seededStore()
	s := newPrescriptionService(t, store)

	got, err := s.Recompute(context.Background(), 1, []int{0})
	require.NoError(t, err)
	require.Len(t, got, 2)

	squat := got[0]
	assert.NotEqual(t, uuid.Nil, squat.ID)
	assert.Equal(t, 10, squat.BaselineID)
	assert.Equal(t, "Sentadilla", squat.Exercise)
	assert.Equal(t, []int{0}, squat.RuleIDs)
	assert.Equal(t, adaptive.Prescription{Sets: 4, Series: 4, Reps: 7, Load: 60}, squat.Result.Final)
	assert.Equal(t, time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), squat.ComputedAt)

	assert.Equal(t, 0.0, got[1].Result.Final.Load)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Len(t, store.prescriptions, 2)
}

func TestPrescriptionService_RecomputeErrors(t *testing.T) {
	store := seededStore()
	s := newPrescriptionService(t, store)

	_, err := s.Recompute(context.Background(), 2, nil)
	assert.ErrorIs(t, err, ErrNoBaselines)

	_, err = s.Recompute(context.Background(), 99, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	store.saveErr = errors.New("disk full")
	_, err = s.Recompute(context.Background(), 1, nil)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, store.prescriptions)
}

func TestPrescriptionService_Latest(t *testing.T) {
	store := seededStore()
	s := newPrescriptionService(t, store)

	_, err := s.Recompute(context.Background(), 1, nil)
	require.NoError(t, err)
	second, err := s.Recompute(context.Background(), 1, []int{3})
	require.NoError(t, err)

	latest, err := s.Latest(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, second[0].ID, latest[0].ID)
	assert.Equal(t, second[1].ID, latest[1].ID)

	_, err = s.Latest(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPrescriptionService_Preview(t *testing.T) {
	s := newPrescriptionService(t, newFakeStore())

	res, err := s.Preview(adaptive.Baseline{Sets: 3, Reps: 10, LoadKg: 50}, adaptive.AthleteProfile{}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, adaptive.Prescription{Sets: 3, Series: 3, Reps: 10, Load: 50}, res.Final)
	assert.Equal(t, []int{1, 2}, res.RuleIDs)

	_, err = s.Preview(adaptive.Baseline{Sets: 30}, adaptive.AthleteProfile{}, nil)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sets", verr.Field)

	_, err = s.Preview(adaptive.Baseline{Sets: 3}, adaptive.AthleteProfile{Ages: []int{200}}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ages", verr.Field)
}
