package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"adaptcoach/internal/models"
	"adaptcoach/internal/repository"
)

func newAthleteService(t *testing.T) (*AthleteService, *fakeAthleteRepo, *fakeBaselineRepo) {
	athletes := &fakeAthleteRepo{fakeStore: seededStore(), nextID: 2}
	baselines := &fakeBaselineRepo{}
	return NewAthleteService(athletes, baselines, zaptest.NewLogger(t)), athletes, baselines
}

func TestAthleteService_SaveAthlete_Create(t *testing.T) {
	s, repo, _ := newAthleteService(t)

	a := &models.Athlete{Name: "  Lucía ", TrainingLevel: "principiante", Ages: []int{29}, Lang: "EN"}
	require.NoError(t, s.SaveAthlete(context.Background(), a))

	assert.Equal(t, 3, a.ID)
	assert.Equal(t, "Lucía", a.Name)
	assert.Equal(t, "en", a.Lang)

	stored, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "principiante", stored.TrainingLevel)
}

func TestAthleteService_SaveAthlete_Update(t *testing.T) {
	s, repo, _ := newAthleteService(t)

	require.NoError(t, s.SaveAthlete(context.Background(), &models.Athlete{ID: 2, Name: "Con plan", Injuries: []string{"hombro_leve"}}))
	stored, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"hombro_leve"}, stored.Injuries)

	err = s.SaveAthlete(context.Background(), &models.Athlete{ID: 42, Name: "Nadie"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAthleteService_SaveAthlete_Invalid(t *testing.T) {
	weight := 900.0
	tests := []struct {
		name    string
		athlete models.Athlete
		field   string
	}{
		{name: "blank name", athlete: models.Athlete{Name: "   "}, field: "name"},
		{name: "unknown language", athlete: models.Athlete{Name: "Ana", Lang: "fr"}, field: "lang"},
		{name: "age out of range", athlete: models.Athlete{Name: "Ana", Ages: []int{130}}, field: "ages"},
		{name: "weight out of range", athlete: models.Athlete{Name: "Ana", WeightKg: &weight}, field: "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, _ := newAthleteService(t)
			a := tt.athlete
			err := s.SaveAthlete(context.Background(), &a)
			checkField(t, err, tt.field)
			assert.Equal(t, 2, repo.nextID, "nothing stored")
		})
	}
}

func TestAthleteService_SaveAthlete_StoreFailure(t *testing.T) {
	s, repo, _ := newAthleteService(t)
	repo.err = errors.New("connection refused")

	err := s.SaveAthlete(context.Background(), &models.Athlete{Name: "Ana"})
	assert.EqualError(t, err, "save athlete: connection refused")
}

func TestAthleteService_SaveBaseline(t *testing.T) {
	s, _, baselines := newAthleteService(t)

	b := &models.ExerciseBaseline{AthleteID: 99, Exercise: " Press banca ", Sets: 4, Reps: 10, LoadKg: 60, Position: 1}
	require.NoError(t, s.SaveBaseline(context.Background(), 1, b))

	assert.Equal(t, 100, b.ID)
	require.Len(t, baselines.saved, 1)
	assert.Equal(t, 1, baselines.saved[0].AthleteID)
	assert.Equal(t, "Press banca", baselines.saved[0].Exercise)
}

func TestAthleteService_SaveBaseline_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		athleteID int
		baseline  models.ExerciseBaseline
		field     string
		wantErr   error
	}{
		{name: "bad athlete id", athleteID: 0, baseline: models.ExerciseBaseline{Exercise: "Remo"}, field: "id"},
		{name: "missing exercise", athleteID: 1, baseline: models.ExerciseBaseline{Sets: 3}, field: "exercise"},
		{name: "negative position", athleteID: 1, baseline: models.ExerciseBaseline{Exercise: "Remo", Position: -1}, field: "position"},
		{name: "reps out of range", athleteID: 1, baseline: models.ExerciseBaseline{Exercise: "Remo", Reps: 500}, field: "reps"},
		{name: "unknown athlete", athleteID: 42, baseline: models.ExerciseBaseline{Exercise: "Remo", Sets: 3}, wantErr: repository.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, baselines := newAthleteService(t)
			b := tt.baseline
			err := s.SaveBaseline(context.Background(), tt.athleteID, &b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				checkField(t, err, tt.field)
			}
			assert.Empty(t, baselines.saved)
		})
	}
}
