package service

import (
	"context"
	"fmt"
	"sync"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/models"
	"adaptcoach/internal/repository"
)

type staticEngine struct{ engine *adaptive.Engine }

func (s staticEngine) Engine() *adaptive.Engine { return s.engine }

func defaultEngines() EngineSource { return staticEngine{adaptive.NewEngine(nil)} }

type fakeStore struct {
	mu            sync.Mutex
	athletes      map[int]*models.Athlete
	baselines     map[int][]models.ExerciseBaseline
	prescriptions []models.Prescription
	targets       map[int]*models.NutritionTarget
	ingredients   map[int][]models.MealIngredient
	saveErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		athletes:    make(map[int]*models.Athlete),
		baselines:   make(map[int][]models.ExerciseBaseline),
		targets:     make(map[int]*models.NutritionTarget),
		ingredients: make(map[int][]models.MealIngredient),
	}
}

func (f *fakeStore) GetByID(_ context.Context, id int) (*models.Athlete, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.athletes[id]
	if !ok {
		return nil, fmt.Errorf("athlete %d: %w", id, repository.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListByAthlete(_ context.Context, athleteID int) ([]models.ExerciseBaseline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ExerciseBaseline(nil), f.baselines[athleteID]...), nil
}

func (f *fakeStore) Save(_ context.Context, prescriptions []models.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.prescriptions = append(f.prescriptions, prescriptions...)
	return nil
}

func (f *fakeStore) ListLatestByAthlete(_ context.Context, athleteID int) ([]models.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := make(map[int]int)
	var order []int
	for i, p := range f.prescriptions {
		if p.AthleteID != athleteID {
			continue
		}
		if _, seen := latest[p.BaselineID]; !seen {
			order = append(order, p.BaselineID)
		}
		latest[p.BaselineID] = i
	}
	var out []models.Prescription
	for _, id := range order {
		out = append(out, f.prescriptions[latest[id]])
	}
	return out, nil
}

func (f *fakeStore) GetTarget(_ context.Context, athleteID int) (*models.NutritionTarget, error) {
	t, ok := f.targets[athleteID]
	if !ok {
		return nil, fmt.Errorf("nutrition target of athlete %d: %w", athleteID, repository.ErrNotFound)
	}
	return t, nil
}

func (f *fakeStore) ListIngredients(_ context.Context, athleteID int) ([]models.MealIngredient, error) {
	return f.ingredients[athleteID], nil
}

// fakeAthleteRepo adds athlete writes on top of fakeStore.
type fakeAthleteRepo struct {
	*fakeStore
	nextID int
	err    error
}

func (f *fakeAthleteRepo) Save(_ context.Context, a *models.Athlete) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if a.ID == 0 {
		f.nextID++
		a.ID = f.nextID
	} else if _, ok := f.athletes[a.ID]; !ok {
		return fmt.Errorf("update athlete %d: %w", a.ID, repository.ErrNotFound)
	}
	cp := *a
	f.athletes[a.ID] = &cp
	return nil
}

type fakeBaselineRepo struct {
	mu    sync.Mutex
	saved []models.ExerciseBaseline
	err   error
}

func (f *fakeBaselineRepo) Save(_ context.Context, b *models.ExerciseBaseline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b.ID = 100 + len(f.saved)
	f.saved = append(f.saved, *b)
	return nil
}
