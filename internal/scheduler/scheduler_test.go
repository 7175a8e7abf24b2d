package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"adaptcoach/internal/models"
	"adaptcoach/internal/service"
)

type fakeAthletes struct {
	ids []int
	err error
}

func (f fakeAthletes) ListIDs(context.Context) ([]int, error) { return f.ids, f.err }

type fakeRecomputer struct {
	mu      sync.Mutex
	errs    map[int]error
	calls   map[int][]int
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeRecomputer) Recompute(_ context.Context, id int, ruleIDs []int) ([]models.Prescription, error) {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[int][]int)
	}
	f.calls[id] = ruleIDs
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return []models.Prescription{{AthleteID: id, Exercise: "Press banca"}}, nil
}

func (f *fakeRecomputer) Athlete(_ context.Context, id int) (*models.Athlete, error) {
	return &models.Athlete{ID: id, Name: fmt.Sprintf("athlete-%d", id)}, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	failFor   string
}

func (f *fakePublisher) PublishPrescriptions(_ context.Context, name string, _ []models.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == f.failFor {
		return errors.New("quota exceeded")
	}
	f.published = append(f.published, name)
	return nil
}

func TestRunOnce(t *testing.T) {
	rec := &fakeRecomputer{errs: map[int]error{
		2: fmt.Errorf("athlete 2: %w", service.ErrNoBaselines),
		3: errors.New("db down"),
	}}
	pub := &fakePublisher{failFor: "athlete-4"}

	s, err := New("0 0 3 * * *", fakeAthletes{ids: []int{1, 2, 3, 4}}, rec, pub, zaptest.NewLogger(t))
	require.NoError(t, err)

	sum, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Athletes: 4, Recomputed: 2, Skipped: 1, Failed: 1, Published: 1}, sum)
	assert.Equal(t, []string{"athlete-1"}, pub.published)
	for id := 1; id <= 4; id++ {
		assert.Equal(t, []int{0}, rec.calls[id], "athlete %d uses the master rule", id)
	}
}

func TestRunOnce_WithoutPublisher(t *testing.T) {
	s, err := New("@daily", fakeAthletes{ids: []int{7}}, &fakeRecomputer{}, nil, nil)
	require.NoError(t, err)

	sum, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Athletes: 1, Recomputed: 1}, sum)
}

func TestRunOnce_ListFailure(t *testing.T) {
	s, err := New("@daily", fakeAthletes{err: errors.New("timeout")}, &fakeRecomputer{}, nil, nil)
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "list athletes: timeout")
}

func TestRunOnce_CancelledContext(t *testing.T) {
	s, err := New("@daily", fakeAthletes{ids: []int{1, 2}}, &fakeRecomputer{}, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunOnce_RejectsOverlap(t *testing.T) {
	rec := &fakeRecomputer{block: make(chan struct{}), entered: make(chan struct{})}
	s, err := New("@daily", fakeAthletes{ids: []int{1}}, rec, nil, nil)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		_, err := s.RunOnce(context.Background())
		done <- err
	}()
	<-rec.entered

	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(rec.block)
	require.NoError(t, <-done)
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every night", fakeAthletes{}, &fakeRecomputer{}, nil, nil)
	assert.ErrorContains(t, err, `recompute schedule "every night"`)
}

func TestStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New("0 0 3 * * *", fakeAthletes{}, &fakeRecomputer{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestStop_WaitsForScheduledRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &fakeRecomputer{block: make(chan struct{}), entered: make(chan struct{})}
	s, err := New("@daily", fakeAthletes{ids: []int{1}}, rec, nil, nil)
	require.NoError(t, err)

	runDone := make(chan struct{})
	go func() {
		s.scheduled(context.Background())
		close(runDone)
	}()
	<-rec.entered

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a run was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(rec.block)
	<-runDone
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the run finished")
	}
}

func TestScheduled_SkipsAfterStop(t *testing.T) {
	rec := &fakeRecomputer{}
	s, err := New("@daily", fakeAthletes{ids: []int{1}}, rec, nil, nil)
	require.NoError(t, err)

	s.Stop()
	s.scheduled(context.Background())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Empty(t, rec.calls)
}
