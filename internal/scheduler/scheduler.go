// Package scheduler recomputes every athlete's prescriptions on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/models"
	"adaptcoach/internal/service"
)

// AthleteLister lists the athletes to recompute.
type AthleteLister interface {
	ListIDs(ctx context.Context) ([]int, error)
}

// Recomputer recomputes one athlete; service.PrescriptionService implements it.
type Recomputer interface {
	Recompute(ctx context.Context, athleteID int, ruleIDs []int) ([]models.Prescription, error)
	Athlete(ctx context.Context, athleteID int) (*models.Athlete, error)
}

// Publisher pushes fresh prescriptions somewhere coaches look at them.
type Publisher interface {
	PublishPrescriptions(ctx context.Context, athleteName string, prescriptions []models.Prescription) error
}

// Summary counts the outcome of one run.
type Summary struct {
	Athletes   int
	Recomputed int
	Skipped    int
	Failed     int
	Published  int
}

// Scheduler runs the nightly recompute.
type Scheduler struct {
	spec      string
	athletes  AthleteLister
	recompute Recomputer
	publisher Publisher
	logger    *zap.Logger

	cron    *cron.Cron
	running atomic.Bool

	mu       sync.Mutex
	stopped  bool
	inflight sync.WaitGroup
}

// New validates spec (six fields, seconds first) and prepares the scheduler.
// publisher may be nil.
func New(spec string, athletes AthleteLister, recompute Recomputer, publisher Publisher, logger *zap.Logger) (*Scheduler, error) {
	if _, err := cron.Parse(spec); err != nil {
		return nil, fmt.Errorf("recompute schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		spec:      spec,
		athletes:  athletes,
		recompute: recompute,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// Start schedules the job. Runs use ctx, so cancelling it aborts a run in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()
	err := c.AddFunc(s.spec, func() { s.scheduled(ctx) })
	if err != nil {
		return fmt.Errorf("schedule recompute: %w", err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("recompute scheduled", zap.String("spec", s.spec))
	return nil
}

// scheduled is the cron job. It registers with inflight so Stop can wait for it.
func (s *Scheduler) scheduled(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled recompute failed", zap.Error(err))
	}
}

// Stop stops scheduling new runs and waits for a scheduled run in progress to
// finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}
	s.inflight.Wait()
}

// ErrAlreadyRunning is returned by RunOnce while another run is in progress.
var ErrAlreadyRunning = errors.New("recompute already running")

// RunOnce recomputes every athlete with the master rule set. A failing athlete is
// logged and skipped; only a failure to list athletes aborts the run.
func (s *Scheduler) RunOnce(ctx context.Context) (Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Summary{}, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	var sum Summary
	ids, err := s.athletes.ListIDs(ctx)
	if err != nil {
		return sum, fmt.Errorf("list athletes: %w", err)
	}
	sum.Athletes = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		prescriptions, err := s.recompute.Recompute(ctx, id, []int{adaptive.MasterRule})
		switch {
		case errors.Is(err, service.ErrNoBaselines):
			sum.Skipped++
			s.logger.Debug("athlete has no baselines", zap.Int("athlete_id", id))
			continue
		case err != nil:
			sum.Failed++
			s.logger.Error("recompute failed", zap.Int("athlete_id", id), zap.Error(err))
			continue
		}
		sum.Recomputed++

		if s.publisher == nil {
			continue
		}
		athlete, err := s.recompute.Athlete(ctx, id)
		if err == nil {
			err = s.publisher.PublishPrescriptions(ctx, athlete.Name, prescriptions)
		}
		if err != nil {
			s.logger.Warn("publish failed", zap.Int("athlete_id", id), zap.Error(err))
			continue
		}
		sum.Published++
	}

	s.logger.Info("recompute finished",
		zap.Int("athletes", sum.Athletes),
		zap.Int("recomputed", sum.Recomputed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
		zap.Int("published", sum.Published),
	)
	return sum, nil
}
