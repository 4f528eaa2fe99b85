// Package schedule repeats a crawl on a fixed interval using robfig/cron.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var ErrInterval = errors.New("schedule interval must be at least one second")

// Job is one scheduled cycle. It should return once ctx is done.
type Job func(ctx context.Context)

// Scheduler fires a Job once at start and then every interval.
// Overlapping cycles are skipped rather than queued.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    cron.Job
	run    Job
	logger zerolog.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func New(every time.Duration, job Job, logger zerolog.Logger) (*Scheduler, error) {
	if every < time.Second {
		return nil, ErrInterval
	}
	if job == nil {
		return nil, errors.New("schedule job is nil")
	}
	cronLogger := cronLog{logger: logger}
	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger)),
		spec:   "@every " + every.String(),
		run:    job,
		logger: logger,
	}
	return s, nil
}

func (s *Scheduler) Spec() string {
	return s.spec
}

// Start registers the job, starts the cron loop and kicks off one cycle
// immediately without blocking.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}

	s.job = cron.NewChain(cron.SkipIfStillRunning(cronLog{logger: s.logger})).Then(cron.FuncJob(func() {
		s.cycle(ctx)
	}))
	if _, err := s.cron.AddJob(s.spec, s.job); err != nil {
		return fmt.Errorf("cron.AddJob: %w", err)
	}

	s.cron.Start()
	s.started = true
	s.logger.Info().Str("spec", s.spec).Msg("scheduler started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
	return nil
}

// Stop halts the cron loop and waits for any running cycle to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.started = false
	s.logger.Info().Msg("scheduler stopped")
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	started := time.Now()
	s.logger.Debug().Msg("cycle started")
	s.run(ctx)
	s.logger.Debug().Dur("elapsed", time.Since(started)).Msg("cycle complete")
}

// cronLog adapts zerolog to cron.Logger.
type cronLog struct {
	logger zerolog.Logger
}

func (l cronLog) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLog) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
