package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/config"
)

// DigestSender produces and delivers the weekly digests of every breeder.
type DigestSender interface {
	SendWeeklyDigests(ctx context.Context, end time.Time) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	digests  DigestSender
	schedule string
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, digests DigestSender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		digests:  digests,
		schedule: cfg.CronSchedule,
		timeout:  2 * time.Minute,
		now:      func() time.Time { return time.Now().In(loc) },
		logger:   logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendWeeklyDigests); err != nil {
		return fmt.Errorf("schedule weekly digest %q: %w", s.schedule, err)
	}
	s.logger.Info("starting scheduler", zap.String("weekly_digest", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyDigests() {
	s.logger.Info("generating weekly digests")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.digests.SendWeeklyDigests(ctx, s.now()); err != nil {
		s.logger.Error("weekly digest run finished with errors", zap.Error(err))
		return
	}
	s.logger.Info("weekly digests sent")
}
