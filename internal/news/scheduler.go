package news

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler wires the ingest poll and the status-sync job onto cron
// schedules, grounded on the teacher's DataFetcherService
// (internal/services/data_fetcher.go): its own *cron.Cron created in
// NewScheduler, a running-guard mutex, and an immediate first ingest run
// fired in the background once scheduling succeeds.
type Scheduler struct {
	cron         *cron.Cron
	logger       *logrus.Logger
	mu           sync.Mutex
	isRunning    bool
	ingestor     *Ingestor
	statusSync   *StatusSyncJob
	pollInterval time.Duration
}

func NewScheduler(ingestor *Ingestor, statusSync *StatusSyncJob, pollInterval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:         cron.New(),
		logger:       logger,
		ingestor:     ingestor,
		statusSync:   statusSync,
		pollInterval: pollInterval,
	}
}

// Start schedules the recurring ingest poll and status-sync job and
// fires an initial ingest in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("news: scheduler already running")
	}

	ingestSchedule := fmt.Sprintf("@every %s", s.pollInterval.String())
	if _, err := s.cron.AddFunc(ingestSchedule, func() { s.ingestor.IngestAll(ctx) }); err != nil {
		return fmt.Errorf("news: schedule ingest poll: %w", err)
	}

	if s.statusSync != nil {
		if _, err := s.cron.AddFunc("*/15 * * * *", func() {
			if err := s.statusSync.Run(ctx); err != nil {
				s.logger.WithError(err).Warn("news: status sync run failed")
			}
		}); err != nil {
			return fmt.Errorf("news: schedule status sync: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	go s.ingestor.IngestAll(ctx)

	s.logger.WithField("interval", s.pollInterval.String()).Info("news: scheduler started")
	return nil
}

// Stop drains running cron jobs before returning.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.isRunning = false
	s.logger.Info("news: scheduler stopped")
}
