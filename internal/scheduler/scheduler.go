package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/config"
	"github.com/mamadbah2/cacao/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Refresher rebuilds the shipment dataset.
type Refresher interface {
	Refresh(ctx context.Context) (*models.Dataset, error)
}

// DigestBuilder renders the season digest text.
type DigestBuilder interface {
	SeasonDigest(ctx context.Context, season string) (string, error)
}

// Sender delivers outbound messages.
type Sender interface {
	Send(ctx context.Context, req models.OutboundMessageRequest) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	digest    DigestBuilder
	sender    Sender
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running jobs in the configured timezone.
// sender may be nil, which disables the digest job.
func NewScheduler(cfg config.Config, refresher Refresher, digest DigestBuilder, sender Sender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		refresher: refresher,
		digest:    digest,
		sender:    sender,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Register adds the enabled jobs without starting the cron loop.
func (s *Scheduler) Register() error {
	if spec := s.cfg.Reporting.RefreshSchedule; spec != "" {
		if _, err := s.cron.AddFunc(spec, s.refreshDataset); err != nil {
			return fmt.Errorf("schedule dataset refresh %q: %w", spec, err)
		}
		s.logger.Info("dataset refresh scheduled", zap.String("schedule", spec))
	}

	if spec := s.cfg.Reporting.DigestSchedule; spec != "" && s.sender != nil && s.cfg.WhatsApp.Enabled() {
		if _, err := s.cron.AddFunc(spec, s.sendSeasonDigest); err != nil {
			return fmt.Errorf("schedule season digest %q: %w", spec, err)
		}
		s.logger.Info("season digest scheduled", zap.String("schedule", spec))
	}

	return nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", s.Entries()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshDataset() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	ds, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled refresh done", zap.Int("records", len(ds.Records)))
}

func (s *Scheduler) sendSeasonDigest() {
	s.logger.Info("generating season digest")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	text, err := s.digest.SeasonDigest(ctx, "")
	if err != nil {
		s.logger.Error("failed to generate season digest", zap.Error(err))
		return
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.WhatsApp.DigestRecipient,
		Message: text,
	}

	id, err := s.sender.Send(ctx, req)
	if err != nil {
		s.logger.Error("failed to send season digest", zap.Error(err))
		return
	}
	s.logger.Info("season digest sent", zap.String("message_id", id))
}
