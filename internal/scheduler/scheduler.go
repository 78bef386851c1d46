package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/service/reporting"
)

// Summarizer computes the closing summary of a day.
type Summarizer interface {
	Summarize(ctx context.Context, day time.Time) (models.DailySummary, error)
}

// Archive stores closing summaries.
type Archive interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Notifier delivers the closing message.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler runs the daily closing job. Archive and notifier are optional.
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	summarizer Summarizer
	archive    Archive
	notifier   Notifier
	recipient  string
	logger     *zap.Logger
	now        func() time.Time
}

// NewScheduler creates a scheduler evaluating schedule in loc.
func NewScheduler(schedule string, loc *time.Location, summarizer Summarizer, archive Archive, notifier Notifier, recipient string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	// Standard 5-field cron expressions.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:       c,
		schedule:   schedule,
		summarizer: summarizer,
		archive:    archive,
		notifier:   notifier,
		recipient:  recipient,
		logger:     logger,
		now:        time.Now,
	}
}

// Start registers the closing job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runClosing); err != nil {
		return fmt.Errorf("schedule closing summary %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runClosing() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunClosing(ctx); err != nil {
		s.logger.Error("closing summary failed", zap.Error(err))
	}
}

// RunClosing computes today's summary, archives it and notifies the manager.
// A failing archive does not prevent the notification.
func (s *Scheduler) RunClosing(ctx context.Context) error {
	s.logger.Info("generating closing summary")

	summary, err := s.summarizer.Summarize(ctx, s.now())
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	var firstErr error

	if s.archive != nil {
		if err := s.archive.SaveDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to archive closing summary", zap.Error(err))
			firstErr = err
		}
	}

	if s.notifier != nil && s.recipient != "" {
		req := models.OutboundMessageRequest{
			To:      s.recipient,
			Message: reporting.FormatSummary(summary),
		}
		if err := s.notifier.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send closing summary", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		} else {
			s.logger.Info("closing summary sent")
		}
	}

	return firstErr
}
