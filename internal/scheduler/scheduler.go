package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// Reporter produces and stores the daily summary.
type Reporter interface {
	ArchiveDaily(ctx context.Context, day time.Time) (models.Summary, error)
	ExportLedger(ctx context.Context) (int, error)
}

// Verifier re-folds a ledger chain.
type Verifier interface {
	Verify(ctx context.Context, ledger models.LedgerName) ([]models.BalanceMismatch, error)
}

// Notifier pushes a message to an operator.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	verifier Verifier
	notifier Notifier
	cfg      config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. notifier may be nil.
func NewScheduler(cfg config.Config, reporter Reporter, verifier Verifier, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		verifier: verifier,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.dailyReportJob); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.cfg.Reporting.CronSchedule, err)
	}
	if s.cfg.Reporting.VerifySchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.Reporting.VerifySchedule, s.verifyJob); err != nil {
			return fmt.Errorf("schedule verification %q: %w", s.cfg.Reporting.VerifySchedule, err)
		}
	}

	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.Reporting.CronSchedule),
		zap.String("verify_schedule", s.cfg.Reporting.VerifySchedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) dailyReportJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.runDailyReport(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
	}
}

func (s *Scheduler) verifyJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.runVerification(ctx); err != nil {
		s.logger.Error("ledger verification failed", zap.Error(err))
	}
}

func (s *Scheduler) runDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily report")

	summary, err := s.reporter.ArchiveDaily(ctx, s.now())
	if err != nil {
		return err
	}

	if n, err := s.reporter.ExportLedger(ctx); err != nil {
		s.logger.Warn("ledger export failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("ledger exported", zap.Int("rows", n))
	}

	return s.notify(ctx, reporting.FormatSummary(summary))
}

func (s *Scheduler) runVerification(ctx context.Context) error {
	mismatches, err := s.verifier.Verify(ctx, models.PettyCash)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		s.logger.Info("petty cash chain verified")
		return nil
	}

	ids := make([]string, len(mismatches))
	for i, m := range mismatches {
		ids[i] = fmt.Sprintf("#%d", m.ID)
	}
	s.logger.Warn("petty cash chain has mismatched balances", zap.Int("count", len(mismatches)), zap.Strings("ids", ids))
	return s.notify(ctx, fmt.Sprintf("Petty cash check found %d wrong balances (%s). Run foodopsctl rebuild.", len(mismatches), strings.Join(ids, ", ")))
}

func (s *Scheduler) notify(ctx context.Context, message string) error {
	if s.notifier == nil || s.cfg.WhatsApp.ManagerID == "" {
		s.logger.Debug("no notification target configured")
		return nil
	}
	if err := s.notifier.SendOutbound(ctx, models.OutboundMessageRequest{To: s.cfg.WhatsApp.ManagerID, Message: message}); err != nil {
		return fmt.Errorf("notify manager: %w", err)
	}
	return nil
}
