package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/domain/models"
)

type fakeReporter struct {
	days      []time.Time
	exportErr error
}

func (f *fakeReporter) ArchiveDaily(_ context.Context, day time.Time) (models.Summary, error) {
	f.days = append(f.days, day)
	return models.Summary{From: day, To: day, CashBalance: "420"}, nil
}

func (f *fakeReporter) ExportLedger(context.Context) (int, error) {
	return 0, f.exportErr
}

type fakeVerifier struct {
	mismatches []models.BalanceMismatch
}

func (f fakeVerifier) Verify(context.Context, models.LedgerName) ([]models.BalanceMismatch, error) {
	return f.mismatches, nil
}

type fakeNotifier struct {
	sent []models.OutboundMessageRequest
}

func (f *fakeNotifier) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		WhatsApp:  config.WhatsAppConfig{ManagerID: "224600000000"},
		Reporting: config.ReportingConfig{CronSchedule: "0 20 * * *", VerifySchedule: "0 6 * * 1", Timezone: "UTC"},
	}
}

func TestRunDailyReport(t *testing.T) {
	rep := &fakeReporter{exportErr: errors.New("sheets down")}
	notifier := &fakeNotifier{}
	s, err := NewScheduler(testConfig(), rep, fakeVerifier{}, notifier, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	fixed := time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.runDailyReport(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.days) != 1 || !rep.days[0].Equal(fixed) {
		t.Fatalf("archived days = %v", rep.days)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].To != "224600000000" || !strings.Contains(notifier.sent[0].Message, "balance 420") {
		t.Fatalf("sent = %+v", notifier.sent)
	}
}

func TestRunVerification(t *testing.T) {
	tests := []struct {
		name       string
		mismatches []models.BalanceMismatch
		wantSent   int
	}{
		{name: "clean chain", wantSent: 0},
		{name: "broken chain", mismatches: []models.BalanceMismatch{{ID: 2, Stored: decimal.NewFromInt(999), Expected: decimal.NewFromInt(450)}}, wantSent: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			s, err := NewScheduler(testConfig(), &fakeReporter{}, fakeVerifier{mismatches: tt.mismatches}, notifier, nil)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if err := s.runVerification(context.Background()); err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(notifier.sent) != tt.wantSent {
				t.Fatalf("sent = %+v", notifier.sent)
			}
			if tt.wantSent > 0 && !strings.Contains(notifier.sent[0].Message, "#2") {
				t.Fatalf("message = %q", notifier.sent[0].Message)
			}
		})
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Reporting.CronSchedule = "every evening"
	s, err := NewScheduler(cfg, &fakeReporter{}, fakeVerifier{}, nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected schedule error")
	}
}

func TestNewSchedulerBadTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Reporting.Timezone = "Mars/Olympus"
	if _, err := NewScheduler(cfg, &fakeReporter{}, fakeVerifier{}, nil, nil); err == nil {
		t.Fatal("expected timezone error")
	}
}
