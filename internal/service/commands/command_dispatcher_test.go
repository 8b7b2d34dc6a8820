package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository/memory"
	"github.com/mamadbah2/foodops/internal/service/ledger"
	"github.com/mamadbah2/foodops/internal/service/operations"
	"github.com/mamadbah2/foodops/internal/service/reporting"
)

func newDispatcher() (*Service, *ledger.Service) {
	store := memory.New()
	cash := ledger.NewService(store, nil, nil)
	ops := operations.NewService(store, nil, nil)
	rep := reporting.NewService(reporting.Dependencies{Ledger: cash, Operations: ops}, nil)
	return NewService(cash, ops, rep, nil), cash
}

func TestHandleCommandCash(t *testing.T) {
	svc, cash := newDispatcher()
	ctx := context.Background()

	steps := []struct {
		text string
		want string
	}{
		{text: "/cashin 500 Avance Client", want: "Cash in of 500 recorded (#1). Balance: 500."},
		{text: "/cashout 50 Carburant", want: "Cash out of 50 recorded (#2). Balance: 450."},
		{text: "/cashout 30", want: "Balance: 420."},
		{text: "/balance", want: "Petty cash balance: 420."},
	}
	for _, step := range steps {
		reply, err := svc.HandleCommand(ctx, models.ParseCommand(step.text), "224600000000")
		if err != nil {
			t.Fatalf("%s: %v", step.text, err)
		}
		if !strings.Contains(reply, step.want) {
			t.Fatalf("%s: reply %q, want %q", step.text, reply, step.want)
		}
	}

	entries, _ := cash.List(ctx, models.PettyCash)
	if entries[0].Description != "Avance Client" {
		t.Fatalf("description = %q, casing lost", entries[0].Description)
	}
	if entries[2].Description != "via WhatsApp 224600000000" {
		t.Fatalf("default description = %q", entries[2].Description)
	}
}

func TestHandleCommandErrors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{text: "/cashin", want: ErrInvalidArguments},
		{text: "/cashin abc", want: ErrInvalidArguments},
		{text: "/cashout -5 refund", want: ErrInvalidArguments},
		{text: "/cashin 1.000,50 float", want: ErrInvalidArguments},
		{text: "/cashin 1,0000 float", want: ErrInvalidArguments},
		{text: "/production 100", want: ErrInvalidArguments},
		{text: "/eggs 12", want: ErrUnsupportedCommand},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			svc, _ := newDispatcher()
			_, err := svc.HandleCommand(context.Background(), models.ParseCommand(tt.text), "x")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "500", want: "500"},
		{raw: "1,000", want: "1000"},
		{raw: "2,500,000", want: "2500000"},
		{raw: "1,5", want: "1.5"},
		{raw: "12,50", want: "12.5"},
		{raw: "12.75", want: "12.75"},
		{raw: "1.000,50", wantErr: true},
		{raw: "1,000.50", wantErr: true},
		{raw: "1,0000", wantErr: true},
		{raw: "12,345,6", wantErr: true},
		{raw: "1234,567", wantErr: true},
		{raw: ",50", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArguments) {
					t.Fatalf("parseAmount(%q) err = %v, want ErrInvalidArguments", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q): %v", tt.raw, err)
			}
			if got.String() != tt.want {
				t.Fatalf("parseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCashInThousandsSeparator(t *testing.T) {
	svc, cash := newDispatcher()
	ctx := context.Background()

	if _, err := svc.HandleCommand(ctx, models.ParseCommand("/cashin 1,000 float"), "x"); err != nil {
		t.Fatalf("cashin: %v", err)
	}
	bal, err := cash.Balance(ctx, models.PettyCash)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.String() != "1000" {
		t.Fatalf("balance = %s, want 1000", bal)
	}
}

func TestHandleCommandProductionAndSummary(t *testing.T) {
	svc, _ := newDispatcher()
	svc.now = func() time.Time { return time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	reply, err := svc.HandleCommand(ctx, models.ParseCommand("/production 1000 120"), "x")
	if err != nil {
		t.Fatalf("production: %v", err)
	}
	if !strings.Contains(reply, "surplus 20 kg") {
		t.Fatalf("reply = %q", reply)
	}

	reply, err = svc.HandleCommand(ctx, models.ParseCommand("/summary"), "x")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.HasPrefix(reply, "Summary 2024-03-11 - 2024-03-14") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestMondayStart(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC)
	if got := mondayStart(sunday); got.Day() != 11 || got.Weekday() != time.Monday {
		t.Fatalf("mondayStart(sunday) = %v", got)
	}
}
