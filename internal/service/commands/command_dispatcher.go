package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/service/ledger"
	"github.com/mamadbah2/foodops/internal/service/operations"
	"github.com/mamadbah2/foodops/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// CashLedger is the part of the recalculator the chat channel uses.
type CashLedger interface {
	Add(ctx context.Context, ledger models.LedgerName, req ledger.AddRequest) (models.EntryResult, error)
	Balance(ctx context.Context, ledger models.LedgerName) (decimal.Decimal, error)
}

// ProductionRecorder stores processing batches.
type ProductionRecorder interface {
	CreateProduction(ctx context.Context, in operations.ProductionInput) (models.Production, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	Summarize(ctx context.Context, from, to time.Time) (models.Summary, error)
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	cash       CashLedger
	production ProductionRecorder
	reporting  ReportingAdapter
	logger     *zap.Logger
	now        func() time.Time
}

// NewService constructs a command dispatcher. reporting may be nil.
func NewService(cash CashLedger, production ProductionRecorder, reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cash:       cash,
		production: production,
		reporting:  reporting,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleCommand runs cmd and describes the outcome.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandCashIn, models.CommandCashOut:
		req, err := buildCashRequest(cmd, sender)
		if err != nil {
			return "", err
		}
		res, err := s.cash.Add(ctx, models.PettyCash, req)
		if err != nil {
			return "", err
		}
		label := "Cash in"
		if req.Type == models.Outflow {
			label = "Cash out"
		}
		return fmt.Sprintf("%s of %s recorded (#%d). Balance: %s.", label, req.Amount, res.ID, res.Balance), nil
	case models.CommandBalance:
		balance, err := s.cash.Balance(ctx, models.PettyCash)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Petty cash balance: %s.", balance), nil
	case models.CommandProduction:
		in, err := buildProductionInput(cmd)
		if err != nil {
			return "", err
		}
		p, err := s.production.CreateProduction(ctx, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Production saved: %s kg in, %s kg out, surplus %s kg.", p.KilosIn, p.KilosOut, p.Surplus), nil
	case models.CommandSummary:
		if s.reporting == nil {
			return "", ErrUnsupportedCommand
		}
		now := s.now().UTC()
		sum, err := s.reporting.Summarize(ctx, mondayStart(now), now)
		if err != nil {
			return "", err
		}
		return reporting.FormatSummary(sum), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// buildCashRequest reads "<amount> <description...>". The description keeps
// the sender's casing, so it is cut from Raw rather than the lowered Args.
func buildCashRequest(cmd models.Command, sender string) (ledger.AddRequest, error) {
	if len(cmd.Args) == 0 {
		return ledger.AddRequest{}, ErrInvalidArguments
	}

	amount, err := parseAmount(cmd.Args[0])
	if err != nil || !amount.IsPositive() {
		return ledger.AddRequest{}, ErrInvalidArguments
	}

	description := ""
	if raw := strings.Fields(cmd.Raw); len(raw) > 2 {
		description = strings.Join(raw[2:], " ")
	}
	if description == "" {
		description = "via WhatsApp " + sender
	}

	entryType := models.Inflow
	if cmd.Type == models.CommandCashOut {
		entryType = models.Outflow
	}

	return ledger.AddRequest{Amount: amount, Type: entryType, Description: description}, nil
}

func buildProductionInput(cmd models.Command) (operations.ProductionInput, error) {
	if len(cmd.Args) < 2 {
		return operations.ProductionInput{}, ErrInvalidArguments
	}

	kilosIn, err := parseAmount(cmd.Args[0])
	if err != nil {
		return operations.ProductionInput{}, ErrInvalidArguments
	}
	kilosOut, err := parseAmount(cmd.Args[1])
	if err != nil {
		return operations.ProductionInput{}, ErrInvalidArguments
	}

	return operations.ProductionInput{KilosIn: kilosIn, KilosOut: kilosOut}, nil
}

// parseAmount reads a number typed in chat. A lone comma followed by one or
// two digits is a decimal mark ("12,5"). Commas before groups of exactly
// three digits separate thousands ("1,000", "2,500,000"). Mixing commas and
// dots is ambiguous and refused.
func parseAmount(raw string) (decimal.Decimal, error) {
	if strings.Contains(raw, ",") {
		if strings.Contains(raw, ".") {
			return decimal.Zero, ErrInvalidArguments
		}
		parts := strings.Split(raw, ",")
		switch {
		case len(parts) == 2 && len(parts[0]) > 0 && (len(parts[1]) == 1 || len(parts[1]) == 2):
			raw = parts[0] + "." + parts[1]
		case thousandsGroups(parts):
			raw = strings.Join(parts, "")
		default:
			return decimal.Zero, ErrInvalidArguments
		}
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidArguments
	}
	return v, nil
}

func thousandsGroups(parts []string) bool {
	lead := strings.TrimPrefix(parts[0], "-")
	if lead == "" || len(lead) > 3 {
		return false
	}
	for _, group := range parts[1:] {
		if len(group) != 3 {
			return false
		}
	}
	return true
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
