package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
	"github.com/mamadbah2/foodops/internal/repository/sheets"
)

const dateLayout = "2006-01-02"

// LedgerReader lists a ledger in id order.
type LedgerReader interface {
	List(ctx context.Context, ledger models.LedgerName) ([]models.LedgerEntry, error)
}

// OperationsReader lists the dated operations a summary aggregates.
type OperationsReader interface {
	ListProduction(ctx context.Context, w repository.Window) ([]models.Production, error)
	ListPurchases(ctx context.Context, w repository.Window) ([]models.Purchase, error)
	ListDeliveries(ctx context.Context, w repository.Window) ([]models.Delivery, error)
	ListExpenses(ctx context.Context, w repository.Window) ([]models.Expense, error)
	ListSalaryPayments(ctx context.Context, w repository.Window) ([]models.SalaryPayment, error)
}

// Dependencies groups the reporting collaborators. Archive and Sheet are
// optional.
type Dependencies struct {
	Ledger     LedgerReader
	Operations OperationsReader
	Archive    repository.SummaryArchive
	Sheet      sheets.Sheet
	SheetRange string
	Location   *time.Location
}

// Service builds summaries and pushes them to the archive and the sheet.
type Service struct {
	ledger     LedgerReader
	ops        OperationsReader
	archive    repository.SummaryArchive
	sheet      sheets.Sheet
	sheetRange string
	location   *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(deps Dependencies, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		ledger:     deps.Ledger,
		ops:        deps.Operations,
		archive:    deps.Archive,
		sheet:      deps.Sheet,
		sheetRange: deps.SheetRange,
		location:   loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Summarize aggregates every entity dated inside [from, to]. The cash
// balance is the stored balance of the highest id in the whole ledger.
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (models.Summary, error) {
	w := repository.Window{From: from, To: to}

	entries, err := s.ledger.List(ctx, models.PettyCash)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load petty cash: %w", err)
	}
	cashIn, cashOut, balance := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range entries {
		balance = e.Balance
		if !w.Contains(e.Date) {
			continue
		}
		if e.Type == models.Inflow {
			cashIn = cashIn.Add(e.Amount)
		} else {
			cashOut = cashOut.Add(e.Amount)
		}
	}

	purchases, err := s.ops.ListPurchases(ctx, w)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load purchases: %w", err)
	}
	purchasedKilos, purchaseCost := decimal.Zero, decimal.Zero
	for _, p := range purchases {
		purchasedKilos = purchasedKilos.Add(p.Kilos)
		purchaseCost = purchaseCost.Add(p.Total)
	}

	batches, err := s.ops.ListProduction(ctx, w)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load production: %w", err)
	}
	kilosIn, kilosOut, surplus := decimal.Zero, decimal.Zero, decimal.Zero
	for _, b := range batches {
		kilosIn = kilosIn.Add(b.KilosIn)
		kilosOut = kilosOut.Add(b.KilosOut)
		surplus = surplus.Add(b.Surplus)
	}

	deliveries, err := s.ops.ListDeliveries(ctx, w)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load deliveries: %w", err)
	}
	delivered, outstanding := decimal.Zero, decimal.Zero
	for _, d := range deliveries {
		delivered = delivered.Add(d.Kilos)
		if d.PaymentStatus == models.StatusPending || d.PaymentStatus == models.StatusApproved {
			outstanding = outstanding.Add(d.Amount)
		}
	}

	expenses, err := s.ops.ListExpenses(ctx, w)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load expenses: %w", err)
	}
	expenseTotal := decimal.Zero
	for _, e := range expenses {
		expenseTotal = expenseTotal.Add(e.Amount)
	}

	salaries, err := s.ops.ListSalaryPayments(ctx, w)
	if err != nil {
		return models.Summary{}, fmt.Errorf("load salaries: %w", err)
	}
	salaryTotal := decimal.Zero
	for _, p := range salaries {
		salaryTotal = salaryTotal.Add(p.Amount)
	}

	return models.Summary{
		From:              from,
		To:                to,
		CashIn:            cashIn.String(),
		CashOut:           cashOut.String(),
		CashBalance:       balance.String(),
		PurchasedKilos:    purchasedKilos.String(),
		PurchaseCost:      purchaseCost.String(),
		KilosIn:           kilosIn.String(),
		KilosOut:          kilosOut.String(),
		Surplus:           surplus.String(),
		DeliveredKilos:    delivered.String(),
		OutstandingAmount: outstanding.String(),
		Expenses:          expenseTotal.String(),
		Salaries:          salaryTotal.String(),
		CreatedAt:         s.now().UTC(),
	}, nil
}

// FormatSummary renders a summary for a chat message.
func FormatSummary(sum models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary %s - %s\n", sum.From.Format(dateLayout), sum.To.Format(dateLayout))
	fmt.Fprintf(&b, "Petty cash: +%s / -%s, balance %s\n", sum.CashIn, sum.CashOut, sum.CashBalance)
	fmt.Fprintf(&b, "Purchases: %s kg for %s\n", sum.PurchasedKilos, sum.PurchaseCost)
	fmt.Fprintf(&b, "Production: %s kg in, %s kg out, surplus %s kg\n", sum.KilosIn, sum.KilosOut, sum.Surplus)
	fmt.Fprintf(&b, "Deliveries: %s kg, %s awaiting payment\n", sum.DeliveredKilos, sum.OutstandingAmount)
	fmt.Fprintf(&b, "Expenses: %s, salaries: %s", sum.Expenses, sum.Salaries)
	return b.String()
}

// DayWindow returns the bounds of the local calendar day containing t.
func (s *Service) DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WeekWindow returns Monday 00:00 of t's week through t.
func (s *Service) WeekWindow(t time.Time) (time.Time, time.Time) {
	start, _ := s.DayWindow(t)
	daysSinceMonday := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -daysSinceMonday), t.In(s.location)
}

// ArchiveDaily summarizes the day containing day and archives it when an
// archive is configured.
func (s *Service) ArchiveDaily(ctx context.Context, day time.Time) (models.Summary, error) {
	from, to := s.DayWindow(day)
	sum, err := s.Summarize(ctx, from, to)
	if err != nil {
		return models.Summary{}, err
	}

	if s.archive == nil {
		s.logger.Debug("no summary archive configured")
		return sum, nil
	}
	if err := s.archive.SaveSummary(ctx, sum); err != nil {
		return sum, fmt.Errorf("archive summary: %w", err)
	}
	s.logger.Info("daily summary archived", zap.String("day", from.Format(dateLayout)))
	return sum, nil
}

// ExportLedger appends petty cash rows whose id is not yet in the sheet and
// returns how many were written. Rows already exported are left untouched.
func (s *Service) ExportLedger(ctx context.Context) (int, error) {
	if s.sheet == nil {
		return 0, nil
	}

	existing, err := s.sheet.Read(ctx, s.sheetRange)
	if err != nil {
		return 0, fmt.Errorf("read exported rows: %w", err)
	}
	exported := sheets.ExportedIDs(existing)

	entries, err := s.ledger.List(ctx, models.PettyCash)
	if err != nil {
		return 0, fmt.Errorf("load petty cash: %w", err)
	}

	var rows [][]interface{}
	for _, e := range entries {
		if _, ok := exported[e.ID]; ok {
			continue
		}
		rows = append(rows, sheets.LedgerRow(e, s.location))
	}

	written := len(rows)
	if len(existing) == 0 && written > 0 {
		rows = append([][]interface{}{sheets.LedgerHeader}, rows...)
	}
	if err := s.sheet.Append(ctx, s.sheetRange, rows); err != nil {
		return 0, fmt.Errorf("export petty cash: %w", err)
	}
	if written > 0 {
		s.logger.Info("petty cash exported", zap.Int("rows", written))
	}
	return written, nil
}
