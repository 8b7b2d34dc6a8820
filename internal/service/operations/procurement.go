package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

// PurchaseInput describes a raw-material buy.
type PurchaseInput struct {
	Date         time.Time
	Supplier     string
	Kilos        decimal.Decimal
	PricePerKilo decimal.Decimal
}

// CreatePurchase stores a buy with total = kilos * price.
func (s *Service) CreatePurchase(ctx context.Context, in PurchaseInput) (models.Purchase, error) {
	if err := requireText("supplier", in.Supplier); err != nil {
		return models.Purchase{}, err
	}
	if err := requirePositive("kilos", in.Kilos); err != nil {
		return models.Purchase{}, err
	}
	if err := requireNonNegative("price_per_kilo", in.PricePerKilo); err != nil {
		return models.Purchase{}, err
	}

	p, err := s.store.CreatePurchase(ctx, models.Purchase{
		Date:         s.dateOrNow(in.Date),
		Supplier:     in.Supplier,
		Kilos:        in.Kilos,
		PricePerKilo: in.PricePerKilo,
		Total:        in.Kilos.Mul(in.PricePerKilo),
	})
	if err != nil {
		return models.Purchase{}, fmt.Errorf("create purchase: %w", models.WrapStorage("create purchase", err))
	}

	s.record(ctx, "purchase", p.ID, models.ActionCreate, fmt.Sprintf("%s %s kg", p.Supplier, p.Kilos))
	return p, nil
}

func (s *Service) ListPurchases(ctx context.Context, w repository.Window) ([]models.Purchase, error) {
	out, err := s.store.ListPurchases(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", models.WrapStorage("list purchases", err))
	}
	return out, nil
}

// ExpenseInput describes an operating cost.
type ExpenseInput struct {
	Date        time.Time
	Category    string
	Amount      decimal.Decimal
	Description string
}

func (s *Service) CreateExpense(ctx context.Context, in ExpenseInput) (models.Expense, error) {
	if err := requireText("category", in.Category); err != nil {
		return models.Expense{}, err
	}
	if err := requirePositive("amount", in.Amount); err != nil {
		return models.Expense{}, err
	}

	e, err := s.store.CreateExpense(ctx, models.Expense{
		Date:        s.dateOrNow(in.Date),
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
	})
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", models.WrapStorage("create expense", err))
	}

	s.record(ctx, "expense", e.ID, models.ActionCreate, fmt.Sprintf("%s %s", e.Category, e.Amount))
	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, w repository.Window) ([]models.Expense, error) {
	out, err := s.store.ListExpenses(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", models.WrapStorage("list expenses", err))
	}
	return out, nil
}
