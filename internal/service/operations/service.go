// Package operations covers the entities whose derived fields depend on a
// single row: production surplus, purchase totals, order remaining kilos
// and delivery payment status.
package operations

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

// Auditor receives a note for every committed mutation.
type Auditor interface {
	Record(ctx context.Context, entity string, entityID int64, action models.AuditAction, detail string)
}

// Service implements the operations use cases.
type Service struct {
	store  repository.OperationsStore
	audit  Auditor
	logger *zap.Logger
	now    func() time.Time

	// statusMu keeps the read-check-write of a status transition atomic.
	statusMu sync.Mutex
}

// NewService wires the operations use cases. audit may be nil.
func NewService(store repository.OperationsStore, audit Auditor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) record(ctx context.Context, entity string, id int64, action models.AuditAction, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, entity, id, action, detail)
}

func (s *Service) dateOrNow(d time.Time) time.Time {
	if d.IsZero() {
		return s.now()
	}
	return d
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return models.ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return models.ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

func requireText(field, v string) error {
	if v == "" {
		return models.ValidationError{Field: field, Message: "is required"}
	}
	return nil
}
