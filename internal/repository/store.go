// Package repository declares the persistence contracts the services depend on.
// Backends live in the memory, sqlstore, mongodb and sheets subpackages.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

// Window bounds a date range query. Zero values leave that side open.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// LedgerStore persists ordered ledger entries. Every mutation happens inside
// WithinLedger so that a failed cascade rolls back as a whole.
type LedgerStore interface {
	WithinLedger(ctx context.Context, ledger models.LedgerName, fn func(tx LedgerTx) error) error
	ListEntries(ctx context.Context, ledger models.LedgerName) ([]models.LedgerEntry, error)
	GetEntry(ctx context.Context, ledger models.LedgerName, id int64) (models.LedgerEntry, error)
}

// LedgerTx is a unit of work bound to a single ledger. "Before" and "after"
// always refer to id order.
type LedgerTx interface {
	// Append assigns the next id and stores the entry as given.
	Append(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)
	// Get returns models.ErrNotFound when id is absent.
	Get(ctx context.Context, id int64) (models.LedgerEntry, error)
	// Last returns the entry with the highest id, or nil on an empty ledger.
	Last(ctx context.Context) (*models.LedgerEntry, error)
	// Before returns the entry with the highest id strictly below id, or nil.
	Before(ctx context.Context, id int64) (*models.LedgerEntry, error)
	// After returns entries with id strictly above id, ascending.
	After(ctx context.Context, id int64) ([]models.LedgerEntry, error)
	// All returns every entry, ascending.
	All(ctx context.Context) ([]models.LedgerEntry, error)
	// Update rewrites amount, type, description and balance of entry.ID.
	Update(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)
	// SetBalance rewrites only the stored balance.
	SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	// Delete removes and returns the entry.
	Delete(ctx context.Context, id int64) (models.LedgerEntry, error)
}

// OperationsStore persists the single-row-derivation entities.
type OperationsStore interface {
	CreateProduction(ctx context.Context, p models.Production) (models.Production, error)
	GetProduction(ctx context.Context, id int64) (models.Production, error)
	UpdateProduction(ctx context.Context, p models.Production) (models.Production, error)
	DeleteProduction(ctx context.Context, id int64) error
	ListProduction(ctx context.Context, w Window) ([]models.Production, error)

	CreatePurchaseOrder(ctx context.Context, po models.PurchaseOrder) (models.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int64) (models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)

	// CreateDelivery stores d and decrements the order's remaining kilos in
	// one transaction. Over-delivery is a models.ValidationError.
	CreateDelivery(ctx context.Context, d models.Delivery) (models.Delivery, error)
	GetDelivery(ctx context.Context, id int64) (models.Delivery, error)
	SetDeliveryStatus(ctx context.Context, id int64, status models.PaymentStatus) (models.Delivery, error)
	// DeleteDelivery removes the delivery and restores its kilos on the order.
	DeleteDelivery(ctx context.Context, id int64) (models.Delivery, error)
	ListDeliveries(ctx context.Context, w Window) ([]models.Delivery, error)

	CreatePurchase(ctx context.Context, p models.Purchase) (models.Purchase, error)
	ListPurchases(ctx context.Context, w Window) ([]models.Purchase, error)

	CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error)
	ListExpenses(ctx context.Context, w Window) ([]models.Expense, error)

	CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	GetEmployee(ctx context.Context, id int64) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateSalaryPayment(ctx context.Context, p models.SalaryPayment) (models.SalaryPayment, error)
	ListSalaryPayments(ctx context.Context, w Window) ([]models.SalaryPayment, error)
}

// AuditStore persists the audit trail, newest first on read.
type AuditStore interface {
	AppendAudit(ctx context.Context, event models.AuditEvent) error
	ListAudit(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

// Store is the full surface a backend provides.
type Store interface {
	LedgerStore
	OperationsStore
	AuditStore
	Ping(ctx context.Context) error
	Close() error
}

// SummaryArchive keeps generated summaries.
type SummaryArchive interface {
	SaveSummary(ctx context.Context, summary models.Summary) error
}
