// Package memory is an in-process implementation of repository.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

// Store keeps everything in maps guarded by one RWMutex. Ledger
// transactions work on a copy of the ledger and swap it in on success.
type Store struct {
	mu sync.RWMutex

	nextID  int64
	ledgers map[models.LedgerName][]models.LedgerEntry

	production     map[int64]models.Production
	purchaseOrders map[int64]models.PurchaseOrder
	deliveries     map[int64]models.Delivery
	purchases      map[int64]models.Purchase
	expenses       map[int64]models.Expense
	employees      map[int64]models.Employee
	salaries       map[int64]models.SalaryPayment
	audit          []models.AuditEvent
}

// New creates an empty store.
func New() *Store {
	return &Store{
		ledgers:        make(map[models.LedgerName][]models.LedgerEntry),
		production:     make(map[int64]models.Production),
		purchaseOrders: make(map[int64]models.PurchaseOrder),
		deliveries:     make(map[int64]models.Delivery),
		purchases:      make(map[int64]models.Purchase),
		expenses:       make(map[int64]models.Expense),
		employees:      make(map[int64]models.Employee),
		salaries:       make(map[int64]models.SalaryPayment),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// WithinLedger runs fn against a staged copy of the ledger.
func (s *Store) WithinLedger(ctx context.Context, ledger models.LedgerName, fn func(tx repository.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &ledgerTx{
		ledger:  ledger,
		entries: append([]models.LedgerEntry(nil), s.ledgers[ledger]...),
		nextID:  s.nextID,
	}
	if err := fn(staged); err != nil {
		return err
	}

	s.ledgers[ledger] = staged.entries
	s.nextID = staged.nextID
	return nil
}

// ListEntries returns a copy of the ledger in id order.
func (s *Store) ListEntries(_ context.Context, ledger models.LedgerName) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LedgerEntry{}, s.ledgers[ledger]...), nil
}

// GetEntry looks up one entry.
func (s *Store) GetEntry(_ context.Context, ledger models.LedgerName, id int64) (models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.ledgers[ledger] {
		if e.ID == id {
			return e, nil
		}
	}
	return models.LedgerEntry{}, models.ErrNotFound
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

type ledgerTx struct {
	ledger  models.LedgerName
	entries []models.LedgerEntry
	nextID  int64
}

func (t *ledgerTx) index(id int64) int {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ID >= id })
	if i < len(t.entries) && t.entries[i].ID == id {
		return i
	}
	return -1
}

func (t *ledgerTx) Append(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	t.nextID++
	entry.ID = t.nextID
	entry.Ledger = t.ledger
	t.entries = append(t.entries, entry)
	return entry, nil
}

func (t *ledgerTx) Get(_ context.Context, id int64) (models.LedgerEntry, error) {
	i := t.index(id)
	if i < 0 {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	return t.entries[i], nil
}

func (t *ledgerTx) Last(context.Context) (*models.LedgerEntry, error) {
	if len(t.entries) == 0 {
		return nil, nil
	}
	last := t.entries[len(t.entries)-1]
	return &last, nil
}

func (t *ledgerTx) Before(_ context.Context, id int64) (*models.LedgerEntry, error) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ID >= id })
	if i == 0 {
		return nil, nil
	}
	prev := t.entries[i-1]
	return &prev, nil
}

func (t *ledgerTx) After(_ context.Context, id int64) ([]models.LedgerEntry, error) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ID > id })
	return append([]models.LedgerEntry{}, t.entries[i:]...), nil
}

func (t *ledgerTx) All(context.Context) ([]models.LedgerEntry, error) {
	return append([]models.LedgerEntry{}, t.entries...), nil
}

func (t *ledgerTx) Update(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	i := t.index(entry.ID)
	if i < 0 {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	current := t.entries[i]
	current.Amount = entry.Amount
	current.Type = entry.Type
	current.Description = entry.Description
	current.Balance = entry.Balance
	t.entries[i] = current
	return current, nil
}

func (t *ledgerTx) SetBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	i := t.index(id)
	if i < 0 {
		return models.ErrNotFound
	}
	t.entries[i].Balance = balance
	return nil
}

func (t *ledgerTx) Delete(_ context.Context, id int64) (models.LedgerEntry, error) {
	i := t.index(id)
	if i < 0 {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	removed := t.entries[i]
	t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
	return removed, nil
}

var _ repository.Store = (*Store)(nil)
