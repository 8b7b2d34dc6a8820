// Package ledger maintains the running-balance invariant of ordered ledgers:
// for entries sorted by id, each balance equals the previous balance plus the
// signed amount, starting from zero. Dates never take part in the ordering.
package ledger

import (
	"context"
	"fmt"
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

// AddRequest carries an already validated new entry.
type AddRequest struct {
	Date        time.Time
	Amount      decimal.Decimal
	Type        models.EntryType
	Description string
}

// UpdateRequest carries the mutable fields of an entry.
type UpdateRequest struct {
	Amount      decimal.Decimal
	Type        models.EntryType
	Description string
}

// Service is the balance recalculator. Mutations on one ledger are
// serialized; each runs as a single storage transaction.
type Service struct {
	store  repository.LedgerStore
	audit  Auditor
	logger *zap.Logger
	now    func() time.Time

	locksMu sync.Mutex
	locks   map[models.LedgerName]*sync.Mutex
}

// NewService wires a recalculator over store. audit may be nil.
func NewService(store repository.LedgerStore, audit Auditor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		audit:  audit,
		logger: logger,
		now:    time.Now,
		locks:  make(map[models.LedgerName]*sync.Mutex),
	}
}

func (s *Service) ledgerLock(ledger models.LedgerName) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	if _, exists := s.locks[ledger]; !exists {
		s.locks[ledger] = &sync.Mutex{}
	}
	return s.locks[ledger]
}

// Add appends an entry whose balance continues from the last entry.
func (s *Service) Add(ctx context.Context, ledger models.LedgerName, req AddRequest) (models.EntryResult, error) {
	mu := s.ledgerLock(ledger)
	mu.Lock()
	defer mu.Unlock()

	var stored models.LedgerEntry
	err := s.store.WithinLedger(ctx, ledger, func(tx repository.LedgerTx) error {
		var err error
		stored, err = appendEntry(ctx, tx, s.entryFrom(req))
		return err
	})
	if err != nil {
		return models.EntryResult{}, fmt.Errorf("add %s entry: %w", ledger, models.WrapStorage("add", err))
	}

	s.logger.Info("ledger entry added",
		zap.String("ledger", string(ledger)),
		zap.Int64("id", stored.ID),
		zap.String("balance", stored.Balance.String()))
	s.record(ctx, ledger, stored.ID, models.ActionCreate, fmt.Sprintf("%s %s: %s", stored.Type, stored.Amount, stored.Description))

	return models.EntryResult{ID: stored.ID, Balance: stored.Balance}, nil
}

// Import appends several entries in one transaction, in the given order.
func (s *Service) Import(ctx context.Context, ledger models.LedgerName, reqs []AddRequest) ([]models.EntryResult, error) {
	mu := s.ledgerLock(ledger)
	mu.Lock()
	defer mu.Unlock()

	results := make([]models.EntryResult, 0, len(reqs))
	err := s.store.WithinLedger(ctx, ledger, func(tx repository.LedgerTx) error {
		for _, req := range reqs {
			stored, err := appendEntry(ctx, tx, s.entryFrom(req))
			if err != nil {
				return err
			}
			results = append(results, models.EntryResult{ID: stored.ID, Balance: stored.Balance})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import %s entries: %w", ledger, models.WrapStorage("import", err))
	}

	s.logger.Info("ledger entries imported", zap.String("ledger", string(ledger)), zap.Int("count", len(results)))
	for _, r := range results {
		s.record(ctx, ledger, r.ID, models.ActionCreate, "imported")
	}
	return results, nil
}

// Update rewrites an entry, then recomputes its balance and the balance of
// every later entry. Later entries keep their own amount and type.
func (s *Service) Update(ctx context.Context, ledger models.LedgerName, id int64, req UpdateRequest) (models.EntryResult, error) {
	mu := s.ledgerLock(ledger)
	mu.Lock()
	defer mu.Unlock()

	var (
		newBalance decimal.Decimal
		rewritten  int
	)
	err := s.store.WithinLedger(ctx, ledger, func(tx repository.LedgerTx) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		prev, err := predecessorBalance(ctx, tx, id)
		if err != nil {
			return err
		}
		newBalance = prev.Add(models.SignedAmount(req.Amount, req.Type))

		existing.Amount = req.Amount
		existing.Type = req.Type
		existing.Description = req.Description
		existing.Balance = newBalance
		if _, err := tx.Update(ctx, existing); err != nil {
			return err
		}

		rewritten, err = cascade(ctx, tx, id, newBalance)
		return err
	})
	if err != nil {
		return models.EntryResult{}, fmt.Errorf("update %s entry %d: %w", ledger, id, models.WrapStorage("update", err))
	}

	s.logger.Info("ledger entry updated",
		zap.String("ledger", string(ledger)),
		zap.Int64("id", id),
		zap.String("balance", newBalance.String()),
		zap.Int("cascaded", rewritten))
	s.record(ctx, ledger, id, models.ActionUpdate, fmt.Sprintf("%s %s: %s", req.Type, req.Amount, req.Description))

	return models.EntryResult{ID: id, Balance: newBalance}, nil
}

// Delete removes an entry and re-folds every later balance from the
// nearest surviving predecessor.
func (s *Service) Delete(ctx context.Context, ledger models.LedgerName, id int64) (models.DeleteResult, error) {
	mu := s.ledgerLock(ledger)
	mu.Lock()
	defer mu.Unlock()

	var (
		removed   models.LedgerEntry
		rewritten int
	)
	err := s.store.WithinLedger(ctx, ledger, func(tx repository.LedgerTx) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}

		balance, err := predecessorBalance(ctx, tx, id)
		if err != nil {
			return err
		}

		if removed, err = tx.Delete(ctx, id); err != nil {
			return err
		}

		rewritten, err = cascade(ctx, tx, id, balance)
		return err
	})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete %s entry %d: %w", ledger, id, models.WrapStorage("delete", err))
	}

	s.logger.Info("ledger entry deleted",
		zap.String("ledger", string(ledger)),
		zap.Int64("id", id),
		zap.Int("cascaded", rewritten))
	s.record(ctx, ledger, id, models.ActionDelete, fmt.Sprintf("%s %s: %s", removed.Type, removed.Amount, removed.Description))

	return models.DeleteResult{ID: id, Deleted: true}, nil
}

// List returns the ledger in id order.
func (s *Service) List(ctx context.Context, ledger models.LedgerName) ([]models.LedgerEntry, error) {
	entries, err := s.store.ListEntries(ctx, ledger)
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", ledger, models.WrapStorage("list", err))
	}
	return entries, nil
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, ledger models.LedgerName, id int64) (models.LedgerEntry, error) {
	entry, err := s.store.GetEntry(ctx, ledger, id)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("get %s entry %d: %w", ledger, id, models.WrapStorage("get", err))
	}
	return entry, nil
}

// Balance is the stored balance of the highest id, or zero.
func (s *Service) Balance(ctx context.Context, ledger models.LedgerName) (decimal.Decimal, error) {
	entries, err := s.List(ctx, ledger)
	if err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, nil
	}
	return entries[len(entries)-1].Balance, nil
}

// Verify re-folds the whole chain and reports rows whose stored balance
// disagrees.
func (s *Service) Verify(ctx context.Context, ledger models.LedgerName) ([]models.BalanceMismatch, error) {
	entries, err := s.List(ctx, ledger)
	if err != nil {
		return nil, err
	}
	return FindMismatches(entries), nil
}

// Rebuild rewrites every stored balance from scratch and returns how many
// rows changed.
func (s *Service) Rebuild(ctx context.Context, ledger models.LedgerName) (int, error) {
	mu := s.ledgerLock(ledger)
	mu.Lock()
	defer mu.Unlock()

	var fixed int
	err := s.store.WithinLedger(ctx, ledger, func(tx repository.LedgerTx) error {
		entries, err := tx.All(ctx)
		if err != nil {
			return err
		}
		for _, m := range FindMismatches(entries) {
			if err := tx.SetBalance(ctx, m.ID, m.Expected); err != nil {
				return err
			}
			fixed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rebuild %s: %w", ledger, models.WrapStorage("rebuild", err))
	}

	if fixed > 0 {
		s.logger.Warn("ledger balances rebuilt", zap.String("ledger", string(ledger)), zap.Int("fixed", fixed))
	}
	return fixed, nil
}

// FindMismatches folds entries (assumed ascending by id) from zero.
func FindMismatches(entries []models.LedgerEntry) []models.BalanceMismatch {
	var (
		running    = decimal.Zero
		mismatches []models.BalanceMismatch
	)
	for _, e := range entries {
		running = running.Add(e.Signed())
		if !running.Equal(e.Balance) {
			mismatches = append(mismatches, models.BalanceMismatch{ID: e.ID, Stored: e.Balance, Expected: running})
		}
	}
	return mismatches
}

func (s *Service) entryFrom(req AddRequest) models.LedgerEntry {
	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	return models.LedgerEntry{
		Date:        date,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	}
}

func (s *Service) record(ctx context.Context, ledger models.LedgerName, id int64, action models.AuditAction, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, string(ledger), id, action, detail)
}

func appendEntry(ctx context.Context, tx repository.LedgerTx, entry models.LedgerEntry) (models.LedgerEntry, error) {
	last, err := tx.Last(ctx)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	prev := decimal.Zero
	if last != nil {
		prev = last.Balance
	}
	entry.Balance = prev.Add(entry.Signed())
	return tx.Append(ctx, entry)
}

func predecessorBalance(ctx context.Context, tx repository.LedgerTx, id int64) (decimal.Decimal, error) {
	prev, err := tx.Before(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if prev == nil {
		return decimal.Zero, nil
	}
	return prev.Balance, nil
}

// cascade rewrites the balance of every entry after id, seeded at balance.
func cascade(ctx context.Context, tx repository.LedgerTx, id int64, balance decimal.Decimal) (int, error) {
	successors, err := tx.After(ctx, id)
	if err != nil {
		return 0, err
	}
	for _, e := range successors {
		balance = balance.Add(e.Signed())
		if err := tx.SetBalance(ctx, e.ID, balance); err != nil {
			return 0, err
		}
	}
	return len(successors), nil
}
