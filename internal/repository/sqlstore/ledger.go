package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

const entryColumns = `id, ledger, date, amount, type, description, balance`

// WithinLedger runs fn inside one SQL transaction scoped to ledger.
func (s *Store) WithinLedger(ctx context.Context, ledger models.LedgerName, fn func(tx repository.LedgerTx) error) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		return fn(&ledgerTx{store: s, q: tx, ledger: ledger})
	})
}

// ListEntries returns the ledger in id order.
func (s *Store) ListEntries(ctx context.Context, ledger models.LedgerName) ([]models.LedgerEntry, error) {
	t := &ledgerTx{store: s, q: s.db, ledger: ledger}
	return t.All(ctx)
}

// GetEntry looks up one entry.
func (s *Store) GetEntry(ctx context.Context, ledger models.LedgerName, id int64) (models.LedgerEntry, error) {
	t := &ledgerTx{store: s, q: s.db, ledger: ledger}
	return t.Get(ctx, id)
}

type ledgerTx struct {
	store  *Store
	q      querier
	ledger models.LedgerName
}

func scanEntry(row scanner) (models.LedgerEntry, error) {
	var (
		e         models.LedgerEntry
		ledger    string
		entryType string
	)
	if err := row.Scan(&e.ID, &ledger, &e.Date, &e.Amount, &entryType, &e.Description, &e.Balance); err != nil {
		return models.LedgerEntry{}, err
	}
	e.Ledger = models.LedgerName(ledger)
	e.Type = models.EntryType(entryType)
	return e, nil
}

func (t *ledgerTx) queryOne(ctx context.Context, query string, args ...any) (*models.LedgerEntry, error) {
	e, err := scanEntry(t.q.QueryRowContext(ctx, t.store.rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *ledgerTx) queryMany(ctx context.Context, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := t.q.QueryContext(ctx, t.store.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (t *ledgerTx) Append(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	entry.Ledger = t.ledger
	entry.Date = entry.Date.UTC()

	const query = `INSERT INTO ledger_entries (ledger, date, amount, type, description, balance)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	err := t.q.QueryRowContext(ctx, t.store.rebind(query),
		string(entry.Ledger), entry.Date, entry.Amount, string(entry.Type), entry.Description, entry.Balance,
	).Scan(&entry.ID)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return entry, nil
}

func (t *ledgerTx) Get(ctx context.Context, id int64) (models.LedgerEntry, error) {
	e, err := t.queryOne(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE ledger = ? AND id = ?`, string(t.ledger), id)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("failed to get ledger entry %d: %w", id, err)
	}
	if e == nil {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	return *e, nil
}

func (t *ledgerTx) Last(ctx context.Context) (*models.LedgerEntry, error) {
	return t.queryOne(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE ledger = ? ORDER BY id DESC LIMIT 1`, string(t.ledger))
}

func (t *ledgerTx) Before(ctx context.Context, id int64) (*models.LedgerEntry, error) {
	return t.queryOne(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE ledger = ? AND id < ? ORDER BY id DESC LIMIT 1`, string(t.ledger), id)
}

func (t *ledgerTx) After(ctx context.Context, id int64) ([]models.LedgerEntry, error) {
	return t.queryMany(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE ledger = ? AND id > ? ORDER BY id ASC`, string(t.ledger), id)
}

func (t *ledgerTx) All(ctx context.Context) ([]models.LedgerEntry, error) {
	return t.queryMany(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE ledger = ? ORDER BY id ASC`, string(t.ledger))
}

func (t *ledgerTx) Update(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	const query = `UPDATE ledger_entries SET amount = ?, type = ?, description = ?, balance = ?
		WHERE ledger = ? AND id = ?`
	res, err := t.q.ExecContext(ctx, t.store.rebind(query),
		entry.Amount, string(entry.Type), entry.Description, entry.Balance, string(t.ledger), entry.ID)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("failed to update ledger entry %d: %w", entry.ID, err)
	}
	if err := expectRow(res); err != nil {
		return models.LedgerEntry{}, err
	}
	return t.Get(ctx, entry.ID)
}

func (t *ledgerTx) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := t.q.ExecContext(ctx, t.store.rebind(`UPDATE ledger_entries SET balance = ? WHERE ledger = ? AND id = ?`),
		balance, string(t.ledger), id)
	if err != nil {
		return fmt.Errorf("failed to set balance of entry %d: %w", id, err)
	}
	return expectRow(res)
}

func (t *ledgerTx) Delete(ctx context.Context, id int64) (models.LedgerEntry, error) {
	existing, err := t.Get(ctx, id)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	res, err := t.q.ExecContext(ctx, t.store.rebind(`DELETE FROM ledger_entries WHERE ledger = ? AND id = ?`), string(t.ledger), id)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("failed to delete ledger entry %d: %w", id, err)
	}
	if err := expectRow(res); err != nil {
		return models.LedgerEntry{}, err
	}
	return existing, nil
}

// expectRow turns a zero-row write into models.ErrNotFound.
func expectRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
