package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerName scopes id ordering and write serialization.
type LedgerName string

// PettyCash is the only ledger carrying a running balance today.
const PettyCash LedgerName = "petty_cash"

// EntryType is the sign convention of a ledger entry.
type EntryType string

const (
	Inflow  EntryType = "inflow"
	Outflow EntryType = "outflow"
)

// ParseEntryType accepts the canonical names plus the "in"/"out" shorthands
// used by the WhatsApp commands.
func ParseEntryType(value string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "inflow", "in":
		return Inflow, nil
	case "outflow", "out":
		return Outflow, nil
	default:
		return "", ValidationError{Field: "type", Message: fmt.Sprintf("unknown entry type %q", value)}
	}
}

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t == Inflow || t == Outflow
}

// LedgerEntry is one petty cash movement with its derived running balance.
type LedgerEntry struct {
	ID          int64           `json:"id" yaml:"-"`
	Ledger      LedgerName      `json:"ledger" yaml:"-"`
	Date        time.Time       `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Type        EntryType       `json:"type" yaml:"type"`
	Description string          `json:"description" yaml:"description"`
	Balance     decimal.Decimal `json:"balance" yaml:"-"`
}

// Signed returns the amount with the type's sign applied.
func (e LedgerEntry) Signed() decimal.Decimal {
	return SignedAmount(e.Amount, e.Type)
}

// SignedAmount applies the inflow/outflow sign convention to amount.
func SignedAmount(amount decimal.Decimal, t EntryType) decimal.Decimal {
	if t == Inflow {
		return amount
	}
	return amount.Neg()
}

// EntryResult is what add and update report back to callers.
type EntryResult struct {
	ID      int64           `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// DeleteResult confirms a removal.
type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// BalanceMismatch describes a row whose stored balance disagrees with the
// re-folded chain.
type BalanceMismatch struct {
	ID       int64           `json:"id"`
	Stored   decimal.Decimal `json:"stored"`
	Expected decimal.Decimal `json:"expected"`
}
