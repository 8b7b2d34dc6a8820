// Package sheets mirrors the petty cash ledger into a Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/foodops/internal/config"
)

// Sheet is the spreadsheet surface the ledger export reads and appends to.
// Ranges use A1 notation, e.g. "PettyCash!A:F".
type Sheet interface {
	Read(ctx context.Context, a1 string) ([][]interface{}, error)
	Append(ctx context.Context, a1 string, rows [][]interface{}) error
}

// Workbook is one spreadsheet reached through the Sheets values API.
type Workbook struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

var _ Sheet = (*Workbook)(nil)

// Open authenticates with the service account file from cfg.
func Open(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Workbook, error) {
	if !cfg.Enabled() {
		return nil, errors.New("sheets export is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	return &Workbook{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.With(zap.String("spreadsheet", cfg.SpreadsheetID)),
	}, nil
}

// Read returns the displayed values of a1, one slice per row. Trailing empty
// cells are omitted by the API.
func (w *Workbook) Read(ctx context.Context, a1 string) ([][]interface{}, error) {
	if a1 == "" {
		return nil, errors.New("empty sheet range")
	}
	resp, err := w.values.Get(w.spreadsheetID, a1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1, err)
	}
	return resp.Values, nil
}

// Append writes rows below the last filled row of a1. Values go in RAW so
// amounts stay the exact decimal text instead of a locale-parsed number.
func (w *Workbook) Append(ctx context.Context, a1 string, rows [][]interface{}) error {
	if a1 == "" {
		return errors.New("empty sheet range")
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := w.values.Append(w.spreadsheetID, a1, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), a1, err)
	}

	w.logger.Debug("sheet rows appended", zap.String("range", a1), zap.Int("rows", len(rows)))
	return nil
}
