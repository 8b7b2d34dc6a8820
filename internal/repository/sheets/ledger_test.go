package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

func TestLedgerRow(t *testing.T) {
	conakry := time.FixedZone("GMT", 0)
	tokyo := time.FixedZone("JST", 9*3600)
	entry := models.LedgerEntry{
		ID:          7,
		Date:        time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("12.50"),
		Type:        models.Outflow,
		Description: "bags",
		Balance:     decimal.RequireFromString("-0.004"),
	}

	tests := []struct {
		name string
		loc  *time.Location
		date string
	}{
		{name: "utc default", loc: nil, date: "2024-03-14"},
		{name: "same day", loc: conakry, date: "2024-03-14"},
		{name: "next day east", loc: tokyo, date: "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := LedgerRow(entry, tt.loc)
			if len(row) != len(LedgerHeader) {
				t.Fatalf("row has %d cells, header %d", len(row), len(LedgerHeader))
			}
			want := []interface{}{"7", tt.date, "outflow", "12.5", "bags", "-0.004"}
			for i := range want {
				if row[i] != want[i] {
					t.Errorf("cell %d = %v, want %v", i, row[i], want[i])
				}
			}
		})
	}
}

func TestExportedIDs(t *testing.T) {
	values := [][]interface{}{
		LedgerHeader,
		{"1", "2024-01-01"},
		{},
		{" 3 "},
		{"note: cash counted"},
		{"-4"},
		{float64(5)},
	}

	got := ExportedIDs(values)
	for _, id := range []int64{1, 3, 5} {
		if _, ok := got[id]; !ok {
			t.Errorf("id %d missing from %v", id, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("ExportedIDs() = %v, want 3 ids", got)
	}
}
