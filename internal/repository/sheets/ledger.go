package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

// LedgerHeader is written once, above the first exported entry.
var LedgerHeader = []interface{}{"id", "date", "type", "amount", "description", "balance"}

// LedgerRow lays out one entry in LedgerHeader order. The date is shown in
// loc; amounts are decimal text.
func LedgerRow(e models.LedgerEntry, loc *time.Location) []interface{} {
	if loc == nil {
		loc = time.UTC
	}
	return []interface{}{
		strconv.FormatInt(e.ID, 10),
		e.Date.In(loc).Format("2006-01-02"),
		string(e.Type),
		e.Amount.String(),
		e.Description,
		e.Balance.String(),
	}
}

// ExportedIDs collects the ids in the first column. Rows whose first cell is
// not an id (the header, notes typed by hand) are skipped.
func ExportedIDs(values [][]interface{}) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(row[0])), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids
}
