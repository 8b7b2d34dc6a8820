package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

const scenarioYAML = `ledger: petty_cash
entries:
  - date: 2024-01-02
    amount: 500
    type: inflow
    description: opening float
  - date: 2024-01-03
    amount: "50"
    type: out
    description: fuel
  - date: 2024-01-04
    amount: 30
    type: outflow
    description: bags
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadImportFile(t *testing.T) {
	name, reqs, err := loadImportFile(writeFile(t, "entries.yaml", scenarioYAML))
	if err != nil {
		t.Fatalf("loadImportFile: %v", err)
	}
	if name != models.PettyCash {
		t.Fatalf("ledger = %q", name)
	}
	if len(reqs) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(reqs))
	}
	if reqs[1].Type != models.Outflow {
		t.Fatalf("shorthand type not normalized: %q", reqs[1].Type)
	}
	if !reqs[1].Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("amount = %s", reqs[1].Amount)
	}
	if reqs[0].Date.Day() != 2 {
		t.Fatalf("date = %s", reqs[0].Date)
	}
}

func TestLoadImportFileRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad type", "entries:\n  - amount: 5\n    type: sideways\n"},
		{"zero amount", "entries:\n  - amount: 0\n    type: inflow\n"},
		{"negative amount", "entries:\n  - amount: -5\n    type: inflow\n"},
		{"not yaml", "entries: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := loadImportFile(writeFile(t, "bad.yaml", tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadImportFileDefaultsLedger(t *testing.T) {
	name, _, err := loadImportFile(writeFile(t, "e.yaml", "entries:\n  - amount: 1\n    type: in\n"))
	if err != nil {
		t.Fatalf("loadImportFile: %v", err)
	}
	if name != models.PettyCash {
		t.Fatalf("ledger = %q", name)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "missing.env")))
	err := root.Execute()
	return out.String(), err
}

func TestImportListVerify(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_DSN", filepath.Join(t.TempDir(), "ctl.db"))
	file := writeFile(t, "entries.yaml", scenarioYAML)

	out, err := run(t, "import", "--file", file)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	for _, want := range []string{"balance 500", "balance 450", "balance 420"} {
		if !strings.Contains(out, want) {
			t.Fatalf("import output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "balance")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if strings.TrimSpace(out) != "420" {
		t.Fatalf("balance = %q", out)
	}

	out, err = run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "opening float") || !strings.Contains(out, "bags") {
		t.Fatalf("list output:\n%s", out)
	}

	out, err = run(t, "verify")
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "ok" {
		t.Fatalf("verify = %q", out)
	}

	out, err = run(t, "rebuild")
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !strings.Contains(out, "0 balances rewritten") {
		t.Fatalf("rebuild = %q", out)
	}
}

func TestImportDryRunWritesNothing(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_DSN", filepath.Join(t.TempDir(), "ctl.db"))

	out, err := run(t, "import", "--dry-run", "--file", writeFile(t, "entries.yaml", scenarioYAML))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "3 entries valid") {
		t.Fatalf("output = %q", out)
	}

	out, err = run(t, "balance")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Fatalf("balance = %q", out)
	}
}

func TestUnknownDriverFails(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "bbolt")
	_, err := run(t, "balance")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, errChainBroken) {
		t.Fatalf("unexpected error %v", err)
	}
}
