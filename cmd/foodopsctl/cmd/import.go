package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/service/ledger"
)

// importFile is the YAML layout accepted by "import":
//
//	ledger: petty_cash
//	entries:
//	  - date: 2024-01-02
//	    amount: 500
//	    type: inflow
//	    description: opening float
type importFile struct {
	Ledger  models.LedgerName    `yaml:"ledger"`
	Entries []models.LedgerEntry `yaml:"entries"`
}

func loadImportFile(path string) (models.LedgerName, []ledger.AddRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f importFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return "", nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Ledger == "" {
		f.Ledger = models.PettyCash
	}

	reqs := make([]ledger.AddRequest, 0, len(f.Entries))
	for i, e := range f.Entries {
		entryType, err := models.ParseEntryType(string(e.Type))
		if err != nil {
			return "", nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if !e.Amount.IsPositive() {
			return "", nil, fmt.Errorf("entry %d: %w", i+1, models.ValidationError{Field: "amount", Message: "must be greater than zero"})
		}
		reqs = append(reqs, ledger.AddRequest{
			Date:        e.Date,
			Amount:      e.Amount,
			Type:        entryType,
			Description: e.Description,
		})
	}
	return f.Ledger, reqs, nil
}

func newImportCmd(opts *options) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	c := &cobra.Command{
		Use:   "import",
		Short: "Append entries from a YAML file in one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, reqs, err := loadImportFile(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%d entries valid for %s\n", len(reqs), name)
				return nil
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				for i := range reqs {
					if reqs[i].Date.IsZero() {
						reqs[i].Date = time.Now()
					}
				}
				results, err := a.ledger.Import(ctx, name, reqs)
				if err != nil {
					return err
				}
				for _, r := range results {
					fmt.Fprintf(out, "#%d balance %s\n", r.ID, r.Balance)
				}
				return nil
			})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "YAML file to import")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	_ = c.MarkFlagRequired("file")
	return c
}
