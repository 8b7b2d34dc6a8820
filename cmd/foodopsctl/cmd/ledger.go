package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

var errChainBroken = errors.New("petty cash chain has mismatched balances")

func ledgerFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "ledger", string(models.PettyCash), "ledger name")
}

func newListCmd(opts *options) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "list",
		Short: "Print the ledger in id order with its balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				entries, err := a.ledger.List(ctx, models.LedgerName(name))
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
				for _, e := range entries {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date.Format("2006-01-02"), e.Type, e.Amount, e.Balance, e.Description)
				}
				return w.Flush()
			})
		},
	}
	ledgerFlag(c, &name)
	return c
}

func newBalanceCmd(opts *options) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "balance",
		Short: "Print the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				balance, err := a.ledger.Balance(ctx, models.LedgerName(name))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), balance.String())
				return nil
			})
		},
	}
	ledgerFlag(c, &name)
	return c
}

func newVerifyCmd(opts *options) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "verify",
		Short: "Re-fold the balance chain and report wrong rows",
		Long:  "verify exits non-zero when any stored balance disagrees with the re-folded chain.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				mismatches, err := a.ledger.Verify(ctx, models.LedgerName(name))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(mismatches) == 0 {
					fmt.Fprintln(out, "ok")
					return nil
				}
				for _, m := range mismatches {
					fmt.Fprintf(out, "#%d stored %s expected %s\n", m.ID, m.Stored, m.Expected)
				}
				return errChainBroken
			})
		},
	}
	ledgerFlag(c, &name)
	return c
}

func newRebuildCmd(opts *options) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "rebuild",
		Short: "Rewrite every stored balance from the entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				fixed, err := a.ledger.Rebuild(ctx, models.LedgerName(name))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d balances rewritten\n", fixed)
				return nil
			})
		},
	}
	ledgerFlag(c, &name)
	return c
}
