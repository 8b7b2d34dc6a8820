// Package cmd provides the foodopsctl commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/repository"
	"github.com/mamadbah2/foodops/internal/repository/storage"
	"github.com/mamadbah2/foodops/internal/service/audit"
	"github.com/mamadbah2/foodops/internal/service/ledger"
	"github.com/mamadbah2/foodops/internal/service/operations"
	"github.com/mamadbah2/foodops/internal/service/reporting"
	"github.com/mamadbah2/foodops/pkg/logger"
)

type options struct {
	envFile string
	debug   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "foodopsctl",
		Short: "Inspect and repair the foodops petty cash ledger",
		Long: `foodopsctl works directly against the configured store
(STORAGE_DRIVER / STORAGE_DSN), without going through the HTTP server.

Example:
  foodopsctl verify
  foodopsctl rebuild
  foodopsctl import --file opening-balances.yaml`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "env file (default is .env)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newListCmd(opts),
		newBalanceCmd(opts),
		newVerifyCmd(opts),
		newRebuildCmd(opts),
		newImportCmd(opts),
		newSummaryCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// app is the set of services a subcommand works with.
type app struct {
	ledger    *ledger.Service
	reporting *reporting.Service
	logger    *zap.Logger
	store     repository.Store
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func openApp(ctx context.Context, opts *options) (*app, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := "warn"
	if opts.debug {
		level = "debug"
	}
	base, err := logger.New(level)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.Storage, base.Named("repo.store"))
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}

	auditService := audit.NewService(store, nil, base.Named("svc.audit"))
	ledgerService := ledger.NewService(store, auditService, base.Named("svc.ledger"))
	operationsService := operations.NewService(store, auditService, base.Named("svc.operations"))

	return &app{
		ledger: ledgerService,
		reporting: reporting.NewService(reporting.Dependencies{
			Ledger:     ledgerService,
			Operations: operationsService,
		}, base.Named("svc.reporting")),
		logger: base,
		store:  store,
	}, nil
}

// withApp opens the services for the duration of fn.
func withApp(cmd *cobra.Command, opts *options, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
