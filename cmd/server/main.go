package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/events/kafka"
	"github.com/mamadbah2/foodops/internal/repository"
	"github.com/mamadbah2/foodops/internal/repository/mongodb"
	"github.com/mamadbah2/foodops/internal/repository/sheets"
	"github.com/mamadbah2/foodops/internal/repository/storage"
	"github.com/mamadbah2/foodops/internal/scheduler"
	"github.com/mamadbah2/foodops/internal/server/handlers"
	"github.com/mamadbah2/foodops/internal/server/router"
	auditsvc "github.com/mamadbah2/foodops/internal/service/audit"
	commandsvc "github.com/mamadbah2/foodops/internal/service/commands"
	ledgersvc "github.com/mamadbah2/foodops/internal/service/ledger"
	operationssvc "github.com/mamadbah2/foodops/internal/service/operations"
	reportingsvc "github.com/mamadbah2/foodops/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/foodops/internal/service/whatsapp"
	"github.com/mamadbah2/foodops/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/foodops/pkg/clients/whatsapp"
	"github.com/mamadbah2/foodops/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	store, err := storage.Open(startupCtx, cfg.Storage, baseLogger.Named("repo.store"))
	if err != nil {
		baseLogger.Fatal("failed to open store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	var publisher auditsvc.Publisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, baseLogger.Named("events.kafka"))
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				baseLogger.Error("failed to close kafka writer", zap.Error(err))
			}
		}()
		publisher = kafkaPublisher
		baseLogger.Info("audit events published to kafka", zap.String("topic", cfg.Kafka.Topic))
	}

	var archive repository.SummaryArchive
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewSummaryRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI missing, summaries will not be archived")
	}

	var sheet sheets.Sheet
	if cfg.Sheets.Enabled() {
		workbook, err := sheets.Open(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to open ledger spreadsheet", zap.Error(err))
		}
		sheet = workbook
	}

	location, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	auditService := auditsvc.NewService(store, publisher, baseLogger.Named("svc.audit"))
	ledgerService := ledgersvc.NewService(store, auditService, baseLogger.Named("svc.ledger"))
	operationsService := operationssvc.NewService(store, auditService, baseLogger.Named("svc.operations"))
	reportingService := reportingsvc.NewService(reportingsvc.Dependencies{
		Ledger:     ledgerService,
		Operations: operationsService,
		Archive:    archive,
		Sheet:      sheet,
		SheetRange: cfg.Sheets.LedgerRange,
		Location:   location,
	}, baseLogger.Named("svc.reporting"))
	commandDispatcher := commandsvc.NewService(ledgerService, operationsService, reportingService, baseLogger.Named("svc.commands"))

	var (
		messagingSvc whatsappsvc.MessagingService
		notifier     scheduler.Notifier
	)
	if cfg.WhatsApp.Enabled() {
		var aiClient anthropic.Client
		if cfg.AI.AnthropicKey != "" {
			aiClient = anthropic.NewClient(cfg.AI.AnthropicKey, "")
			baseLogger.Info("anthropic ai client enabled")
		} else {
			baseLogger.Warn("anthropic api key missing, free text commands disabled")
		}

		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		metaSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, aiClient, baseLogger.Named("svc.whatsapp"))
		messagingSvc = metaSvc
		notifier = metaSvc
	} else {
		baseLogger.Warn("whatsapp credentials missing, command channel disabled")
	}

	engine := router.New(router.Handlers{
		Webhook:    handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp")),
		PettyCash:  handlers.NewPettyCashHandler(ledgerService, baseLogger.Named("handlers.petty_cash")),
		Operations: handlers.NewOperationsHandler(operationsService, baseLogger.Named("handlers.operations")),
		Reports:    handlers.NewReportsHandler(auditService, reportingService, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingService, ledgerService, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
