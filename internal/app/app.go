// Package app wires configuration, storage and services into one unit shared
// by the HTTP server and the command line.
package app

import (
	"context"
	"errors"
	"fmt"

	"gastocerto/internal/config"
	"gastocerto/internal/database"
	"gastocerto/internal/events"
	"gastocerto/internal/feed"
	"gastocerto/internal/logger"
	"gastocerto/internal/recognition"
	"gastocerto/internal/services"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config   *config.Config
	DB       *database.Manager
	Broker   *feed.Broker
	Events   *events.Client
	Notifier *services.Notifier

	Transactions services.TransactionServicer
	Entries      services.EntryServicer
	Imports      services.ImportServicer
	Descriptions services.DescriptionServicer
}

// New opens the database, applies migrations and builds the services.
// Change notices and document recognition are enabled when configured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	a := &App{Config: cfg, DB: dbManager, Broker: feed.NewBroker()}

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		a.Events = client
		publisher = client
		log.Infow("ledger change notices enabled", "exchange", cfg.AMQPExchange)
	}

	var uploader *recognition.Uploader
	if cfg.RecognitionEnabled() {
		recognizer, err := recognition.NewGeminiRecognizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create recognizer: %w", err)
		}
		uploader = recognition.NewUploader(recognizer)
		log.Infow("document recognition enabled", "model", cfg.GeminiModel)
	} else {
		log.Info("GEMINI_API_KEY not set, document recognition disabled")
	}

	db := dbManager.DB()
	a.Notifier = services.NewNotifier(db, a.Broker, publisher)
	a.Transactions = services.NewTransactionService(db, a.Notifier)
	a.Entries = services.NewEntryService(a.Transactions, uploader)
	a.Imports = services.NewImportService(a.Transactions, uploader)
	a.Descriptions = services.NewDescriptionService(db)
	return a, nil
}

// ConsumeChanges refreshes local viewers on notices from other instances
// until ctx ends. It returns at once when notices are disabled.
func (a *App) ConsumeChanges(ctx context.Context) error {
	if a.Events == nil {
		return nil
	}
	err := a.Events.ConsumeLedgerChanged(ctx, a.Notifier.HandleRemoteChange)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the broker connection and the database.
func (a *App) Close() error {
	var errs []error
	if a.Events != nil {
		errs = append(errs, a.Events.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
