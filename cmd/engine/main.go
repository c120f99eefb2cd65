package main

import (
	"os"
	"os/signal"
	"syscall"

	"invoice_notification_engine/internal/app"
	"invoice_notification_engine/internal/infra/config"
	idb "invoice_notification_engine/internal/infra/database"
	"invoice_notification_engine/internal/infra/logger"
	"invoice_notification_engine/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet; write straight to stderr.
		os.Stderr.WriteString("FATAL: could not load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Infof("Invoice lifecycle engine starting. Environment: %s, LogLevel: %s", cfg.Environment, cfg.LogLevel)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	invoiceRepo := idb.NewPostgresInvoiceRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	recurringRepo := idb.NewPostgresRecurringRepository(db)
	log.Info("Repositories initialized.")

	reconcileService := app.NewReconciliationService(invoiceRepo, notificationRepo, notificationRepo, log)
	emissionService := app.NewEmissionService(recurringRepo, invoiceRepo, log)
	log.Info("Services initialized.")

	engineScheduler := scheduler.NewEngineScheduler(
		reconcileService,
		emissionService,
		log,
		cfg.CronSpecReconcile,
		cfg.CronSpecEmission,
	)
	engineScheduler.Start()

	log.Info("Application setup complete. Scheduler is running.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	engineScheduler.Stop()
	log.Info("Application shut down gracefully.")
}
