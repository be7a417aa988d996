// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"

	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/jobs"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/platform/database"
	"pet_rescue_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	dispatchOutboxCmd := flag.NewFlagSet("dispatch-outbox", flag.ExitOnError)
	batchSize := dispatchOutboxCmd.Int("batch-size", 0, "Batch size for the outbox drain (0 uses OUTBOX_DISPATCH_BATCH_SIZE)")

	if len(os.Args) > 1 && os.Args[1] == "dispatch-outbox" {
		dispatchOutboxCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for dispatch: %v", err)
		}
		if *batchSize > 0 {
			cfg.OutboxDispatchBatchSize = *batchSize
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for dispatch: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for dispatch", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		repo := notification.NewGORMRepository(db)
		sink := notification.NewZapSink(appLogger)
		job := jobs.NewOutboxDispatchJob(repo, sink, appLogger, cfg)

		dispatched, err := job.RunOnce(context.Background())
		if err != nil {
			appLogger.Fatal("FATAL: Outbox drain failed", zap.Error(err))
		}
		appLogger.Info("Outbox drain completed.", zap.Int("notifications_dispatched", dispatched))
		return // Exit after dispatch command
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
