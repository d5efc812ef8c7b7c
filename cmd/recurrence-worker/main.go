// recurrence-worker materializes recurring entries on a schedule: one pass
// at startup, then one per tick. Every pass recomputes the missing set from
// a fresh snapshot, so reruns and restarts are harmless.
package main

import (
	"context"
	"os"
	"time"

	"depenses/internal/amqp"
	"depenses/internal/backend"
	"depenses/internal/cli"
	"depenses/internal/core"
	"depenses/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting recurrence-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	pair, err := core.NewPair(cfg.ParticipantA, cfg.ParticipantB)
	if err != nil {
		logger.Error("Invalid participant configuration", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" && backendCfg.Type == backend.SQLiteBackend {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			amqpClient = nil
		}
	}

	ledger := services.NewLedgerService(result.Ledger, pair, amqpClient)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Ledger service close error", "error", err)
		}
	}()
	recur := services.NewRecurrenceService(ledger, result.Ledger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	runOnce := func() {
		result, err := recur.Reconcile(ctx, time.Now())
		if err != nil {
			logger.Error("Reconciliation pass failed",
				"error", err,
				"period", string(result.Period),
				"missing", result.Missing,
				"generated", result.Generated)
			return
		}
		if result.Missing == 0 {
			logger.Info("No recurring entries to generate", "period", string(result.Period))
			return
		}
		logger.Info("Recurring entries generated",
			"period", string(result.Period),
			"generated", result.Generated)
	}

	runOnce()

	ticker := time.NewTicker(cfg.ReconcileInterval)
	defer ticker.Stop()

	logger.Info("Reconciliation loop started", "interval", cfg.ReconcileInterval.String())
	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			logger.Info("Recurrence worker stopped")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
