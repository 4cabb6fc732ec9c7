package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"moneyboard/internal/config"
	"moneyboard/internal/database"
	"moneyboard/internal/events"
	"moneyboard/internal/logger"
	"moneyboard/internal/reconcile"
	"moneyboard/internal/services"
)

// Exit codes: 0 all balances consistent, 1 the run failed, 2 drift found.
func main() {
	logger.Init(os.Getenv("ENV"))

	code, err := run()
	if err != nil {
		logger.Get().Errorf("reconcile run failed: %v", err)
		code = 1
	}
	logger.Sync()
	os.Exit(code)
}

func run() (int, error) {
	log := logger.Named("reconcile")

	cfg, err := config.Load()
	if err != nil {
		return 1, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return 1, fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	publisher, err := events.Connect(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return 1, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := reconcile.NewRunner(services.NewAccountService(dbManager.DB()), publisher, log)
	result, err := runner.Run(ctx)
	if err != nil {
		return 1, err
	}

	log.Infow("reconcile run completed",
		"accounts_checked", result.AccountsChecked,
		"drifted", len(result.Drifted),
		"duration", result.Duration.String(),
	)

	if len(result.Drifted) > 0 {
		return 2, nil
	}
	return 0, nil
}
