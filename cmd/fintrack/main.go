package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// defaultCategories is the taxonomy installed on first run.
var defaultCategories = []string{
	"Income",
	"Housing",
	"Food",
	"Transportation",
	"Utilities",
	"Entertainment",
	"Other",
}

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)

	if level, err := cfg.SlogLevel(); err == nil {
		logger = cli.SetupLogger(level)
	}

	logger.Info("Starting fintrack session", "db_path", cfg.SQLiteDBPath)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	categories := services.NewCategoryService(repo)
	transactions := services.NewTransactionService(repo)
	goals := services.NewGoalService(repo)
	schedules := services.NewScheduleService(repo, transactions)
	auth := services.NewAuthService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if cfg.Username != "" {
		if err := login(ctx, auth, cfg.Username, cfg.Password); err != nil {
			logger.Error("Login failed", log.FieldError, err, log.FieldUsername, cfg.Username)
			os.Exit(1)
		}
		logger.Info("Logged in", log.FieldUsername, cfg.Username)
	}

	if err := categories.Seed(ctx, defaultCategories); err != nil {
		logger.Error("Failed to seed default categories", log.FieldError, err)
		os.Exit(1)
	}

	// Session activation pass: materialize due scheduled transactions, then
	// compute statistics and allocate the resulting balance to goals.
	today := core.DateOf(time.Now())

	processed, err := schedules.Process(ctx, today)
	if err != nil {
		logger.Error("Scheduled transaction processing failed", log.FieldError, err)
		os.Exit(1)
	}

	stats, err := transactions.Statistics(ctx)
	if err != nil {
		logger.Error("Failed to compute statistics", log.FieldError, err)
		os.Exit(1)
	}

	allocated, err := goals.Rebalance(ctx, stats.Balance())
	if err != nil {
		logger.Error("Goal rebalancing failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Session ready",
		"today", today.String(),
		"materialized", processed,
		"total_income", stats.TotalIncome.String(),
		"total_expenses", stats.TotalExpenses.String(),
		"balance", stats.Balance().String(),
		"allocated_to_goals", allocated.String())

	logger.Info("fintrack session complete")
}

// login registers the configured user on first run and validates the
// credential pair on every later run.
func login(ctx context.Context, auth *services.AuthService, username, password string) error {
	_, err := auth.Register(ctx, username, password)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return err
	}

	ok, err := auth.Validate(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidCredentials
	}
	return nil
}

var errInvalidCredentials = errors.New("invalid credentials")
