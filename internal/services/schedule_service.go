package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ScheduleService manages scheduled transaction templates and materializes
// the ones that have come due.
type ScheduleService struct {
	storage      *storage.SQLiteRepository
	transactions *TransactionService
}

func NewScheduleService(storage *storage.SQLiteRepository, transactions *TransactionService) *ScheduleService {
	return &ScheduleService{
		storage:      storage,
		transactions: transactions,
	}
}

// Add validates and stores a new scheduled transaction template.
func (s *ScheduleService) Add(ctx context.Context, sched core.ScheduledTransaction) (int64, error) {
	if err := sched.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.CreateSchedule(ctx, sched)
	if err != nil {
		return 0, fmt.Errorf("add scheduled transaction: %w", err)
	}

	slog.InfoContext(ctx, "Scheduled transaction created",
		"id", id,
		"next_date", sched.Date.String(),
		"frequency", string(sched.Frequency))

	return id, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteSchedule(ctx, id); err != nil {
		return fmt.Errorf("delete scheduled transaction: %w", err)
	}
	return nil
}

func (s *ScheduleService) List(ctx context.Context) ([]core.ScheduledTransaction, error) {
	scheds, err := s.storage.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scheduled transactions: %w", err)
	}
	return scheds, nil
}

// Process materializes every scheduled transaction due on or before today,
// then retires one-time entries and advances recurring ones by exactly one
// period. An entry several periods overdue still produces a single
// transaction per call and stays due for the next run; processing catches up
// one occurrence at a time. Returns the number of transactions created.
func (s *ScheduleService) Process(ctx context.Context, today core.Date) (int, error) {
	due, err := s.storage.ListDueSchedules(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due scheduled transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing scheduled transactions",
		"due", len(due),
		"today", today.String())

	processed := 0
	for _, sched := range due {
		txID, err := s.transactions.Add(ctx, sched.Transaction())
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize scheduled transaction",
				"schedule_id", sched.ID,
				"error", err)
			continue
		}

		if sched.Frequency == core.OneTime {
			if err := s.storage.DeleteSchedule(ctx, sched.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to retire one-time schedule",
					"schedule_id", sched.ID,
					"error", err)
				continue
			}
			processed++
			slog.InfoContext(ctx, "One-time schedule materialized and retired",
				"schedule_id", sched.ID,
				"transaction_id", txID)
			continue
		}

		advancer, err := GetDateAdvancer(sched.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Unknown schedule frequency",
				"schedule_id", sched.ID,
				"frequency", string(sched.Frequency))
			continue
		}

		next := advancer.Next(sched.Date)
		if err := s.storage.AdvanceSchedule(ctx, sched.ID, next); err != nil {
			slog.ErrorContext(ctx, "Failed to advance schedule",
				"schedule_id", sched.ID,
				"error", err)
			continue
		}

		processed++
		slog.InfoContext(ctx, "Recurring schedule materialized and advanced",
			"schedule_id", sched.ID,
			"transaction_id", txID,
			"next_date", next.String(),
			"frequency", string(sched.Frequency))
	}

	slog.InfoContext(ctx, "Scheduled transaction processing complete",
		"processed", processed,
		"due", len(due))

	return processed, nil
}
