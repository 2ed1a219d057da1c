package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// TransactionService handles transaction CRUD and aggregate statistics.
//
// Statistics is a pure read: rebalancing savings goals against the resulting
// balance is a separate, explicit GoalService.Rebalance call so callers
// control the ordering.
type TransactionService struct {
	storage *storage.SQLiteRepository
}

// TransactionFilter narrows a List call. Zero values mean no constraint.
// Search matches case-insensitively against all displayed columns; From/To
// bound the date range inclusively; Category matches the name exactly.
type TransactionFilter struct {
	Search   string
	From     core.Date
	To       core.Date
	Category string
}

// TransactionUpdate pairs an existing row id with its full replacement
// field values for batch editing.
type TransactionUpdate struct {
	ID          int64
	Date        core.Date
	Category    string
	Amount      core.Money
	Description string
	Type        core.TransactionType
}

func NewTransactionService(storage *storage.SQLiteRepository) *TransactionService {
	return &TransactionService{storage: storage}
}

// Add validates and inserts a transaction, returning its new id.
func (s *TransactionService) Add(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	return id, nil
}

// Update replaces all five mutable fields of an existing transaction.
// Returns storage.ErrNotFound if the id is absent.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", t.ID)
	return nil
}

// Delete removes a transaction. Deleting a nonexistent id returns
// storage.ErrNotFound, consistent with Update.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// List returns transactions matching the filter, ordered by date then id.
func (s *TransactionService) List(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	txs, err := s.storage.ListTransactions(ctx, f.From, f.To, f.Category)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	if f.Search == "" {
		return txs, nil
	}

	needle := strings.ToLower(f.Search)
	matched := txs[:0]
	for _, t := range txs {
		if matchesSearch(t, needle) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// matchesSearch checks the lowercased needle against every displayed column.
func matchesSearch(t core.Transaction, needle string) bool {
	for _, col := range []string{
		t.Date.String(),
		t.Category,
		t.Amount.String(),
		t.Description,
		string(t.Type),
	} {
		if strings.Contains(strings.ToLower(col), needle) {
			return true
		}
	}
	return false
}

// ApplyBatch applies a set of full-row updates and a set of deletions in one
// pass, replacing the old edited-table diffing done by the UI. All updates
// are validated before anything is written; a missing id aborts the batch at
// that entry.
func (s *TransactionService) ApplyBatch(ctx context.Context, updates []TransactionUpdate, deleteIDs []int64) error {
	txs := make([]core.Transaction, len(updates))
	for i, u := range updates {
		txs[i] = core.Transaction{
			ID:          u.ID,
			Date:        u.Date,
			Category:    u.Category,
			Amount:      u.Amount,
			Description: u.Description,
			Type:        u.Type,
		}
		if err := txs[i].Validate(); err != nil {
			return fmt.Errorf("batch entry %d: %w", i, err)
		}
	}

	for i, t := range txs {
		if err := s.storage.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("batch update %d (id %d): %w", i, t.ID, err)
		}
	}
	for _, id := range deleteIDs {
		if err := s.storage.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("batch delete id %d: %w", id, err)
		}
	}

	slog.InfoContext(ctx, "Batch applied",
		"updated", len(updates),
		"deleted", len(deleteIDs))

	return nil
}

// Statistics computes total income, total expenses and the per-category
// expense breakdown from explicit type tags.
func (s *TransactionService) Statistics(ctx context.Context) (core.Statistics, error) {
	income, err := s.storage.SumByType(ctx, core.Income)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("total income: %w", err)
	}

	expenses, err := s.storage.SumByType(ctx, core.Expense)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("total expenses: %w", err)
	}

	byCategory, err := s.storage.SumExpensesByCategory(ctx)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("expenses by category: %w", err)
	}

	return core.Statistics{
		TotalIncome:   income,
		TotalExpenses: expenses,
		ByCategory:    byCategory,
	}, nil
}
