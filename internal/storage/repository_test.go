package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}

	id, err := repo.CreateCategory(context.Background(), "Food")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	repo.Close()

	// Reopening reruns the migration path; existing rows must survive.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer repo.Close()

	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(cats) != 1 || cats[0].ID != id || cats[0].Name != "Food" {
		t.Errorf("categories after reopen = %+v, want the one row inserted before", cats)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.Transaction{
		Date:        core.NewDate(2024, 3, 15),
		Category:    "Food",
		Amount:      core.Money{Cents: 1234},
		Description: "weekly groceries",
		Type:        core.Expense,
	}

	id, err := repo.CreateTransaction(ctx, in)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}

	in.ID = id
	if got != in {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}
}

func TestTransactionUpdateAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 1, 10),
		Category: "Other",
		Amount:   core.Money{Cents: 500},
		Type:     core.Expense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	updated := core.Transaction{
		ID:          id,
		Date:        core.NewDate(2024, 1, 11),
		Category:    "Utilities",
		Amount:      core.Money{Cents: 750},
		Description: "power bill",
		Type:        core.Expense,
	}
	if err := repo.UpdateTransaction(ctx, updated); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got != updated {
		t.Errorf("after update = %+v, want %+v", got, updated)
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}

	if err := repo.UpdateTransaction(ctx, updated); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of deleted row = %v, want ErrNotFound", err)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []core.Transaction{
		{Date: core.NewDate(2024, 1, 5), Category: "Food", Amount: core.Money{Cents: 1000}, Type: core.Expense},
		{Date: core.NewDate(2024, 2, 10), Category: "Housing", Amount: core.Money{Cents: 90000}, Type: core.Expense},
		{Date: core.NewDate(2024, 2, 20), Category: "Income", Amount: core.Money{Cents: 250000}, Type: core.Income},
		{Date: core.NewDate(2024, 3, 1), Category: "Food", Amount: core.Money{Cents: 2000}, Type: core.Expense},
	}
	for _, tx := range seed {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("no filter returns all ordered by date", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.Date{}, core.Date{}, "")
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("len = %d, want 4", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Date.Before(got[i-1].Date.Time) {
				t.Errorf("results not ordered by date: %s before %s", got[i].Date, got[i-1].Date)
			}
		}
	})

	t.Run("inclusive date range", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.NewDate(2024, 2, 10), core.NewDate(2024, 3, 1), "")
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("len = %d, want 3 (both endpoints included)", len(got))
		}
	})

	t.Run("exact category", func(t *testing.T) {
		got, err := repo.ListTransactions(ctx, core.Date{}, core.Date{}, "Food")
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
}

func TestSumByType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, tx := range []core.Transaction{
		{Date: core.NewDate(2024, 1, 1), Category: "Income", Amount: core.Money{Cents: 300000}, Type: core.Income},
		{Date: core.NewDate(2024, 1, 2), Category: "Food", Amount: core.Money{Cents: 4500}, Type: core.Expense},
		{Date: core.NewDate(2024, 1, 3), Category: "Food", Amount: core.Money{Cents: 5500}, Type: core.Expense},
	} {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	income, err := repo.SumByType(ctx, core.Income)
	if err != nil {
		t.Fatalf("SumByType(Income) error = %v", err)
	}
	if income.Cents != 300000 {
		t.Errorf("income = %d, want 300000", income.Cents)
	}

	expenses, err := repo.SumByType(ctx, core.Expense)
	if err != nil {
		t.Fatalf("SumByType(Expense) error = %v", err)
	}
	if expenses.Cents != 10000 {
		t.Errorf("expenses = %d, want 10000", expenses.Cents)
	}
}

func TestCategoryUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateCategory(ctx, "Food"); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if _, err := repo.CreateCategory(ctx, "Food"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate insert = %v, want ErrDuplicateKey", err)
	}

	// Case-sensitive exact match: a different casing is a different name.
	if _, err := repo.CreateCategory(ctx, "food"); err != nil {
		t.Errorf("CreateCategory(food) error = %v, want nil", err)
	}

	id, err := repo.CreateCategory(ctx, "Housing")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if err := repo.RenameCategory(ctx, id, "Food"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("rename to taken name = %v, want ErrDuplicateKey", err)
	}
	if err := repo.RenameCategory(ctx, 9999, "Anything"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename of missing id = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategoryLeavesTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	catID, err := repo.CreateCategory(ctx, "Entertainment")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	txID, err := repo.CreateTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 5, 5),
		Category: "Entertainment",
		Amount:   core.Money{Cents: 2500},
		Type:     core.Expense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := repo.DeleteCategory(ctx, catID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}

	got, err := repo.GetTransaction(ctx, txID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Category != "Entertainment" {
		t.Errorf("transaction category = %q, want dangling reference kept", got.Category)
	}
}

func TestGoalCurrentUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateGoal(ctx, core.Goal{
		Name:     "Vacation",
		Target:   core.Money{Cents: 100000},
		Deadline: core.NewDate(2025, 6, 1),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	if err := repo.UpdateGoalCurrent(ctx, id, core.Money{Cents: 2500}); err != nil {
		t.Fatalf("UpdateGoalCurrent() error = %v", err)
	}

	g, err := repo.GetGoal(ctx, id)
	if err != nil {
		t.Fatalf("GetGoal() error = %v", err)
	}
	if g.Current.Cents != 2500 {
		t.Errorf("current = %d, want 2500", g.Current.Cents)
	}

	if err := repo.UpdateGoalCurrent(ctx, 9999, core.Money{Cents: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing goal = %v, want ErrNotFound", err)
	}
}

func TestListDueSchedules(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mk := func(d core.Date) int64 {
		id, err := repo.CreateSchedule(ctx, core.ScheduledTransaction{
			Date:      d,
			Category:  "Housing",
			Amount:    core.Money{Cents: 95000},
			Type:      core.Expense,
			Frequency: core.Monthly,
		})
		if err != nil {
			t.Fatalf("CreateSchedule() error = %v", err)
		}
		return id
	}

	past := mk(core.NewDate(2024, 4, 1))
	today := mk(core.NewDate(2024, 4, 15))
	mk(core.NewDate(2024, 5, 1)) // future, must not appear

	due, err := repo.ListDueSchedules(ctx, core.NewDate(2024, 4, 15))
	if err != nil {
		t.Fatalf("ListDueSchedules() error = %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("len(due) = %d, want 2", len(due))
	}
	if due[0].ID != past || due[1].ID != today {
		t.Errorf("due ids = [%d %d], want [%d %d]", due[0].ID, due[1].ID, past, today)
	}
}

func TestUserUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "alice", "hash-a"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := repo.CreateUser(ctx, "alice", "hash-b"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate username = %v, want ErrDuplicateKey", err)
	}

	u, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if u.PasswordHash != "hash-a" {
		t.Errorf("stored hash = %q, want hash-a", u.PasswordHash)
	}

	if _, err := repo.GetUserByUsername(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user = %v, want ErrNotFound", err)
	}
}
