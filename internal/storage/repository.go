package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns all persisted state: transactions, categories, goals,
// scheduled transactions and users. Services hold no cached copies; every
// read re-queries the store.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Single writer; SQLite serializes writes per connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, category, amount_cents, description, type) VALUES (?, ?, ?, ?, ?)`,
		t.Date.String(), t.Category, t.Amount.Cents, t.Description, string(t.Type))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"date", t.Date.String(),
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"type", string(t.Type))

	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, category, amount_cents, description, type FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction replaces all five mutable fields of an existing row.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET date = ?, category = ?, amount_cents = ?, description = ?, type = ? WHERE id = ?`,
		t.Date.String(), t.Category, t.Amount.Cents, t.Description, string(t.Type), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, id)
}

// ListTransactions returns transactions ordered by date then id. From, To and
// Category narrow the result; zero values mean no constraint. ISO date
// strings compare lexicographically, so range filtering happens in SQL.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, from, to core.Date, category string) ([]core.Transaction, error) {
	query := `SELECT id, date, category, amount_cents, description, type FROM transactions`
	var (
		clauses []string
		args    []any
	)
	if !from.IsZero() {
		clauses = append(clauses, `date >= ?`)
		args = append(args, from.String())
	}
	if !to.IsZero() {
		clauses = append(clauses, `date <= ?`)
		args = append(args, to.String())
	}
	if category != "" {
		clauses = append(clauses, `category = ?`)
		args = append(args, category)
	}
	for i, c := range clauses {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumByType totals amount_cents over transactions with the given type tag.
func (r *SQLiteRepository) SumByType(ctx context.Context, typ core.TransactionType) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE type = ?`, string(typ)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum by type: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SumExpensesByCategory aggregates expense totals per category name, largest
// first, for chart rendering.
func (r *SQLiteRepository) SumExpensesByCategory(ctx context.Context) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) AS total
		 FROM transactions WHERE type = ?
		 GROUP BY category ORDER BY total DESC`, string(core.Expense))
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryAmount
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	return out, rows.Err()
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		if isConstraintViolation(err) {
			return 0, fmt.Errorf("category %q: %w", name, ErrDuplicateKey)
		}
		return 0, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, id int64, newName string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, newName, id)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("category %q: %w", newName, ErrDuplicateKey)
		}
		return fmt.Errorf("rename category: %w", err)
	}
	return requireRow(res, id)
}

// DeleteCategory removes the category row only. Transactions and scheduled
// transactions referencing the name keep their dangling reference.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, id)
}

// ListCategories returns categories in insertion order.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (name, target_cents, current_cents, deadline) VALUES (?, ?, ?, ?)`,
		g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.String())
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, deadline = ? WHERE id = ?`,
		g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.String(), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, g.ID)
}

// UpdateGoalCurrent persists a new current_amount, the only field the
// allocation engine touches.
func (r *SQLiteRepository) UpdateGoalCurrent(ctx context.Context, id int64, current core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE id = ?`, current.Cents, id)
	if err != nil {
		return fmt.Errorf("update goal current: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// --- scheduled transactions ---

func (r *SQLiteRepository) CreateSchedule(ctx context.Context, s core.ScheduledTransaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scheduled_transactions (date, category, amount_cents, description, type, frequency)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.Date.String(), s.Category, s.Amount.Cents, s.Description, string(s.Type), string(s.Frequency))
	if err != nil {
		return 0, fmt.Errorf("insert scheduled transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scheduled transaction id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetSchedule(ctx context.Context, id int64) (core.ScheduledTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, category, amount_cents, description, type, frequency
		 FROM scheduled_transactions WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ScheduledTransaction{}, fmt.Errorf("scheduled transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.ScheduledTransaction{}, fmt.Errorf("get scheduled transaction: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListSchedules(ctx context.Context) ([]core.ScheduledTransaction, error) {
	return r.querySchedules(ctx,
		`SELECT id, date, category, amount_cents, description, type, frequency
		 FROM scheduled_transactions ORDER BY date, id`)
}

// ListDueSchedules returns scheduled transactions whose next due date is on
// or before today.
func (r *SQLiteRepository) ListDueSchedules(ctx context.Context, today core.Date) ([]core.ScheduledTransaction, error) {
	return r.querySchedules(ctx,
		`SELECT id, date, category, amount_cents, description, type, frequency
		 FROM scheduled_transactions WHERE date <= ? ORDER BY date, id`, today.String())
}

// AdvanceSchedule moves a recurring entry's next due date forward.
func (r *SQLiteRepository) AdvanceSchedule(ctx context.Context, id int64, next core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_transactions SET date = ? WHERE id = ?`, next.String(), id)
	if err != nil {
		return fmt.Errorf("advance scheduled transaction: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) DeleteSchedule(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scheduled transaction: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) querySchedules(ctx context.Context, query string, args ...any) ([]core.ScheduledTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduled transactions: %w", err)
	}
	defer rows.Close()

	var out []core.ScheduledTransaction
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled transaction: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		if isConstraintViolation(err) {
			return 0, fmt.Errorf("username %q: %w", username, ErrDuplicateKey)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t     core.Transaction
		date  string
		typ   string
		cents int64
	)
	if err := row.Scan(&t.ID, &date, &t.Category, &cents, &t.Description, &typ); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Date = d
	t.Amount = core.Money{Cents: cents}
	t.Type = core.TransactionType(typ)
	return t, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g        core.Goal
		target   int64
		current  int64
		deadline string
	)
	if err := row.Scan(&g.ID, &g.Name, &target, &current, &deadline); err != nil {
		return core.Goal{}, err
	}
	d, err := core.ParseDate(deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("stored deadline %q: %w", deadline, err)
	}
	g.Target = core.Money{Cents: target}
	g.Current = core.Money{Cents: current}
	g.Deadline = d
	return g, nil
}

func scanSchedule(row rowScanner) (core.ScheduledTransaction, error) {
	var (
		s     core.ScheduledTransaction
		date  string
		typ   string
		freq  string
		cents int64
	)
	if err := row.Scan(&s.ID, &date, &s.Category, &cents, &s.Description, &typ, &freq); err != nil {
		return core.ScheduledTransaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.ScheduledTransaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	s.Date = d
	s.Amount = core.Money{Cents: cents}
	s.Type = core.TransactionType(typ)
	s.Frequency = core.Frequency(freq)
	return s, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}
