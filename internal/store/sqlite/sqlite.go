// Package sqlite persists budget document snapshots in a SQLite
// database. A snapshot fully replaces the previous one; record rows
// keep an explicit position column so insertion order survives the
// round trip.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/core"
	applog "bilancio/internal/log"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	return NewWithClock(dbPath, time.Now)
}

// NewWithClock opens the database with an injected time source.
func NewWithClock(dbPath string, now func() time.Time) (*Store, error) {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, now: now}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements store.DocumentStore.
func (s *Store) Load(ctx context.Context) (core.BudgetDoc, bool, error) {
	doc := core.BudgetDoc{Incomes: []core.Income{}, Expenses: []core.Expense{}}

	row := s.db.QueryRowContext(ctx, `SELECT year, month, saved_at FROM meta WHERE id = 1`)
	if err := row.Scan(&doc.Meta.Year, &doc.Meta.Month, &doc.Meta.SavedAt); err != nil {
		if err == sql.ErrNoRows {
			return core.BudgetDoc{}, false, nil
		}
		return core.BudgetDoc{}, false, fmt.Errorf("load meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, amount, date FROM incomes ORDER BY position`)
	if err != nil {
		return core.BudgetDoc{}, false, fmt.Errorf("load incomes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var inc core.Income
		var date sql.NullString
		if err := rows.Scan(&inc.Name, &inc.Amount, &date); err != nil {
			return core.BudgetDoc{}, false, fmt.Errorf("scan income: %w", err)
		}
		inc.Date = date.String
		doc.Incomes = append(doc.Incomes, inc)
	}
	if err := rows.Err(); err != nil {
		return core.BudgetDoc{}, false, fmt.Errorf("iterate incomes: %w", err)
	}

	erows, err := s.db.QueryContext(ctx, `SELECT name, category, amount, date FROM expenses ORDER BY position`)
	if err != nil {
		return core.BudgetDoc{}, false, fmt.Errorf("load expenses: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var exp core.Expense
		var date sql.NullString
		if err := erows.Scan(&exp.Name, &exp.Category, &exp.Amount, &date); err != nil {
			return core.BudgetDoc{}, false, fmt.Errorf("scan expense: %w", err)
		}
		exp.Date = date.String
		doc.Expenses = append(doc.Expenses, exp)
	}
	if err := erows.Err(); err != nil {
		return core.BudgetDoc{}, false, fmt.Errorf("iterate expenses: %w", err)
	}

	slog.InfoContext(ctx, "Budget document loaded from SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpLoad,
		"incomes", len(doc.Incomes),
		"expenses", len(doc.Expenses))
	return doc, true, nil
}

// Save implements store.DocumentStore. The snapshot replaces whatever
// was persisted before inside a single transaction.
func (s *Store) Save(ctx context.Context, doc core.BudgetDoc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "incomes", "expenses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	savedAt := s.now().Format("2006-01-02T15:04:05")
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (id, year, month, saved_at) VALUES (1, ?, ?, ?)`,
		doc.Meta.Year, doc.Meta.Month, savedAt); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	for i, inc := range doc.Incomes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (position, name, amount, date) VALUES (?, ?, ?, ?)`,
			i, inc.Name, inc.Amount, nullableDate(inc.Date)); err != nil {
			return fmt.Errorf("insert income %d: %w", i, err)
		}
	}
	for i, exp := range doc.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (position, name, category, amount, date) VALUES (?, ?, ?, ?, ?)`,
			i, exp.Name, exp.Category, exp.Amount, nullableDate(exp.Date)); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Budget document saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpSave,
		"incomes", len(doc.Incomes),
		"expenses", len(doc.Expenses))
	return nil
}

// nullableDate keeps absent dates NULL so they stay absent on load.
func nullableDate(d string) any {
	if d == "" {
		return nil
	}
	return d
}
