// Package file persists budget documents as pretty-printed JSON files,
// the same textual form the document codec produces.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/core"
	applog "bilancio/internal/log"
)

// Store reads and writes a single budget document at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a file store rooted at path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// NewWithClock returns a file store with an injected time source, used
// by tests to pin the saved_at stamp and codec defaults.
func NewWithClock(path string, now func() time.Time) *Store {
	return &Store{path: path, now: now}
}

// Load implements store.DocumentStore.
func (s *Store) Load(ctx context.Context) (core.BudgetDoc, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return core.BudgetDoc{}, false, nil
	}
	if err != nil {
		return core.BudgetDoc{}, false, fmt.Errorf("read budget file: %w", err)
	}

	doc, err := core.Unmarshal(data, s.now())
	if err != nil {
		// Unparsable text is the one failure the codec surfaces; the
		// caller decides what to tell the user.
		return core.BudgetDoc{}, false, fmt.Errorf("decode budget file %s: %w", s.path, err)
	}

	slog.InfoContext(ctx, "Budget document loaded",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpLoad,
		"path", s.path,
		"incomes", len(doc.Incomes),
		"expenses", len(doc.Expenses))
	return doc, true, nil
}

// Save implements store.DocumentStore. The document is stamped with the
// current time and written atomically (temp file, then rename).
func (s *Store) Save(ctx context.Context, doc core.BudgetDoc) error {
	doc.Meta.SavedAt = s.now().Format("2006-01-02T15:04:05")

	data, err := core.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode budget document: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create budget directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write budget file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace budget file: %w", err)
	}

	slog.InfoContext(ctx, "Budget document saved",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpSave,
		"path", s.path,
		"incomes", len(doc.Incomes),
		"expenses", len(doc.Expenses))
	return nil
}
