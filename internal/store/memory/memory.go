// Package memory holds a budget document in process memory. It backs
// tests and the default server configuration when no durable store is
// wanted.
package memory

import (
	"context"
	"sync"
	"time"

	"bilancio/internal/core"
)

type Store struct {
	mu    sync.Mutex
	doc   core.BudgetDoc
	saved bool
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewWithClock pins the time source, for tests.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Load implements store.DocumentStore.
func (s *Store) Load(_ context.Context) (core.BudgetDoc, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.BudgetDoc{}, false, nil
	}
	return cloneDoc(s.doc), true, nil
}

// Save implements store.DocumentStore.
func (s *Store) Save(_ context.Context, doc core.BudgetDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Meta.SavedAt = s.now().Format("2006-01-02T15:04:05")
	s.doc = cloneDoc(doc)
	s.saved = true
	return nil
}

// cloneDoc copies the collections so callers never share slices with
// the store's snapshot.
func cloneDoc(doc core.BudgetDoc) core.BudgetDoc {
	out := doc
	out.Incomes = append([]core.Income(nil), doc.Incomes...)
	out.Expenses = append([]core.Expense(nil), doc.Expenses...)
	return out
}
