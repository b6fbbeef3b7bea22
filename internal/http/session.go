package http

import (
	"fmt"
	"sync"
	"time"

	"bilancio/internal/core"
)

// Session owns the single live budget document for the server process.
// The core is stateless; all mutation happens here, guarded by a
// mutex, and every read hands out a snapshot so handlers never share
// slices with concurrent mutators.
type Session struct {
	mu  sync.Mutex
	doc core.BudgetDoc
}

// NewSession starts an empty document for the given period.
func NewSession(now time.Time) *Session {
	return &Session{doc: core.NewDoc(now.Year(), int(now.Month()))}
}

// Snapshot returns a copy of the current document.
func (s *Session) Snapshot() core.BudgetDoc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDoc(s.doc)
}

// Replace swaps in a new document, e.g. after a load.
func (s *Session) Replace(doc core.BudgetDoc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = cloneDoc(doc)
}

// AppendIncome adds an income record in insertion order.
func (s *Session) AppendIncome(inc core.Income) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Incomes = append(s.doc.Incomes, inc)
	return len(s.doc.Incomes) - 1
}

// AppendExpense adds an expense record in insertion order.
func (s *Session) AppendExpense(exp core.Expense) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Expenses = append(s.doc.Expenses, exp)
	return len(s.doc.Expenses) - 1
}

// RemoveIncome deletes the record at index, keeping order.
func (s *Session) RemoveIncome(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Incomes) {
		return fmt.Errorf("income index %d out of range", index)
	}
	s.doc.Incomes = append(s.doc.Incomes[:index], s.doc.Incomes[index+1:]...)
	return nil
}

// RemoveExpense deletes the record at index, keeping order.
func (s *Session) RemoveExpense(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Expenses) {
		return fmt.Errorf("expense index %d out of range", index)
	}
	s.doc.Expenses = append(s.doc.Expenses[:index], s.doc.Expenses[index+1:]...)
	return nil
}

// SetPeriod updates the document's year and month.
func (s *Session) SetPeriod(year, month int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Meta.Year = year
	s.doc.Meta.Month = month
}

func cloneDoc(doc core.BudgetDoc) core.BudgetDoc {
	out := doc
	out.Incomes = append([]core.Income(nil), doc.Incomes...)
	out.Expenses = append([]core.Expense(nil), doc.Expenses...)
	if out.Incomes == nil {
		out.Incomes = []core.Income{}
	}
	if out.Expenses == nil {
		out.Expenses = []core.Expense{}
	}
	return out
}
