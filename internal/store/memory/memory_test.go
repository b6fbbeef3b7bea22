package memory

import (
	"context"
	"testing"
	"time"

	"bilancio/internal/core"
)

func fixedClock() time.Time {
	return time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
}

func TestLoadBeforeSave(t *testing.T) {
	s := New()
	_, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Fatal("Load() ok = true for empty store, want false")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewWithClock(fixedClock)
	doc := core.NewDoc(2025, 8)
	doc.Incomes = append(doc.Incomes, core.Income{Name: "Salary", Amount: 5000})
	doc.Expenses = append(doc.Expenses, core.Expense{Name: "Rent", Category: "Housing", Amount: 1200})

	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false after Save")
	}
	if got.Meta.SavedAt != "2025-08-15T10:30:00" {
		t.Errorf("SavedAt = %q, want %q", got.Meta.SavedAt, "2025-08-15T10:30:00")
	}
	if len(got.Incomes) != 1 || got.Incomes[0].Name != "Salary" {
		t.Errorf("Incomes = %+v", got.Incomes)
	}
	if len(got.Expenses) != 1 || got.Expenses[0].Category != "Housing" {
		t.Errorf("Expenses = %+v", got.Expenses)
	}
}

func TestLoadReturnsIsolatedCopy(t *testing.T) {
	s := NewWithClock(fixedClock)
	doc := core.NewDoc(2025, 8)
	doc.Expenses = append(doc.Expenses, core.Expense{Name: "Rent", Category: "Housing", Amount: 1200})
	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	first, _, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first.Expenses[0].Amount = 9999

	second, _, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if second.Expenses[0].Amount != 1200 {
		t.Errorf("stored amount mutated through Load result: got %v", second.Expenses[0].Amount)
	}
}
