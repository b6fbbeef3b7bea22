package core

import "fmt"

// Uncategorized is the sentinel category assigned to expenses whose
// category is missing or blank.
const Uncategorized = "Uncategorized"

type (
	// Income is a single income record. Date, when present, is a
	// YYYY-MM or YYYY-MM-DD string; the core does not validate it.
	Income struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Date   string  `json:"date,omitempty"`
	}

	// Expense is a single expense record tagged with a free-text category.
	Expense struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date,omitempty"`
	}

	// Meta describes the budget period the document covers. SavedAt is
	// stamped by the persistence boundary, never by the core.
	Meta struct {
		Year    int    `json:"year"`
		Month   int    `json:"month"` // 1-12
		SavedAt string `json:"saved_at"`
	}

	// BudgetDoc is the root aggregate: one month's metadata plus the
	// income and expense collections in insertion order.
	BudgetDoc struct {
		Meta     Meta      `json:"meta"`
		Incomes  []Income  `json:"incomes"`
		Expenses []Expense `json:"expenses"`
	}

	// Totals holds the aggregate figures computed over a document's
	// collections.
	Totals struct {
		IncomeTotal  float64 `json:"income_total"`
		ExpenseTotal float64 `json:"expense_total"`
		Profit       float64 `json:"profit"`
		ProfitMargin float64 `json:"profit_margin"`
	}

	// CategoryShare is one row of the per-category expense breakdown.
	CategoryShare struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Percent  float64 `json:"percent"`
	}
)

// NewDoc returns an empty document for the given period.
func NewDoc(year, month int) BudgetDoc {
	return BudgetDoc{
		Meta:     Meta{Year: year, Month: month},
		Incomes:  []Income{},
		Expenses: []Expense{},
	}
}

// Label formats the period as YYYY-MM.
func (m Meta) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// DefaultFilename is the conventional name for a persisted document,
// e.g. "budget-2025-08.json".
func (m Meta) DefaultFilename(ext string) string {
	return fmt.Sprintf("budget-%s.%s", m.Label(), ext)
}
