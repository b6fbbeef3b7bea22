// Package report builds the human- and machine-readable monthly
// reports and imports record collections from CSV.
package report

import (
	"bilancio/internal/core"
)

// Totals mirrors the aggregate block of the report, rounded to two
// decimal places for presentation.
type Totals struct {
	Income          float64 `json:"income"`
	Expenses        float64 `json:"expenses"`
	Net             float64 `json:"net"`
	ProfitMarginPct float64 `json:"profit_margin_pct"`
}

// Breakdown carries the per-category maps: absolute amounts plus the
// share relative to total income and to total expenses.
type Breakdown struct {
	ByCategory       map[string]float64 `json:"by_category"`
	PercentOfIncome  map[string]float64 `json:"percent_of_income"`
	PercentOfExpense map[string]float64 `json:"percent_of_expenses"`
}

// Report is the full monthly report for a document.
type Report struct {
	Month    string         `json:"month"`
	Incomes  []core.Income  `json:"incomes"`
	Expenses []core.Expense `json:"expenses"`
	Totals   Totals         `json:"totals"`
	Break    Breakdown      `json:"breakdown"`
}

// Build computes the report for the document. All presentation values
// are rounded to two decimal places; the underlying core aggregates
// are not.
func Build(doc core.BudgetDoc) Report {
	t := core.ComputeTotals(doc.Incomes, doc.Expenses)
	shares := core.GroupByCategory(doc.Expenses)

	byCat := make(map[string]float64, len(shares))
	pctIncome := make(map[string]float64, len(shares))
	pctExpense := make(map[string]float64, len(shares))
	for _, s := range shares {
		byCat[s.Category] = core.RoundCents(s.Amount)
		pctIncome[s.Category] = core.RoundCents(percentOf(s.Amount, t.IncomeTotal))
		pctExpense[s.Category] = core.RoundCents(percentOf(s.Amount, t.ExpenseTotal))
	}

	return Report{
		Month:    doc.Meta.Label(),
		Incomes:  doc.Incomes,
		Expenses: doc.Expenses,
		Totals: Totals{
			Income:          core.RoundCents(t.IncomeTotal),
			Expenses:        core.RoundCents(t.ExpenseTotal),
			Net:             core.RoundCents(t.Profit),
			ProfitMarginPct: core.RoundCents(t.ProfitMargin),
		},
		Break: Breakdown{
			ByCategory:       byCat,
			PercentOfIncome:  pctIncome,
			PercentOfExpense: pctExpense,
		},
	}
}

// percentOf degrades to 0 when the base is not positive, matching the
// aggregate margin rule.
func percentOf(amount, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return amount / base * 100
}
