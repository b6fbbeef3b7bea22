package core

// ComputeTotals sums the income and expense collections and derives
// profit and profit margin. Each record's amount goes through
// NormalizeAmount; the sums themselves are not re-rounded. When total
// income is zero the margin is 0 rather than a division by zero.
func ComputeTotals(incomes []Income, expenses []Expense) Totals {
	var t Totals
	for _, r := range incomes {
		t.IncomeTotal += NormalizeAmount(r.Amount)
	}
	for _, r := range expenses {
		t.ExpenseTotal += NormalizeAmount(r.Amount)
	}
	t.Profit = t.IncomeTotal - t.ExpenseTotal
	if t.IncomeTotal > 0 {
		t.ProfitMargin = t.Profit / t.IncomeTotal * 100
	}
	return t
}
