package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"bilancio/internal/core"
)

// Render writes the aligned text report to w: totals, margin, and a
// per-category table with shares of income and of expenses.
func Render(w io.Writer, doc core.BudgetDoc) {
	title := "Monthly Budget Report"
	if doc.Meta.Year != 0 || doc.Meta.Month != 0 {
		title += " for " + doc.Meta.Label()
	}
	rule := strings.Repeat("=", len(title))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)

	t := core.ComputeTotals(doc.Incomes, doc.Expenses)
	fmt.Fprintf(w, "Total Income:   %s\n", Money(t.IncomeTotal))
	fmt.Fprintf(w, "Total Expenses: %s\n", Money(t.ExpenseTotal))
	fmt.Fprintf(w, "Net (Profit):   %s\n", Money(t.Profit))
	fmt.Fprintf(w, "Profit Margin:  %.2f%%\n", t.ProfitMargin)
	fmt.Fprintln(w)

	rep := Build(doc)
	if len(rep.Break.ByCategory) == 0 {
		fmt.Fprintln(w, "No expenses entered.")
		return
	}

	cats := make([]string, 0, len(rep.Break.ByCategory))
	for cat := range rep.Break.ByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	headers := [4]string{"Category", "Amount", "% of Income", "% of Expenses"}
	widths := [4]int{len(headers[0]), len(headers[1]), len(headers[2]), len(headers[3])}
	for _, cat := range cats {
		cells := rowCells(cat, rep)
		for i, cell := range cells {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := strings.Repeat("-", widths[0]+widths[1]+widths[2]+widths[3]+9)
	fmt.Fprintln(w, "Expense Breakdown by Category:")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%-*s | %*s | %*s | %*s\n",
		widths[0], headers[0], widths[1], headers[1], widths[2], headers[2], widths[3], headers[3])
	fmt.Fprintln(w, line)
	for _, cat := range cats {
		cells := rowCells(cat, rep)
		fmt.Fprintf(w, "%-*s | %*s | %*s | %*s\n",
			widths[0], cells[0], widths[1], cells[1], widths[2], cells[2], widths[3], cells[3])
	}
	fmt.Fprintln(w, line)
}

func rowCells(cat string, rep Report) [4]string {
	return [4]string{
		cat,
		groupDigits(fmt.Sprintf("%.2f", rep.Break.ByCategory[cat])),
		fmt.Sprintf("%.2f%%", rep.Break.PercentOfIncome[cat]),
		fmt.Sprintf("%.2f%%", rep.Break.PercentOfExpense[cat]),
	}
}

// Money formats a dollar value with thousands separators, e.g.
// "$1,234.56".
func Money(v float64) string {
	return "$" + groupDigits(fmt.Sprintf("%.2f", v))
}

// groupDigits inserts comma separators into the integer part of an
// already-formatted decimal string.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
