package core

import (
	"sort"
	"strings"
)

// NormalizeCategory trims whitespace and substitutes the Uncategorized
// sentinel for blank categories. The result is never empty.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Uncategorized
	}
	return s
}

// GroupByCategory accumulates normalized expense amounts per normalized
// category and computes each category's share of the total. Rows are
// sorted descending by amount, ties broken by category name ascending.
// An empty input yields an empty slice.
func GroupByCategory(expenses []Expense) []CategoryShare {
	sums := make(map[string]float64)
	order := make([]string, 0, len(expenses))
	for _, e := range expenses {
		cat := NormalizeCategory(e.Category)
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
		}
		sums[cat] += NormalizeAmount(e.Amount)
	}

	var total float64
	for _, amt := range sums {
		total += amt
	}
	// Divisor floor keeps percentages at 0 when everything sums to 0.
	if total == 0 {
		total = 1
	}

	out := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryShare{
			Category: cat,
			Amount:   sums[cat],
			Percent:  sums[cat] / total * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}
