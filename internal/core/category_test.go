package core

import (
	"math"
	"testing"
)

func TestGroupByCategory(t *testing.T) {
	expenses := []Expense{
		{Name: "Rent", Category: "Rent", Amount: 1200},
		{Name: "Food", Category: "Food", Amount: 300},
	}

	got := GroupByCategory(expenses)
	want := []CategoryShare{
		{Category: "Rent", Amount: 1200, Percent: 80},
		{Category: "Food", Amount: 300, Percent: 20},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGroupByCategoryDefaultsBlank(t *testing.T) {
	expenses := []Expense{
		{Name: "a", Category: "", Amount: 10},
		{Name: "b", Category: "   ", Amount: 5},
		{Name: "c", Amount: 5},
	}
	got := GroupByCategory(expenses)
	if len(got) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(got))
	}
	if got[0].Category != Uncategorized || got[0].Amount != 20 {
		t.Fatalf("bucket = %+v", got[0])
	}
}

func TestGroupByCategoryPercentPartition(t *testing.T) {
	expenses := []Expense{
		{Name: "a", Category: "Housing", Amount: 733.33},
		{Name: "b", Category: "Food", Amount: 218.5},
		{Name: "c", Category: "Transport", Amount: 91.07},
		{Name: "d", Category: "Food", Amount: 44.1},
	}
	rows := GroupByCategory(expenses)

	var sum float64
	for _, r := range rows {
		sum += r.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percents sum to %v, want 100", sum)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Amount > rows[i-1].Amount {
			t.Fatalf("rows not sorted descending by amount: %+v", rows)
		}
	}
}

func TestGroupByCategoryZeroTotal(t *testing.T) {
	expenses := []Expense{
		{Name: "a", Category: "X", Amount: 0},
		{Name: "b", Category: "Y", Amount: 0},
	}
	for _, r := range GroupByCategory(expenses) {
		if r.Percent != 0 {
			t.Fatalf("percent with zero total = %v, want 0", r.Percent)
		}
	}
}

func TestGroupByCategoryTieOrder(t *testing.T) {
	expenses := []Expense{
		{Name: "b", Category: "Zeta", Amount: 50},
		{Name: "a", Category: "Alpha", Amount: 50},
	}
	rows := GroupByCategory(expenses)
	if rows[0].Category != "Alpha" || rows[1].Category != "Zeta" {
		t.Fatalf("equal amounts should order by category name: %+v", rows)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	if rows := GroupByCategory(nil); len(rows) != 0 {
		t.Fatalf("expected empty output, got %+v", rows)
	}
}
