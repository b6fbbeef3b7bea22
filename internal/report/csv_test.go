package report

import (
	"strings"
	"testing"

	"bilancio/internal/core"
)

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"type,name,category,amount,date",
		"income,Salary,,5000,2025-08-01",
		"expense,Rent,Housing,1500,2025-08-03",
		"expense,Groceries,Food,400,2025-08",
		"transfer,Ignored,,100,",
	}, "\n")

	incomes, expenses, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(incomes) != 1 || len(expenses) != 2 {
		t.Fatalf("got %d incomes, %d expenses", len(incomes), len(expenses))
	}
	if incomes[0] != (core.Income{Name: "Salary", Amount: 5000, Date: "2025-08-01"}) {
		t.Fatalf("income = %+v", incomes[0])
	}
	if expenses[0] != (core.Expense{Name: "Rent", Category: "Housing", Amount: 1500, Date: "2025-08-03"}) {
		t.Fatalf("expense = %+v", expenses[0])
	}
	if expenses[1].Date != "2025-08" {
		t.Fatalf("month-level date = %q", expenses[1].Date)
	}
}

func TestReadCSVSeparateDateColumns(t *testing.T) {
	in := strings.Join([]string{
		"type,name,amount,year,month,day",
		"expense,Bus,2.50,2025,8,3",
		"expense,Metro,1.80,2025,8,",
	}, "\n")

	_, expenses, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if expenses[0].Date != "2025-08-03" {
		t.Fatalf("composed date = %q", expenses[0].Date)
	}
	if expenses[1].Date != "2025-08" {
		t.Fatalf("composed month date = %q", expenses[1].Date)
	}
	if expenses[0].Category != core.Uncategorized {
		t.Fatalf("missing category column should default, got %q", expenses[0].Category)
	}
}

func TestReadCSVDefaults(t *testing.T) {
	in := strings.Join([]string{
		"type,name,category,amount",
		"income,,,abc",
		"expense,,,-50",
	}, "\n")

	incomes, expenses, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if incomes[0].Name != "Income" || incomes[0].Amount != 0 {
		t.Fatalf("income defaults = %+v", incomes[0])
	}
	if expenses[0].Name != "Expense" || expenses[0].Amount != 0 {
		t.Fatalf("negative amount should clamp to 0: %+v", expenses[0])
	}
}

func TestReadCSVMissingHeader(t *testing.T) {
	in := "name,amount\nSalary,5000"
	if _, _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Fatal("expected error for missing type header")
	}
}
