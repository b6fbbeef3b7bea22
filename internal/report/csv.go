package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bilancio/internal/core"
)

// ReadCSV imports income and expense records from CSV text with a
// required header of at least type,name,amount. A date column may hold
// YYYY-MM or YYYY-MM-DD values; alternatively separate year, month and
// optional day columns are composed into one. Rows with an unknown
// type are skipped. Imported amounts are clamped non-negative.
func ReadCSV(r io.Reader) ([]core.Income, []core.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"type", "name", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("csv is missing required header %q", required)
		}
	}

	var incomes []core.Income
	var expenses []core.Expense
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row: %w", err)
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		amount := core.NormalizeAmount(get("amount"))
		if amount < 0 {
			amount = 0
		}
		date := get("date")
		if date == "" {
			date = composeDate(get("year"), get("month"), get("day"))
		}

		switch get("type") {
		case "income":
			name := get("name")
			if name == "" {
				name = "Income"
			}
			incomes = append(incomes, core.Income{Name: name, Amount: amount, Date: date})
		case "expense":
			name := get("name")
			if name == "" {
				name = "Expense"
			}
			category := get("category")
			if category == "" {
				category = core.Uncategorized
			}
			expenses = append(expenses, core.Expense{Name: name, Category: category, Amount: amount, Date: date})
		default:
			// Unknown type; skip the row.
		}
	}

	return incomes, expenses, nil
}

// composeDate builds YYYY-MM or YYYY-MM-DD from separate columns. The
// year must be four digits and the month one or two.
func composeDate(year, month, day string) string {
	if len(year) != 4 || month == "" || len(month) > 2 {
		return ""
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return ""
	}
	if d, err := strconv.Atoi(day); err == nil {
		return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	}
	return fmt.Sprintf("%04d-%02d", y, m)
}
