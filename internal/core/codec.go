package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Marshal renders the document as pretty-printed JSON with 2-space
// indentation and the canonical field order (meta, incomes, expenses).
func Marshal(doc BudgetDoc) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Unmarshal parses persisted text and reconstructs a BudgetDoc with
// field-by-field defensive coercion: wrong field types and missing
// collections degrade to defaults rather than failing. The reference
// instant supplies the year and month substituted when meta carries
// none; callers pass time.Now(). Only syntactically invalid JSON
// returns an error.
//
// meta.month is deliberately not range-validated: an out-of-range value
// in a persisted document passes through unchanged.
func Unmarshal(data []byte, ref time.Time) (BudgetDoc, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return BudgetDoc{}, fmt.Errorf("parse document: %w", err)
	}

	// A top-level non-object degrades to an all-defaults document.
	root, _ := raw.(map[string]any)

	doc := BudgetDoc{
		Incomes:  []Income{},
		Expenses: []Expense{},
	}

	meta, _ := root["meta"].(map[string]any)
	doc.Meta.Year = coerceInt(meta["year"])
	if doc.Meta.Year == 0 {
		doc.Meta.Year = ref.Year()
	}
	doc.Meta.Month = coerceInt(meta["month"])
	if doc.Meta.Month == 0 {
		doc.Meta.Month = int(ref.Month())
	}
	doc.Meta.SavedAt = coerceString(meta["saved_at"])

	if items, ok := root["incomes"].([]any); ok {
		for _, it := range items {
			entry, _ := it.(map[string]any)
			inc := Income{
				Name:   coerceString(entry["name"]),
				Amount: NormalizeAmount(entry["amount"]),
			}
			if d, ok := entry["date"].(string); ok {
				inc.Date = d
			}
			doc.Incomes = append(doc.Incomes, inc)
		}
	}

	if items, ok := root["expenses"].([]any); ok {
		for _, it := range items {
			entry, _ := it.(map[string]any)
			exp := Expense{
				Name:     coerceString(entry["name"]),
				Category: coerceString(entry["category"]),
				Amount:   NormalizeAmount(entry["amount"]),
			}
			if exp.Category == "" {
				exp.Category = Uncategorized
			}
			if d, ok := entry["date"].(string); ok {
				exp.Date = d
			}
			doc.Expenses = append(doc.Expenses, exp)
		}
	}

	return doc, nil
}

// coerceInt mirrors loose numeric coercion: JSON numbers truncate,
// numeric strings parse, anything else is 0.
func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f)
		}
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// coerceString renders scalars as text; missing values become "".
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}
