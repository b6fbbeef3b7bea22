// Package export produces shareable artifacts for a budget document.
// The legacy spreadsheet export degrades to JSON or CSV text; the JSON
// artifact is exactly the codec's serialized form.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"bilancio/internal/core"
)

// New returns the exporter for the configured format ("json" or "csv").
func New(format, dir string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{Dir: dir}, nil
	case "csv":
		return &CSVExporter{Dir: dir}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// Exporter matches store.Exporter without importing it.
type Exporter interface {
	Export(ctx context.Context, doc core.BudgetDoc) (string, error)
}

// JSONExporter writes the codec's pretty-printed document.
type JSONExporter struct {
	Dir string
}

func (e *JSONExporter) Export(ctx context.Context, doc core.BudgetDoc) (string, error) {
	data, err := core.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	path := filepath.Join(e.Dir, doc.Meta.DefaultFilename("json"))
	if err := writeArtifact(path, data); err != nil {
		return "", err
	}
	logExported(ctx, path, doc)
	return path, nil
}

// CSVExporter renders the document as CSV text laid out like the
// legacy workbook: summary figures, incomes, expenses, then the
// category breakdown.
type CSVExporter struct {
	Dir string
}

func (e *CSVExporter) Export(ctx context.Context, doc core.BudgetDoc) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, doc.Meta.DefaultFilename("csv"))
	if err := writeArtifact(path, buf.Bytes()); err != nil {
		return "", err
	}
	logExported(ctx, path, doc)
	return path, nil
}

// WriteCSV renders the full document report to w.
func WriteCSV(w io.Writer, doc core.BudgetDoc) error {
	cw := csv.NewWriter(w)

	t := core.ComputeTotals(doc.Incomes, doc.Expenses)
	summary := [][]string{
		{"Year", strconv.Itoa(doc.Meta.Year)},
		{"Month", strconv.Itoa(doc.Meta.Month)},
		{},
		{"Income Total", formatAmount(t.IncomeTotal)},
		{"Expense Total", formatAmount(t.ExpenseTotal)},
		{"Profit", formatAmount(t.Profit)},
		{"Profit Margin %", formatAmount(t.ProfitMargin)},
		{},
	}
	for _, rec := range summary {
		if len(rec) == 0 {
			rec = []string{""}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := cw.Write([]string{"Incomes"}); err != nil {
		return fmt.Errorf("write incomes header: %w", err)
	}
	if err := cw.Write([]string{"Name", "Amount", "Date"}); err != nil {
		return fmt.Errorf("write incomes header: %w", err)
	}
	for _, inc := range doc.Incomes {
		rec := []string{inc.Name, formatAmount(core.NormalizeAmount(inc.Amount)), inc.Date}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write income: %w", err)
		}
	}

	if err := cw.Write([]string{""}); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}
	if err := cw.Write([]string{"Expenses"}); err != nil {
		return fmt.Errorf("write expenses header: %w", err)
	}
	if err := cw.Write([]string{"Name", "Category", "Amount", "Date"}); err != nil {
		return fmt.Errorf("write expenses header: %w", err)
	}
	for _, exp := range doc.Expenses {
		rec := []string{exp.Name, exp.Category, formatAmount(core.NormalizeAmount(exp.Amount)), exp.Date}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write expense: %w", err)
		}
	}

	if err := cw.Write([]string{""}); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}
	if err := cw.Write([]string{"Categories"}); err != nil {
		return fmt.Errorf("write categories header: %w", err)
	}
	if err := cw.Write([]string{"Category", "Amount", "Percent"}); err != nil {
		return fmt.Errorf("write categories header: %w", err)
	}
	for _, share := range core.GroupByCategory(doc.Expenses) {
		rec := []string{share.Category, formatAmount(share.Amount), formatAmount(share.Percent)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write category: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export artifact: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func logExported(ctx context.Context, path string, doc core.BudgetDoc) {
	slog.InfoContext(ctx, "Budget document exported",
		"component", "export",
		"operation", "export",
		"artifact", path,
		"incomes", len(doc.Incomes),
		"expenses", len(doc.Expenses))
}
