// Command bilancio manages a monthly budget from the terminal: it
// imports records from CSV or collects them interactively, then prints
// the totals and per-category breakdown as a table or as JSON.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bilancio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "Path to CSV file to import (type,name,category,amount[,date]). If omitted, runs interactive mode.")
	month := fs.String("month", "", "Month label for the report, e.g. 2025-08.")
	jsonOut := fs.Bool("json", false, "Output JSON instead of a human-readable table.")
	saveJSON := fs.String("save-json", "", "Optional path to save the JSON report.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	year, monthNum, err := parseMonthLabel(*month, time.Now())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	doc := core.NewDoc(year, monthNum)

	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			fmt.Fprintf(stderr, "Error: Input file not found: %s\n", *input)
			return 2
		}
		incomes, expenses, err := report.ReadCSV(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		doc.Incomes = append(doc.Incomes, incomes...)
		doc.Expenses = append(doc.Expenses, expenses...)
	} else {
		collectInteractive(stdin, stdout, &doc)
	}

	rep := report.Build(doc)
	repJSON, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *jsonOut {
		fmt.Fprintln(stdout, string(repJSON))
	} else {
		report.Render(stdout, doc)
	}
	if *saveJSON != "" {
		if err := os.WriteFile(*saveJSON, repJSON, 0644); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// parseMonthLabel splits a YYYY-MM label, defaulting to the current
// period when the label is empty.
func parseMonthLabel(label string, now time.Time) (int, int, error) {
	if label == "" {
		return now.Year(), int(now.Month()), nil
	}
	y, m, ok := strings.Cut(label, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid month label %q, expected YYYY-MM", label)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month label %q, expected YYYY-MM", label)
	}
	monthNum, err := strconv.Atoi(m)
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, fmt.Errorf("invalid month label %q, expected YYYY-MM", label)
	}
	return year, monthNum, nil
}

// collectInteractive prompts for incomes then expenses. A blank name
// finishes each section.
func collectInteractive(in io.Reader, out io.Writer, doc *core.BudgetDoc) {
	sc := bufio.NewScanner(in)

	fmt.Fprintln(out, "Enter your monthly incomes. Leave name blank to stop.")
	for {
		name := prompt(sc, out, "Income name (blank to finish): ")
		if name == "" {
			break
		}
		amount := askAmount(sc, out)
		date := askDate(sc, out, doc.Meta.Label())
		doc.Incomes = append(doc.Incomes, core.Income{Name: name, Amount: amount, Date: date})
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Enter your monthly expenses. Leave name blank to stop.")
	for {
		name := prompt(sc, out, "Expense name (blank to finish): ")
		if name == "" {
			break
		}
		category := core.NormalizeCategory(prompt(sc, out, "Category (e.g., Housing, Food, Utilities): "))
		amount := askAmount(sc, out)
		date := askDate(sc, out, doc.Meta.Label())
		doc.Expenses = append(doc.Expenses, core.Expense{Name: name, Category: category, Amount: amount, Date: date})
	}
}

func prompt(sc *bufio.Scanner, out io.Writer, msg string) string {
	fmt.Fprint(out, msg)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func askAmount(sc *bufio.Scanner, out io.Writer) float64 {
	for {
		raw := prompt(sc, out, "Amount: $")
		if raw == "" {
			return 0
		}
		v, ok := core.ParseAmount(raw)
		if !ok {
			fmt.Fprintln(out, "Please enter a valid number (e.g., 1234.56).")
			continue
		}
		if v < 0 {
			fmt.Fprintln(out, "Amount must be non-negative. Try again.")
			continue
		}
		return v
	}
}

func askDate(sc *bufio.Scanner, out io.Writer, fallback string) string {
	raw := prompt(sc, out, fmt.Sprintf("Date (YYYY-MM-DD or YYYY-MM) [default %s]: ", fallback))
	if raw == "" {
		return fallback
	}
	if report.ValidDate(raw) {
		return raw
	}
	fmt.Fprintln(out, "Invalid format, expected YYYY-MM-DD or YYYY-MM. Using default.")
	return fallback
}
