// Package core implements the shared budget calculations: amount
// normalization, aggregate totals, category grouping and the document
// codec. Every function is pure; the package holds no state between
// calls.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeAmount coerces arbitrary input into a valid monetary value.
//
// Numeric types pass through directly. Everything else is rendered as
// text, stripped of thousands separators (commas) and whitespace, and
// parsed by its leading numeric prefix, so trailing garbage is ignored
// ("12.5abc" -> 12.5). Unparsable or non-finite input yields 0; this
// function never fails. The result is rounded half-up to two decimal
// places.
//
// Examples:
//
//	NormalizeAmount(12.345)     -> 12.35
//	NormalizeAmount("1,234.5")  -> 1234.5
//	NormalizeAmount("abc")      -> 0
func NormalizeAmount(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		f = parseLeadingNumber(cleanAmountString(n))
	default:
		// Fall back to the textual form, same as string input.
		f = parseLeadingNumber(cleanAmountString(fmt.Sprint(v)))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return RoundCents(f)
}

// ParseAmount normalizes a textual amount the way NormalizeAmount
// does, additionally reporting whether the input carried a numeric
// prefix at all. Interactive callers use the second result to tell
// "abc" apart from a genuine zero.
func ParseAmount(s string) (float64, bool) {
	f := parseLeadingNumber(cleanAmountString(s))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return RoundCents(f), true
}

// RoundCents rounds half-up on the scaled integer: round(v*100)/100.
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func cleanAmountString(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), "")
}

// parseLeadingNumber parses as far as a valid number extends and
// ignores the rest. Returns NaN when no numeric prefix exists.
func parseLeadingNumber(s string) float64 {
	end := numericPrefixLen(s)
	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
		// A dangling "1e" or "1." prefix; back off until it parses.
		end--
	}
	return math.NaN()
}

// numericPrefixLen returns the length of the longest prefix of s that
// can open a decimal number: sign, digits, one decimal point, more
// digits, then an optional exponent.
func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			i = j
		}
	}
	return i
}
