package report

import "strconv"

// ValidDate reports whether s is a YYYY-MM or YYYY-MM-DD string with
// the month in 1-12 and, for day-level dates, the day in 1-31. Month
// and day combinations are not checked further.
func ValidDate(s string) bool {
	return validYM(s) || validYMD(s)
}

func validYM(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	if !allDigits(s[:4]) || !allDigits(s[5:]) {
		return false
	}
	m, _ := strconv.Atoi(s[5:])
	return m >= 1 && m <= 12
}

func validYMD(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	if !allDigits(s[:4]) || !allDigits(s[5:7]) || !allDigits(s[8:]) {
		return false
	}
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:])
	return m >= 1 && m <= 12 && d >= 1 && d <= 31
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
