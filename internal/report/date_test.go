package report

import "testing"

func TestValidDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-08", true},
		{"2025-12", true},
		{"2025-08-03", true},
		{"2025-08-31", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-08-32", false},
		{"2025-08-00", false},
		{"2025-8", false},
		{"08-2025", false},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidDate(tc.in); got != tc.ok {
			t.Fatalf("ValidDate(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}
