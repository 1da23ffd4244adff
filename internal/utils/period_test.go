package util

import "testing"

func date(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2025-09-01", "2025-09-01"}, // Monday
		{"2025-09-03", "2025-09-01"}, // Wednesday
		{"2025-09-07", "2025-09-01"}, // Sunday
	}
	for _, c := range cases {
		if got := WeekStart(date(t, c.in)); got.String() != c.want {
			t.Errorf("WeekStart(%s)=%s, want %s", c.in, got, c.want)
		}
	}
}

func TestPrevWeekRange(t *testing.T) {
	start, end := PrevWeekRange(date(t, "2025-09-08")) // a Monday
	if start.String() != "2025-09-01" || end.String() != "2025-09-07" {
		t.Errorf("PrevWeekRange = %s..%s, want 2025-09-01..2025-09-07", start, end)
	}
}

func TestPrevMonthRange(t *testing.T) {
	start, end := PrevMonthRange(date(t, "2025-03-01"))
	if start.String() != "2025-02-01" || end.String() != "2025-02-28" {
		t.Errorf("PrevMonthRange = %s..%s, want 2025-02-01..2025-02-28", start, end)
	}
	start, end = PrevMonthRange(date(t, "2025-01-15"))
	if start.String() != "2024-12-01" || end.String() != "2024-12-31" {
		t.Errorf("PrevMonthRange = %s..%s, want 2024-12-01..2024-12-31", start, end)
	}
}

func TestDaysSince(t *testing.T) {
	a := date(t, "2025-09-01")
	b := date(t, "2025-09-04")
	if got := b.DaysSince(a); got != 3 {
		t.Errorf("DaysSince = %d, want 3", got)
	}
}
