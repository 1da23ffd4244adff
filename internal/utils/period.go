package util

import "time"

// WeekStart returns the Monday of the week containing d.
func WeekStart(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// MonthStart returns the first day of the month containing d.
func MonthStart(d Date) Date {
	y, m, _ := d.Date()
	return DateOf(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
}

// PrevWeekRange returns the Monday and Sunday of the full week before the one
// containing d.
func PrevWeekRange(d Date) (Date, Date) {
	start := WeekStart(d).AddDays(-7)
	return start, start.AddDays(6)
}

// PrevMonthRange returns the first and last day of the calendar month before
// the one containing d.
func PrevMonthRange(d Date) (Date, Date) {
	first := MonthStart(d)
	prevFirst := DateOf(first.AddDate(0, -1, 0))
	return prevFirst, first.AddDays(-1)
}
