package main

import (
	"fmt"
	"time"
)

// Period is a contiguous reporting window. Start is the first day at
// midnight, End the last day at 23:59:59, so a shift-start filter of
// [Start, End] covers the whole final day.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

func newPeriod(startDay, endDay time.Time) Period {
	start := dateOnly(startDay)
	end := dateOnly(endDay).Add(24*time.Hour - time.Second)
	return Period{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s to %s", start.Format("2006-01-02"), endDay.Format("2006-01-02")),
	}
}

func (p Period) contains(value time.Time) bool {
	return !value.Before(p.Start) && !value.After(p.End)
}

// referenceDate picks the date used to label the archived copy of the
// previous output. Monday runs reach back to the prior Thursday, Thursday
// runs to the prior Monday; any other day labels with today.
func referenceDate(today time.Time) time.Time {
	today = dateOnly(today)
	switch today.Weekday() {
	case time.Monday:
		return today.AddDate(0, 0, -4)
	case time.Thursday:
		return today.AddDate(0, 0, -3)
	}
	return today
}

// previousWeek is the most recent complete Sunday-through-Saturday week
// before today.
func previousWeek(today time.Time) Period {
	today = dateOnly(today)
	startOfThisWeek := today.AddDate(0, 0, -int(today.Weekday()))
	start := startOfThisWeek.AddDate(0, 0, -7)
	return newPeriod(start, start.AddDate(0, 0, 6))
}

// previousMonth is the first and last day of the calendar month before
// today's month.
func previousMonth(today time.Time) (time.Time, time.Time) {
	today = dateOnly(today)
	firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := firstOfThisMonth.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	return start, end
}

// monthlyWeeks decomposes a month into Sunday-anchored weekly periods.
// The walk starts from the Sunday on or before the month's first day and
// keeps only weeks whose end date lies inside the month, so a leading
// partial week survives while any week spilling into the next month is
// dropped even if that leaves the month's final days uncovered.
func monthlyWeeks(monthStart, monthEnd time.Time) []Period {
	monthStart = dateOnly(monthStart)
	monthEnd = dateOnly(monthEnd)
	firstSunday := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))

	var weeks []Period
	for start := firstSunday; !start.After(monthEnd); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)
		if end.Month() != monthStart.Month() {
			break
		}
		weeks = append(weeks, newPeriod(start, end))
	}
	return weeks
}

func dateOnly(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}
