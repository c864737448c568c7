package report

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned for a month or week that does not exist.
var ErrInvalidPeriod = errors.New("invalid report period")

// Kind is the report granularity.
type Kind string

const (
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// Period is an inclusive range of calendar days. Dates carry no time of day
// and are expressed in UTC.
type Period struct {
	Kind  Kind
	Year  int
	Month int
	// Week is the week of month for weekly periods, 0 otherwise.
	Week  int
	Start time.Time
	End   time.Time
}

// WeekOfMonth buckets a day of month into 7-day weeks starting on the 1st.
func WeekOfMonth(day int) int {
	return (day-1)/7 + 1
}

// WeekPeriod covers days 7(week-1)+1 through 7*week of the month, clamped to
// the month's last day.
func WeekPeriod(year, month, week int) (Period, error) {
	first, last, err := monthBounds(year, month)
	if err != nil {
		return Period{}, err
	}
	if week < 1 {
		return Period{}, fmt.Errorf("%w: week %d", ErrInvalidPeriod, week)
	}

	start := first.AddDate(0, 0, 7*(week-1))
	if start.After(last) {
		return Period{}, fmt.Errorf("%w: %04d-%02d has no week %d", ErrInvalidPeriod, year, month, week)
	}
	end := start.AddDate(0, 0, 6)
	if end.After(last) {
		end = last
	}

	return Period{Kind: Weekly, Year: year, Month: month, Week: week, Start: start, End: end}, nil
}

// MonthPeriod covers the whole calendar month.
func MonthPeriod(year, month int) (Period, error) {
	first, last, err := monthBounds(year, month)
	if err != nil {
		return Period{}, err
	}
	return Period{Kind: Monthly, Year: year, Month: month, Start: first, End: last}, nil
}

// DayPeriod covers a single day.
func DayPeriod(day time.Time) Period {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return Period{Kind: Daily, Year: d.Year(), Month: int(d.Month()), Start: d, End: d}
}

// Days is the number of calendar days in the period.
func (p Period) Days() int {
	if p.Start.IsZero() {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

func (p Period) String() string {
	switch p.Kind {
	case Weekly:
		return fmt.Sprintf("%d년 %d월 %d주차", p.Year, p.Month, p.Week)
	case Monthly:
		return fmt.Sprintf("%d년 %d월", p.Year, p.Month)
	default:
		return p.Start.Format("2006-01-02")
	}
}

func monthBounds(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}
