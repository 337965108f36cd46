package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is a normalized calendar month.
type Period struct {
	Month int
	Year  int
}

// ParsePeriod parses a month/year token such as "4/25" or "4/2025".
//
// The token must split on "/" into exactly two integer parts. A two-digit
// year is taken as 2000+year, so 4/25 and 4/2025 both resolve to April
// 2025. Months outside 1..12 are rejected here rather than blowing up in
// date construction later.
func ParsePeriod(token string) (Period, error) {
	parts := strings.Split(strings.TrimSpace(token), "/")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrPeriodFormat, token)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrPeriodFormat, token)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrPeriodFormat, token)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d out of range", ErrPeriodFormat, month)
	}
	if year < 0 {
		return Period{}, fmt.Errorf("%w: %q", ErrPeriodFormat, token)
	}
	if year < 100 {
		year = 2000 + year
	}
	return Period{Month: month, Year: year}, nil
}

// Window returns the half-open date range [start, end) covering the period:
// the first day of the month up to but excluding the first day of the next
// month. December wraps into January of the following year. Querying with a
// half-open window sidesteps last-day-of-month arithmetic entirely.
func (p Period) Window() (start, end Date) {
	start = NewDate(p.Year, p.Month, 1)
	if p.Month == 12 {
		end = NewDate(p.Year+1, 1, 1)
	} else {
		end = NewDate(p.Year, p.Month+1, 1)
	}
	return start, end
}

// Contains reports whether d falls inside the period's window.
func (p Period) Contains(d Date) bool {
	start, end := p.Window()
	return !d.Before(start.Time) && d.Before(end.Time)
}

// String renders the period the way users type it, e.g. "4/2025".
func (p Period) String() string {
	return fmt.Sprintf("%d/%d", p.Month, p.Year)
}
