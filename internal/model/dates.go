package model

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DaysPerYear is the day count used to turn elapsed days into elapsed years.
// Events subtract real days/365 from the term rather than counting months.
const DaysPerYear = 365

// FirstPaymentDate returns the first month-start on or after d.
func FirstPaymentDate(d civil.Date) civil.Date {
	if d.Day == 1 {
		return d
	}
	return AddMonths(civil.Date{Year: d.Year, Month: d.Month, Day: 1}, 1)
}

// AddMonths shifts a month-start date by n months.
func AddMonths(d civil.Date, n int) civil.Date {
	t := time.Date(d.Year, d.Month+time.Month(n), d.Day, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}

// YearsBetween is (end - start) in days divided by DaysPerYear.
func YearsBetween(start, end civil.Date) float64 {
	return float64(end.DaysSince(start)) / DaysPerYear
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
