package model

import (
	"errors"
	"fmt"
	"math"

	"cloud.google.com/go/civil"
)

// PaymentsPerYear is the number of scheduled payments in one year.
const PaymentsPerYear = 12

// MaxPeriods caps the length of a schedule (100 years of monthly payments).
const MaxPeriods = 100 * PaymentsPerYear

// LoanTerms defines the inputs of one amortization run.
// Units:
// - AnnualRate: fraction per year (0.02 = 2%)
// - TermYears: years; may be fractional once an event has shortened the term
// - Principal: currency units, > 0
// - StartDate: first payment is due on the first month-start on or after it
type LoanTerms struct {
	AnnualRate float64
	TermYears  float64
	Principal  float64
	StartDate  civil.Date
}

// MonthlyRate is the periodic rate used by the annuity formula.
func (t LoanTerms) MonthlyRate() float64 {
	return t.AnnualRate / PaymentsPerYear
}

// Periods returns the number of monthly payments, rounded half-up to whole months.
// Terms longer than MaxPeriods saturate at MaxPeriods+1 so the conversion to
// int never overflows; Validate rejects them.
func (t LoanTerms) Periods() int {
	n := math.Floor(t.TermYears*PaymentsPerYear + 0.5)
	switch {
	case math.IsNaN(n) || n <= 0:
		return 0
	case n > MaxPeriods:
		return MaxPeriods + 1
	}
	return int(n)
}

func (t LoanTerms) Validate() error {
	if math.IsNaN(t.AnnualRate) || math.IsInf(t.AnnualRate, 0) {
		return errors.New("AnnualRate must be finite")
	}
	if t.AnnualRate <= -1 {
		return errors.New("AnnualRate must be > -1")
	}
	if math.IsNaN(t.TermYears) || math.IsInf(t.TermYears, 0) {
		return errors.New("TermYears must be finite")
	}
	if t.Periods() <= 0 {
		return errors.New("TermYears must cover at least one monthly period")
	}
	if t.Periods() > MaxPeriods {
		return fmt.Errorf("TermYears must not exceed %d monthly periods", MaxPeriods)
	}
	if math.IsNaN(t.Principal) || math.IsInf(t.Principal, 0) {
		return errors.New("Principal must be finite")
	}
	if t.Principal <= 0 {
		return errors.New("Principal must be > 0")
	}
	if !t.StartDate.IsValid() {
		return errors.New("StartDate must be a valid calendar date")
	}
	return nil
}
