package amortize

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"mortgage-schedule/internal/model"
)

// Period is one row of the amortization schedule.
// This is the primary artifact for "what is owed when".
type Period struct {
	Index       int
	PaymentDate civil.Date

	Payment       float64
	PrincipalPaid float64
	InterestPaid  float64

	StartBalance  float64
	EndingBalance float64

	// Clamped marks the period whose principal was capped at the start balance.
	Clamped bool
}

// Active reports whether a payment falls due in this period. Periods past the
// end of a shorter re-amortized term are inactive even when they carry a
// rounding residual.
func (p Period) Active() bool {
	return p.StartBalance > 0 && p.Payment > 0
}

// Schedule is an ordered sequence of periods (Index 1..N) together with the
// terms currently in force. After an event, Terms are the derived terms of the
// latest sub-schedule, which is what the next event is measured against.
type Schedule struct {
	Terms   model.LoanTerms
	Periods []Period
}

// Clone returns a deep copy; events never mutate the schedule they are applied to.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{Terms: s.Terms, Periods: make([]Period, len(s.Periods))}
	copy(out.Periods, s.Periods)
	return out
}

// Position returns the slice position of the period due on d, or -1.
func (s *Schedule) Position(d civil.Date) int {
	for i, p := range s.Periods {
		if p.PaymentDate == d {
			return i
		}
	}
	return -1
}

// Summary aggregates a schedule.
type Summary struct {
	Periods       int
	ActivePeriods int

	FirstPaymentDate civil.Date
	PayoffDate       civil.Date

	TotalPayment   float64
	TotalPrincipal float64
	TotalInterest  float64
	FinalBalance   float64
}

func (s *Schedule) Summary() Summary {
	sum := Summary{Periods: len(s.Periods)}
	if len(s.Periods) == 0 {
		return sum
	}
	sum.FirstPaymentDate = s.Periods[0].PaymentDate

	var pay, principal, interest decimal.Decimal
	for _, p := range s.Periods {
		if !p.Active() {
			continue
		}
		sum.ActivePeriods++
		sum.PayoffDate = p.PaymentDate
		pay = pay.Add(decimal.NewFromFloat(p.Payment))
		principal = principal.Add(decimal.NewFromFloat(p.PrincipalPaid))
		interest = interest.Add(decimal.NewFromFloat(p.InterestPaid))
	}
	sum.TotalPayment = pay.InexactFloat64()
	sum.TotalPrincipal = principal.InexactFloat64()
	sum.TotalInterest = interest.InexactFloat64()
	sum.FinalBalance = s.Periods[len(s.Periods)-1].EndingBalance
	return sum
}
