package amortize

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"mortgage-schedule/internal/model"
)

// UnderflowPolicy decides what Propagate does when a period's principal
// payment exceeds the balance left to repay.
type UnderflowPolicy string

const (
	// UnderflowClamp caps the principal at the start balance and retires the loan.
	UnderflowClamp UnderflowPolicy = "clamp"
	// UnderflowFail returns ErrBalanceUnderflow.
	UnderflowFail UnderflowPolicy = "fail"
)

// ParseUnderflowPolicy accepts "clamp", "fail" or "" (clamp).
func ParseUnderflowPolicy(s string) (UnderflowPolicy, error) {
	switch UnderflowPolicy(s) {
	case "", UnderflowClamp:
		return UnderflowClamp, nil
	case UnderflowFail:
		return UnderflowFail, nil
	default:
		return "", fmt.Errorf("unknown underflow policy %q (want clamp or fail)", s)
	}
}

type Engine struct {
	Underflow UnderflowPolicy
}

func New() *Engine { return &Engine{Underflow: UnderflowClamp} }

// Amortize builds the fixed-payment schedule for terms and propagates its balances.
func (e *Engine) Amortize(terms model.LoanTerms) (*Schedule, error) {
	s, err := e.Build(terms)
	if err != nil {
		return nil, err
	}
	if err := e.Propagate(s, terms.Principal); err != nil {
		return nil, err
	}
	return s, nil
}

// Build lays out terms.Periods() monthly payments from the closed-form annuity
// decomposition. Amounts are rounded to cents here and never again; balances
// are left for Propagate.
func (e *Engine) Build(terms model.LoanTerms) (*Schedule, error) {
	if err := terms.Validate(); err != nil {
		return nil, newError(CodeInvalidTerms, err, "invalid loan terms")
	}

	n := terms.Periods()
	r := terms.MonthlyRate()
	pmt := annuityPayment(r, n, terms.Principal)
	if math.IsNaN(pmt) || math.IsInf(pmt, 0) {
		return nil, newError(CodeInvalidTerms, nil, "annuity payment is not finite for rate %v over %d periods", terms.AnnualRate, n)
	}

	first := model.FirstPaymentDate(terms.StartDate)
	periods := make([]Period, n)
	for k := 1; k <= n; k++ {
		interest := annuityInterest(r, k, pmt, terms.Principal)
		periods[k-1] = Period{
			Index:         k,
			PaymentDate:   model.AddMonths(first, k-1),
			Payment:       roundCents(pmt),
			PrincipalPaid: roundCents(pmt - interest),
			InterestPaid:  roundCents(interest),
		}
	}
	return &Schedule{Terms: terms, Periods: periods}, nil
}

// Propagate fills start and ending balances in place, walking periods in order
// from an initial balance of principal (rounded to cents). Balance arithmetic is
// exact in cents so each start balance equals the previous ending balance.
// Once the balance reaches zero every later period is zero.
func (e *Engine) Propagate(s *Schedule, principal float64) error {
	if s == nil {
		return newError(CodeInvalidTerms, nil, "schedule is nil")
	}
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal < 0 {
		return newError(CodeInvalidTerms, nil, "initial principal %v must be finite and >= 0", principal)
	}

	bal := decimal.NewFromFloat(principal).Round(2)
	for i := range s.Periods {
		p := &s.Periods[i]
		if !bal.IsPositive() {
			retire(p)
			continue
		}

		paid := decimal.NewFromFloat(p.PrincipalPaid)
		if paid.GreaterThan(bal) {
			if e.Underflow == UnderflowFail {
				return newError(CodeBalanceUnderflow, nil,
					"period %d: principal paid %s exceeds start balance %s", p.Index, paid.StringFixed(2), bal.StringFixed(2))
			}
			p.Payment = bal.Add(decimal.NewFromFloat(p.InterestPaid)).InexactFloat64()
			p.PrincipalPaid = bal.InexactFloat64()
			p.StartBalance = bal.InexactFloat64()
			p.EndingBalance = 0
			p.Clamped = true
			bal = decimal.Zero
			continue
		}

		p.StartBalance = bal.InexactFloat64()
		bal = bal.Sub(paid)
		p.EndingBalance = bal.InexactFloat64()
	}
	return nil
}

func retire(p *Period) {
	p.Payment = 0
	p.PrincipalPaid = 0
	p.InterestPaid = 0
	p.StartBalance = 0
	p.EndingBalance = 0
	p.Clamped = false
}

// annuityPayment is the level payment retiring pv over n periods at rate r
// (payments at period end).
func annuityPayment(r float64, n int, pv float64) float64 {
	if r == 0 {
		return pv / float64(n)
	}
	return pv * r / (1 - math.Pow(1+r, -float64(n)))
}

// annuityInterest is the interest part of payment k (1-based): the rate applied
// to the closed-form balance after k-1 payments.
func annuityInterest(r float64, k int, pmt, pv float64) float64 {
	if r == 0 {
		return 0
	}
	g := math.Pow(1+r, float64(k-1))
	return (pv*g - pmt*(g-1)/r) * r
}

func roundCents(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
