package amortize

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"cloud.google.com/go/civil"

	"mortgage-schedule/internal/model"
)

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func scenarioATerms(t *testing.T) model.LoanTerms {
	return model.LoanTerms{
		AnnualRate: 0.02,
		TermYears:  12,
		Principal:  300000,
		StartDate:  mustDate(t, "2021-12-01"),
	}
}

func TestBuild_ScenarioA(t *testing.T) {
	s, err := New().Amortize(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Periods) != 144 {
		t.Fatalf("expected 144 periods, got %d", len(s.Periods))
	}

	first := s.Periods[0]
	want := Period{
		Index:         1,
		PaymentDate:   mustDate(t, "2021-12-01"),
		Payment:       2345.05,
		PrincipalPaid: 1845.05,
		InterestPaid:  500.00,
		StartBalance:  300000.00,
		EndingBalance: 298154.95,
	}
	if first != want {
		t.Errorf("period 1: expected %+v, got %+v", want, first)
	}
	if got := s.Periods[1].EndingBalance; got != 296306.82 {
		t.Errorf("period 2 ending balance: expected 296306.82, got %.2f", got)
	}

	last := s.Periods[143]
	if last.PaymentDate != mustDate(t, "2033-11-01") {
		t.Errorf("last payment date: got %s", last.PaymentDate)
	}
	if last.PrincipalPaid != 2341.15 || last.InterestPaid != 3.90 || last.EndingBalance != 0 {
		t.Errorf("last period: got %+v", last)
	}
}

func TestBuild_LeavesBalancesUnset(t *testing.T) {
	s, err := New().Build(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range s.Periods {
		if p.StartBalance != 0 || p.EndingBalance != 0 {
			t.Fatalf("period %d: balances should be filled by Propagate, got %+v", p.Index, p)
		}
	}
}

func TestBuild_PrincipalSumsToLoan(t *testing.T) {
	for i, tc := range []struct {
		name  string
		terms model.LoanTerms
	}{
		{"scenario A", scenarioATerms(t)},
		{"30y 6.5%", model.LoanTerms{AnnualRate: 0.065, TermYears: 30, Principal: 425000, StartDate: mustDate(t, "2020-03-01")}},
		{"zero rate", model.LoanTerms{AnnualRate: 0, TermYears: 1, Principal: 1200, StartDate: mustDate(t, "2022-01-01")}},
		{"fractional term", model.LoanTerms{AnnualRate: 0.031, TermYears: 7.5, Principal: 98765.43, StartDate: mustDate(t, "2019-06-01")}},
	} {
		s, err := New().Build(tc.terms)
		if err != nil {
			t.Errorf("Case #%v - %v: unexpected error: %v", i, tc.name, err)
			continue
		}
		sum := 0.0
		for _, p := range s.Periods {
			sum += p.PrincipalPaid
		}
		tol := 0.02 * float64(len(s.Periods))
		if math.Abs(sum-tc.terms.Principal) > tol {
			t.Errorf("Case #%v - %v: principal paid sums to %.2f, expected %.2f ± %.2f",
				i, tc.name, sum, tc.terms.Principal, tol)
		}
	}
}

func TestBuild_ZeroRate(t *testing.T) {
	s, err := New().Amortize(model.LoanTerms{AnnualRate: 0, TermYears: 1, Principal: 1200, StartDate: mustDate(t, "2022-01-01")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range s.Periods {
		if p.Payment != 100 || p.PrincipalPaid != 100 || p.InterestPaid != 0 {
			t.Fatalf("period %d: expected level 100.00 principal-only payments, got %+v", p.Index, p)
		}
	}
	if s.Periods[11].EndingBalance != 0 {
		t.Errorf("expected loan retired at term end, got %.2f", s.Periods[11].EndingBalance)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	a, err := New().Amortize(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New().Amortize(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two builds of the same terms differ")
	}
}

func TestBuild_PaymentDates(t *testing.T) {
	for i, tc := range []struct {
		name      string
		start     string
		years     float64
		wantFirst string
		wantLast  string
		wantCount int
	}{
		{"month start", "2021-01-01", 1, "2021-01-01", "2021-12-01", 12},
		{"mid month rolls forward", "2021-01-15", 1, "2021-02-01", "2022-01-01", 12},
		{"year end", "2021-12-31", 0.25, "2022-01-01", "2022-03-01", 3},
		{"fractional rounds half up", "2021-01-01", 11.0 - 1.0/365, "2021-01-01", "2031-12-01", 132},
		{"fractional rounds down", "2021-01-01", 0.5 + 0.4/12, "2021-01-01", "2021-06-01", 6},
	} {
		terms := model.LoanTerms{AnnualRate: 0.03, TermYears: tc.years, Principal: 1000, StartDate: mustDate(t, tc.start)}
		s, err := New().Build(terms)
		if err != nil {
			t.Errorf("Case #%v - %v: unexpected error: %v", i, tc.name, err)
			continue
		}
		if len(s.Periods) != tc.wantCount {
			t.Errorf("Case #%v - %v: expected %d periods, got %d", i, tc.name, tc.wantCount, len(s.Periods))
			continue
		}
		if got := s.Periods[0].PaymentDate.String(); got != tc.wantFirst {
			t.Errorf("Case #%v - %v: first date %s, expected %s", i, tc.name, got, tc.wantFirst)
		}
		if got := s.Periods[len(s.Periods)-1].PaymentDate.String(); got != tc.wantLast {
			t.Errorf("Case #%v - %v: last date %s, expected %s", i, tc.name, got, tc.wantLast)
		}
	}
}

func TestBuild_InvalidTerms(t *testing.T) {
	start := mustDate(t, "2021-01-01")
	for i, tc := range []struct {
		name  string
		terms model.LoanTerms
	}{
		{"rate -1", model.LoanTerms{AnnualRate: -1, TermYears: 10, Principal: 1000, StartDate: start}},
		{"rate NaN", model.LoanTerms{AnnualRate: math.NaN(), TermYears: 10, Principal: 1000, StartDate: start}},
		{"zero term", model.LoanTerms{AnnualRate: 0.02, TermYears: 0, Principal: 1000, StartDate: start}},
		{"negative term", model.LoanTerms{AnnualRate: 0.02, TermYears: -3, Principal: 1000, StartDate: start}},
		{"under half a month", model.LoanTerms{AnnualRate: 0.02, TermYears: 0.03, Principal: 1000, StartDate: start}},
		{"zero principal", model.LoanTerms{AnnualRate: 0.02, TermYears: 10, Principal: 0, StartDate: start}},
		{"missing start", model.LoanTerms{AnnualRate: 0.02, TermYears: 10, Principal: 1000}},
		{"over 100 years", model.LoanTerms{AnnualRate: 0.02, TermYears: 101, Principal: 1000, StartDate: start}},
		{"term overflows int", model.LoanTerms{AnnualRate: 0.02, TermYears: 1e300, Principal: 1000, StartDate: start}},
		{"huge term", model.LoanTerms{AnnualRate: 0.02, TermYears: 1e8, Principal: 1000, StartDate: start}},
	} {
		_, err := New().Build(tc.terms)
		if !errors.Is(err, ErrInvalidTerms) {
			t.Errorf("Case #%v - %v: expected ErrInvalidTerms, got %v", i, tc.name, err)
		}
		if CodeOf(err) != CodeInvalidTerms {
			t.Errorf("Case #%v - %v: expected code %s, got %q", i, tc.name, CodeInvalidTerms, CodeOf(err))
		}
	}
}

func TestPropagate_BalanceInvariants(t *testing.T) {
	for i, terms := range []model.LoanTerms{
		scenarioATerms(t),
		{AnnualRate: 0.065, TermYears: 30, Principal: 425000, StartDate: mustDate(t, "2020-03-01")},
		{AnnualRate: 0.0425, TermYears: 7, Principal: 436960.48, StartDate: mustDate(t, "2024-01-01")},
	} {
		s, err := New().Amortize(terms)
		if err != nil {
			t.Fatalf("Case #%v: unexpected error: %v", i, err)
		}
		retired := false
		for k := 1; k < len(s.Periods); k++ {
			prev, cur := s.Periods[k-1], s.Periods[k]
			if prev.EndingBalance != 0 && cur.StartBalance != prev.EndingBalance {
				t.Errorf("Case #%v: period %d start %.2f != previous ending %.2f", i, cur.Index, cur.StartBalance, prev.EndingBalance)
			}
			if cur.EndingBalance > prev.EndingBalance {
				t.Errorf("Case #%v: ending balance rises at period %d", i, cur.Index)
			}
			if prev.EndingBalance == 0 {
				retired = true
			}
			if retired && (cur.Payment != 0 || cur.PrincipalPaid != 0 || cur.InterestPaid != 0 || cur.EndingBalance != 0) {
				t.Errorf("Case #%v: period %d should be zero after payoff, got %+v", i, cur.Index, cur)
			}
		}
	}
}

func TestPropagate_EarlyPayoffClamps(t *testing.T) {
	e := New()
	s, err := e.Build(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Propagate(s, 150000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clamped := -1
	for i, p := range s.Periods {
		if p.Clamped {
			if clamped >= 0 {
				t.Fatalf("more than one clamped period: %d and %d", clamped+1, p.Index)
			}
			clamped = i
		}
	}
	if clamped < 0 || clamped == len(s.Periods)-1 {
		t.Fatalf("expected a clamped period before term end, got position %d", clamped)
	}

	c := s.Periods[clamped]
	if c.EndingBalance != 0 || c.PrincipalPaid != c.StartBalance {
		t.Errorf("clamped period should retire its start balance, got %+v", c)
	}
	if math.Abs(c.Payment-(c.PrincipalPaid+c.InterestPaid)) > 1e-6 {
		t.Errorf("clamped payment %.2f != principal %.2f + interest %.2f", c.Payment, c.PrincipalPaid, c.InterestPaid)
	}
	for _, p := range s.Periods[clamped+1:] {
		if p.Payment != 0 || p.PrincipalPaid != 0 || p.InterestPaid != 0 || p.StartBalance != 0 || p.EndingBalance != 0 {
			t.Fatalf("period %d should be zero after payoff, got %+v", p.Index, p)
		}
		if p.PaymentDate == (civil.Date{}) {
			t.Fatalf("period %d lost its payment date", p.Index)
		}
	}

	sum := s.Summary()
	if sum.TotalPrincipal != 150000 {
		t.Errorf("expected total principal 150000.00, got %.2f", sum.TotalPrincipal)
	}
	if sum.ActivePeriods != clamped+1 || sum.PayoffDate != c.PaymentDate {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestPropagate_UnderflowFail(t *testing.T) {
	e := New()
	e.Underflow = UnderflowFail
	s, err := e.Build(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = e.Propagate(s, 150000)
	if !errors.Is(err, ErrBalanceUnderflow) {
		t.Fatalf("expected ErrBalanceUnderflow, got %v", err)
	}
}

func TestPropagate_ZeroPrincipal(t *testing.T) {
	e := New()
	s, err := e.Build(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Propagate(s, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum := s.Summary(); sum.ActivePeriods != 0 || sum.TotalPayment != 0 {
		t.Errorf("expected an all-zero schedule, got %+v", sum)
	}
}

func TestPropagate_RejectsBadPrincipal(t *testing.T) {
	e := New()
	s, err := e.Build(scenarioATerms(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []float64{-1, math.Inf(1), math.NaN()} {
		if err := e.Propagate(s, p); !errors.Is(err, ErrInvalidTerms) {
			t.Errorf("principal %v: expected ErrInvalidTerms, got %v", p, err)
		}
	}
}

func TestParseUnderflowPolicy(t *testing.T) {
	for in, want := range map[string]UnderflowPolicy{"": UnderflowClamp, "clamp": UnderflowClamp, "fail": UnderflowFail} {
		got, err := ParseUnderflowPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseUnderflowPolicy(%q) = %q, %v; expected %q", in, got, err, want)
		}
	}
	if _, err := ParseUnderflowPolicy("ignore"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}
