package model

import (
	"math"
	"testing"

	"cloud.google.com/go/civil"
)

func TestLoanTerms_Periods(t *testing.T) {
	for i, tc := range []struct {
		years float64
		want  int
	}{
		{12, 144},
		{11, 132},
		{12 - 1096.0/365, 108},
		{11 - 366.0/365, 120},
		{0.5/12 + 1e-9, 1},
		{0.4 / 12, 0},
		{0, 0},
		{-3, 0},
		{100, MaxPeriods},
		{100.1, MaxPeriods + 1},
		{1e8, MaxPeriods + 1},
		{1e300, MaxPeriods + 1},
		{math.Inf(1), MaxPeriods + 1},
		{math.NaN(), 0},
	} {
		if got := (LoanTerms{TermYears: tc.years}).Periods(); got != tc.want {
			t.Errorf("Case #%v: %v years -> %d periods, expected %d", i, tc.years, got, tc.want)
		}
	}
}

func TestLoanTerms_Validate(t *testing.T) {
	ok := LoanTerms{AnnualRate: 0.02, TermYears: 12, Principal: 300000, StartDate: civil.Date{Year: 2021, Month: 12, Day: 1}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	longest := ok
	longest.TermYears = 100
	if err := longest.Validate(); err != nil {
		t.Errorf("a 100 year term is allowed: %v", err)
	}

	negativeRate := ok
	negativeRate.AnnualRate = -0.005
	if err := negativeRate.Validate(); err != nil {
		t.Errorf("a small negative rate is still computable: %v", err)
	}

	for i, mut := range []func(*LoanTerms){
		func(l *LoanTerms) { l.AnnualRate = -1 },
		func(l *LoanTerms) { l.TermYears = 0.01 },
		func(l *LoanTerms) { l.TermYears = 101 },
		func(l *LoanTerms) { l.TermYears = 1e8 },
		func(l *LoanTerms) { l.TermYears = math.Inf(1) },
		func(l *LoanTerms) { l.Principal = -5 },
		func(l *LoanTerms) { l.StartDate = civil.Date{Year: 2021, Month: 2, Day: 30} },
	} {
		terms := ok
		mut(&terms)
		if err := terms.Validate(); err == nil {
			t.Errorf("Case #%v: expected validation error for %+v", i, terms)
		}
	}
}

func TestRateChange_Adjust(t *testing.T) {
	for i, tc := range []struct {
		name     string
		ev       RateChange
		wantRate float64
		wantErr  bool
	}{
		{"additive", RateChange{Rate: 0.0075, Mode: RateChangeAdditive}, 0.0275, false},
		{"empty mode is additive", RateChange{Rate: 0.0075}, 0.0275, false},
		{"absolute", RateChange{Rate: 0.025, Mode: RateChangeAbsolute}, 0.025, false},
		{"unknown mode", RateChange{Rate: 0.025, Mode: "compound"}, 0, true},
	} {
		rate, principal, err := tc.ev.Adjust(0.02, 1000)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Case #%v - %v: expected error", i, tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Case #%v - %v: unexpected error: %v", i, tc.name, err)
			continue
		}
		if rate != tc.wantRate || principal != 1000 {
			t.Errorf("Case #%v - %v: got rate %v principal %v", i, tc.name, rate, principal)
		}
	}
}

func TestPrincipalAdjustment_Adjust(t *testing.T) {
	rate, principal, err := PrincipalAdjustment{Inflation: 0.05, Delta: -50}.Adjust(0.03, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 0.03 || principal != 1000 {
		t.Errorf("expected rate 0.03 principal 1000, got %v %v", rate, principal)
	}

	if _, _, err := (PrincipalAdjustment{Delta: -1001}).Adjust(0.03, 1000); err == nil {
		t.Errorf("expected error for a negative principal")
	}
	if _, p, err := (PrincipalAdjustment{Delta: -1000}).Adjust(0.03, 1000); err != nil || p != 0 {
		t.Errorf("full prepayment should give principal 0, got %v, %v", p, err)
	}
}

func TestParseRateChangeMode(t *testing.T) {
	for in, want := range map[string]RateChangeMode{
		"":          RateChangeAdditive,
		"additive":  RateChangeAdditive,
		" Absolute": RateChangeAbsolute,
	} {
		got, err := ParseRateChangeMode(in)
		if err != nil || got != want {
			t.Errorf("ParseRateChangeMode(%q) = %q, %v; expected %q", in, got, err, want)
		}
	}
	if _, err := ParseRateChangeMode("replace"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}

func TestDates(t *testing.T) {
	d := func(s string) civil.Date {
		v, err := ParseDate(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}

	if got := FirstPaymentDate(d("2021-12-01")); got != d("2021-12-01") {
		t.Errorf("month start should be kept, got %s", got)
	}
	if got := FirstPaymentDate(d("2021-12-02")); got != d("2022-01-01") {
		t.Errorf("expected roll to 2022-01-01, got %s", got)
	}
	if got := AddMonths(d("2021-12-01"), 143); got != d("2033-11-01") {
		t.Errorf("expected 2033-11-01, got %s", got)
	}
	if got := YearsBetween(d("2021-12-01"), d("2022-12-01")); got != 1 {
		t.Errorf("expected exactly one year, got %v", got)
	}
	if got := YearsBetween(d("2023-12-01"), d("2024-12-01")); got != 366.0/365 {
		t.Errorf("leap year should count 366 days, got %v", got)
	}
	if _, err := ParseDate("01/12/2021"); err == nil {
		t.Errorf("expected error for non ISO date")
	}
}
