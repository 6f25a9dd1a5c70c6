package main

import (
	"flag"
	"fmt"

	"cloud.google.com/go/civil"

	"mortgage-schedule/internal/amortize"
	"mortgage-schedule/internal/config"
	"mortgage-schedule/internal/model"
)

// Demo:
// - Amortize a loan (defaults, or the loan of --config)
// - Apply one prime change
// - Print the periods around the change to show how sub-schedules are spliced
func main() {
	cfgPath := flag.String("config", "", "Path to YAML scenario (optional)")
	rate := flag.Float64("rate", 0.005, "Rate change applied at --at")
	at := flag.Int("at", 13, "Period at which the rate change takes effect")
	n := flag.Int("n", 6, "Number of periods to print from the change onward")
	outCSV := flag.String("out", "", "Optional path to write the schedule CSV (e.g. results/demo.csv)")
	flag.Parse()

	// Defaults (can be overridden via --config).
	terms := model.LoanTerms{
		AnnualRate: 0.02,
		TermYears:  12,
		Principal:  300000,
		StartDate:  civil.Date{Year: 2021, Month: 12, Day: 1},
	}
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		if terms, err = cfg.Loan.ToModelTerms(); err != nil {
			panic(err)
		}
	}

	engine := amortize.New()
	base, err := engine.Amortize(terms)
	if err != nil {
		panic(err)
	}
	if *at < 1 || *at > len(base.Periods) {
		panic(fmt.Errorf("--at must be within 1..%d", len(base.Periods)))
	}

	ev := model.RateChange{Date: base.Periods[*at-1].PaymentDate, Rate: *rate, Mode: model.RateChangeAdditive}
	ra, err := engine.ApplyEvent(base, ev)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Loan: %.2f at %.4f over %.2f years from %s (%d payments)\n",
		terms.Principal, terms.AnnualRate, terms.TermYears, terms.StartDate, len(base.Periods))
	fmt.Printf("Rate change %+.4f on %s: balance %.2f re-amortized at %.4f over %.4f years\n\n",
		*rate, ev.Date, ra.Balance, ra.Schedule.Terms.AnnualRate, ra.Schedule.Terms.TermYears)

	from := max(ra.Boundary-2, 1)
	to := min(ra.Boundary+*n-1, len(ra.Schedule.Periods))
	for i := from; i <= to; i++ {
		before, after := base.Periods[i-1], ra.Schedule.Periods[i-1]
		fmt.Printf("%3d %s  payment %9.2f -> %9.2f  interest %8.2f -> %8.2f  balance %11.2f\n",
			i, after.PaymentDate, before.Payment, after.Payment, before.InterestPaid, after.InterestPaid, after.EndingBalance)
	}

	if *outCSV != "" {
		if err := amortize.WriteScheduleCSV(*outCSV, ra.Schedule.Periods); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	s := ra.Schedule.Summary()
	fmt.Printf("\nDone. Interest %.2f -> %.2f  Payoff %s\n", base.Summary().TotalInterest, s.TotalInterest, s.PayoffDate)
}
