package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mortgage-schedule/internal/amortize"
	"mortgage-schedule/internal/config"
	"mortgage-schedule/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "schedule":
		cmdSchedule(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli schedule --config examples/scenarios/prime-up.yaml --out results/schedule.csv")
	fmt.Println("  cli compare --config examples/scenarios")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - schedule writes one CSV row per monthly period")
	fmt.Println("  - compare ranks scenarios by total interest paid, cheapest first")
}

func cmdSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML scenario")
	outPath := fs.String("out", "results/schedule.csv", "Output CSV path")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	exitOnErr(err)
	in, err := cfg.ToInput()
	exitOnErr(err)

	res, err := scenario.NewRunner(1).Run(context.Background(), in)
	exitOnErr(err)

	// ensure output dir exists
	exitOnErr(os.MkdirAll(filepath.Dir(*outPath), 0o755))
	exitOnErr(amortize.WriteScheduleCSV(*outPath, res.Schedule.Periods))

	for _, st := range res.Steps {
		fmt.Printf("%s %s: period %d balance=%.2f -> rate=%.4f years=%.4f principal=%.2f\n",
			st.Date, st.Kind, st.Boundary, st.Balance, st.Terms.AnnualRate, st.Terms.TermYears, st.Terms.Principal)
	}
	s := res.Summary
	fmt.Printf("Wrote %d rows to %s\n", s.Periods, *outPath)
	fmt.Printf("Total paid=$%.2f interest=$%.2f payoff=%s final balance=$%.2f\n",
		s.TotalPayment, s.TotalInterest, s.PayoffDate, s.FinalBalance)
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPaths := fs.String("config", "", "Comma-separated YAML scenarios or a directory")
	parallel := fs.Int("parallel", 4, "Maximum scenarios computed at once")
	_ = fs.Parse(args)

	if *cfgPaths == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	paths, err := expandPaths(*cfgPaths)
	exitOnErr(err)

	inputs := make([]scenario.Input, 0, len(paths))
	for _, p := range paths {
		cfg, err := config.Load(p)
		exitOnErr(err)
		in, err := cfg.ToInput()
		exitOnErr(err)
		inputs = append(inputs, in)
	}

	results, err := scenario.NewRunner(*parallel).Compare(context.Background(), inputs)
	exitOnErr(err)

	fmt.Printf("%-4s %-24s %-8s %-12s %-14s %-14s\n", "rank", "scenario", "periods", "payoff", "interest$", "total$")
	for _, r := range scenario.RankByTotalInterest(results) {
		fmt.Printf("%-4d %-24s %-8d %-12s %-14.2f %-14.2f\n",
			r.Rank, r.Name, r.Summary.ActivePeriods, r.Summary.PayoffDate, r.Summary.TotalInterest, r.Summary.TotalPayment)
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-4s %-24s %v\n", "-", r.Name, r.Err)
		}
	}
}

func expandPaths(s string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
		}
	}
	return out, nil
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
