package scenario

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"mortgage-schedule/internal/amortize"
	"mortgage-schedule/internal/model"
)

// Input is one loan and the chain of events to apply to it.
type Input struct {
	Name      string
	Terms     model.LoanTerms
	Events    []model.Event
	Underflow amortize.UnderflowPolicy
}

// Step records what one event did to the schedule.
type Step struct {
	Kind       model.EventKind
	Date       civil.Date
	Boundary   int
	Balance    float64
	Terms      model.LoanTerms
	SubPeriods int
}

type Result struct {
	Name     string
	Schedule *amortize.Schedule
	Steps    []Step
	Summary  amortize.Summary
	// Err is set by Compare when this input failed; Run returns it instead.
	Err error
}

type Runner struct {
	// MaxConcurrency bounds Compare; <= 0 means one worker per input.
	MaxConcurrency int
}

func NewRunner(maxConcurrency int) *Runner {
	return &Runner{MaxConcurrency: maxConcurrency}
}

// Run amortizes in.Terms and applies in.Events in date order.
func (r *Runner) Run(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine := amortize.New()
	if in.Underflow != "" {
		engine.Underflow = in.Underflow
	}

	base, err := engine.Amortize(in.Terms)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", in.Name, err)
	}

	final, reams, err := engine.ApplyEvents(base, in.Events...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q event %d: %w", in.Name, len(reams)+1, err)
	}

	steps := make([]Step, 0, len(reams))
	for _, ra := range reams {
		steps = append(steps, Step{
			Kind:       ra.Event.Kind(),
			Date:       ra.Event.EffectiveDate(),
			Boundary:   ra.Boundary,
			Balance:    ra.Balance,
			Terms:      ra.Schedule.Terms,
			SubPeriods: len(ra.Sub.Periods),
		})
	}

	return &Result{
		Name:     in.Name,
		Schedule: final,
		Steps:    steps,
		Summary:  final.Summary(),
	}, nil
}

// Compare runs independent inputs concurrently. Results keep input order.
// A failing input is reported in its Result.Err; only cancellation of ctx
// aborts the whole comparison.
func (r *Runner) Compare(ctx context.Context, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if r.MaxConcurrency > 0 {
		g.SetLimit(r.MaxConcurrency)
	}

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			res, err := r.Run(gctx, in)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				results[i] = Result{Name: in.Name, Err: err}
				return nil
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
