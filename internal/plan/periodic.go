package plan

import (
	"errors"
	"fmt"

	"mortgage-schedule/internal/model"
)

// PeriodicParams repeats one event every EveryMonths payments:
// - the first event falls EveryMonths after the first payment date
// - Count limits the number of events (0 = until the last payment)
// - Kind selects a rate change (Rate, Mode) or a principal adjustment (Inflation)
//
// Three yearly rate changes on a ten-year loan is the path the original
// query handler priced.
type PeriodicParams struct {
	Kind        model.EventKind
	Rate        float64
	Mode        model.RateChangeMode
	Inflation   float64
	EveryMonths int
	Count       int
}

type PeriodicPlan struct {
	Params PeriodicParams
}

func (p *PeriodicPlan) Name() string {
	if p.Params.Kind == model.EventPrincipalAdjustment {
		return "periodic_inflation"
	}
	return "periodic_rate"
}

func (p *PeriodicPlan) Events(terms model.LoanTerms) ([]model.Event, error) {
	every := p.Params.EveryMonths
	if every <= 0 {
		return nil, errors.New("every_months must be > 0")
	}
	if p.Params.Count < 0 {
		return nil, errors.New("count must be >= 0")
	}

	first := model.FirstPaymentDate(terms.StartDate)
	n := terms.Periods()

	var out []model.Event
	for k := 1; k*every < n; k++ {
		if p.Params.Count > 0 && k > p.Params.Count {
			break
		}
		date := model.AddMonths(first, k*every)
		switch p.Params.Kind {
		case model.EventRateChange:
			out = append(out, model.RateChange{Date: date, Rate: p.Params.Rate, Mode: p.Params.Mode})
		case model.EventPrincipalAdjustment:
			out = append(out, model.PrincipalAdjustment{Date: date, Inflation: p.Params.Inflation})
		default:
			return nil, fmt.Errorf("unsupported event kind %q", p.Params.Kind)
		}
	}
	return out, nil
}
