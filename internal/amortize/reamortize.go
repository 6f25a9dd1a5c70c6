package amortize

import (
	"sort"

	"mortgage-schedule/internal/model"
)

// Reamortization is the outcome of applying one event.
type Reamortization struct {
	Event model.Event

	// Schedule is a copy of the input with the tail from Boundary onward
	// replaced; its Terms are the derived terms.
	Schedule *Schedule
	// Sub is the freshly amortized remainder, indexed from 1.
	Sub *Schedule

	// Boundary is the Index of the first re-amortized period.
	Boundary int
	// Balance is the start balance looked up at the boundary.
	Balance float64
}

// ApplyEvent re-amortizes s from the event's effective date. The input
// schedule is not modified.
func (e *Engine) ApplyEvent(s *Schedule, ev model.Event) (*Reamortization, error) {
	if s == nil {
		return nil, newError(CodeInvalidTerms, nil, "schedule is nil")
	}
	if ev == nil {
		return nil, newError(CodeInvalidEvent, nil, "event is nil")
	}

	date := ev.EffectiveDate()
	pos := s.Position(date)
	if pos < 0 {
		return nil, newError(CodeEventDateNotFound, nil, "%s %s: no payment is due on that date", ev.Kind(), date)
	}
	if date.Before(s.Terms.StartDate) {
		return nil, newError(CodeEventOutOfOrder, nil, "%s %s: terms in force start %s", ev.Kind(), date, s.Terms.StartDate)
	}

	balance := s.Periods[pos].StartBalance
	remaining := s.Terms.TermYears - model.YearsBetween(s.Terms.StartDate, date)
	if remaining <= 0 {
		return nil, newError(CodeNegativeRemainingTerm, nil, "%s %s: remaining term %.4f years", ev.Kind(), date, remaining)
	}

	rate, principal, err := ev.Adjust(s.Terms.AnnualRate, balance)
	if err != nil {
		return nil, newError(CodeInvalidEvent, err, "%s %s", ev.Kind(), date)
	}
	terms := model.LoanTerms{
		AnnualRate: rate,
		TermYears:  remaining,
		Principal:  roundCents(principal),
		StartDate:  date,
	}
	if terms.Periods() <= 0 {
		return nil, newError(CodeNegativeRemainingTerm, nil, "%s %s: remaining term %.4f years is under half a month", ev.Kind(), date, remaining)
	}

	var sub *Schedule
	if terms.Principal == 0 {
		sub = retiredSchedule(terms)
	} else {
		sub, err = e.Amortize(terms)
		if err != nil {
			return nil, err
		}
	}

	out := s.Clone()
	out.Terms = terms
	splice(out, pos, sub)

	return &Reamortization{
		Event:    ev,
		Schedule: out,
		Sub:      sub,
		Boundary: pos + 1,
		Balance:  balance,
	}, nil
}

// ApplyEvents applies events in effective-date order (stable for equal dates),
// each against the result of the previous one.
func (e *Engine) ApplyEvents(s *Schedule, events ...model.Event) (*Schedule, []*Reamortization, error) {
	ordered := make([]model.Event, len(events))
	for i, ev := range events {
		if ev == nil {
			return nil, nil, newError(CodeInvalidEvent, nil, "event #%d is nil", i)
		}
		ordered[i] = ev
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectiveDate().Before(ordered[j].EffectiveDate())
	})

	steps := make([]*Reamortization, 0, len(ordered))
	cur := s
	for _, ev := range ordered {
		step, err := e.ApplyEvent(cur, ev)
		if err != nil {
			return nil, steps, err
		}
		steps = append(steps, step)
		cur = step.Schedule
	}
	return cur, steps, nil
}

// splice replaces dst.Periods[pos:] with sub's periods, keeping dst's indices.
// Tail periods left over past the end of sub have no payments and carry sub's
// final balance unchanged; sub periods past the end of dst are appended.
func splice(dst *Schedule, pos int, sub *Schedule) {
	for i, p := range sub.Periods {
		p.Index = pos + i + 1
		if pos+i < len(dst.Periods) {
			dst.Periods[pos+i] = p
		} else {
			dst.Periods = append(dst.Periods, p)
		}
	}

	first := sub.Periods[0].PaymentDate
	residual := sub.Periods[len(sub.Periods)-1].EndingBalance
	for j := pos + len(sub.Periods); j < len(dst.Periods); j++ {
		dst.Periods[j] = Period{
			Index:         j + 1,
			PaymentDate:   model.AddMonths(first, j-pos),
			StartBalance:  residual,
			EndingBalance: residual,
		}
	}
}

func retiredSchedule(terms model.LoanTerms) *Schedule {
	n := terms.Periods()
	first := model.FirstPaymentDate(terms.StartDate)
	periods := make([]Period, n)
	for k := 1; k <= n; k++ {
		periods[k-1] = Period{Index: k, PaymentDate: model.AddMonths(first, k-1)}
	}
	return &Schedule{Terms: terms, Periods: periods}
}
