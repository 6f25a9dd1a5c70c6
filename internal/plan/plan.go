package plan

import (
	"fmt"
	"strings"

	"mortgage-schedule/internal/model"
)

// Plan generates the events of a what-if path for a loan.
type Plan interface {
	Name() string
	Events(terms model.LoanTerms) ([]model.Event, error)
}

// FromParams builds a named plan from loosely typed parameters, as found in
// scenario files and API requests.
func FromParams(name string, params map[string]any) (Plan, error) {
	switch name {
	case "periodic_rate":
		mode, err := model.ParseRateChangeMode(paramStr(params, "mode", ""))
		if err != nil {
			return nil, err
		}
		return &PeriodicPlan{Params: PeriodicParams{
			Kind:        model.EventRateChange,
			Rate:        paramNum(params, "rate", 0),
			Mode:        mode,
			EveryMonths: int(paramNum(params, "every_months", 12)),
			Count:       int(paramNum(params, "count", 0)),
		}}, nil
	case "periodic_inflation":
		return &PeriodicPlan{Params: PeriodicParams{
			Kind:        model.EventPrincipalAdjustment,
			Inflation:   paramNum(params, "inflation", 0),
			EveryMonths: int(paramNum(params, "every_months", 12)),
			Count:       int(paramNum(params, "count", 0)),
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported plan: %q", name)
	}
}

func paramNum(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		}
	}
	return def
}

func paramStr(m map[string]any, key string, def string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}
