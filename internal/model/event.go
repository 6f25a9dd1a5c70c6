package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/civil"
)

// EventKind names a mid-life loan event.
// Keep these values stable; they appear in scenario files and API payloads.
type EventKind string

const (
	EventRateChange          EventKind = "rate_change"
	EventPrincipalAdjustment EventKind = "principal_adjustment"
)

// RateChangeMode selects how RateChange.Rate combines with the rate in force.
type RateChangeMode string

const (
	// RateChangeAdditive adds Rate to the current annual rate (prime moves by a delta).
	RateChangeAdditive RateChangeMode = "additive"
	// RateChangeAbsolute replaces the current annual rate with Rate.
	RateChangeAbsolute RateChangeMode = "absolute"
)

// ParseRateChangeMode accepts "additive", "absolute" or "" (additive).
func ParseRateChangeMode(s string) (RateChangeMode, error) {
	switch RateChangeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RateChangeAdditive:
		return RateChangeAdditive, nil
	case RateChangeAbsolute:
		return RateChangeAbsolute, nil
	default:
		return "", fmt.Errorf("unknown rate change mode %q (want additive or absolute)", s)
	}
}

// Event is anything that re-amortizes a schedule from its effective date onward.
type Event interface {
	Kind() EventKind
	EffectiveDate() civil.Date
	// Adjust derives the rate and principal of the new sub-schedule from the rate
	// in force and the outstanding balance at the effective date.
	Adjust(rate, balance float64) (newRate, newPrincipal float64, err error)
}

// RateChange is a prime change effective from Date.
type RateChange struct {
	Date civil.Date
	Rate float64
	Mode RateChangeMode
}

func (e RateChange) Kind() EventKind           { return EventRateChange }
func (e RateChange) EffectiveDate() civil.Date { return e.Date }

func (e RateChange) Adjust(rate, balance float64) (float64, float64, error) {
	if math.IsNaN(e.Rate) || math.IsInf(e.Rate, 0) {
		return 0, 0, errors.New("rate must be finite")
	}
	switch e.Mode {
	case "", RateChangeAdditive:
		return rate + e.Rate, balance, nil
	case RateChangeAbsolute:
		return e.Rate, balance, nil
	default:
		return 0, 0, fmt.Errorf("unknown rate change mode %q", e.Mode)
	}
}

// PrincipalAdjustment rescales the outstanding balance at Date:
// principal = balance * (1 + Inflation) + Delta.
// A negative Delta models a lump-sum prepayment.
type PrincipalAdjustment struct {
	Date      civil.Date
	Inflation float64
	Delta     float64
}

func (e PrincipalAdjustment) Kind() EventKind           { return EventPrincipalAdjustment }
func (e PrincipalAdjustment) EffectiveDate() civil.Date { return e.Date }

func (e PrincipalAdjustment) Adjust(rate, balance float64) (float64, float64, error) {
	if e.Inflation <= -1 {
		return 0, 0, errors.New("inflation must be > -1")
	}
	p := balance*(1+e.Inflation) + e.Delta
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, 0, errors.New("adjusted principal is not finite")
	}
	if p < 0 {
		return 0, 0, fmt.Errorf("adjusted principal %.2f is negative", p)
	}
	return rate, p, nil
}
