package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mortgage-schedule/internal/amortize"
	"mortgage-schedule/internal/model"
	"mortgage-schedule/internal/plan"
	"mortgage-schedule/internal/scenario"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML).
type Config struct {
	Name string `yaml:"name"`
	// Optional: load the loan from a separate YAML (e.g. examples/loans/*.yaml).
	// Fields set in Loan override the ones read from LoanFile.
	LoanFile string        `yaml:"loan_file"`
	Loan     LoanConfig    `yaml:"loan"`
	Events   []EventConfig `yaml:"events"`
	Plan     *PlanConfig   `yaml:"plan"`
	Options  OptionsConfig `yaml:"options"`
}

type LoanConfig struct {
	Name      string  `yaml:"name"`
	Interest  float64 `yaml:"interest"`
	Years     float64 `yaml:"years"`
	Principal float64 `yaml:"principal"`
	StartDate string  `yaml:"start_date"`
}

// EventConfig is one dated event. Type is rate_change (alias prime_change)
// or principal_adjustment (alias inflation).
type EventConfig struct {
	Type      string  `yaml:"type"`
	Date      string  `yaml:"date"`
	Rate      float64 `yaml:"rate"`
	Mode      string  `yaml:"mode"`
	Inflation float64 `yaml:"inflation"`
	Delta     float64 `yaml:"delta"`
}

// PlanConfig generates extra events, see plan.FromParams.
type PlanConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type OptionsConfig struct {
	Underflow string `yaml:"underflow"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.LoanFile != "" {
		loanPath := c.LoanFile
		if !filepath.IsAbs(loanPath) {
			// Relative to the config file first, then to the working directory.
			cand := filepath.Join(filepath.Dir(path), loanPath)
			if _, err := os.Stat(cand); err == nil {
				loanPath = cand
			}
		}
		loaded, err := loadLoanFile(loanPath)
		if err != nil {
			return nil, err
		}
		c.Loan = MergeLoan(loaded, c.Loan)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	terms, err := c.Loan.ToModelTerms()
	if err != nil {
		return err
	}
	if err := terms.Validate(); err != nil {
		return fmt.Errorf("loan config invalid: %w", err)
	}
	if _, err := c.ToModelEvents(terms); err != nil {
		return err
	}
	if _, err := amortize.ParseUnderflowPolicy(c.Options.Underflow); err != nil {
		return fmt.Errorf("options.underflow: %w", err)
	}
	return nil
}

func (l LoanConfig) ToModelTerms() (model.LoanTerms, error) {
	start, err := model.ParseDate(l.StartDate)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("loan.start_date: %w", err)
	}
	return model.LoanTerms{
		AnnualRate: l.Interest,
		TermYears:  l.Years,
		Principal:  l.Principal,
		StartDate:  start,
	}, nil
}

func (e EventConfig) ToModelEvent() (model.Event, error) {
	date, err := model.ParseDate(e.Date)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case string(model.EventRateChange), "prime_change":
		mode, err := model.ParseRateChangeMode(e.Mode)
		if err != nil {
			return nil, err
		}
		return model.RateChange{Date: date, Rate: e.Rate, Mode: mode}, nil
	case string(model.EventPrincipalAdjustment), "inflation":
		return model.PrincipalAdjustment{Date: date, Inflation: e.Inflation, Delta: e.Delta}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}

// ToModelEvents returns the explicit events followed by the ones generated
// by the plan, if any.
func (c *Config) ToModelEvents(terms model.LoanTerms) ([]model.Event, error) {
	out := make([]model.Event, 0, len(c.Events))
	for i, ec := range c.Events {
		ev, err := ec.ToModelEvent()
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		out = append(out, ev)
	}
	if c.Plan != nil && c.Plan.Name != "" {
		p, err := plan.FromParams(c.Plan.Name, c.Plan.Params)
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
		generated, err := p.Events(terms)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", p.Name(), err)
		}
		out = append(out, generated...)
	}
	return out, nil
}

// ToInput converts a loaded config into a runnable scenario.
func (c *Config) ToInput() (scenario.Input, error) {
	terms, err := c.Loan.ToModelTerms()
	if err != nil {
		return scenario.Input{}, err
	}
	events, err := c.ToModelEvents(terms)
	if err != nil {
		return scenario.Input{}, err
	}
	policy, err := amortize.ParseUnderflowPolicy(c.Options.Underflow)
	if err != nil {
		return scenario.Input{}, err
	}
	name := c.Name
	if name == "" {
		name = c.Loan.Name
	}
	return scenario.Input{Name: name, Terms: terms, Events: events, Underflow: policy}, nil
}

type loanFileWrapper struct {
	Loan LoanConfig `yaml:"loan"`
}

func loadLoanFile(path string) (LoanConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LoanConfig{}, err
	}
	var w loanFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return LoanConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Loan, nil
}

// MergeLoan overlays non-zero fields from override onto base.
func MergeLoan(base, override LoanConfig) LoanConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	// A zero interest rate cannot be set as an override; put it in the loan file.
	if override.Interest != 0 {
		out.Interest = override.Interest
	}
	if override.Years != 0 {
		out.Years = override.Years
	}
	if override.Principal != 0 {
		out.Principal = override.Principal
	}
	if override.StartDate != "" {
		out.StartDate = override.StartDate
	}
	return out
}
