package models

// ScheduleResponse represents a computed schedule
type ScheduleResponse struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Status  string          `json:"status"`
	Terms   TermsInfo       `json:"terms"` // terms in force after the last event
	Summary ScheduleSummary `json:"summary"`
	Steps   []StepInfo      `json:"steps,omitempty"`
	Periods []PeriodRow     `json:"periods,omitempty"`
}

type TermsInfo struct {
	AnnualRate float64 `json:"annual_rate"`
	TermYears  float64 `json:"term_years"`
	Principal  float64 `json:"principal"`
	StartDate  string  `json:"start_date"`
}

// ScheduleSummary contains aggregated schedule results
type ScheduleSummary struct {
	Periods          int     `json:"periods"`
	ActivePeriods    int     `json:"active_periods"`
	FirstPaymentDate string  `json:"first_payment_date,omitempty"`
	PayoffDate       string  `json:"payoff_date,omitempty"`
	TotalPayment     float64 `json:"total_payment"`
	TotalPrincipal   float64 `json:"total_principal"`
	TotalInterest    float64 `json:"total_interest"`
	FinalBalance     float64 `json:"final_balance"`
}

// StepInfo describes what one event did
type StepInfo struct {
	Type       string    `json:"type"`
	Date       string    `json:"date"`
	Boundary   int       `json:"boundary"` // first re-amortized period
	Balance    float64   `json:"balance"`  // start balance at the boundary
	Terms      TermsInfo `json:"terms"`
	SubPeriods int       `json:"sub_periods"`
}

// PeriodRow represents one period of the schedule
type PeriodRow struct {
	Period        int     `json:"period"`
	PaymentDate   string  `json:"payment_date"`
	Payment       float64 `json:"payment"`
	PrincipalPaid float64 `json:"principal_paid"`
	InterestPaid  float64 `json:"interest_paid"`
	StartBalance  float64 `json:"start_balance"`
	EndingBalance float64 `json:"ending_balance"`
	Clamped       bool    `json:"clamped,omitempty"`
}

// CompareScheduleResponse represents the response from a comparison
type CompareScheduleResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation, in request order.
// Rank orders successful variations by total interest, cheapest first.
type ComparisonResult struct {
	Name    string           `json:"name"`
	ID      string           `json:"id,omitempty"`
	Rank    int              `json:"rank,omitempty"`
	Summary *ScheduleSummary `json:"summary,omitempty"`
	Error   *ErrorDetail     `json:"error,omitempty"`
}

// PlanInfo represents information about an event plan
type PlanInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a plan parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
