package models

// ScheduleRequest represents the request body for computing a schedule
type ScheduleRequest struct {
	Name    string          `json:"name,omitempty"`
	Loan    LoanRequest     `json:"loan"`
	Events  []EventRequest  `json:"events,omitempty"`
	Plan    *PlanRequest    `json:"plan,omitempty"`
	Options ScheduleOptions `json:"options,omitempty"`
}

// LoanRequest defines the original loan terms
type LoanRequest struct {
	LoanFile  string  `json:"loan_file,omitempty"` // name of a preset under LOAN_DIR, without .yaml
	Interest  float64 `json:"interest"`            // annual rate, 0.02 = 2%
	Years     float64 `json:"years"`
	Principal float64 `json:"principal"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD
}

// EventRequest is one dated event
type EventRequest struct {
	Type      string  `json:"type" binding:"required"` // "rate_change" or "principal_adjustment"
	Date      string  `json:"date" binding:"required"` // YYYY-MM-DD, must be a payment date
	Rate      float64 `json:"rate,omitempty"`
	Mode      string  `json:"mode,omitempty"` // "additive" (default) or "absolute"
	Inflation float64 `json:"inflation,omitempty"`
	Delta     float64 `json:"delta,omitempty"`
}

// PlanRequest generates events from a named plan
type PlanRequest struct {
	Name   string                 `json:"name" binding:"required"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// ScheduleOptions contains optional parameters
type ScheduleOptions struct {
	IncludePeriods bool   `json:"include_periods,omitempty"` // default: false
	Underflow      string `json:"underflow,omitempty"`       // "clamp" (default) or "fail"
}

// CompareScheduleRequest runs variations of one base loan side by side
type CompareScheduleRequest struct {
	Base       ScheduleRequest     `json:"base"`
	Variations []ScheduleVariation `json:"variations" binding:"required,min=1,dive"`
}

// ScheduleVariation overrides parts of the base request.
// Loan fields override when non-zero; Events and Plan replace the base ones when set.
type ScheduleVariation struct {
	Name    string           `json:"name" binding:"required"`
	Loan    LoanRequest      `json:"loan,omitempty"`
	Events  []EventRequest   `json:"events,omitempty"`
	Plan    *PlanRequest     `json:"plan,omitempty"`
	Options *ScheduleOptions `json:"options,omitempty"`
}

// MortgageQuery is the query-string form of a schedule request.
// Without change_dates, new_interest is applied on the first three
// anniversaries of the first payment.
type MortgageQuery struct {
	Interest       *float64 `form:"interest" binding:"required"`
	Years          float64  `form:"years" binding:"required"`
	Mortgage       float64  `form:"mortgage" binding:"required"`
	StartDate      string   `form:"start_date" binding:"required"`
	NewInterest    *float64 `form:"new_interest" binding:"required"`
	ChangeDates    string   `form:"change_dates,omitempty"` // comma-separated YYYY-MM-DD
	Mode           string   `form:"mode,omitempty"`
	IncludePeriods *bool    `form:"include_periods,omitempty"` // default: true
}
