package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"mortgage-schedule/internal/amortize"
	"mortgage-schedule/internal/api/models"
	"mortgage-schedule/internal/config"
	"mortgage-schedule/internal/data"
	"mortgage-schedule/internal/model"
	"mortgage-schedule/internal/plan"
	"mortgage-schedule/internal/scenario"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles schedule-related requests
type ScheduleHandler struct {
	runner  *scenario.Runner
	cache   *data.ScheduleCache
	loanDir string
}

// NewScheduleHandler creates a new schedule handler. cache may be nil.
func NewScheduleHandler(runner *scenario.Runner, cache *data.ScheduleCache, loanDir string) *ScheduleHandler {
	return &ScheduleHandler{runner: runner, cache: cache, loanDir: loanDir}
}

// RunSchedule handles POST /api/v1/schedule
func (h *ScheduleHandler) RunSchedule(c *gin.Context) {
	var req models.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	in, err := h.buildInput(req)
	if err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.runner.Run(c.Request.Context(), in)
	if err != nil {
		writeRunError(c, err)
		return
	}

	id := h.store(in, res)
	c.JSON(http.StatusOK, buildResponse(id, res, req.Options.IncludePeriods))
}

// GetMortgage handles GET /api/v1/mortgage
func (h *ScheduleHandler) GetMortgage(c *gin.Context) {
	var q models.MortgageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}

	in, err := queryInput(q)
	if err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.runner.Run(c.Request.Context(), in)
	if err != nil {
		writeRunError(c, err)
		return
	}

	includePeriods := q.IncludePeriods == nil || *q.IncludePeriods
	id := h.store(in, res)
	c.JSON(http.StatusOK, buildResponse(id, res, includePeriods))
}

// CompareSchedules handles POST /api/v1/schedule/compare
func (h *ScheduleHandler) CompareSchedules(c *gin.Context) {
	var req models.CompareScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	comparison := make([]models.ComparisonResult, len(req.Variations))
	inputs := make([]scenario.Input, 0, len(req.Variations))
	positions := make([]int, 0, len(req.Variations))

	for i, variation := range req.Variations {
		comparison[i].Name = variation.Name
		in, err := h.buildInput(mergeRequest(req.Base, variation))
		if err != nil {
			comparison[i].Error = &models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}
			continue
		}
		inputs = append(inputs, in)
		positions = append(positions, i)
	}

	results, err := h.runner.Compare(c.Request.Context(), inputs)
	if err != nil {
		writeRunError(c, err)
		return
	}

	for j, res := range results {
		i := positions[j]
		if res.Err != nil {
			detail := errorDetail(res.Err)
			comparison[i].Error = &detail
			continue
		}
		summary := buildSummary(res.Summary)
		comparison[i].Summary = &summary
		comparison[i].ID = h.store(inputs[j], &results[j])
	}
	for _, r := range scenario.RankByTotalInterest(results) {
		comparison[positions[r.Index]].Rank = r.Rank
	}

	log.Printf("ScheduleHandler: compared %d variations (%d ran)", len(req.Variations), len(inputs))
	c.JSON(http.StatusOK, models.CompareScheduleResponse{Comparison: comparison})
}

// GetSchedule handles GET /api/v1/schedule/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	res, ok := h.cache.Get(id)
	if !ok {
		message := fmt.Sprintf("schedule %q not found or expired", id)
		if h.cache == nil {
			message = "schedule cache is disabled; use include_periods=true on the request"
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: message},
		})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, buildResponse(id, res, true))
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.csv", id))
		c.Status(http.StatusOK)
		if err := amortize.EncodeScheduleCSV(c.Writer, res.Schedule.Periods); err != nil {
			log.Printf("ScheduleHandler: failed to write CSV for %s: %v", id, err)
		}
	default:
		invalidRequest(c, fmt.Errorf("unsupported format %q (want json or csv)", c.Query("format")))
	}
}

// Helper methods

func (h *ScheduleHandler) store(in scenario.Input, res *scenario.Result) string {
	if h.cache == nil {
		return ""
	}
	id := data.GenerateCacheKey(in)
	h.cache.Set(id, res)
	return id
}

func (h *ScheduleHandler) buildInput(req models.ScheduleRequest) (scenario.Input, error) {
	cfg, err := h.buildConfig(req)
	if err != nil {
		return scenario.Input{}, err
	}
	return cfg.ToInput()
}

func (h *ScheduleHandler) buildConfig(req models.ScheduleRequest) (*config.Config, error) {
	cfg := &config.Config{
		Name: req.Name,
		Loan: config.LoanConfig{
			Interest:  req.Loan.Interest,
			Years:     req.Loan.Years,
			Principal: req.Loan.Principal,
			StartDate: req.Loan.StartDate,
		},
		Options: config.OptionsConfig{Underflow: req.Options.Underflow},
	}
	for _, ev := range req.Events {
		cfg.Events = append(cfg.Events, config.EventConfig{
			Type:      ev.Type,
			Date:      ev.Date,
			Rate:      ev.Rate,
			Mode:      ev.Mode,
			Inflation: ev.Inflation,
			Delta:     ev.Delta,
		})
	}
	if req.Plan != nil {
		cfg.Plan = &config.PlanConfig{Name: req.Plan.Name, Params: req.Plan.Params}
	}

	// loan_file is a preset name (e.g. "standard"), looked up in the loan directory
	if name := req.Loan.LoanFile; name != "" {
		if filepath.Base(name) != name || strings.HasPrefix(name, ".") {
			return nil, fmt.Errorf("invalid loan_file %q", name)
		}
		loanPath := filepath.Join(h.loanDir, name+".yaml")
		loaded, err := config.LoadUnchecked(loanPath)
		if err != nil {
			log.Printf("ScheduleHandler: Failed to load loan file %s: %v", loanPath, err)
			return nil, fmt.Errorf("loan_file %q not found", name)
		}
		cfg.Loan = config.MergeLoan(loaded.Loan, cfg.Loan)
	}
	return cfg, nil
}

func mergeRequest(base models.ScheduleRequest, v models.ScheduleVariation) models.ScheduleRequest {
	merged := base
	merged.Name = v.Name
	if v.Loan.LoanFile != "" {
		merged.Loan.LoanFile = v.Loan.LoanFile
	}
	if v.Loan.Interest != 0 {
		merged.Loan.Interest = v.Loan.Interest
	}
	if v.Loan.Years != 0 {
		merged.Loan.Years = v.Loan.Years
	}
	if v.Loan.Principal != 0 {
		merged.Loan.Principal = v.Loan.Principal
	}
	if v.Loan.StartDate != "" {
		merged.Loan.StartDate = v.Loan.StartDate
	}
	if v.Events != nil {
		merged.Events = v.Events
	}
	if v.Plan != nil {
		merged.Plan = v.Plan
	}
	if v.Options != nil {
		merged.Options = *v.Options
	}
	return merged
}

func queryInput(q models.MortgageQuery) (scenario.Input, error) {
	start, err := model.ParseDate(q.StartDate)
	if err != nil {
		return scenario.Input{}, err
	}
	mode, err := model.ParseRateChangeMode(q.Mode)
	if err != nil {
		return scenario.Input{}, err
	}

	in := scenario.Input{
		Name: "mortgage",
		Terms: model.LoanTerms{
			AnnualRate: *q.Interest,
			TermYears:  q.Years,
			Principal:  q.Mortgage,
			StartDate:  start,
		},
	}

	if strings.TrimSpace(q.ChangeDates) == "" {
		p := &plan.PeriodicPlan{Params: plan.PeriodicParams{
			Kind:        model.EventRateChange,
			Rate:        *q.NewInterest,
			Mode:        mode,
			EveryMonths: model.PaymentsPerYear,
			Count:       3,
		}}
		if in.Events, err = p.Events(in.Terms); err != nil {
			return scenario.Input{}, err
		}
		return in, nil
	}

	for _, s := range strings.Split(q.ChangeDates, ",") {
		d, err := model.ParseDate(s)
		if err != nil {
			return scenario.Input{}, fmt.Errorf("change_dates: %w", err)
		}
		in.Events = append(in.Events, model.RateChange{Date: d, Rate: *q.NewInterest, Mode: mode})
	}
	return in, nil
}

func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// writeRunError maps engine failures to 422 with their code.
func writeRunError(c *gin.Context, err error) {
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case amortize.CodeOf(err) == "":
		status = http.StatusInternalServerError
	}
	if status != http.StatusUnprocessableEntity {
		log.Printf("ScheduleHandler: run failed: %v", err)
	}
	c.JSON(status, models.ErrorResponse{Error: errorDetail(err)})
}

func errorDetail(err error) models.ErrorDetail {
	var engErr *amortize.Error
	if errors.As(err, &engErr) {
		return models.ErrorDetail{Code: string(engErr.Code), Message: err.Error()}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.ErrorDetail{Code: "CANCELLED", Message: err.Error()}
	}
	return models.ErrorDetail{Code: "SCHEDULE_ERROR", Message: err.Error()}
}

func buildResponse(id string, res *scenario.Result, includePeriods bool) models.ScheduleResponse {
	response := models.ScheduleResponse{
		ID:      id,
		Name:    res.Name,
		Status:  "completed",
		Terms:   buildTerms(res.Schedule.Terms),
		Summary: buildSummary(res.Summary),
	}
	for _, st := range res.Steps {
		response.Steps = append(response.Steps, models.StepInfo{
			Type:       string(st.Kind),
			Date:       st.Date.String(),
			Boundary:   st.Boundary,
			Balance:    st.Balance,
			Terms:      buildTerms(st.Terms),
			SubPeriods: st.SubPeriods,
		})
	}
	if includePeriods {
		response.Periods = convertPeriods(res.Schedule.Periods)
	}
	return response
}

func buildTerms(t model.LoanTerms) models.TermsInfo {
	return models.TermsInfo{
		AnnualRate: t.AnnualRate,
		TermYears:  t.TermYears,
		Principal:  t.Principal,
		StartDate:  t.StartDate.String(),
	}
}

func buildSummary(s amortize.Summary) models.ScheduleSummary {
	out := models.ScheduleSummary{
		Periods:        s.Periods,
		ActivePeriods:  s.ActivePeriods,
		TotalPayment:   s.TotalPayment,
		TotalPrincipal: s.TotalPrincipal,
		TotalInterest:  s.TotalInterest,
		FinalBalance:   s.FinalBalance,
	}
	if s.Periods > 0 {
		out.FirstPaymentDate = s.FirstPaymentDate.String()
	}
	if s.ActivePeriods > 0 {
		out.PayoffDate = s.PayoffDate.String()
	}
	return out
}

func convertPeriods(periods []amortize.Period) []models.PeriodRow {
	rows := make([]models.PeriodRow, len(periods))
	for i, p := range periods {
		rows[i] = models.PeriodRow{
			Period:        p.Index,
			PaymentDate:   p.PaymentDate.String(),
			Payment:       p.Payment,
			PrincipalPaid: p.PrincipalPaid,
			InterestPaid:  p.InterestPaid,
			StartBalance:  p.StartBalance,
			EndingBalance: p.EndingBalance,
			Clamped:       p.Clamped,
		}
	}
	return rows
}
