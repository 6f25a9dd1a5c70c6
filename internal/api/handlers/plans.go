package handlers

import (
	"log"
	"net/http"

	"mortgage-schedule/internal/api/models"

	"github.com/gin-gonic/gin"
)

// PlanHandler handles plan-related requests
type PlanHandler struct{}

// NewPlanHandler creates a new plan handler
func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// ListPlans handles GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	cadence := []models.ParameterInfo{
		{
			Name:        "every_months",
			Type:        "int",
			Description: "Payments between two events; the first event falls this many payments after the first payment",
			Default:     12,
		},
		{
			Name:        "count",
			Type:        "int",
			Description: "Number of events (0 = until the last payment)",
			Default:     0,
		},
	}

	plans := []models.PlanInfo{
		{
			Name:        "periodic_rate",
			Description: "Repeated prime change. Re-amortizes the remaining balance at the new rate over the remaining term.",
			Parameters: append([]models.ParameterInfo{
				{
					Name:        "rate",
					Type:        "float",
					Description: "Rate change per event (0.0075 = +0.75%), or the new rate in absolute mode",
				},
				{
					Name:        "mode",
					Type:        "string",
					Description: "'additive' adds rate to the current rate, 'absolute' replaces it",
					Default:     "additive",
				},
			}, cadence...),
		},
		{
			Name:        "periodic_inflation",
			Description: "Repeated indexation of the outstanding balance. Re-amortizes balance*(1+inflation) over the remaining term.",
			Parameters: append([]models.ParameterInfo{
				{
					Name:        "inflation",
					Type:        "float",
					Description: "Balance growth per event (0.005 = +0.5%)",
				},
			}, cadence...),
		},
	}

	log.Printf("PlanHandler: Returning %d plans", len(plans))
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
