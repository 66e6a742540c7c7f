package api

import (
	"net/http"

	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GeneratePlan replaces the user's weekly plan with a freshly generated one.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	out, err := h.planService.Generate(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to generate plan.")
		return
	}
	c.JSON(http.StatusCreated, out.Plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetDay returns the plan day for :date ("today" is accepted).
func (h *PlanHandler) GetDay(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	view, err := h.planService.Day(c.Request.Context(), userID, dateParam(c))
	if err != nil {
		respondWithError(c, err, "Failed to load plan day.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// dateParam reads :date, mapping "today" to the empty string services treat as today.
func dateParam(c *gin.Context) string {
	d := c.Param("date")
	if d == "today" {
		return ""
	}
	return d
}
