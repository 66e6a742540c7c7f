package api

import (
	"net/http"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	reportService    service.ReportService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, reportService service.ReportService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, reportService: reportService}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to compute summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Chart serves ?range=daily|weekly|monthly, daily by default.
func (h *AnalyticsHandler) Chart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rng := domain.Range(c.DefaultQuery("range", string(domain.RangeDaily)))
	chart, err := h.analyticsService.Chart(c.Request.Context(), userID, rng)
	if err != nil {
		respondWithError(c, err, "Failed to compute chart.")
		return
	}
	c.JSON(http.StatusOK, chart)
}

// Report returns the rendered report, or a download link when reports are
// stored in a bucket.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rep, err := h.reportService.Generate(c.Request.Context(), userID, domain.Range(c.Param("range")))
	if err != nil {
		respondWithError(c, err, "Failed to generate report.")
		return
	}
	if rep.URL != "" {
		c.JSON(http.StatusOK, rep)
		return
	}
	c.Data(http.StatusOK, rep.ContentType, rep.Body)
}
