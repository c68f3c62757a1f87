// Package handler exposes the HTTP endpoints over the plan services.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcatprep/plan-api/internal/dto"
	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/scheduler"
	"github.com/mcatprep/plan-api/internal/service"
	"github.com/mcatprep/plan-api/pkg/response"
)

type planGenerator interface {
	GeneratePlan(ctx context.Context, params models.ScheduleParams) (*scheduler.Plan, service.GenerationMeta, error)
	Stats(ctx context.Context, params models.ScheduleParams) (*models.ScheduleStats, error)
	Export(ctx context.Context, params models.ScheduleParams, format string) ([]byte, string, string, error)
	ReloadCatalog(ctx context.Context) (int, error)
}

// PlanHandler exposes the plan-generation endpoints.
type PlanHandler struct {
	service          planGenerator
	defaultFLWeekday string
	exportEnabled    bool
}

// NewPlanHandler constructs the handler.
func NewPlanHandler(svc *service.PlanService, defaultFLWeekday string, exportEnabled bool) *PlanHandler {
	return &PlanHandler{service: svc, defaultFLWeekday: defaultFLWeekday, exportEnabled: exportEnabled}
}

// GetFullPlan godoc
// @Summary Generate the day-by-day study plan
// @Description Builds the full calendar from start to test date with phases, full-length exam days and per-day content blocks.
// @Tags Plan
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param test query string true "Test date (YYYY-MM-DD)"
// @Param priorities query string true "Comma-separated priority categories, e.g. 1A,3B"
// @Param availability query string true "Comma-separated study weekdays, e.g. Mon,Wed,Fri"
// @Param fl_weekday query string false "Weekday for full-length sittings (default Sat)"
// @Success 200 {object} response.Envelope
// @Router /full-plan [get]
func (h *PlanHandler) GetFullPlan(c *gin.Context) {
	req := dto.PlanRequestFromQuery(c, h.defaultFLWeekday)
	plan, meta, err := h.service.GeneratePlan(c.Request.Context(), req.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan.Days, plan.Stats, map[string]interface{}{
		"run_id": meta.RunID,
		"cached": meta.Cached,
	})
}

// GetStats godoc
// @Summary Summarise a plan without the day list
// @Tags Plan
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param test query string true "Test date (YYYY-MM-DD)"
// @Param priorities query string true "Comma-separated priority categories"
// @Param availability query string true "Comma-separated study weekdays"
// @Param fl_weekday query string false "Weekday for full-length sittings"
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *PlanHandler) GetStats(c *gin.Context) {
	req := dto.PlanRequestFromQuery(c, h.defaultFLWeekday)
	stats, err := h.service.Stats(c.Request.Context(), req.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nil, stats)
}

// ExportPlan godoc
// @Summary Export the plan as CSV or PDF
// @Tags Plan
// @Produce octet-stream
// @Param format query string true "Export format: csv or pdf"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param test query string true "Test date (YYYY-MM-DD)"
// @Param priorities query string true "Comma-separated priority categories"
// @Param availability query string true "Comma-separated study weekdays"
// @Param fl_weekday query string false "Weekday for full-length sittings"
// @Success 200 {file} binary
// @Router /full-plan/export [get]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	if !h.exportEnabled {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "plan export is disabled"})
		return
	}
	req := dto.PlanRequestFromQuery(c, h.defaultFLWeekday)
	format := dto.Sanitize(c.DefaultQuery("format", "csv"))

	payload, contentType, filename, err := h.service.Export(c.Request.Context(), req.ToParams(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// ReloadCatalog godoc
// @Summary Reload the topic catalog and flush derived caches
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/reload [post]
func (h *PlanHandler) ReloadCatalog(c *gin.Context) {
	size, err := h.service.ReloadCatalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"topics": size})
}
