// Package dto translates transport-level requests into the validated
// parameter structs the services consume.
package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mcatprep/plan-api/internal/models"
)

// PlanRequest carries the raw plan-generation query parameters.
type PlanRequest struct {
	Start        string   `json:"start"`
	Test         string   `json:"test"`
	Priorities   []string `json:"priorities"`
	Availability []string `json:"availability"`
	FLWeekday    string   `json:"fl_weekday"`
}

// PlanRequestFromQuery reads the generation parameters from the query string.
// Priorities and availability accept comma-separated lists; fl_weekday falls
// back to the configured default when absent.
func PlanRequestFromQuery(c *gin.Context, defaultFLWeekday string) PlanRequest {
	req := PlanRequest{
		Start:        Sanitize(c.Query("start")),
		Test:         Sanitize(c.Query("test")),
		Priorities:   splitList(c.Query("priorities")),
		Availability: splitList(c.Query("availability")),
		FLWeekday:    Sanitize(c.Query("fl_weekday")),
	}
	if req.FLWeekday == "" {
		req.FLWeekday = defaultFLWeekday
	}
	return req
}

// ToParams converts the request into the core parameter struct.
func (r PlanRequest) ToParams() models.ScheduleParams {
	return models.ScheduleParams{
		Start:        r.Start,
		Test:         r.Test,
		Priorities:   r.Priorities,
		Availability: r.Availability,
		FLWeekday:    r.FLWeekday,
	}
}

// Sanitize trims surrounding whitespace and strips angle brackets so raw
// query values never carry markup into responses or logs.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	return strings.NewReplacer("<", "", ">", "").Replace(trimmed)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if cleaned := Sanitize(part); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
