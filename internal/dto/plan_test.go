package dto

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/full-plan?"+rawQuery, nil)
	return c
}

func TestPlanRequestFromQuery(t *testing.T) {
	c := queryContext("start=2024-01-01&test=2024-04-01&priorities=1A,3B&availability=Mon,Wed,Fri&fl_weekday=Sun")

	req := PlanRequestFromQuery(c, "Sat")

	assert.Equal(t, "2024-01-01", req.Start)
	assert.Equal(t, "2024-04-01", req.Test)
	assert.Equal(t, []string{"1A", "3B"}, req.Priorities)
	assert.Equal(t, []string{"Mon", "Wed", "Fri"}, req.Availability)
	assert.Equal(t, "Sun", req.FLWeekday)
}

func TestPlanRequestDefaultWeekday(t *testing.T) {
	c := queryContext("start=2024-01-01&test=2024-04-01&priorities=1A&availability=Mon")

	req := PlanRequestFromQuery(c, "Sat")
	assert.Equal(t, "Sat", req.FLWeekday)
}

func TestPlanRequestSanitizesInput(t *testing.T) {
	c := queryContext("start=%20%3Cscript%3E2024-01-01%3C%2Fscript%3E&test=2024-04-01&priorities=%201A%20,,3B&availability=Mon")

	req := PlanRequestFromQuery(c, "Sat")

	assert.Equal(t, "script2024-01-01/script", req.Start)
	assert.Equal(t, []string{"1A", "3B"}, req.Priorities)
}

func TestToParams(t *testing.T) {
	req := PlanRequest{
		Start:        "2024-01-01",
		Test:         "2024-04-01",
		Priorities:   []string{"1A"},
		Availability: []string{"Mon"},
		FLWeekday:    "Sat",
	}

	params := req.ToParams()
	assert.Equal(t, req.Start, params.Start)
	assert.Equal(t, req.Priorities, params.Priorities)
	assert.Equal(t, req.FLWeekday, params.FLWeekday)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "plain", Sanitize("  plain  "))
	assert.Equal(t, "bbold/b", Sanitize("<b>bold</b>"))
	assert.Equal(t, "", Sanitize("   "))
}
