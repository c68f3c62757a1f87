package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/scheduler"
	"github.com/mcatprep/plan-api/internal/service"
	appErrors "github.com/mcatprep/plan-api/pkg/errors"
	"github.com/mcatprep/plan-api/pkg/response"
)

type stubPlanService struct {
	plan       *scheduler.Plan
	err        error
	exported   []byte
	reloaded   int
	lastParams models.ScheduleParams
}

func (s *stubPlanService) GeneratePlan(_ context.Context, params models.ScheduleParams) (*scheduler.Plan, service.GenerationMeta, error) {
	s.lastParams = params
	return s.plan, service.GenerationMeta{RunID: "run-1"}, s.err
}

func (s *stubPlanService) Stats(_ context.Context, params models.ScheduleParams) (*models.ScheduleStats, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &s.plan.Stats, nil
}

func (s *stubPlanService) Export(_ context.Context, params models.ScheduleParams, format string) ([]byte, string, string, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, "", "", s.err
	}
	return s.exported, "text/csv", "study-plan.csv", nil
}

func (s *stubPlanService) ReloadCatalog(context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.reloaded, nil
}

func stubPlan() *scheduler.Plan {
	return &scheduler.Plan{
		Days: []models.StudyDay{
			{Date: "2024-01-01", Kind: models.DayKindStudy, Phase: 1},
			{Date: "2024-01-02", Kind: models.DayKindBreak},
		},
		Stats: models.ScheduleStats{TotalDays: 2, StudyDays: 1, BreakDays: 1},
	}
}

func newTestHandler(stub *stubPlanService, exportEnabled bool) *PlanHandler {
	return &PlanHandler{service: stub, defaultFLWeekday: "Sat", exportEnabled: exportEnabled}
}

func performRequest(h gin.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.Handle(method, "/full-plan", h)
	r.Handle(method, "/stats", h)
	r.Handle(method, "/full-plan/export", h)
	r.Handle(method, "/catalog/reload", h)

	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetFullPlan(t *testing.T) {
	stub := &stubPlanService{plan: stubPlan()}
	h := newTestHandler(stub, true)

	w := performRequest(h.GetFullPlan, http.MethodGet,
		"/full-plan?start=2024-01-01&test=2024-04-01&priorities=1A&availability=Mon,Wed,Fri")

	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
	assert.NotNil(t, envelope.Stats)
	assert.Equal(t, false, envelope.Meta["cached"])
	assert.Equal(t, "run-1", envelope.Meta["run_id"])

	// The configured default fills in the missing fl_weekday.
	assert.Equal(t, "Sat", stub.lastParams.FLWeekday)
	assert.Equal(t, []string{"Mon", "Wed", "Fri"}, stub.lastParams.Availability)
}

func TestGetFullPlanValidationError(t *testing.T) {
	stub := &stubPlanService{err: appErrors.Clone(appErrors.ErrValidation, "missing required parameters: start")}
	h := newTestHandler(stub, true)

	w := performRequest(h.GetFullPlan, http.MethodGet, "/full-plan")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Code)
	assert.Equal(t, "missing required parameters: start", envelope.Error)
}

func TestGetStats(t *testing.T) {
	stub := &stubPlanService{plan: stubPlan()}
	h := newTestHandler(stub, true)

	w := performRequest(h.GetStats, http.MethodGet,
		"/stats?start=2024-01-01&test=2024-04-01&priorities=1A&availability=Mon")

	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Stats)
}

func TestExportPlan(t *testing.T) {
	stub := &stubPlanService{plan: stubPlan(), exported: []byte("Date,Kind\n")}
	h := newTestHandler(stub, true)

	w := performRequest(h.ExportPlan, http.MethodGet,
		"/full-plan/export?format=csv&start=2024-01-01&test=2024-04-01&priorities=1A&availability=Mon")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "study-plan.csv")
	assert.Equal(t, "Date,Kind\n", w.Body.String())
}

func TestExportPlanDisabled(t *testing.T) {
	stub := &stubPlanService{plan: stubPlan()}
	h := newTestHandler(stub, false)

	w := performRequest(h.ExportPlan, http.MethodGet, "/full-plan/export?format=csv")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReloadCatalog(t *testing.T) {
	stub := &stubPlanService{reloaded: 732}
	h := newTestHandler(stub, true)

	w := performRequest(h.ReloadCatalog, http.MethodPost, "/catalog/reload")

	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 732, data["topics"])
}

func TestReloadCatalogFailure(t *testing.T) {
	stub := &stubPlanService{err: appErrors.ErrCatalogLoad}
	h := newTestHandler(stub, true)

	w := performRequest(h.ReloadCatalog, http.MethodPost, "/catalog/reload")

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, appErrors.ErrCatalogLoad.Code, envelope.Code)
}
