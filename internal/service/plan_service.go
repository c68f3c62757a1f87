package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/scheduler"
	"github.com/mcatprep/plan-api/pkg/config"
	appErrors "github.com/mcatprep/plan-api/pkg/errors"
	"github.com/mcatprep/plan-api/pkg/export"
)

const planCachePrefix = "plan:"

// GenerationMeta describes how one plan response was produced.
type GenerationMeta struct {
	RunID  string `json:"run_id"`
	Cached bool   `json:"cached"`
}

// PlanService fronts the scheduling orchestrator with an optional
// redis-backed response cache and generation metrics. Generation is
// deterministic per parameter set and catalog snapshot, so cached plans only
// need flushing on catalog reload.
type PlanService struct {
	orchestrator *scheduler.Orchestrator
	validate     *validator.Validate
	redis        *redis.Client
	cacheCfg     config.PlanCacheConfig
	metrics      *MetricsService
	logger       *zap.Logger

	csvExporter *export.CSVExporter
	pdfExporter *export.PDFExporter
}

// NewPlanService wires the plan service. redisClient may be nil, which
// disables the response cache regardless of configuration.
func NewPlanService(orchestrator *scheduler.Orchestrator, redisClient *redis.Client, cacheCfg config.PlanCacheConfig, metrics *MetricsService, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		orchestrator: orchestrator,
		validate:     validator.New(),
		redis:        redisClient,
		cacheCfg:     cacheCfg,
		metrics:      metrics,
		logger:       logger,
		csvExporter:  export.NewCSVExporter(),
		pdfExporter:  export.NewPDFExporter(),
	}
}

// GeneratePlan returns the plan for the parameter set, serving from the
// response cache when possible.
func (s *PlanService) GeneratePlan(ctx context.Context, params models.ScheduleParams) (*scheduler.Plan, GenerationMeta, error) {
	meta := GenerationMeta{RunID: uuid.NewString()}
	started := time.Now()

	if err := s.validate.Struct(params); err != nil {
		if verr := s.orchestrator.ValidateParams(params); verr != nil {
			return nil, meta, verr
		}
		return nil, meta, appErrors.Clone(appErrors.ErrValidation, "invalid schedule parameters")
	}

	if s.cacheEnabled() {
		if plan, ok := s.cachedPlan(ctx, params); ok {
			meta.Cached = true
			s.metrics.ObserveCacheHit()
			s.logger.Info("plan served from cache", zap.String("run_id", meta.RunID))
			return plan, meta, nil
		}
		s.metrics.ObserveCacheMiss()
	}

	plan, err := s.orchestrator.Generate(ctx, params)
	duration := time.Since(started)
	if err != nil {
		s.metrics.ObserveGeneration("error", duration)
		s.logger.Error("plan generation failed", zap.String("run_id", meta.RunID), zap.Error(err))
		return nil, meta, err
	}
	s.metrics.ObserveGeneration("success", duration)
	s.metrics.AddResourcesAssigned(plan.Stats.ResourceStats.TotalUsed)
	s.logger.Info("plan generated",
		zap.String("run_id", meta.RunID),
		zap.Duration("duration", duration),
		zap.Int("days", len(plan.Days)))

	if s.cacheEnabled() {
		s.storePlan(ctx, params, plan)
	}
	return plan, meta, nil
}

// Stats returns the summary for the parameter set without the day list.
func (s *PlanService) Stats(ctx context.Context, params models.ScheduleParams) (*models.ScheduleStats, error) {
	plan, _, err := s.GeneratePlan(ctx, params)
	if err != nil {
		return nil, err
	}
	return &plan.Stats, nil
}

// Export renders the plan in the requested format and returns the payload
// with its content type and suggested filename.
func (s *PlanService) Export(ctx context.Context, params models.ScheduleParams, format string) ([]byte, string, string, error) {
	plan, _, err := s.GeneratePlan(ctx, params)
	if err != nil {
		return nil, "", "", err
	}

	dataset := planDataset(plan)
	switch strings.ToLower(format) {
	case "csv":
		payload, err := s.csvExporter.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", "study-plan.csv", nil
	case "pdf":
		payload, err := s.pdfExporter.Render(dataset, "MCAT Study Plan")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", "study-plan.pdf", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
}

// ReloadCatalog clears the catalog and every cache derived from it, including
// cached plan responses, then reloads the catalog eagerly.
func (s *PlanService) ReloadCatalog(ctx context.Context) (int, error) {
	size, err := s.orchestrator.ReloadCatalog(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.SetCatalogSize(size)

	if s.cacheEnabled() {
		s.flushPlanCache(ctx)
	}
	return size, nil
}

func (s *PlanService) cacheEnabled() bool {
	return s.redis != nil && s.cacheCfg.Enabled
}

func (s *PlanService) cachedPlan(ctx context.Context, params models.ScheduleParams) (*scheduler.Plan, bool) {
	raw, err := s.redis.Get(ctx, cacheKey(params)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("plan cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var plan scheduler.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		s.logger.Warn("plan cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &plan, true
}

func (s *PlanService) storePlan(ctx context.Context, params models.ScheduleParams, plan *scheduler.Plan) {
	raw, err := json.Marshal(plan)
	if err != nil {
		s.logger.Warn("plan cache encode failed", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, cacheKey(params), raw, s.cacheCfg.TTL).Err(); err != nil {
		s.logger.Warn("plan cache write failed", zap.Error(err))
	}
}

func (s *PlanService) flushPlanCache(ctx context.Context) {
	iter := s.redis.Scan(ctx, 0, planCachePrefix+"*", 100).Iterator()
	deleted := 0
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("plan cache delete failed", zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("plan cache scan failed", zap.Error(err))
	}
	s.logger.Info("plan cache flushed", zap.Int("deleted", deleted))
}

// cacheKey derives a deterministic key from the canonical parameter string.
func cacheKey(params models.ScheduleParams) string {
	canonical := strings.Join([]string{
		params.Start,
		params.Test,
		strings.Join(params.Priorities, ","),
		strings.Join(params.Availability, ","),
		params.FLWeekday,
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return planCachePrefix + hex.EncodeToString(sum[:16])
}

// planDataset flattens a plan into the tabular shape shared by the CSV and
// PDF exporters, one row per calendar day.
func planDataset(plan *scheduler.Plan) export.Dataset {
	headers := []string{"Date", "Day", "Kind", "Phase", "Activity", "Resources"}
	rows := make([]map[string]string, 0, len(plan.Days))

	for _, day := range plan.Days {
		row := map[string]string{
			"Date": day.Date,
			"Day":  scheduler.Weekday(day.Date),
			"Kind": string(day.Kind),
		}
		if day.Phase > 0 {
			row["Phase"] = strconv.Itoa(day.Phase)
		}
		switch day.Kind {
		case models.DayKindFullLength:
			row["Activity"] = fmt.Sprintf("%s %s", day.Provider, day.Name)
		case models.DayKindStudy:
			row["Activity"] = scheduler.PhaseNames[day.Phase]
			row["Resources"] = blockSummary(day.Blocks)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func blockSummary(blocks *models.StudyBlocks) string {
	if blocks == nil {
		return ""
	}
	var titles []string
	for _, topic := range blocks.AllTopics() {
		titles = append(titles, topic.Title)
	}
	for _, topic := range blocks.UWorldSet {
		titles = append(titles, topic.Title)
	}
	for _, topic := range blocks.ExtraDiscretes {
		titles = append(titles, topic.Title)
	}
	return strings.Join(titles, "; ")
}
