package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/catalog"
	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/topics"
	appErrors "github.com/mcatprep/plan-api/pkg/errors"
)

var priorityPattern = regexp.MustCompile(`^[0-9][A-Z]$`)

// Plan is the full result of one generation pass.
type Plan struct {
	Params models.ScheduleParams `json:"params"`
	Days   []models.StudyDay     `json:"days"`
	Stats  models.ScheduleStats  `json:"stats"`
}

// Orchestrator runs the generation pipeline end to end: parameter validation,
// catalog load, calendar expansion, phase segmentation, full-length placement
// and the per-day content walk.
type Orchestrator struct {
	loader             *catalog.Loader
	indexCache         *topics.IndexCache
	selector           *Selector
	flPlacer           *FLPlacer
	writtenReviewMins  int
	resourceBudgetMins int
	logger             *zap.Logger
}

// NewOrchestrator wires the pipeline and registers cache invalidation against
// catalog reloads, so a cleared catalog always drops the derived index,
// selection and placement caches with it.
func NewOrchestrator(loader *catalog.Loader, flPlacer *FLPlacer, writtenReviewMins, resourceBudgetMins int, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		loader:             loader,
		indexCache:         topics.NewIndexCache(),
		selector:           NewSelector(logger),
		flPlacer:           flPlacer,
		writtenReviewMins:  writtenReviewMins,
		resourceBudgetMins: resourceBudgetMins,
		logger:             logger,
	}
	loader.OnClear(o.indexCache.Invalidate)
	loader.OnClear(o.selector.ClearCache)
	loader.OnClear(o.flPlacer.ClearMemo)
	return o
}

// ValidateParams checks presence and shape of every schedule parameter,
// failing fast before any catalog or calendar work.
func (o *Orchestrator) ValidateParams(params models.ScheduleParams) error {
	var missing []string
	if params.Start == "" {
		missing = append(missing, "start")
	}
	if params.Test == "" {
		missing = append(missing, "test")
	}
	if len(params.Priorities) == 0 {
		missing = append(missing, "priorities")
	}
	if len(params.Availability) == 0 {
		missing = append(missing, "availability")
	}
	if params.FLWeekday == "" {
		missing = append(missing, "fl_weekday")
	}
	if len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "missing required parameters: "+strings.Join(missing, ", "))
	}

	if _, _, err := validateDateRange(params.Start, params.Test); err != nil {
		return err
	}

	if !models.IsWeekday(params.FLWeekday) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid fl_weekday: %s", params.FLWeekday))
	}
	for _, day := range params.Availability {
		if !models.IsWeekday(day) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid availability day: %s", day))
		}
	}
	for _, priority := range params.Priorities {
		if !priorityPattern.MatchString(priority) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid priority category: %s", priority))
		}
	}
	return nil
}

// Generate produces the full day-by-day plan for the given parameters.
func (o *Orchestrator) Generate(ctx context.Context, params models.ScheduleParams) (*Plan, error) {
	if err := o.ValidateParams(params); err != nil {
		return nil, err
	}

	topicList, err := o.loader.Load(ctx)
	if err != nil {
		return nil, o.wrapGeneration(err)
	}

	calendar, err := GenerateCalendar(params.Start, params.Test, params.Availability)
	if err != nil {
		return nil, o.wrapGeneration(err)
	}

	// Phase boundaries are fixed by the pre-placement study days; carving out
	// full-length days afterwards must not shift them.
	var studyDays []models.StudyDay
	for _, day := range calendar {
		if day.Kind == models.DayKindStudy {
			studyDays = append(studyDays, day)
		}
	}
	phases := SplitIntoPhases(studyDays)

	calendar, err = o.flPlacer.ScheduleFullLengthExams(calendar, params.FLWeekday, params.Start, params.Test)
	if err != nil {
		return nil, o.wrapGeneration(err)
	}

	idx := o.indexCache.For(topicList)
	pool := topics.AvailableHighYield(idx, params.Priorities)
	tracker := NewTracker(o.selector, o.writtenReviewMins, o.resourceBudgetMins, o.logger)

	for i := range calendar {
		if calendar[i].Kind != models.DayKindStudy {
			continue
		}
		phase := phases.PhaseForDate(calendar[i].Date)
		calendar[i].Phase = phase
		calendar[i].Blocks = tracker.GenerateStudyDay(topicList, idx, pool, phase)
	}

	o.logAdvisories(calendar, phases, params.Test)

	plan := &Plan{
		Params: params,
		Days:   calendar,
		Stats:  o.statsFor(calendar, phases),
	}
	o.logger.Info("schedule generated",
		zap.Int("total_days", plan.Stats.TotalDays),
		zap.Int("study_days", plan.Stats.StudyDays),
		zap.Int("fl_days", plan.Stats.FLDays))
	return plan, nil
}

// Stats runs the pipeline for its summary only.
func (o *Orchestrator) Stats(ctx context.Context, params models.ScheduleParams) (*models.ScheduleStats, error) {
	plan, err := o.Generate(ctx, params)
	if err != nil {
		return nil, err
	}
	return &plan.Stats, nil
}

// ReloadCatalog drops the cached catalog and every derived cache, then loads
// the catalog again so the next request pays no cold-start cost.
func (o *Orchestrator) ReloadCatalog(ctx context.Context) (int, error) {
	o.loader.Clear()
	topicList, err := o.loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(topicList), nil
}

func (o *Orchestrator) logAdvisories(calendar []models.StudyDay, phases Phases, test string) {
	for _, issue := range o.flPlacer.ValidateFLScheduling(calendar, test) {
		o.logger.Warn("full-length placement advisory", zap.String("issue", issue))
	}
	if placed := len(flDatesIn(calendar)); placed < o.flPlacer.TotalExams() {
		o.logger.Info(fmt.Sprintf("scheduled %d full-length exams, fewer than target of %d due to buffer constraint",
			placed, o.flPlacer.TotalExams()))
	}
	if !phases.Balanced() {
		o.logger.Warn("phase sizes unbalanced",
			zap.Int("phase1", len(phases.Phase1)),
			zap.Int("phase2", len(phases.Phase2)),
			zap.Int("phase3", len(phases.Phase3)))
	}
}

func (o *Orchestrator) statsFor(calendar []models.StudyDay, phases Phases) models.ScheduleStats {
	stats := models.ScheduleStats{
		TotalDays:     len(calendar),
		PhaseStats:    phases.Stats(),
		FLStats:       FLStatsFor(calendar),
		ResourceStats: ResourceStatsFor(calendar),
	}
	for _, day := range calendar {
		switch day.Kind {
		case models.DayKindStudy:
			stats.StudyDays++
		case models.DayKindBreak:
			stats.BreakDays++
		case models.DayKindFullLength:
			stats.FLDays++
		}
	}
	return stats
}

// wrapGeneration folds pipeline failures under the generation message while
// keeping the underlying code and HTTP status; validation failures pass
// through untouched so their messages reach the client.
func (o *Orchestrator) wrapGeneration(err error) error {
	typed := appErrors.FromError(err)
	if typed.Status == http.StatusBadRequest {
		return err
	}
	return appErrors.Wrap(err, typed.Code, typed.Status, appErrors.ErrGeneration.Message)
}
