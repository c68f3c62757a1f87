package scheduler

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/mcatprep/plan-api/internal/models"
)

// FLProvider labels every placed full-length exam day.
const FLProvider = "AAMC"

// FLPlacer computes evenly spaced full-length exam dates on a target weekday,
// honouring a minimum-distance buffer before the test date. Results are
// memoized per (start, test, totalExams, weekday) tuple; the memo must be
// flushed when the catalog-independent scheduler config changes or on reload.
type FLPlacer struct {
	totalExams        int
	minDaysBeforeTest int
	logger            *zap.Logger

	mu   sync.Mutex
	memo map[string][]string
}

// NewFLPlacer builds a placer for the configured exam count and buffer.
func NewFLPlacer(totalExams, minDaysBeforeTest int, logger *zap.Logger) *FLPlacer {
	if totalExams <= 0 {
		totalExams = 6
	}
	if minDaysBeforeTest <= 0 {
		minDaysBeforeTest = 7
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FLPlacer{
		totalExams:        totalExams,
		minDaysBeforeTest: minDaysBeforeTest,
		logger:            logger,
		memo:              make(map[string][]string),
	}
}

// TotalExams returns the configured target exam count.
func (p *FLPlacer) TotalExams() int {
	return p.totalExams
}

// ClearMemo drops memoized placements.
func (p *FLPlacer) ClearMemo() {
	p.mu.Lock()
	p.memo = make(map[string][]string)
	p.mu.Unlock()
}

// CalculateFLDates returns the exam dates for the range. Candidates are
// spaced floor(totalDays/totalExams) apart, snapped forward to the target
// weekday, and silently dropped when they land inside the safety buffer — the
// result may therefore hold fewer than the configured count.
func (p *FLPlacer) CalculateFLDates(start, test, weekday string) ([]string, error) {
	key := fmt.Sprintf("%s-%s-%d-%s", start, test, p.totalExams, weekday)

	p.mu.Lock()
	if cached, ok := p.memo[key]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	startDate, testDate, err := validateDateRange(start, test)
	if err != nil {
		return nil, err
	}

	totalDays := int(testDate.Sub(startDate).Hours() / 24)
	spacing := totalDays / p.totalExams
	minSafeDate := testDate.AddDate(0, 0, -p.minDaysBeforeTest)

	dates := make([]string, 0, p.totalExams)
	for i := 1; i <= p.totalExams; i++ {
		candidate := startDate.AddDate(0, 0, i*spacing)
		flDate, err := FindNextWeekday(candidate.Format(dateLayout), weekday)
		if err != nil {
			return nil, err
		}
		parsed, err := ParseDate(flDate)
		if err != nil {
			return nil, err
		}
		if parsed.Before(minSafeDate) {
			dates = append(dates, flDate)
		}
	}

	p.mu.Lock()
	p.memo[key] = dates
	p.mu.Unlock()
	return dates, nil
}

// ScheduleFullLengthExams re-tags calendar days matching the computed FL
// dates as full-length days, named by chronological position.
func (p *FLPlacer) ScheduleFullLengthExams(calendar []models.StudyDay, weekday, start, test string) ([]models.StudyDay, error) {
	flDates, err := p.CalculateFLDates(start, test, weekday)
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(flDates))
	for i, date := range flDates {
		position[date] = i + 1
	}

	tagged := make([]models.StudyDay, len(calendar))
	for i, day := range calendar {
		if n, ok := position[day.Date]; ok {
			day.Kind = models.DayKindFullLength
			day.Provider = FLProvider
			day.Name = fmt.Sprintf("FL #%d", n)
		}
		tagged[i] = day
	}
	return tagged, nil
}

// ValidateFLScheduling runs the advisory placement checks: target count,
// minimum spacing between sittings, and distance of the last sitting from the
// test date. Issues are returned for logging, never to abort generation.
func (p *FLPlacer) ValidateFLScheduling(calendar []models.StudyDay, test string) []string {
	var issues []string
	flDates := flDatesIn(calendar)

	if len(flDates) != p.totalExams {
		issues = append(issues, fmt.Sprintf("expected %d FL exams, got %d", p.totalExams, len(flDates)))
	}

	for i := 1; i < len(flDates); i++ {
		between := daysBetween(flDates[i-1], flDates[i])
		if between < p.minDaysBeforeTest {
			issues = append(issues, fmt.Sprintf("FL exams too close: %s to %s (%d days)", flDates[i-1], flDates[i], between))
		}
	}

	if len(flDates) > 0 {
		last := flDates[len(flDates)-1]
		fromTest := daysBetween(last, test)
		if fromTest <= p.minDaysBeforeTest {
			issues = append(issues, fmt.Sprintf("last FL too close to test: %s (%d days before test)", last, fromTest))
		}
	}
	return issues
}

// FLStatsFor summarises full-length placement across a generated plan.
func FLStatsFor(calendar []models.StudyDay) models.FLStats {
	flDates := flDatesIn(calendar)

	spacings := make([]float64, 0, len(flDates))
	for i := 1; i < len(flDates); i++ {
		spacings = append(spacings, float64(daysBetween(flDates[i-1], flDates[i])))
	}

	average := 0
	if len(spacings) > 0 {
		average = int(stat.Mean(spacings, nil) + 0.5)
	}

	return models.FLStats{
		Total:          len(flDates),
		Dates:          flDates,
		AverageSpacing: average,
	}
}

func flDatesIn(calendar []models.StudyDay) []string {
	var dates []string
	for _, day := range calendar {
		if day.Kind == models.DayKindFullLength {
			dates = append(dates, day.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

func daysBetween(date1, date2 string) int {
	t1, err1 := ParseDate(date1)
	t2, err2 := ParseDate(date2)
	if err1 != nil || err2 != nil {
		return 0
	}
	diff := int(t2.Sub(t1).Hours() / 24)
	if diff < 0 {
		return -diff
	}
	return diff
}
