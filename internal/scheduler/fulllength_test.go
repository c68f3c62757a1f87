package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatprep/plan-api/internal/models"
)

func TestCalculateFLDates(t *testing.T) {
	placer := NewFLPlacer(6, 7, nil)

	// 91-day range starting on a Monday; spacing is 91/6 = 15 days and the
	// last candidate lands inside the 7-day buffer and is dropped.
	dates, err := placer.CalculateFLDates("2024-01-01", "2024-04-01", "Sat")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-01-20",
		"2024-02-03",
		"2024-02-17",
		"2024-03-02",
		"2024-03-16",
	}, dates)

	minSafe, err := ParseDate("2024-03-25")
	require.NoError(t, err)
	for _, date := range dates {
		assert.Equal(t, "Sat", Weekday(date))
		parsed, err := ParseDate(date)
		require.NoError(t, err)
		assert.True(t, parsed.Before(minSafe), "date %s inside safety buffer", date)
	}
}

func TestCalculateFLDatesMemoized(t *testing.T) {
	placer := NewFLPlacer(6, 7, nil)

	first, err := placer.CalculateFLDates("2024-01-01", "2024-04-01", "Sat")
	require.NoError(t, err)
	second, err := placer.CalculateFLDates("2024-01-01", "2024-04-01", "Sat")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	placer.ClearMemo()
	third, err := placer.CalculateFLDates("2024-01-01", "2024-04-01", "Sat")
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestCalculateFLDatesRejectsBadInput(t *testing.T) {
	placer := NewFLPlacer(6, 7, nil)

	_, err := placer.CalculateFLDates("bogus", "2024-04-01", "Sat")
	assert.Error(t, err)

	_, err = placer.CalculateFLDates("2024-04-01", "2024-01-01", "Sat")
	assert.ErrorIs(t, err, ErrStartNotBeforeTest)
}

func TestScheduleFullLengthExams(t *testing.T) {
	placer := NewFLPlacer(6, 7, nil)
	allDays := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	calendar, err := GenerateCalendar("2024-01-01", "2024-04-01", allDays)
	require.NoError(t, err)

	tagged, err := placer.ScheduleFullLengthExams(calendar, "Sat", "2024-01-01", "2024-04-01")
	require.NoError(t, err)
	require.Len(t, tagged, len(calendar))

	var flDays []models.StudyDay
	for _, day := range tagged {
		if day.Kind == models.DayKindFullLength {
			flDays = append(flDays, day)
		}
	}
	require.Len(t, flDays, 5)
	assert.Equal(t, "FL #1", flDays[0].Name)
	assert.Equal(t, "FL #5", flDays[4].Name)
	for _, day := range flDays {
		assert.Equal(t, FLProvider, day.Provider)
	}
}

func TestValidateFLScheduling(t *testing.T) {
	placer := NewFLPlacer(6, 7, nil)

	calendar, err := GenerateCalendar("2024-01-01", "2024-04-01", nil)
	require.NoError(t, err)
	tagged, err := placer.ScheduleFullLengthExams(calendar, "Sat", "2024-01-01", "2024-04-01")
	require.NoError(t, err)

	issues := placer.ValidateFLScheduling(tagged, "2024-04-01")
	// Only five sittings fit outside the buffer; placement itself is legal.
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "expected 6 FL exams, got 5")
}

func TestFLStatsFor(t *testing.T) {
	placer := NewFLPlacer(6, 7, nil)

	calendar, err := GenerateCalendar("2024-01-01", "2024-04-01", nil)
	require.NoError(t, err)
	tagged, err := placer.ScheduleFullLengthExams(calendar, "Sat", "2024-01-01", "2024-04-01")
	require.NoError(t, err)

	stats := FLStatsFor(tagged)
	assert.Equal(t, 5, stats.Total)
	assert.Len(t, stats.Dates, 5)
	assert.Equal(t, 14, stats.AverageSpacing)
}

func TestFLStatsForEmptyCalendar(t *testing.T) {
	stats := FLStatsFor(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.AverageSpacing)
}
