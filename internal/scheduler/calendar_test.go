package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatprep/plan-api/internal/models"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())

	_, err = ParseDate("01/15/2024")
	assert.ErrorIs(t, err, ErrBadDateFormat)

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrBadDateFormat)
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "Mon", Weekday("2024-01-01"))
	assert.Equal(t, "Sat", Weekday("2024-01-06"))
	assert.Equal(t, "", Weekday("bogus"))
}

func TestFindNextWeekday(t *testing.T) {
	// 2024-01-01 is a Monday; the scan is inclusive of the start date.
	got, err := FindNextWeekday("2024-01-01", "Mon")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got)

	got, err = FindNextWeekday("2024-01-01", "Sat")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", got)

	_, err = FindNextWeekday("bogus", "Sat")
	assert.Error(t, err)
}

func TestFindNextWeekdayRejectsUnknownToken(t *testing.T) {
	_, err := FindNextWeekday("2024-01-01", "Saturday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weekday: Saturday")
}

func TestGenerateCalendar(t *testing.T) {
	calendar, err := GenerateCalendar("2024-01-01", "2024-01-08", []string{"Mon", "Wed", "Fri"})
	require.NoError(t, err)
	require.Len(t, calendar, 7)

	studyDates := map[string]bool{}
	for _, day := range calendar {
		if day.Kind == models.DayKindStudy {
			studyDates[day.Date] = true
		}
	}
	assert.Equal(t, map[string]bool{
		"2024-01-01": true,
		"2024-01-03": true,
		"2024-01-05": true,
	}, studyDates)

	assert.Equal(t, "2024-01-01", calendar[0].Date)
	assert.Equal(t, "2024-01-07", calendar[6].Date)
	assert.Equal(t, models.DayKindBreak, calendar[1].Kind)
}

func TestGenerateCalendarRejectsBadRange(t *testing.T) {
	_, err := GenerateCalendar("2024-01-08", "2024-01-01", []string{"Mon"})
	assert.ErrorIs(t, err, ErrStartNotBeforeTest)

	_, err = GenerateCalendar("2024-01-01", "2024-01-01", []string{"Mon"})
	assert.ErrorIs(t, err, ErrStartNotBeforeTest)

	_, err = GenerateCalendar("bogus", "2024-01-01", []string{"Mon"})
	assert.ErrorIs(t, err, ErrBadDateFormat)
}

func TestCalculateStudyDays(t *testing.T) {
	count, err := CalculateStudyDays("2024-01-01", "2024-01-08", []string{"Mon", "Wed", "Fri"})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = CalculateStudyDays("2024-01-01", "2024-01-08", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
