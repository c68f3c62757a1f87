// Package scheduler implements the plan-generation pipeline: calendar
// construction, phase segmentation, full-length exam placement, content
// selection and the orchestrator tying them together.
package scheduler

import (
	"fmt"
	"time"

	"github.com/mcatprep/plan-api/internal/models"
	appErrors "github.com/mcatprep/plan-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// Distinct validation failures surfaced by calendar construction.
var (
	ErrBadDateFormat      = appErrors.Clone(appErrors.ErrValidation, "invalid date format, use YYYY-MM-DD")
	ErrStartNotBeforeTest = appErrors.Clone(appErrors.ErrValidation, "start date must be before test date")
)

// ParseDate parses an ISO calendar date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, ErrBadDateFormat
	}
	return t, nil
}

// Weekday returns the three-letter weekday name of an ISO date. Invalid input
// yields an empty string.
func Weekday(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}

// FindNextWeekday scans forward from start (inclusive) until the target
// weekday is hit. Every weekday occurs within seven days, so a longer scan
// means the token is not a valid weekday name.
func FindNextWeekday(start, targetWeekday string) (string, error) {
	t, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	for i := 0; i < 7; i++ {
		if t.Format("Mon") == targetWeekday {
			return t.Format(dateLayout), nil
		}
		t = t.AddDate(0, 0, 1)
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weekday: %s", targetWeekday))
}

// GenerateCalendar expands the start/test range into calendar days, one per
// date from start (inclusive) up to but excluding test, classifying each as a
// study day when its weekday is in the availability set.
func GenerateCalendar(start, test string, availability []string) ([]models.StudyDay, error) {
	startDate, testDate, err := validateDateRange(start, test)
	if err != nil {
		return nil, err
	}

	available := make(map[string]bool, len(availability))
	for _, day := range availability {
		available[day] = true
	}

	totalDays := int(testDate.Sub(startDate).Hours() / 24)
	days := make([]models.StudyDay, totalDays)
	for i := 0; i < totalDays; i++ {
		date := startDate.AddDate(0, 0, i)
		kind := models.DayKindBreak
		if available[date.Format("Mon")] {
			kind = models.DayKindStudy
		}
		days[i] = models.StudyDay{Date: date.Format(dateLayout), Kind: kind}
	}
	return days, nil
}

// CalculateStudyDays counts the study days in the range.
func CalculateStudyDays(start, test string, availability []string) (int, error) {
	calendar, err := GenerateCalendar(start, test, availability)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, day := range calendar {
		if day.Kind == models.DayKindStudy {
			count++
		}
	}
	return count, nil
}

func validateDateRange(start, test string) (time.Time, time.Time, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	testDate, err := ParseDate(test)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !startDate.Before(testDate) {
		return time.Time{}, time.Time{}, ErrStartNotBeforeTest
	}
	return startDate, testDate, nil
}
