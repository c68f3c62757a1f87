package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatprep/plan-api/internal/models"
)

func studyDaysFixture(n int) []models.StudyDay {
	days := make([]models.StudyDay, n)
	for i := range days {
		days[i] = models.StudyDay{
			Date: fmt.Sprintf("2024-01-%02d", i+1),
			Kind: models.DayKindStudy,
		}
	}
	return days
}

func TestSplitIntoPhasesRemainderGoesLast(t *testing.T) {
	phases := SplitIntoPhases(studyDaysFixture(10))

	assert.Len(t, phases.Phase1, 3)
	assert.Len(t, phases.Phase2, 3)
	assert.Len(t, phases.Phase3, 4)

	phases = SplitIntoPhases(studyDaysFixture(11))
	assert.Len(t, phases.Phase1, 3)
	assert.Len(t, phases.Phase2, 3)
	assert.Len(t, phases.Phase3, 5)

	phases = SplitIntoPhases(studyDaysFixture(2))
	assert.Empty(t, phases.Phase1)
	assert.Empty(t, phases.Phase2)
	assert.Len(t, phases.Phase3, 2)
}

func TestSplitIntoPhasesKeepsOrder(t *testing.T) {
	phases := SplitIntoPhases(studyDaysFixture(9))

	assert.Equal(t, "2024-01-01", phases.Phase1[0].Date)
	assert.Equal(t, "2024-01-04", phases.Phase2[0].Date)
	assert.Equal(t, "2024-01-07", phases.Phase3[0].Date)
}

func TestPhaseForDate(t *testing.T) {
	phases := SplitIntoPhases(studyDaysFixture(9))

	assert.Equal(t, 1, phases.PhaseForDate("2024-01-02"))
	assert.Equal(t, 2, phases.PhaseForDate("2024-01-05"))
	assert.Equal(t, 3, phases.PhaseForDate("2024-01-08"))
	// Unknown dates fall through to the final phase.
	assert.Equal(t, 3, phases.PhaseForDate("2030-12-31"))
}

func TestPhaseStats(t *testing.T) {
	stats := SplitIntoPhases(studyDaysFixture(10)).Stats()

	require.Len(t, stats, 3)
	assert.Equal(t, "Content Review", stats[0].Name)
	assert.Equal(t, "Practice", stats[1].Name)
	assert.Equal(t, "Final Review", stats[2].Name)
	assert.Equal(t, 3, stats[0].Count)
	assert.Equal(t, 30, stats[0].Percentage)
	assert.Equal(t, 4, stats[2].Count)
	assert.Equal(t, 40, stats[2].Percentage)
}

func TestBalanced(t *testing.T) {
	// The floor split leaves at most two remainder days, so split output is
	// always balanced.
	assert.True(t, SplitIntoPhases(studyDaysFixture(9)).Balanced())
	assert.True(t, SplitIntoPhases(studyDaysFixture(11)).Balanced())

	lopsided := Phases{Phase1: studyDaysFixture(1), Phase3: studyDaysFixture(5)}
	assert.False(t, lopsided.Balanced())
}
