package scheduler

import "github.com/mcatprep/plan-api/internal/models"

// PhaseNames labels the three stages of the prep plan.
var PhaseNames = map[int]string{
	1: "Content Review",
	2: "Practice",
	3: "Final Review",
}

// Phases holds the three contiguous segments of the study-day sequence.
type Phases struct {
	Phase1 []models.StudyDay
	Phase2 []models.StudyDay
	Phase3 []models.StudyDay
}

// SplitIntoPhases partitions ordered study days three ways by floor(n/3),
// with all remainder days appended to phase 3. The remainder can make phase 3
// up to two days larger than the others; that is by construction and only
// flagged, never rebalanced.
func SplitIntoPhases(studyDays []models.StudyDay) Phases {
	size := len(studyDays) / 3
	return Phases{
		Phase1: studyDays[:size],
		Phase2: studyDays[size : size*2],
		Phase3: studyDays[size*2:],
	}
}

// PhaseForDate is a reverse lookup by date membership; dates not found in
// phase 1 or 2 default to phase 3.
func (p Phases) PhaseForDate(date string) int {
	for _, day := range p.Phase1 {
		if day.Date == date {
			return 1
		}
	}
	for _, day := range p.Phase2 {
		if day.Date == date {
			return 2
		}
	}
	return 3
}

// Stats reports per-phase counts and percentages.
func (p Phases) Stats() []models.PhaseStats {
	total := len(p.Phase1) + len(p.Phase2) + len(p.Phase3)
	counts := []int{len(p.Phase1), len(p.Phase2), len(p.Phase3)}

	stats := make([]models.PhaseStats, 3)
	for i, count := range counts {
		percentage := 0
		if total > 0 {
			percentage = int(float64(count)/float64(total)*100 + 0.5)
		}
		stats[i] = models.PhaseStats{
			Phase:      i + 1,
			Name:       PhaseNames[i+1],
			Count:      count,
			Percentage: percentage,
		}
	}
	return stats
}

// Balanced reports whether the phase sizes differ by at most two days. This
// is advisory; generation proceeds either way.
func (p Phases) Balanced() bool {
	counts := []int{len(p.Phase1), len(p.Phase2), len(p.Phase3)}
	min, max := counts[0], counts[0]
	for _, c := range counts[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return max-min <= 2
}
