package models

// DayKind classifies a calendar day.
type DayKind string

const (
	DayKindBreak      DayKind = "break"
	DayKindStudy      DayKind = "study"
	DayKindFullLength DayKind = "full_length"
)

// Weekday abbreviations accepted in schedule parameters.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// IsWeekday reports whether the token is a valid weekday abbreviation.
func IsWeekday(token string) bool {
	for _, day := range Weekdays {
		if day == token {
			return true
		}
	}
	return false
}

// StudyBlocks holds the content assigned to one study day. A nil list means
// "none selected" for that slot, not an error.
type StudyBlocks struct {
	ScienceContent       []Topic `json:"science_content,omitempty"`
	ScienceDiscretes     []Topic `json:"science_discretes,omitempty"`
	SciencePassages      []Topic `json:"science_passages,omitempty"`
	UWorldSet            []Topic `json:"uworld_set,omitempty"`
	ExtraDiscretes       []Topic `json:"extra_discretes,omitempty"`
	CARS                 []Topic `json:"cars,omitempty"`
	AAMCSets             []Topic `json:"aamc_sets,omitempty"`
	AAMCCARSPassages     []Topic `json:"aamc_cars_passages,omitempty"`
	WrittenReviewMinutes int     `json:"written_review_minutes"`
	TotalResourceMinutes int     `json:"total_resource_minutes"`
}

// AllTopics flattens every deduplicated content list in the blocks. UWorld
// sets and extra discretes are excluded: UWorld sets repeat by design, and
// extra discretes were already folded into the used set on selection.
func (b *StudyBlocks) AllTopics() []Topic {
	if b == nil {
		return nil
	}
	var all []Topic
	all = append(all, b.ScienceContent...)
	all = append(all, b.ScienceDiscretes...)
	all = append(all, b.SciencePassages...)
	all = append(all, b.CARS...)
	all = append(all, b.AAMCSets...)
	all = append(all, b.AAMCCARSPassages...)
	return all
}

// StudyDay is one generated calendar entry.
type StudyDay struct {
	Date     string       `json:"date"` // ISO YYYY-MM-DD
	Kind     DayKind      `json:"kind"`
	Phase    int          `json:"phase,omitempty"` // 1..3 once assigned
	Provider string       `json:"provider,omitempty"`
	Name     string       `json:"name,omitempty"` // "FL #n" for full-length days
	Blocks   *StudyBlocks `json:"blocks,omitempty"`
}

// ScheduleParams is the validated parameter set for one generation pass.
type ScheduleParams struct {
	Start        string   `json:"start" validate:"required"`
	Test         string   `json:"test" validate:"required"`
	Priorities   []string `json:"priorities" validate:"required,min=1"`
	Availability []string `json:"availability" validate:"required,min=1"`
	FLWeekday    string   `json:"fl_weekday" validate:"required"`
}
