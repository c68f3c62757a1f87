package models

// PhaseStats summarises one phase of the study-day sequence.
type PhaseStats struct {
	Phase      int    `json:"phase"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// FLStats summarises full-length exam placement.
type FLStats struct {
	Total          int      `json:"total"`
	Dates          []string `json:"dates"`
	AverageSpacing int      `json:"averageSpacing"`
}

// ResourceStats summarises resource usage across one generated plan.
type ResourceStats struct {
	TotalUsed  int            `json:"totalUsed"`
	ByProvider map[string]int `json:"byProvider"`
}

// ScheduleStats is the summary attached to a generated plan.
type ScheduleStats struct {
	TotalDays     int           `json:"totalDays"`
	StudyDays     int           `json:"studyDays"`
	BreakDays     int           `json:"breakDays"`
	FLDays        int           `json:"flDays"`
	PhaseStats    []PhaseStats  `json:"phaseStats"`
	FLStats       FLStats       `json:"flStats"`
	ResourceStats ResourceStats `json:"resourceStats"`
}
