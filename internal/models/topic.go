package models

import "strings"

// TopicType enumerates the kinds of study content in the catalog. The type is
// derived from the provider name at load time, not stored in the source data.
type TopicType string

const (
	TopicTypeVideo    TopicType = "video"
	TopicTypeArticle  TopicType = "article"
	TopicTypeSection  TopicType = "section"
	TopicTypeDiscrete TopicType = "discrete"
	TopicTypePassage  TopicType = "passage"
	TopicTypeSet      TopicType = "set"
)

// Topic is one immutable catalog record describing a piece of study content.
type Topic struct {
	Category       string    `json:"category" db:"category"`
	SubtopicNumber int       `json:"subtopic_number" db:"subtopic_number"`
	Subtopic       string    `json:"subtopic" db:"subtopic"`
	ConceptNumber  int       `json:"concept_number" db:"concept_number"`
	Concept        string    `json:"concept" db:"concept"`
	HighYield      string    `json:"high_yield" db:"high_yield"` // "Yes" | "No"
	Provider       string    `json:"provider" db:"provider"`
	Title          string    `json:"title" db:"title"`
	URL            string    `json:"url" db:"url"`
	Minutes        int       `json:"minutes" db:"minutes"`
	Type           TopicType `json:"type" db:"-"`
}

// IsHighYield reports whether the topic carries the high-yield flag.
func (t Topic) IsHighYield() bool {
	return t.HighYield == "Yes"
}

// ResourceUID derives the deterministic content-level identity of a topic:
// lower-cased, whitespace-stripped title concatenated with the URL, or the
// title alone when the URL is empty. Two rows with the same title+url collide
// by design and are treated as one resource.
func (t Topic) ResourceUID() string {
	title := strings.ToLower(t.Title)
	title = strings.Join(strings.Fields(title), "")
	if t.URL != "" && t.Title != "" {
		return title + t.URL
	}
	return title
}

// TypeForProvider maps a provider name onto a content type, matching on
// case-insensitive substrings.
func TypeForProvider(provider string) TopicType {
	p := strings.ToLower(provider)
	switch {
	case strings.Contains(p, "kaplan"):
		return TopicTypeSection
	case strings.Contains(p, "khan"), strings.Contains(p, "ka"):
		return TopicTypeVideo
	case strings.Contains(p, "jack westin"):
		return TopicTypePassage
	case strings.Contains(p, "uworld"):
		return TopicTypeSet
	case strings.Contains(p, "thirdparty"), strings.Contains(p, "aamc"):
		return TopicTypeDiscrete
	default:
		return TopicTypeVideo
	}
}

// AnchorKey is a position in the category -> subtopic -> concept hierarchy
// used to scope content selection for one study day.
type AnchorKey struct {
	Category string `json:"category"`
	Subtopic string `json:"subtopic,omitempty"`
	Concept  string `json:"concept,omitempty"`
	Level    int    `json:"level"` // 0=concept, 1=subtopic, 2=category
}

// ID is the anchor identity used for "used anchor" tracking.
func (a AnchorKey) ID() string {
	return a.Category + "-" + a.Subtopic + "-" + a.Concept
}

// AnchorForTopic derives the anchor occupied by a topic, with the specificity
// level following from which hierarchy fields are populated.
func AnchorForTopic(t Topic) AnchorKey {
	level := 2
	if t.Concept != "" {
		level = 0
	} else if t.Subtopic != "" {
		level = 1
	}
	return AnchorKey{
		Category: t.Category,
		Subtopic: t.Subtopic,
		Concept:  t.Concept,
		Level:    level,
	}
}
