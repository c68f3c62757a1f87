package topics

import (
	"sort"
	"strings"

	"github.com/mcatprep/plan-api/internal/models"
)

// outOfBandPenalty pushes topics outside the acceptance band behind every
// in-band topic while still ordering them by closeness to the target.
const outOfBandPenalty = 1000

// ForAnchor filters the catalog down to topics matching an anchor at its
// specificity level and drops anything whose resource UID is already used.
func ForAnchor(catalog []models.Topic, anchor models.AnchorKey, used map[string]bool) []models.Topic {
	var candidates []models.Topic
	for _, topic := range catalog {
		switch {
		case anchor.Level == 0 && anchor.Concept != "":
			if topic.Category != anchor.Category || topic.Subtopic != anchor.Subtopic || topic.Concept != anchor.Concept {
				continue
			}
		case anchor.Level == 1 && anchor.Subtopic != "":
			if topic.Category != anchor.Category || topic.Subtopic != anchor.Subtopic {
				continue
			}
		default:
			if topic.Category != anchor.Category {
				continue
			}
		}
		if used[topic.ResourceUID()] {
			continue
		}
		candidates = append(candidates, topic)
	}
	return candidates
}

// SortByCriteria orders topics by the shared best-fit policy: specificity,
// catalog numbering, time fit against the target band, provider rank, then
// title and URL as the deterministic tiebreaks. The input is not mutated.
func SortByCriteria(list []models.Topic, targetMinutes, bandMin, bandMax int) []models.Topic {
	type scored struct {
		topic        models.Topic
		specificity  int
		keyOrder     int
		timeFit      int
		providerRank int
	}

	items := make([]scored, len(list))
	for i, topic := range list {
		items[i] = scored{
			topic:        topic,
			specificity:  specificityScore(topic),
			keyOrder:     topic.SubtopicNumber*1000 + topic.ConceptNumber,
			timeFit:      timeFitScore(topic.Minutes, targetMinutes, bandMin, bandMax),
			providerRank: providerRank(topic.Provider),
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].specificity != items[b].specificity {
			return items[a].specificity < items[b].specificity
		}
		if items[a].keyOrder != items[b].keyOrder {
			return items[a].keyOrder < items[b].keyOrder
		}
		if items[a].timeFit != items[b].timeFit {
			return items[a].timeFit < items[b].timeFit
		}
		if items[a].providerRank != items[b].providerRank {
			return items[a].providerRank < items[b].providerRank
		}
		if items[a].topic.Title != items[b].topic.Title {
			return items[a].topic.Title < items[b].topic.Title
		}
		return items[a].topic.URL < items[b].topic.URL
	})

	sorted := make([]models.Topic, len(items))
	for i, item := range items {
		sorted[i] = item.topic
	}
	return sorted
}

// specificityScore ranks concept-level topics ahead of subtopic-level ones,
// and category-only topics last.
func specificityScore(topic models.Topic) int {
	if topic.Concept != "" {
		return 0
	}
	if topic.Subtopic != "" {
		return 1
	}
	return 2
}

func timeFitScore(actual, target, bandMin, bandMax int) int {
	distance := actual - target
	if distance < 0 {
		distance = -distance
	}
	if actual >= bandMin && actual <= bandMax {
		return distance
	}
	return distance + outOfBandPenalty
}

// providerRank encodes the fixed provider priority order; unknown providers
// sort last.
func providerRank(provider string) int {
	p := strings.ToLower(provider)
	switch {
	case strings.Contains(p, "khan"):
		return 1
	case strings.Contains(p, "kaplan"):
		return 2
	case strings.Contains(p, "jack westin"):
		return 3
	case strings.Contains(p, "uworld"):
		return 4
	case strings.Contains(p, "aamc"):
		return 5
	default:
		return 6
	}
}
