package topics

import "github.com/mcatprep/plan-api/internal/models"

// Prioritized carries the high-yield topics of each priority category in the
// caller-given order, the pool study-day anchors are drawn from.
type Prioritized struct {
	order      []string
	byPriority map[string][]models.Topic
}

// AvailableHighYield collects, per priority category in order, the high-yield
// topics of that category only.
func AvailableHighYield(idx *Index, priorities []string) *Prioritized {
	p := &Prioritized{
		order:      append([]string(nil), priorities...),
		byPriority: make(map[string][]models.Topic, len(priorities)),
	}
	for _, priority := range priorities {
		p.byPriority[priority] = idx.HighYield(priority)
	}
	return p
}

// Priority returns the high-yield topics of one priority category.
func (p *Prioritized) Priority(key string) []models.Topic {
	return p.byPriority[key]
}

// NextAnchor scans the priority categories in order and returns the anchor of
// the first topic, in stored catalog order, whose anchor identity is not yet
// used. The second return is false once every category is exhausted, which
// callers treat as "leave the day without new content", not as an error.
func (p *Prioritized) NextAnchor(usedAnchors map[string]bool) (models.AnchorKey, bool) {
	for _, priority := range p.order {
		for _, topic := range p.byPriority[priority] {
			anchor := models.AnchorForTopic(topic)
			if usedAnchors[anchor.ID()] {
				continue
			}
			return anchor, true
		}
	}
	return models.AnchorKey{}, false
}
