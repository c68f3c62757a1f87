package scheduler

import (
	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/topics"
)

const carsPassagesPerDay = 2

// Tracker carries the cross-day state of one generation pass: the resource
// UIDs already assigned and the anchors already visited. A tracker is built
// per request and never shared between passes.
type Tracker struct {
	selector           *Selector
	writtenReviewMins  int
	resourceBudgetMins int
	logger             *zap.Logger

	usedResources map[string]bool
	usedAnchors   map[string]bool
}

// NewTracker builds a tracker with empty dedup state.
func NewTracker(selector *Selector, writtenReviewMins, resourceBudgetMins int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		selector:           selector,
		writtenReviewMins:  writtenReviewMins,
		resourceBudgetMins: resourceBudgetMins,
		logger:             logger,
		usedResources:      make(map[string]bool),
		usedAnchors:        make(map[string]bool),
	}
}

// Reset clears all dedup state for a fresh pass.
func (t *Tracker) Reset() {
	t.usedResources = make(map[string]bool)
	t.usedAnchors = make(map[string]bool)
}

// GenerateStudyDay assembles the content blocks for one study day. The next
// unused anchor is drawn from the priority pool and marked visited; once the
// pool is exhausted the day gets empty blocks with only the review minutes
// set, and generation continues.
func (t *Tracker) GenerateStudyDay(catalog []models.Topic, idx *topics.Index, pool *topics.Prioritized, phase int) *models.StudyBlocks {
	blocks := &models.StudyBlocks{
		WrittenReviewMinutes: t.writtenReviewMins,
		TotalResourceMinutes: t.resourceBudgetMins,
	}

	anchor, ok := pool.NextAnchor(t.usedAnchors)
	if !ok {
		t.logger.Debug("anchor pool exhausted", zap.Int("phase", phase))
		return blocks
	}
	t.usedAnchors[anchor.ID()] = true

	switch phase {
	case 1:
		blocks.ScienceContent = t.selector.Phase1ScienceContent(catalog, anchor, t.usedResources)
		blocks.ScienceDiscretes = t.selector.ScienceDiscretes(catalog, anchor, t.usedResources, nil)
		blocks.CARS = t.selector.CARSPassages(idx, phase, t.usedResources, carsPassagesPerDay)
	case 2:
		blocks.SciencePassages = t.selector.SciencePassages(catalog, anchor, t.usedResources)
		blocks.UWorldSet = t.selector.UWorldSet(idx, anchor)
		blocks.ExtraDiscretes = t.selector.ScienceDiscretes(catalog, anchor, t.usedResources, uidsOf(blocks.UWorldSet))
		blocks.CARS = t.selector.CARSPassages(idx, phase, t.usedResources, carsPassagesPerDay)
	default:
		blocks.AAMCSets = t.selector.AAMCSets(idx, t.usedResources)
		blocks.AAMCCARSPassages = t.selector.AAMCCARSPassages(idx, t.usedResources, carsPassagesPerDay)
	}

	t.TrackUsedResources(blocks)
	return blocks
}

// TrackUsedResources folds the blocks' deduplicated content into the used
// set. Selectors already record their own picks, so this is a backstop for
// blocks assembled outside the selector path.
func (t *Tracker) TrackUsedResources(blocks *models.StudyBlocks) {
	for _, topic := range blocks.AllTopics() {
		t.usedResources[topic.ResourceUID()] = true
	}
}

// ResourceStats tallies the resources assigned across the generated days,
// counting every block slot including repeatable UWorld sets.
func ResourceStatsFor(days []models.StudyDay) models.ResourceStats {
	stats := models.ResourceStats{ByProvider: make(map[string]int)}
	for _, day := range days {
		if day.Blocks == nil {
			continue
		}
		for _, topic := range allBlockTopics(day.Blocks) {
			stats.TotalUsed++
			stats.ByProvider[topic.Provider]++
		}
	}
	return stats
}

func allBlockTopics(b *models.StudyBlocks) []models.Topic {
	var all []models.Topic
	all = append(all, b.AllTopics()...)
	all = append(all, b.UWorldSet...)
	all = append(all, b.ExtraDiscretes...)
	return all
}

func uidsOf(list []models.Topic) []string {
	uids := make([]string, 0, len(list))
	for _, topic := range list {
		uids = append(uids, topic.ResourceUID())
	}
	return uids
}
