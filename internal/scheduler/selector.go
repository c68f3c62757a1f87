package scheduler

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/topics"
)

// Resource selection targets and acceptance bands, in minutes.
const (
	kaVideoTarget  = 12
	kaBandMin      = 10
	kaBandMax      = 15
	discreteTarget = 30
	discreteMin    = 25
	discreteMax    = 35
	passageTarget  = 25
	passageMin     = 20
	passageMax     = 25
	uworldTarget   = 30
)

// Per-day selection caps.
const (
	maxKAItemsPerDay = 3
	maxDiscreteSets  = 2
	maxPassages      = 2
	maxAAMCSets      = 2
	maxDistinctPacks = 2
)

var packPattern = regexp.MustCompile(`Pack ([A-Z])`)

// Selector implements the phase-aware greedy content pickers. Every selector
// folds its picks into the shared used set before returning, so later
// selectors in the same day see earlier picks as unavailable; the lone
// exception is the UWorld set, which repeats across days by design. Selection
// failures degrade to an empty result plus a logged warning.
type Selector struct {
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string][]models.Topic
}

// NewSelector constructs a selector with an empty selection cache.
func NewSelector(logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{logger: logger, cache: make(map[string][]models.Topic)}
}

// ClearCache drops cached selections; call alongside a catalog reload.
func (s *Selector) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string][]models.Topic)
	s.mu.Unlock()
}

// Phase1ScienceContent picks the day's content-review block: the first unused
// Kaplan section in the anchor's scope, then up to three Khan Academy items
// best fitting the video target band. Results are cached per
// (anchor, sorted-used-set) pair.
func (s *Selector) Phase1ScienceContent(catalog []models.Topic, anchor models.AnchorKey, used map[string]bool) []models.Topic {
	return s.guard("phase1 science content", func() []models.Topic {
		key := fmt.Sprintf("phase1-%s-%s-%s-%s", anchor.Category, anchor.Subtopic, anchor.Concept, sortedKeys(used))

		s.mu.Lock()
		cached, hit := s.cache[key]
		s.mu.Unlock()
		if hit {
			markUsed(cached, used)
			return cached
		}

		candidates := topics.ForAnchor(catalog, anchor, used)
		var selected []models.Topic

		if kaplan := filterByProvider(candidates, "kaplan"); len(kaplan) > 0 {
			selected = append(selected, kaplan[0])
			used[kaplan[0].ResourceUID()] = true
		}

		ka := filterUnused(filterByProvider(candidates, "khan"), used)
		for i, topic := range topics.SortByCriteria(ka, kaVideoTarget, kaBandMin, kaBandMax) {
			if i >= maxKAItemsPerDay {
				break
			}
			selected = append(selected, topic)
			used[topic.ResourceUID()] = true
		}

		s.mu.Lock()
		s.cache[key] = selected
		s.mu.Unlock()
		return selected
	})
}

// ScienceDiscretes picks up to two unused discrete sets from Khan Academy or
// Jack Westin within the anchor's scope, minus any explicitly excluded UIDs.
func (s *Selector) ScienceDiscretes(catalog []models.Topic, anchor models.AnchorKey, used map[string]bool, excludeUIDs []string) []models.Topic {
	return s.guard("science discretes", func() []models.Topic {
		excluded := make(map[string]bool, len(excludeUIDs))
		for _, uid := range excludeUIDs {
			excluded[uid] = true
		}

		var candidates []models.Topic
		for _, topic := range topics.ForAnchor(catalog, anchor, used) {
			provider := strings.ToLower(topic.Provider)
			if topic.Type != models.TopicTypeDiscrete {
				continue
			}
			if !strings.Contains(provider, "khan") && !strings.Contains(provider, "jack westin") {
				continue
			}
			if excluded[topic.ResourceUID()] {
				continue
			}
			candidates = append(candidates, topic)
		}

		sorted := topics.SortByCriteria(candidates, discreteTarget, discreteMin, discreteMax)
		selected := capList(sorted, maxDiscreteSets)
		markUsed(selected, used)
		return selected
	})
}

// CARSPassages picks unused CARS passages: Jack Westin during phases 1-2,
// AAMC in phase 3.
func (s *Selector) CARSPassages(idx *topics.Index, phase int, used map[string]bool, count int) []models.Topic {
	return s.guard("cars passages", func() []models.Topic {
		provider := "Jack Westin"
		if phase >= 3 {
			provider = "AAMC"
		}

		var candidates []models.Topic
		for _, topic := range idx.Provider(provider) {
			if topic.Type == models.TopicTypePassage {
				candidates = append(candidates, topic)
			}
		}
		candidates = filterUnused(candidates, used)

		sorted := topics.SortByCriteria(candidates, passageTarget, passageMin, passageMax)
		selected := capList(sorted, count)
		markUsed(selected, used)
		return selected
	})
}

// SciencePassages picks up to two unused science passages in the anchor's
// scope for phase 2, excluding Jack Westin passages reserved for CARS.
func (s *Selector) SciencePassages(catalog []models.Topic, anchor models.AnchorKey, used map[string]bool) []models.Topic {
	return s.guard("science passages", func() []models.Topic {
		var candidates []models.Topic
		for _, topic := range topics.ForAnchor(catalog, anchor, used) {
			if topic.Type != models.TopicTypePassage {
				continue
			}
			if strings.Contains(strings.ToLower(topic.Provider), "jack westin") {
				continue
			}
			candidates = append(candidates, topic)
		}

		sorted := topics.SortByCriteria(candidates, passageTarget, passageMin, passageMax)
		selected := capList(sorted, maxPassages)
		markUsed(selected, used)
		return selected
	})
}

// UWorldSet picks the best-fitting UWorld set for the anchor's category.
// UWorld sets may repeat across days, so the used set is neither consulted
// nor updated.
func (s *Selector) UWorldSet(idx *topics.Index, anchor models.AnchorKey) []models.Topic {
	return s.guard("uworld set", func() []models.Topic {
		var candidates []models.Topic
		for _, topic := range idx.Provider("UWorld") {
			if topic.Category == anchor.Category {
				candidates = append(candidates, topic)
			}
		}
		sorted := topics.SortByCriteria(candidates, uworldTarget, discreteMin, discreteMax)
		return capList(sorted, 1)
	})
}

// AAMCSets picks up to two unused AAMC discrete sets for phase 3, preferring
// diversity across question packs: a candidate is accepted while fewer than
// two distinct packs are chosen, or when its pack is already among them.
func (s *Selector) AAMCSets(idx *topics.Index, used map[string]bool) []models.Topic {
	return s.guard("aamc sets", func() []models.Topic {
		var candidates []models.Topic
		for _, topic := range idx.Provider("AAMC") {
			if topic.Type == models.TopicTypeDiscrete {
				candidates = append(candidates, topic)
			}
		}
		candidates = filterUnused(candidates, used)
		sorted := topics.SortByCriteria(candidates, discreteTarget, discreteMin, discreteMax)

		var selected []models.Topic
		packs := make(map[string]bool)
		for _, topic := range sorted {
			if len(selected) >= maxAAMCSets {
				break
			}
			pack := "Unknown"
			if m := packPattern.FindStringSubmatch(topic.Title); m != nil {
				pack = m[1]
			}
			if len(packs) < maxDistinctPacks || packs[pack] {
				selected = append(selected, topic)
				packs[pack] = true
			}
		}
		markUsed(selected, used)
		return selected
	})
}

// AAMCCARSPassages picks unused AAMC CARS passages for phase 3.
func (s *Selector) AAMCCARSPassages(idx *topics.Index, used map[string]bool, count int) []models.Topic {
	return s.guard("aamc cars passages", func() []models.Topic {
		var candidates []models.Topic
		for _, topic := range idx.Provider("AAMC") {
			if topic.Type == models.TopicTypePassage {
				candidates = append(candidates, topic)
			}
		}
		candidates = filterUnused(candidates, used)

		sorted := topics.SortByCriteria(candidates, passageTarget, passageMin, passageMax)
		selected := capList(sorted, count)
		markUsed(selected, used)
		return selected
	})
}

// guard absorbs panics from a selection function, degrading to an empty
// result so a bad catalog row never aborts the whole schedule.
func (s *Selector) guard(name string, fn func() []models.Topic) (selected []models.Topic) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("content selection failed", zap.String("selector", name), zap.Any("reason", r))
			selected = nil
		}
	}()
	return fn()
}

func filterByProvider(list []models.Topic, providerSubstring string) []models.Topic {
	var out []models.Topic
	for _, topic := range list {
		if strings.Contains(strings.ToLower(topic.Provider), providerSubstring) {
			out = append(out, topic)
		}
	}
	return out
}

func filterUnused(list []models.Topic, used map[string]bool) []models.Topic {
	var out []models.Topic
	for _, topic := range list {
		if !used[topic.ResourceUID()] {
			out = append(out, topic)
		}
	}
	return out
}

func markUsed(list []models.Topic, used map[string]bool) {
	for _, topic := range list {
		used[topic.ResourceUID()] = true
	}
}

func capList(list []models.Topic, max int) []models.Topic {
	if max < 0 {
		max = 0
	}
	if len(list) > max {
		return list[:max]
	}
	return list
}

func sortedKeys(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
