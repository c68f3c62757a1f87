package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatprep/plan-api/internal/models"
	"github.com/mcatprep/plan-api/internal/topics"
)

func schedTopic(title, provider string, topicType models.TopicType, minutes int) models.Topic {
	return models.Topic{
		Category:  "1A",
		Subtopic:  "Proteins",
		Concept:   "Amino Acids",
		HighYield: "Yes",
		Provider:  provider,
		Title:     title,
		URL:       "https://example.com/" + title,
		Minutes:   minutes,
		Type:      topicType,
	}
}

func selectorCatalog() []models.Topic {
	catalog := []models.Topic{
		schedTopic("kaplan-chapter", "Kaplan", models.TopicTypeSection, 45),
		schedTopic("uworld-set", "UWorld", models.TopicTypeSet, 30),
	}
	for i := 1; i <= 5; i++ {
		catalog = append(catalog, schedTopic(fmt.Sprintf("ka-video-%d", i), "Khan Academy", models.TopicTypeVideo, 12))
	}
	for i := 1; i <= 3; i++ {
		catalog = append(catalog, schedTopic(fmt.Sprintf("ka-discrete-%d", i), "Khan Academy", models.TopicTypeDiscrete, 30))
	}
	for i := 1; i <= 4; i++ {
		catalog = append(catalog, schedTopic(fmt.Sprintf("jw-passage-%d", i), "Jack Westin", models.TopicTypePassage, 22))
	}
	for i := 1; i <= 3; i++ {
		catalog = append(catalog, schedTopic(fmt.Sprintf("aamc-passage-%d", i), "AAMC", models.TopicTypePassage, 22))
	}
	catalog = append(catalog,
		schedTopic("AAMC Question Pack A #1", "AAMC", models.TopicTypeDiscrete, 30),
		schedTopic("AAMC Question Pack B #1", "AAMC", models.TopicTypeDiscrete, 30),
		schedTopic("AAMC Question Pack C #1", "AAMC", models.TopicTypeDiscrete, 30),
	)
	return catalog
}

func conceptAnchor() models.AnchorKey {
	return models.AnchorKey{Category: "1A", Subtopic: "Proteins", Concept: "Amino Acids", Level: 0}
}

func TestPhase1ScienceContent(t *testing.T) {
	selector := NewSelector(nil)
	catalog := selectorCatalog()
	used := map[string]bool{}

	selected := selector.Phase1ScienceContent(catalog, conceptAnchor(), used)

	require.Len(t, selected, 4)
	assert.Equal(t, "kaplan-chapter", selected[0].Title)
	for _, topic := range selected[1:] {
		assert.Contains(t, topic.Title, "ka-video")
	}
	for _, topic := range selected {
		assert.True(t, used[topic.ResourceUID()], "pick %s not marked used", topic.Title)
	}
}

func TestPhase1ScienceContentNextDayAvoidsUsed(t *testing.T) {
	selector := NewSelector(nil)
	catalog := selectorCatalog()
	used := map[string]bool{}

	day1 := selector.Phase1ScienceContent(catalog, conceptAnchor(), used)
	day2 := selector.Phase1ScienceContent(catalog, conceptAnchor(), used)

	seen := map[string]bool{}
	for _, topic := range day1 {
		seen[topic.ResourceUID()] = true
	}
	for _, topic := range day2 {
		assert.False(t, seen[topic.ResourceUID()], "resource %s repeated across days", topic.Title)
	}
	// One kaplan chapter and five videos exist, so day two gets the leftovers.
	assert.Len(t, day2, 2)
}

func TestPhase1ScienceContentCached(t *testing.T) {
	selector := NewSelector(nil)
	catalog := selectorCatalog()

	first := selector.Phase1ScienceContent(catalog, conceptAnchor(), map[string]bool{})
	second := selector.Phase1ScienceContent(catalog, conceptAnchor(), map[string]bool{})
	assert.Equal(t, first, second)

	selector.ClearCache()
	third := selector.Phase1ScienceContent(catalog, conceptAnchor(), map[string]bool{})
	assert.Equal(t, first, third)
}

func TestScienceDiscretes(t *testing.T) {
	selector := NewSelector(nil)
	catalog := selectorCatalog()
	used := map[string]bool{}

	selected := selector.ScienceDiscretes(catalog, conceptAnchor(), used, nil)

	require.Len(t, selected, 2)
	for _, topic := range selected {
		assert.Equal(t, models.TopicTypeDiscrete, topic.Type)
		assert.Contains(t, topic.Title, "ka-discrete")
		assert.True(t, used[topic.ResourceUID()])
	}
}

func TestScienceDiscretesHonoursExclusions(t *testing.T) {
	selector := NewSelector(nil)
	catalog := selectorCatalog()

	all := selector.ScienceDiscretes(catalog, conceptAnchor(), map[string]bool{}, nil)
	require.Len(t, all, 2)

	exclude := []string{all[0].ResourceUID()}
	selected := selector.ScienceDiscretes(catalog, conceptAnchor(), map[string]bool{}, exclude)
	for _, topic := range selected {
		assert.NotEqual(t, all[0].ResourceUID(), topic.ResourceUID())
	}
}

func TestCARSPassagesByPhase(t *testing.T) {
	selector := NewSelector(nil)
	idx := topics.BuildIndex(selectorCatalog())

	early := selector.CARSPassages(idx, 1, map[string]bool{}, 2)
	require.Len(t, early, 2)
	for _, topic := range early {
		assert.Equal(t, "Jack Westin", topic.Provider)
	}

	late := selector.CARSPassages(idx, 3, map[string]bool{}, 2)
	require.Len(t, late, 2)
	for _, topic := range late {
		assert.Equal(t, "AAMC", topic.Provider)
	}
}

func TestSciencePassagesExcludesJackWestin(t *testing.T) {
	selector := NewSelector(nil)
	catalog := selectorCatalog()

	selected := selector.SciencePassages(catalog, conceptAnchor(), map[string]bool{})

	require.Len(t, selected, 2)
	for _, topic := range selected {
		assert.Equal(t, models.TopicTypePassage, topic.Type)
		assert.NotEqual(t, "Jack Westin", topic.Provider)
	}
}

func TestUWorldSetRepeats(t *testing.T) {
	selector := NewSelector(nil)
	idx := topics.BuildIndex(selectorCatalog())

	first := selector.UWorldSet(idx, conceptAnchor())
	second := selector.UWorldSet(idx, conceptAnchor())

	require.Len(t, first, 1)
	assert.Equal(t, "uworld-set", first[0].Title)
	assert.Equal(t, first, second)
}

func TestAAMCSetsPackDiversity(t *testing.T) {
	selector := NewSelector(nil)
	idx := topics.BuildIndex(selectorCatalog())
	used := map[string]bool{}

	selected := selector.AAMCSets(idx, used)

	require.Len(t, selected, 2)
	packs := map[string]bool{}
	for _, topic := range selected {
		if m := packPattern.FindStringSubmatch(topic.Title); m != nil {
			packs[m[1]] = true
		}
		assert.True(t, used[topic.ResourceUID()])
	}
	assert.Len(t, packs, 2)
}

func TestAAMCCARSPassagesDedup(t *testing.T) {
	selector := NewSelector(nil)
	idx := topics.BuildIndex(selectorCatalog())
	used := map[string]bool{}

	first := selector.AAMCCARSPassages(idx, used, 2)
	second := selector.AAMCCARSPassages(idx, used, 2)

	require.Len(t, first, 2)
	// Three AAMC passages exist in total.
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ResourceUID(), second[0].ResourceUID())
	assert.NotEqual(t, first[1].ResourceUID(), second[0].ResourceUID())
}

func TestSelectorsDegradeOnEmptyCatalog(t *testing.T) {
	selector := NewSelector(nil)
	idx := topics.BuildIndex(nil)

	assert.Empty(t, selector.Phase1ScienceContent(nil, conceptAnchor(), map[string]bool{}))
	assert.Empty(t, selector.ScienceDiscretes(nil, conceptAnchor(), map[string]bool{}, nil))
	assert.Empty(t, selector.CARSPassages(idx, 1, map[string]bool{}, 2))
	assert.Empty(t, selector.SciencePassages(nil, conceptAnchor(), map[string]bool{}))
	assert.Empty(t, selector.UWorldSet(idx, conceptAnchor()))
	assert.Empty(t, selector.AAMCSets(idx, map[string]bool{}))
	assert.Empty(t, selector.AAMCCARSPassages(idx, map[string]bool{}, 2))
}
