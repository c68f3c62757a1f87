// Package topics builds lookup structures over the topic catalog and
// implements the candidate filtering and multi-criteria ordering shared by
// every content selector.
package topics

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/mcatprep/plan-api/internal/models"
)

// Index holds derived, rebuildable lookup maps over one catalog snapshot.
type Index struct {
	byCategory          map[string][]models.Topic
	byProvider          map[string][]models.Topic
	byType              map[models.TopicType][]models.Topic
	highYieldByCategory map[string][]models.Topic
}

// BuildIndex walks the catalog once and groups topics by category, lowercased
// provider, type, and high-yield category. Stored order is preserved inside
// every bucket.
func BuildIndex(catalog []models.Topic) *Index {
	idx := &Index{
		byCategory:          make(map[string][]models.Topic),
		byProvider:          make(map[string][]models.Topic),
		byType:              make(map[models.TopicType][]models.Topic),
		highYieldByCategory: make(map[string][]models.Topic),
	}
	for _, topic := range catalog {
		idx.byCategory[topic.Category] = append(idx.byCategory[topic.Category], topic)

		providerKey := strings.ToLower(topic.Provider)
		idx.byProvider[providerKey] = append(idx.byProvider[providerKey], topic)

		idx.byType[topic.Type] = append(idx.byType[topic.Type], topic)

		if topic.IsHighYield() {
			idx.highYieldByCategory[topic.Category] = append(idx.highYieldByCategory[topic.Category], topic)
		}
	}
	return idx
}

// Category returns topics in a category, empty when the key is absent.
func (i *Index) Category(key string) []models.Topic {
	return i.byCategory[key]
}

// Provider returns topics for a provider, matched case-insensitively.
func (i *Index) Provider(key string) []models.Topic {
	return i.byProvider[strings.ToLower(key)]
}

// Type returns topics of a content type.
func (i *Index) Type(t models.TopicType) []models.Topic {
	return i.byType[t]
}

// HighYield returns the high-yield topics of a category.
func (i *Index) HighYield(category string) []models.Topic {
	return i.highYieldByCategory[category]
}

// IndexCache caches one built index keyed by a content fingerprint of the
// catalog, so a reloaded-but-equal catalog reuses the index while any content
// change rebuilds it. Invalidate must be called alongside a catalog reload.
type IndexCache struct {
	mu    sync.Mutex
	key   string
	index *Index
}

// NewIndexCache constructs an empty cache.
func NewIndexCache() *IndexCache {
	return &IndexCache{}
}

// For returns the cached index for the catalog, building it when the
// fingerprint differs from the cached one.
func (c *IndexCache) For(catalog []models.Topic) *Index {
	key := Fingerprint(catalog)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index != nil && c.key == key {
		return c.index
	}
	c.index = BuildIndex(catalog)
	c.key = key
	return c.index
}

// Invalidate drops the cached index.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.index = nil
	c.key = ""
	c.mu.Unlock()
}

// Fingerprint computes a content-addressed key for a catalog snapshot from
// the resource UIDs of its rows.
func Fingerprint(catalog []models.Topic) string {
	h := fnv.New64a()
	for _, topic := range catalog {
		_, _ = h.Write([]byte(topic.ResourceUID()))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%d-%x", len(catalog), h.Sum64())
}
