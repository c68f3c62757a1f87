package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mcatprep/plan-api/internal/models"
	appErrors "github.com/mcatprep/plan-api/pkg/errors"
)

// Source supplies raw topic records from a backing store.
type Source interface {
	Load(ctx context.Context) ([]models.Topic, error)
}

// Loader caches the first successful catalog load for the process lifetime.
// The cached slice is shared and must be treated as immutable; Clear forces a
// reload on the next Load call. Owners of index or selection caches keyed on
// catalog content must invalidate them together with Clear (see OnClear).
type Loader struct {
	source  Source
	logger  *zap.Logger
	onClear []func()

	mu     sync.RWMutex
	topics []models.Topic
	loaded bool
}

// NewLoader wires a loader around a source.
func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}
}

// OnClear registers a hook invoked whenever the cached catalog is dropped.
func (l *Loader) OnClear(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.onClear = append(l.onClear, fn)
	l.mu.Unlock()
}

// Load returns the cached catalog, loading it on first use.
func (l *Loader) Load(ctx context.Context) ([]models.Topic, error) {
	l.mu.RLock()
	if l.loaded {
		topics := l.topics
		l.mu.RUnlock()
		return topics, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.topics, nil
	}

	topics, err := l.source.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogLoad.Code, appErrors.ErrCatalogLoad.Status, appErrors.ErrCatalogLoad.Message)
	}

	l.logger.Info("catalog loaded", zap.Int("topics", len(topics)))
	l.topics = topics
	l.loaded = true
	return topics, nil
}

// Clear drops the cached catalog and fires the registered invalidation hooks.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.topics = nil
	l.loaded = false
	hooks := make([]func(), len(l.onClear))
	copy(hooks, l.onClear)
	l.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// validTopic applies the load-time invariant: category, provider and title
// present and minutes strictly positive. Failing rows never enter the core.
func validTopic(t models.Topic) bool {
	return t.Category != "" && t.Provider != "" && t.Title != "" && t.Minutes > 0
}
