// Package clouds provides the feed source registry.
// Sources are pluggable: each one knows how to open the inventory and
// commitment feeds of a subscription.
package clouds

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"reservation-analysis/clouds/azure"
	"reservation-analysis/clouds/snapshot"
	"reservation-analysis/core/feed"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/errors"
)

// Source defines the interface for a feed source
type Source interface {
	// Name returns the registry name
	Name() string

	// Open opens the feeds of one subscription
	Open(ctx context.Context, subscriptionID string) (feed.InventoryFeed, feed.CommitmentSource, error)
}

// Registry manages source registration
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a source to the registry
func (r *Registry) Register(source Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[source.Name()]; exists {
		return fmt.Errorf("source already registered: %s", source.Name())
	}
	r.sources[source.Name()] = source
	return nil
}

// Get returns a source by name
func (r *Registry) Get(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[name]
	if !ok {
		return nil, errors.Newf(errors.TypeConfig, "source %q is not registered", name)
	}
	return source, nil
}

// Names returns all registered source names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig registers the sources the configuration can support and returns
// the one selected by analysis.source.
func FromConfig(cfg *config.Config, logger *zap.Logger) (Source, *Registry, error) {
	r := NewRegistry()

	switch cfg.Analysis.Source {
	case azure.Name:
		src, err := azure.NewSource(cfg.Azure, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := r.Register(src); err != nil {
			return nil, nil, err
		}
	case snapshot.Name:
		if err := r.Register(snapshot.NewSource(cfg.Analysis.SnapshotPath, logger)); err != nil {
			return nil, nil, err
		}
	}

	source, err := r.Get(cfg.Analysis.Source)
	if err != nil {
		return nil, nil, err
	}
	return source, r, nil
}
