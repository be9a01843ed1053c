package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-tablegen/pkg/source"
)

// SourceRegistry stores named data sources so requests can refer to them
// by name, e.g. one REST item per admin panel.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources map[string]source.Source
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]source.Source),
	}
}

// Register adds src under name. Duplicate names return an error.
func (r *SourceRegistry) Register(name string, src source.Source) error {
	if src == nil {
		return fmt.Errorf("orchestrator: source is required")
	}
	key := normalizeSourceName(name)
	if key == "" {
		return fmt.Errorf("orchestrator: source name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[key]; exists {
		return fmt.Errorf("orchestrator: source %q already registered", key)
	}
	r.sources[key] = src
	return nil
}

// MustRegister panics on registration failure.
func (r *SourceRegistry) MustRegister(name string, src source.Source) {
	if err := r.Register(name, src); err != nil {
		panic(err)
	}
}

// Get retrieves a source by name.
func (r *SourceRegistry) Get(name string) (source.Source, error) {
	key := normalizeSourceName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: source name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: source %q not found", key)
	}
	return src, nil
}

// List returns the registered names, sorted.
func (r *SourceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *SourceRegistry) Has(name string) bool {
	key := normalizeSourceName(name)
	if key == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sources[key]
	return ok
}

func normalizeSourceName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
