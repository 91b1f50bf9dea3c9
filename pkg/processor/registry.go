// Package processor keeps the registry of processor factories selectable from configuration.
package processor

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
)

// Factory creates a processor from the options of its configuration block.
type Factory func(options map[string]string, log *logger.Logger) (storage.Processor, error)

var (
	registry = make(map[string]Factory)
	mu       sync.RWMutex
)

// Register registers a processor factory under name, usually from an init function.
// Names are case-insensitive. Registering the same name twice panics.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	key := strings.ToLower(name)
	if factory == nil {
		panic(fmt.Sprintf("processor: nil factory for %q", key))
	}
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("processor: %q registered twice", key))
	}

	registry[key] = factory
}

// IsRegistered reports whether a factory exists for name.
func IsRegistered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// List returns the registered names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Create builds the processor registered under name.
func Create(name string, options map[string]string, log *logger.Logger) (storage.Processor, error) {
	mu.RLock()
	factory := registry[strings.ToLower(name)]
	mu.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("unknown processor type: %s (registered types: %v)", name, List())
	}

	p, err := factory(options, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor %s: %w", name, err)
	}

	return p, nil
}
