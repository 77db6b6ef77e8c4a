package providers

import (
	"context"
	"fmt"
	"sync"

	"lyricskit-go/core"
)

// Provider defines the interface that all lyrics providers must implement
type Provider interface {
	// Name returns the provider's identifier (e.g., "kugou", "netease")
	Name() string

	// Search looks up candidate tracks for a request and returns one token
	// per candidate, ordered by provider relevance. An empty slice with a
	// nil error means the provider simply has nothing for this request.
	Search(ctx context.Context, request core.SearchRequest) ([]Token, error)

	// Fetch retrieves and decodes the full lyrics document for a token
	// previously returned by Search on the same provider.
	Fetch(ctx context.Context, token Token) (*core.Lyrics, error)
}

// Registry holds all registered providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// GetRegistry returns the global provider registry
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// List returns all registered provider names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Has checks if a provider is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// Register is a convenience function to register a provider in the global registry
func Register(p Provider) {
	GetRegistry().Register(p)
}

// Get is a convenience function to get a provider from the global registry
func Get(name string) (Provider, error) {
	return GetRegistry().Get(name)
}

// List is a convenience function to list all providers in the global registry
func List() []string {
	return GetRegistry().List()
}

// Has is a convenience function to check if a provider exists in the global registry
func Has(name string) bool {
	return GetRegistry().Has(name)
}
