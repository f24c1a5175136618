package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// Registry is the in-memory ProviderRegistry. Adapters are registered once
// at startup; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[fulfillment.ProviderName]fulfillment.ProviderClient
}

// NewRegistry creates a registry holding the given clients
func NewRegistry(clients ...fulfillment.ProviderClient) (*Registry, error) {
	r := &Registry{clients: make(map[fulfillment.ProviderName]fulfillment.ProviderClient)}
	for _, c := range clients {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a client. Names must be well-formed and unique.
func (r *Registry) Register(client fulfillment.ProviderClient) error {
	name := client.Name()
	if !name.IsValid() {
		return fmt.Errorf("%w: %q", fulfillment.ErrUnknownProvider, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[name]; exists {
		return fmt.Errorf("provider: %s already registered", name)
	}
	r.clients[name] = client
	return nil
}

// Get returns the client registered under name
func (r *Registry) Get(name fulfillment.ProviderName) (fulfillment.ProviderClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fulfillment.ErrUnknownProvider, name)
	}
	return c, nil
}

// Names returns all registered provider names in sorted order
func (r *Registry) Names() []fulfillment.ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]fulfillment.ProviderName, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// OAuth returns the OAuth capability of a provider
func (r *Registry) OAuth(name fulfillment.ProviderName) (fulfillment.OAuthProvider, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	p, ok := c.(fulfillment.OAuthProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no oauth flow", fulfillment.ErrCapabilityMissing, name)
	}
	return p, nil
}

// Fulfiller returns the order fulfillment capability of a provider
func (r *Registry) Fulfiller(name fulfillment.ProviderName) (fulfillment.OrderFulfiller, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	f, ok := c.(fulfillment.OrderFulfiller)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not accept fulfillment orders", fulfillment.ErrCapabilityMissing, name)
	}
	return f, nil
}

var _ fulfillment.ProviderRegistry = (*Registry)(nil)
