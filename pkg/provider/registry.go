package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownProvider indicates the requested provider is not registered.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrDuplicateProvider indicates an attempt to register the same provider twice.
var ErrDuplicateProvider = errors.New("provider already registered")

// Constructor builds a Provider from its configuration.
type Constructor func(cfg Config) (Provider, error)

// Module is the registration record each vendor package exports.
type Module struct {
	// ID is the module identifier, e.g. "provider-deepseek".
	ID string

	// ProviderID is the id the built provider reports from Name().
	ProviderID string

	DisplayName string
	Description string

	// New is the implementation constructor.
	New Constructor
}

// Registry maps provider ids to modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module. The module must carry a provider id and a
// constructor, and the provider id must not be taken.
func (r *Registry) Register(m Module) error {
	if m.ProviderID == "" {
		return errors.New("module provider id must not be empty")
	}
	if m.New == nil {
		return fmt.Errorf("module %q has no constructor", m.ProviderID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[m.ProviderID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, m.ProviderID)
	}
	r.modules[m.ProviderID] = m
	return nil
}

// Lookup returns the module registered under providerID.
func (r *Registry) Lookup(providerID string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[providerID]
	return m, ok
}

// Modules returns all registered modules sorted by provider id.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

// New constructs the provider registered under providerID.
func (r *Registry) New(providerID string, cfg Config) (Provider, error) {
	m, ok := r.Lookup(providerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, providerID)
	}
	return m.New(cfg)
}

// Instantiate builds one provider per entry in cfgs. On failure every
// provider built so far is closed and the first error is returned.
func (r *Registry) Instantiate(cfgs map[string]Config) (*Set, error) {
	ids := make([]string, 0, len(cfgs))
	for id := range cfgs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	set := &Set{byName: make(map[string]Provider, len(ids))}
	for _, id := range ids {
		p, err := r.New(id, cfgs[id])
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("provider %s: %w", id, err)
		}
		set.byName[id] = p
		set.order = append(set.order, id)
	}
	return set, nil
}

// Set is an immutable collection of constructed providers.
type Set struct {
	byName map[string]Provider
	order  []string
}

// NewSet builds a Set from already constructed providers, keyed by Name().
func NewSet(providers ...Provider) *Set {
	set := &Set{byName: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if _, exists := set.byName[p.Name()]; exists {
			continue
		}
		set.byName[p.Name()] = p
		set.order = append(set.order, p.Name())
	}
	sort.Strings(set.order)
	return set
}

// Get returns the provider with the given id.
func (s *Set) Get(id string) (Provider, bool) {
	p, ok := s.byName[id]
	return p, ok
}

// List returns providers sorted by id.
func (s *Set) List() []Provider {
	out := make([]Provider, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byName[id])
	}
	return out
}

// Len returns the number of providers in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Close closes every provider and joins their errors.
func (s *Set) Close() error {
	var errs []error
	for _, id := range s.order {
		if err := s.byName[id].Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
