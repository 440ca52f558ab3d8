package auth

import (
	"context"
	"fmt"
	"sort"
)

// Provider is an external identity provider.
type Provider interface {
	// Name is the registry key and the value of NormalizedIdentity.Provider.
	Name() string
	// AuthCodeURL returns the authorization URL for state with the S256 challenge of verifier.
	AuthCodeURL(ctx context.Context, state, verifier string) (string, error)
	// Exchange trades the authorization code for the user's claims and access token.
	Exchange(ctx context.Context, code, verifier string) (Resolution, error)
}

// Registry holds the enabled providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a Registry. A later provider replaces an earlier one with the same name.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}

	for _, p := range providers {
		r.providers[p.Name()] = p
	}

	return r
}

// Get returns the named provider.
func (r *Registry) Get(name string) (Provider, error) {
	if r != nil {
		if p, ok := r.providers[name]; ok {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// Names returns the sorted provider names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
