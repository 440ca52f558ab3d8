package auth

import (
	"context"
	"fmt"
)

// AuthorizationResult is what the provider callback hands back.
type AuthorizationResult struct {
	Provider string
	Code     string
	Verifier string // PKCE code verifier created with the authorization URL
}

// Resolution is a resolved federated login.
type Resolution struct {
	Identity    NormalizedIdentity
	AccessToken string
}

// FederatedResolver turns an authorization result into a NormalizedIdentity.
// It does not touch the user store.
type FederatedResolver struct {
	registry *Registry
}

// NewFederatedResolver creates a FederatedResolver over registry.
func NewFederatedResolver(registry *Registry) *FederatedResolver {
	return &FederatedResolver{registry: registry}
}

// Providers returns the names of the registered providers.
func (r *FederatedResolver) Providers() []string {
	return r.registry.Names()
}

// AuthCodeURL returns the authorization URL of the named provider.
func (r *FederatedResolver) AuthCodeURL(ctx context.Context, provider, state, verifier string) (string, error) {
	p, err := r.registry.Get(provider)
	if err != nil {
		return "", err
	}

	u, err := p.AuthCodeURL(ctx, state, verifier)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProviderExchangeFailed, err)
	}

	return u, nil
}

// Resolve exchanges the authorization code at the provider.
// Any provider error and a result without email yield ErrProviderExchangeFailed.
func (r *FederatedResolver) Resolve(ctx context.Context, res AuthorizationResult) (Resolution, error) {
	p, err := r.registry.Get(res.Provider)
	if err != nil {
		return Resolution{}, err
	}

	if res.Code == "" {
		return Resolution{}, fmt.Errorf("%w: missing authorization code", ErrProviderExchangeFailed)
	}

	resolution, err := p.Exchange(ctx, res.Code, res.Verifier)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %s: %w", ErrProviderExchangeFailed, res.Provider, err)
	}

	if resolution.Identity.Email == "" {
		return Resolution{}, fmt.Errorf("%w: %s returned no email", ErrProviderExchangeFailed, res.Provider)
	}

	resolution.Identity.Provider = p.Name()

	return resolution, nil
}
