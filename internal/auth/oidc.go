package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/marketlink/marketlink/internal/config"
)

// OIDCProvider is a Provider speaking OpenID Connect.
// Discovery happens on first use and is retried after a failure.
type OIDCProvider struct {
	name string
	cfg  config.OIDCAuth

	mu       sync.Mutex
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

// NewOIDCProvider creates an OIDC provider. No network call is made.
func NewOIDCProvider(name string, cfg config.OIDCAuth) (*OIDCProvider, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrOIDCDisabled, name)
	}

	if cfg.ProviderURL == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteProvider, name)
	}

	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{name: name, cfg: cfg}, nil
}

// Name implements Provider.
func (p *OIDCProvider) Name() string {
	return p.name
}

func (p *OIDCProvider) discover(ctx context.Context) (*oidc.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.provider != nil {
		return p.provider, nil
	}

	provider, err := oidc.NewProvider(ctx, p.cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider %s: %w", p.name, err)
	}

	p.verifier = provider.Verifier(&oidc.Config{ClientID: p.cfg.ClientID})
	p.oauth2 = oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		RedirectURL:  p.cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       p.cfg.Scopes,
	}
	p.provider = provider

	return provider, nil
}

// AuthCodeURL implements Provider.
func (p *OIDCProvider) AuthCodeURL(ctx context.Context, state, verifier string) (string, error) {
	if _, err := p.discover(ctx); err != nil {
		return "", err
	}

	return p.oauth2.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// Exchange implements Provider.
// Claims come from the verified ID token. When it carries no email, or there is
// no ID token at all, the UserInfo endpoint fills the gaps.
func (p *OIDCProvider) Exchange(ctx context.Context, code, verifier string) (Resolution, error) {
	provider, err := p.discover(ctx)
	if err != nil {
		return Resolution{}, err
	}

	token, err := p.oauth2.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to exchange token: %w", err)
	}

	claims := map[string]any{}

	rawIDToken, hasIDToken := token.Extra("id_token").(string)
	if hasIDToken {
		idToken, err := p.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to verify ID token: %w", err)
		}

		if err = idToken.Claims(&claims); err != nil {
			return Resolution{}, fmt.Errorf("failed to parse ID token claims: %w", err)
		}
	}

	if !hasIDToken || firstString(claims, emailClaims...) == "" {
		info, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if err != nil {
			if !hasIDToken {
				return Resolution{}, fmt.Errorf("%w: %w", ErrNoIDToken, err)
			}

			return Resolution{}, fmt.Errorf("failed to get user info: %w", err)
		}

		var extra map[string]any
		if err = info.Claims(&extra); err != nil {
			return Resolution{}, fmt.Errorf("failed to parse user info claims: %w", err)
		}

		for k, v := range extra {
			if _, ok := claims[k]; !ok {
				claims[k] = v
			}
		}
	}

	return Resolution{
		Identity:    NormalizeClaims(p.name, claims),
		AccessToken: token.AccessToken,
	}, nil
}
