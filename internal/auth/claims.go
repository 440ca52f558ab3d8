package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
)

// SessionClaims are the fields a session carries about its user.
// They are a copy of the user record taken at login or at the last reload.
type SessionClaims struct {
	UserID              string
	UserType            models.UserType
	OnboardingCompleted bool
	// AccessToken is the provider access token of a federated login.
	// It stays on the server, see PublicSession.
	AccessToken string
}

// PublicSession is the part of the claims pages and API clients may see.
type PublicSession struct {
	UserID              string          `json:"userId"`
	UserType            models.UserType `json:"userType"`
	OnboardingCompleted bool            `json:"onboardingCompleted"`
}

// ClaimsBuilder builds and refreshes SessionClaims.
type ClaimsBuilder struct {
	store UserStore
}

// NewClaimsBuilder creates a ClaimsBuilder. The store is used by Reload only.
func NewClaimsBuilder(store UserStore) *ClaimsBuilder {
	return &ClaimsBuilder{store: store}
}

// OnIssue builds the claims of a new session from u.
// accessToken is empty for credential logins.
func (b *ClaimsBuilder) OnIssue(u *models.User, accessToken string) SessionClaims {
	return SessionClaims{
		UserID:              u.ID,
		UserType:            u.UserType,
		OnboardingCompleted: u.OnboardingCompleted,
		AccessToken:         accessToken,
	}
}

// OnRefresh is called on every validated request and returns existing as is.
// It does not read the store.
func (b *ClaimsBuilder) OnRefresh(existing SessionClaims) SessionClaims {
	return existing
}

// ToPublic drops the access token.
func (b *ClaimsBuilder) ToPublic(c SessionClaims) PublicSession {
	return PublicSession{
		UserID:              c.UserID,
		UserType:            c.UserType,
		OnboardingCompleted: c.OnboardingCompleted,
	}
}

// Reload re-reads the user record and re-issues the claims, keeping the access token.
// Call it right after writing the user type or completing onboarding.
func (b *ClaimsBuilder) Reload(ctx context.Context, c SessionClaims) (SessionClaims, error) {
	u, err := b.store.FindByID(ctx, c.UserID)

	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return SessionClaims{}, ErrNoSuchAccount
	case err != nil:
		return SessionClaims{}, fmt.Errorf("%w: reload %s: %w", ErrPersistenceFailure, c.UserID, err)
	}

	return b.OnIssue(u, c.AccessToken), nil
}
