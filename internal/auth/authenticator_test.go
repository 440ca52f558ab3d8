package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlink/marketlink/internal/auth/oidctest"
	"github.com/marketlink/marketlink/internal/db/models"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *oidctest.Issuer, UserStore) {
	t.Helper()

	store, _ := setupTestStore(t)
	issuer := oidctest.New(t)

	a := NewAuthenticator(
		newTestVerifier(store),
		NewFederatedResolver(NewRegistry(newTestProvider(t, issuer))),
		NewReconciler(store),
		NewClaimsBuilder(store),
	)

	return a, issuer, store
}

func TestLoginWithPassword(t *testing.T) {
	a, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	u, err := a.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@x.com", Password: "long-enough"})
	require.NoError(t, err)

	claims, err := a.LoginWithPassword(ctx, "alice@x.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, SessionClaims{UserID: u.ID, UserType: models.UserTypeUnassigned}, claims)

	claims, err = a.LoginWithPassword(ctx, "alice@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, SessionClaims{}, claims)
}

func TestLoginWithProviderScenario(t *testing.T) {
	a, issuer, store := newTestAuthenticator(t)
	ctx := context.Background()

	issuer.AddCode("first", oidctest.Grant{IDToken: map[string]any{"sub": "p1", "email": "a@x.com", "name": "A"}})
	issuer.AddCode("second", oidctest.Grant{IDToken: map[string]any{"sub": "p1", "email": "a@x.com", "name": "A renamed"}})

	first, err := a.LoginWithProvider(ctx, AuthorizationResult{Provider: "linkedin", Code: "first"})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeUnassigned, first.UserType)
	assert.False(t, first.OnboardingCompleted)
	assert.Equal(t, "at-first", first.AccessToken)

	second, err := a.LoginWithProvider(ctx, AuthorizationResult{Provider: "linkedin", Code: "second"})
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)

	u, err := store.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name, "returning login leaves the record unchanged")
}

func TestPasswordLoginOnFederatedAccount(t *testing.T) {
	a, issuer, _ := newTestAuthenticator(t)
	ctx := context.Background()

	issuer.AddCode("fed", oidctest.Grant{IDToken: map[string]any{"sub": "p9", "email": "fed@x.com"}})

	_, err := a.LoginWithProvider(ctx, AuthorizationResult{Provider: "linkedin", Code: "fed"})
	require.NoError(t, err)

	_, err = a.LoginWithPassword(ctx, "fed@x.com", "whatever-password")
	require.ErrorIs(t, err, ErrNoSuchAccount)
	assert.Equal(t, MessageInvalidCredentials, PublicMessage(err))
}

func TestLoginWithProviderFailureIssuesNothing(t *testing.T) {
	a, _, store := newTestAuthenticator(t)

	claims, err := a.LoginWithProvider(context.Background(), AuthorizationResult{Provider: "linkedin", Code: "unknown"})
	require.ErrorIs(t, err, ErrProviderExchangeFailed)
	assert.Equal(t, SessionClaims{}, claims)

	_, err = store.FindByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
}

func TestOutcomeAndPublicMessage(t *testing.T) {
	testCases := []struct {
		err     error
		outcome string
		message string
	}{
		{nil, "success", MessageAuthenticationError},
		{ErrMissingCredentials, "missing_credentials", MessageInvalidCredentials},
		{ErrNoSuchAccount, "invalid_credentials", MessageInvalidCredentials},
		{fmt.Errorf("wrapped: %w", ErrInvalidCredentials), "invalid_credentials", MessageInvalidCredentials},
		{ErrUnknownProvider, "unknown_provider", MessageAuthenticationError},
		{ErrProviderExchangeFailed, "provider_error", MessageAuthenticationError},
		{ErrPersistenceFailure, "persistence_error", MessageAuthenticationError},
		{errors.New("boom"), "error", MessageAuthenticationError},
	}

	for _, tc := range testCases {
		t.Run(tc.outcome, func(t *testing.T) {
			assert.Equal(t, tc.outcome, Outcome(tc.err))
			assert.Equal(t, tc.message, PublicMessage(tc.err))
		})
	}
}
