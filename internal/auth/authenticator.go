package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/metrics"
)

const (
	// MessageInvalidCredentials is shown for every credential failure.
	MessageInvalidCredentials = "Invalid email or password"
	// MessageAuthenticationError is shown for provider and persistence failures.
	MessageAuthenticationError = "Authentication error, try again"

	methodPassword = "password"
)

// Authenticator runs a complete login: verify or resolve, reconcile, build claims.
// It never returns claims together with an error.
type Authenticator struct {
	credentials *CredentialVerifier
	federated   *FederatedResolver
	reconciler  *Reconciler
	claims      *ClaimsBuilder
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(
	credentials *CredentialVerifier,
	federated *FederatedResolver,
	reconciler *Reconciler,
	claims *ClaimsBuilder,
) *Authenticator {
	return &Authenticator{
		credentials: credentials,
		federated:   federated,
		reconciler:  reconciler,
		claims:      claims,
	}
}

// Claims returns the claims builder used for issued sessions.
func (a *Authenticator) Claims() *ClaimsBuilder {
	return a.claims
}

// Federated returns the resolver of provider logins.
func (a *Authenticator) Federated() *FederatedResolver {
	return a.federated
}

// LoginWithPassword logs in with email and password.
func (a *Authenticator) LoginWithPassword(ctx context.Context, email, password string) (SessionClaims, error) {
	claims, err := a.loginWithPassword(ctx, email, password)
	metrics.LoginAttempt(methodPassword, Outcome(err))

	return claims, err
}

func (a *Authenticator) loginWithPassword(ctx context.Context, email, password string) (SessionClaims, error) {
	u, err := a.credentials.Verify(ctx, email, password)
	if err != nil {
		return SessionClaims{}, err
	}

	u, err = a.reconciler.Reconcile(ctx, NormalizedIdentity{Email: u.Email, Name: u.Name}, Credential())
	if err != nil {
		return SessionClaims{}, err
	}

	return a.claims.OnIssue(u, ""), nil
}

// LoginWithProvider completes a federated login.
func (a *Authenticator) LoginWithProvider(ctx context.Context, res AuthorizationResult) (SessionClaims, error) {
	claims, err := a.loginWithProvider(ctx, res)

	method := res.Provider
	if errors.Is(err, ErrUnknownProvider) {
		method = "unknown"
	}

	metrics.LoginAttempt(method, Outcome(err))

	return claims, err
}

func (a *Authenticator) loginWithProvider(ctx context.Context, res AuthorizationResult) (SessionClaims, error) {
	resolution, err := a.federated.Resolve(ctx, res)
	if err != nil {
		return SessionClaims{}, err
	}

	u, err := a.reconciler.Reconcile(ctx, resolution.Identity, Federated(resolution.Identity.Provider))
	if err != nil {
		return SessionClaims{}, err
	}

	return a.claims.OnIssue(u, resolution.AccessToken), nil
}

// Signup creates a credential account. The caller logs in afterwards.
func (a *Authenticator) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	u, err := a.credentials.Signup(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user", u.ID).Msg("signed up")

	return u, nil
}

// Outcome is the metrics label of a login result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, ErrNoSuchAccount), errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUnknownProvider):
		return "unknown_provider"
	case errors.Is(err, ErrProviderExchangeFailed):
		return "provider_error"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_error"
	default:
		return "error"
	}
}

// PublicMessage is the text shown to the user for a login error.
// Credential failures share one message so the response does not reveal whether an account exists.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrNoSuchAccount),
		errors.Is(err, ErrInvalidCredentials):
		return MessageInvalidCredentials
	default:
		return MessageAuthenticationError
	}
}
