package auth

import "errors"

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrNoSuchAccount is returned when no account with a password exists for the email.
	// Outwardly it is reported like ErrInvalidCredentials.
	ErrNoSuchAccount = errors.New("no such account")

	// ErrInvalidCredentials is returned when the password does not match the stored digest.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProviderExchangeFailed is returned when the identity provider exchange fails
	// or yields no usable email.
	ErrProviderExchangeFailed = errors.New("identity provider exchange failed")

	// ErrPersistenceFailure is returned when reading or writing the user record fails.
	// The login is aborted and no session is issued.
	ErrPersistenceFailure = errors.New("user record persistence failed")

	// ErrDuplicateEmailConflict is returned when a concurrent insert created the same email first.
	// The reconciler retries once and does not surface it on success.
	ErrDuplicateEmailConflict = errors.New("duplicate email conflict")

	// ErrUnknownProvider is returned for a provider name that is not registered.
	ErrUnknownProvider = errors.New("unknown identity provider")

	// ErrEmailAlreadyRegistered is returned by signup for a taken email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidSignup is returned when signup input fails validation.
	ErrInvalidSignup = errors.New("invalid signup input")

	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token
	// and the provider has no UserInfo endpoint to fall back to.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrOIDCDisabled is returned when a disabled provider is constructed.
	ErrOIDCDisabled = errors.New("oidc provider is disabled")

	// ErrIncompleteProvider is returned when provider URL or client id are missing.
	ErrIncompleteProvider = errors.New("oidc provider needs provider url and client id")
)
