// Package auth turns a login attempt into a session.
//
// Two paths produce a NormalizedIdentity:
//   - CredentialVerifier checks an email and password against the user table.
//     Digests are argon2id; bcrypt digests of imported accounts are still accepted.
//   - FederatedResolver exchanges an OpenID Connect authorization code (with PKCE)
//     at a registered Provider and maps the provider's claim names onto one shape.
//
// # Reconciliation
//
// Reconciler maps the identity to a user record. A credential login returns the
// existing record. A federated login finds the record by email and returns it
// untouched, or creates it with user type unassigned and onboarding incomplete.
// Concurrent first logins for one email end in a single record: callers in this
// process share one lookup, and a duplicate key from another process is answered
// by reading the winner's record.
//
// # Claims
//
// ClaimsBuilder copies the record's id, user type and onboarding flag into
// SessionClaims when a session is issued. Later requests reuse the claims as they
// are; after a user type or onboarding write the caller reloads them.
//
// # Errors
//
// Every failure is fail-closed. PublicMessage reduces the error taxonomy to the
// two messages shown to users:
//
//	"Invalid email or password"       ErrMissingCredentials, ErrNoSuchAccount, ErrInvalidCredentials
//	"Authentication error, try again" everything else
//
// Example usage:
//
//	store := user.New(pool.New(db.Opener(cfg.DB)))
//	authenticator := auth.NewAuthenticator(
//	    auth.NewCredentialVerifier(store, auth.NewPasswordHasher()),
//	    auth.NewFederatedResolver(registry),
//	    auth.NewReconciler(store),
//	    auth.NewClaimsBuilder(store),
//	)
//
//	claims, err := authenticator.LoginWithPassword(ctx, email, password)
//	if err != nil {
//	    return c.Status(fiber.StatusUnauthorized).SendString(auth.PublicMessage(err))
//	}
package auth
