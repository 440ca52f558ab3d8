// Package oidc implements the browser side of a federated login.
//
// The login route creates a state value and a PKCE code verifier, keeps both
// in the cache for Cache.StateTTL, sets the state as a short lived HttpOnly
// cookie and redirects to the provider. The callback only accepts a state that
// matches the cookie of the browser, clears the cookie, takes the state back
// out of the cache (a state is redeemable once), checks
// that it belongs to the provider of the callback and hands code and verifier
// to auth.Authenticator.LoginWithProvider. On success a session is issued and
// the browser is redirected to the page of the session's onboarding state.
//
// Routes, for every enabled provider name:
//
//	GET /auth/:provider/login
//	GET /auth/:provider/callback
package oidc
