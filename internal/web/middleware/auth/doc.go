// Package auth provides the session middleware of the web application.
//
// Load reads the session cookie when present, Require rejects requests
// without a valid session and Guard keeps a session on the page its
// onboarding state allows. A verified session is stored in fiber.Locals
// under LocalSession and its user id under LocalUser, where the access log
// picks it up.
//
// Usage:
//
//	mw := authmiddleware.New(sessions, claims)
//	app.Get("/dashboard", mw.Require, mw.Guard, pages.Dashboard)
package auth
