// Package main provides the entry point of the marketlink service.
// It reads the configuration, connects the user store and runs a Fiber web
// server offering email and password login, OpenID Connect login and the
// onboarding API that moves a user from type selection to the dashboard.
package main
