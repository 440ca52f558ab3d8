package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/cache"
	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/onboarding"
	authmiddleware "github.com/marketlink/marketlink/internal/web/middleware/auth"
	"github.com/marketlink/marketlink/internal/web/session"
)

// Deps are the services shared by all handlers.
type Deps struct {
	Config     *config.Config
	Auth       *auth.Authenticator
	Onboarding *onboarding.Service
	Sessions   *session.Manager
	Middleware *authmiddleware.Middleware
	// Cache keeps the OAuth state between login and callback.
	Cache cache.Client
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Config != nil && d.Auth != nil && d.Onboarding != nil &&
		d.Sessions != nil && d.Middleware != nil && d.Cache != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
