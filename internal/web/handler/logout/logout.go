// Package logout ends sessions.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/web/handler"
	"github.com/marketlink/marketlink/internal/web/navigation"
)

// Path is the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	// logout route (outside auth middleware protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout deletes the server side session entry and clears the cookie.
// A missing or broken session still gets its cookie cleared.
func (s *Service) Logout(c *fiber.Ctx) error {
	var sessionID string

	if sess, err := s.deps.Sessions.Read(c); err == nil {
		sessionID = sess.ID
	}

	if err := s.deps.Sessions.Destroy(c, sessionID); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	} else if sessionID != "" {
		log.Info().Str("session", sessionID).Msg("user logged out")
	}

	return c.Redirect(navigation.LoginPath)
}
