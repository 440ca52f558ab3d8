package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	coreauth "github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/web/navigation"
	"github.com/marketlink/marketlink/internal/web/session"
)

const (
	// LocalSession is the fiber.Locals key of the *session.Session.
	LocalSession = "session"
	// LocalUser is the fiber.Locals key of the user id.
	LocalUser = "user"

	apiPrefix = "/api/"
)

// Middleware validates sessions.
type Middleware struct {
	sessions *session.Manager
	claims   *coreauth.ClaimsBuilder
}

// New creates the session middleware.
func New(sessions *session.Manager, claims *coreauth.ClaimsBuilder) *Middleware {
	return &Middleware{sessions: sessions, claims: claims}
}

func (m *Middleware) read(c *fiber.Ctx) (*session.Session, error) {
	s, err := m.sessions.Read(c)
	if err != nil {
		return nil, err
	}

	s.Claims = m.claims.OnRefresh(s.Claims)

	c.Locals(LocalSession, s)
	c.Locals(LocalUser, s.Claims.UserID)

	return s, nil
}

// Load stores the session of the request, if any, and always continues.
func (m *Middleware) Load(c *fiber.Ctx) error {
	if _, err := m.read(c); err != nil && !errors.Is(err, session.ErrNoSession) {
		log.Debug().Err(err).Msg("ignoring session")
	}

	return c.Next()
}

// Require answers 401 for API requests and redirects pages to the login
// when the request has no valid session.
func (m *Middleware) Require(c *fiber.Ctx) error {
	_, err := m.read(c)
	if err == nil {
		return c.Next()
	}

	switch {
	case errors.Is(err, session.ErrNoSession):
	case errors.Is(err, session.ErrInvalidSession), errors.Is(err, session.ErrRevoked):
		log.Info().Err(err).Str("path", c.Path()).Msg("rejected session")
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("failed to read session")
	}

	if IsAPI(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	return c.Redirect(navigation.LoginPath)
}

// Guard redirects a session to its destination when the requested page is
// not allowed for its state. It has to run after Require.
func (m *Middleware) Guard(c *fiber.Ctx) error {
	s, ok := Current(c)
	if !ok {
		return c.Redirect(navigation.LoginPath)
	}

	if !navigation.Allowed(s.Claims, c.Path()) {
		return c.Redirect(navigation.Destination(s.Claims))
	}

	return c.Next()
}

// Current returns the session stored by Load or Require.
func Current(c *fiber.Ctx) (*session.Session, bool) {
	s, ok := c.Locals(LocalSession).(*session.Session)
	return s, ok && s != nil
}

// IsAPI checks if the request targets the JSON API.
func IsAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), apiPrefix)
}
