package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/web/handler"
	authmiddleware "github.com/marketlink/marketlink/internal/web/middleware/auth"
	"github.com/marketlink/marketlink/internal/web/navigation"
)

const (
	// Path is the path to the login page.
	Path = navigation.LoginPath

	// SignupPath is the path of the credential signup.
	SignupPath = handler.RootPath + "signup"
)

// Methods lists the enabled login methods.
type Methods struct {
	Credentials bool     `json:"credentials"`
	Providers   []string `json:"providers"`
}

// Form is the login form.
type Form struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"` //nolint:gosec
}

// Service is the login handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, deps.Middleware.Load, s.Get)
		router.Post(handler.RootPath, s.Post)
	})
	app.Post(SignupPath, s.Signup)

	return nil
}

// Get lists the login methods. A logged in user is sent to the page of its state.
func (s *Service) Get(c *fiber.Ctx) error {
	if sess, ok := authmiddleware.Current(c); ok {
		return c.Redirect(navigation.Destination(sess.Claims))
	}

	return c.JSON(Methods{
		Credentials: s.deps.Config.Auth.LocalDB.Enabled,
		Providers:   s.deps.Auth.Federated().Providers(),
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.deps.Config.Auth.LocalDB.Enabled {
		return c.Status(fiber.StatusForbidden).JSON(handler.ErrorResponse{Error: ErrLocalAuthDisabled.Error()})
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: ErrInvalidFormData.Error()})
	}

	claims, err := s.deps.Auth.LoginWithPassword(c.UserContext(), form.Email, form.Password)
	if err != nil {
		return loginFailed(c, err)
	}

	if _, err = s.deps.Sessions.Issue(c, claims); err != nil {
		log.Error().Err(err).Msg("failed to issue session")
		return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorResponse{Error: auth.MessageAuthenticationError})
	}

	log.Info().Str("user", claims.UserID).Msg("user logged in with password")

	return c.Redirect(navigation.Destination(claims))
}

// loginFailed answers a failed login with the generic message of err.
func loginFailed(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized

	switch {
	case errors.Is(err, auth.ErrPersistenceFailure):
		status = fiber.StatusInternalServerError
		log.Error().Err(err).Msg("login failed")
	default:
		log.Info().Err(err).Msg("login rejected")
	}

	return c.Status(status).JSON(handler.ErrorResponse{Error: auth.PublicMessage(err)})
}
