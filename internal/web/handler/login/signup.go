package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/web/handler"
)

// SignupResponse is returned for a created account.
type SignupResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Signup creates an email and password account. The client logs in afterwards.
func (s *Service) Signup(c *fiber.Ctx) error {
	if !s.deps.Config.Auth.LocalDB.Enabled {
		return c.Status(fiber.StatusForbidden).JSON(handler.ErrorResponse{Error: ErrLocalAuthDisabled.Error()})
	}

	in := new(auth.SignupInput)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: ErrInvalidFormData.Error()})
	}

	u, err := s.deps.Auth.Signup(c.UserContext(), *in)

	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(SignupResponse{UserID: u.ID, Email: u.Email})
	case errors.Is(err, auth.ErrInvalidSignup), errors.Is(err, auth.ErrMissingCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailAlreadyRegistered):
		return c.Status(fiber.StatusConflict).JSON(handler.ErrorResponse{Error: auth.ErrEmailAlreadyRegistered.Error()})
	default:
		log.Error().Err(err).Msg("signup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorResponse{Error: auth.MessageAuthenticationError})
	}
}
