// Package account serves the JSON API of a logged in user: the public
// session, the user type selection, the stored profile and the onboarding
// submission.
//
// Writes go through onboarding.Service first. The handler then reloads the
// session claims from the user record and renews the cookie, so the
// response and every later request see the new onboarding state.
package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/onboarding"
	"github.com/marketlink/marketlink/internal/web/handler"
	authmiddleware "github.com/marketlink/marketlink/internal/web/middleware/auth"
	"github.com/marketlink/marketlink/internal/web/navigation"
	"github.com/marketlink/marketlink/internal/web/session"
)

const (
	// SessionPath returns the public session.
	SessionPath = "/session"
	// UserTypePath reads and selects the user type.
	UserTypePath = "/user/type"
	// ProfilePath returns the stored profile and accepts edits of name and image.
	ProfilePath = "/profile"
	// OnboardingPath completes the onboarding of a user type.
	OnboardingPath = "/onboarding/:type"
)

// SessionView is the public session with its navigation state.
type SessionView struct {
	Session     auth.PublicSession `json:"session"`
	State       navigation.State   `json:"state"`
	Destination string             `json:"destination"`
}

// UserTypeRequest selects a user type.
type UserTypeRequest struct {
	UserType string `json:"userType" form:"userType"`
}

// UserTypeResponse is the current user type.
type UserTypeResponse struct {
	UserType models.UserType `json:"userType"`
}

// ProfileView is the stored record without credentials.
type ProfileView struct {
	ID                      string          `json:"id"`
	Email                   string          `json:"email"`
	Name                    string          `json:"name"`
	Image                   string          `json:"image,omitempty"`
	UserType                models.UserType `json:"userType"`
	OnboardingCompleted     bool            `json:"onboardingCompleted"`
	Company                 string          `json:"company,omitempty"`
	CompanySize             string          `json:"companySize,omitempty"`
	FoundingDate            string          `json:"foundingDate,omitempty"`
	Location                string          `json:"location,omitempty"`
	Requirements            string          `json:"requirements,omitempty"`
	Budget                  string          `json:"budget,omitempty"`
	Products                []string        `json:"products,omitempty"`
	Services                []string        `json:"services,omitempty"`
	Expertise               []string        `json:"expertise,omitempty"`
	Industries              []string        `json:"industries,omitempty"`
	SuccessfulIntroductions int             `json:"successfulIntroductions"`
	LinkedinProfile         string          `json:"linkedinProfile,omitempty"`
	Description             string          `json:"description,omitempty"`
}

// NewProfileView copies u into a ProfileView.
func NewProfileView(u *models.User) ProfileView {
	p := u.Profile

	return ProfileView{
		ID:                      u.ID,
		Email:                   u.Email,
		Name:                    u.Name,
		Image:                   u.Image,
		UserType:                u.UserType,
		OnboardingCompleted:     u.OnboardingCompleted,
		Company:                 p.Company,
		CompanySize:             p.CompanySize,
		FoundingDate:            p.FoundingDate,
		Location:                p.Location,
		Requirements:            p.Requirements,
		Budget:                  p.Budget,
		Products:                p.Products,
		Services:                p.Services,
		Expertise:               p.Expertise,
		Industries:              p.Industries,
		SuccessfulIntroductions: p.SuccessfulIntroductions,
		LinkedinProfile:         p.LinkedinProfile,
		Description:             p.Description,
	}
}

// Service is the account API handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the account API.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	api := app.Group(handler.APIPath, deps.Middleware.Require)
	api.Get(SessionPath, s.Session)
	api.Get(UserTypePath, s.GetUserType)
	api.Post(UserTypePath, s.SelectUserType)
	api.Get(ProfilePath, s.Profile)
	api.Post(ProfilePath, s.UpdateProfile)
	api.Post(OnboardingPath, s.CompleteOnboarding)

	return nil
}

func (s *Service) view(sess *session.Session) SessionView {
	return SessionView{
		Session:     s.deps.Auth.Claims().ToPublic(sess.Claims),
		State:       navigation.StateOf(sess.Claims),
		Destination: navigation.Destination(sess.Claims),
	}
}

// Session returns the public claims of the request's session.
func (s *Service) Session(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	return c.JSON(s.view(sess))
}

// GetUserType returns the stored user type.
func (s *Service) GetUserType(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	u, err := s.deps.Onboarding.Profile(c.UserContext(), sess.Claims.UserID)
	if err != nil {
		return failed(c, err)
	}

	return c.JSON(UserTypeResponse{UserType: u.UserType})
}

// SelectUserType stores the user type and refreshes the session.
func (s *Service) SelectUserType(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	req := new(UserTypeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: err.Error()})
	}

	t, ok := models.ParseUserType(req.UserType)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: onboarding.ErrInvalidUserType.Error()})
	}

	if _, err := s.deps.Onboarding.SelectUserType(c.UserContext(), sess.Claims.UserID, t); err != nil {
		return failed(c, err)
	}

	if err := s.refresh(c, sess); err != nil {
		return failed(c, err)
	}

	return c.JSON(s.view(sess))
}

// Profile returns the stored record.
func (s *Service) Profile(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	u, err := s.deps.Onboarding.Profile(c.UserContext(), sess.Claims.UserID)
	if err != nil {
		return failed(c, err)
	}

	return c.JSON(NewProfileView(u))
}

// UpdateProfile stores a local edit of name and image.
func (s *Service) UpdateProfile(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	edit := new(onboarding.ProfileEdit)
	if err := c.BodyParser(edit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: err.Error()})
	}

	u, err := s.deps.Onboarding.UpdateProfile(c.UserContext(), sess.Claims.UserID, *edit)
	if err != nil {
		return failed(c, err)
	}

	return c.JSON(NewProfileView(u))
}

// CompleteOnboarding stores the onboarding form of :type and refreshes the session.
func (s *Service) CompleteOnboarding(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	sub, ok := onboarding.NewSubmission(models.UserType(c.Params("type")))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(handler.ErrorResponse{Error: onboarding.ErrInvalidUserType.Error()})
	}

	if err := c.BodyParser(sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: err.Error()})
	}

	if _, err := s.deps.Onboarding.Complete(c.UserContext(), sess.Claims.UserID, sub); err != nil {
		return failed(c, err)
	}

	if err := s.refresh(c, sess); err != nil {
		return failed(c, err)
	}

	return c.JSON(s.view(sess))
}

// refresh reloads the claims of sess from the store and renews the cookie.
func (s *Service) refresh(c *fiber.Ctx, sess *session.Session) error {
	claims, err := s.deps.Auth.Claims().Reload(c.UserContext(), sess.Claims)
	if err != nil {
		return err
	}

	sess.Claims = claims
	c.Locals(authmiddleware.LocalSession, sess)

	return s.deps.Sessions.Renew(c, sess)
}

// failed maps service errors to a status code.
func failed(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, onboarding.ErrInvalidUserType), errors.Is(err, onboarding.ErrInvalidProfile):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, onboarding.ErrAlreadyOnboarded),
		errors.Is(err, onboarding.ErrUserTypeNotSelected),
		errors.Is(err, onboarding.ErrUserTypeMismatch):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, onboarding.ErrUserNotFound), errors.Is(err, auth.ErrNoSuchAccount):
		status, msg = fiber.StatusNotFound, onboarding.ErrUserNotFound.Error()
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("account request failed")
	}

	return c.Status(status).JSON(handler.ErrorResponse{Error: msg})
}
