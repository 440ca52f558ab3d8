package oidc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/cache"
	"github.com/marketlink/marketlink/internal/web/handler"
	"github.com/marketlink/marketlink/internal/web/navigation"
)

const (
	// LoginPath is the path to initiate a provider login.
	LoginPath = handler.RootPath + "auth/:provider/login"

	// CallbackPath is the path of the provider callback.
	CallbackPath = handler.RootPath + "auth/:provider/callback"

	// StateCookieName binds a pending login to the browser that started it.
	StateCookieName = "oauth_state"

	statePrefix = "oauth-state:"
	cookiePath  = handler.RootPath + "auth/"
)

var (
	// ErrInvalidState is returned for an unknown, expired or reused state.
	ErrInvalidState = errors.New("invalid state")
	// ErrMissingParams is returned when the callback lacks code or state.
	ErrMissingParams = errors.New("invalid callback parameters")
)

// pending is the login waiting for its callback.
type pending struct {
	Provider string `json:"provider"`
	Verifier string `json:"verifier"`
}

// Service is the OIDC handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the OIDC handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)

	log.Info().Strs("providers", deps.Auth.Federated().Providers()).Msg("federated login routes registered")

	return nil
}

// Login redirects to the provider's authorization endpoint.
func (s *Service) Login(c *fiber.Ctx) error {
	provider := c.Params("provider")
	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()

	authURL, err := s.deps.Auth.Federated().AuthCodeURL(c.UserContext(), provider, state, verifier)

	switch {
	case errors.Is(err, auth.ErrUnknownProvider):
		return c.Status(fiber.StatusNotFound).JSON(handler.ErrorResponse{Error: auth.ErrUnknownProvider.Error()})
	case err != nil:
		log.Error().Err(err).Str("provider", provider).Msg("failed to build authorization url")
		return c.Status(fiber.StatusBadGateway).JSON(handler.ErrorResponse{Error: auth.MessageAuthenticationError})
	}

	raw, err := json.Marshal(pending{Provider: provider, Verifier: verifier})
	if err != nil {
		return err
	}

	if err = s.deps.Cache.Set(c.UserContext(), statePrefix+state, raw, s.deps.Config.Cache.StateTTL); err != nil {
		log.Error().Err(err).Msg("failed to store oauth state")
		return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorResponse{Error: auth.MessageAuthenticationError})
	}

	ttl := s.deps.Config.Cache.StateTTL
	s.stateCookie(c, state, int(ttl.Seconds()), time.Now().Add(ttl))

	return c.Redirect(authURL)
}

// Callback completes the provider login.
func (s *Service) Callback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	bound := c.Cookies(StateCookieName)

	s.stateCookie(c, "", -1, time.Unix(0, 0))

	if e := c.Query("error"); e != "" {
		log.Info().Str("provider", provider).Str("error", e).Str("description", c.Query("error_description")).
			Msg("provider denied authorization")

		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Error: auth.MessageAuthenticationError})
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: ErrMissingParams.Error()})
	}

	if bound == "" || subtle.ConstantTimeCompare([]byte(bound), []byte(state)) != 1 {
		log.Warn().Str("provider", provider).Bool("cookie", bound != "").Msg("oauth state not bound to this browser")
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: ErrInvalidState.Error()})
	}

	p, err := s.take(c, state)
	if err != nil {
		if !errors.Is(err, ErrInvalidState) {
			log.Error().Err(err).Msg("failed to read oauth state")
		}

		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: ErrInvalidState.Error()})
	}

	if p.Provider != provider {
		log.Warn().Str("provider", provider).Str("expected", p.Provider).Msg("oauth state of another provider")
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{Error: ErrInvalidState.Error()})
	}

	claims, err := s.deps.Auth.LoginWithProvider(c.UserContext(), auth.AuthorizationResult{
		Provider: provider,
		Code:     code,
		Verifier: p.Verifier,
	})
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("federated login failed")
		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Error: auth.PublicMessage(err)})
	}

	if _, err = s.deps.Sessions.Issue(c, claims); err != nil {
		log.Error().Err(err).Msg("failed to issue session")
		return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorResponse{Error: auth.MessageAuthenticationError})
	}

	log.Info().Str("user", claims.UserID).Str("provider", provider).Msg("user logged in via provider")

	return c.Redirect(navigation.Destination(claims))
}

func (s *Service) stateCookie(c *fiber.Ctx, value string, maxAge int, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Path:     cookiePath,
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   !s.deps.Config.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Service) take(c *fiber.Ctx, state string) (pending, error) {
	var p pending

	raw, err := s.deps.Cache.Take(c.UserContext(), statePrefix+state)
	if errors.Is(err, cache.ErrNotFound) {
		return p, ErrInvalidState
	}

	if err != nil {
		return p, err
	}

	if err = json.Unmarshal(raw, &p); err != nil {
		return p, errors.Join(ErrInvalidState, err)
	}

	return p, nil
}
