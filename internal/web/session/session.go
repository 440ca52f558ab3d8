// Package session issues and reads the session cookie.
//
// The cookie holds an HS256 signed JWT with the registered claims sub (user id),
// jti (session id), iss, iat and exp, plus userType and onboardingCompleted.
// The provider access token of a federated login never leaves the server: it
// is kept in a fiber.Storage under the session id. The storage entry also
// marks the session as alive, deleting it revokes the cookie.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/db/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

var (
	// ErrNoSession is returned when the request carries no session cookie.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession is returned for a cookie that does not verify.
	ErrInvalidSession = errors.New("invalid session")
	// ErrRevoked is returned when the server side entry of a session is gone.
	ErrRevoked = errors.New("session revoked")
)

// Session is a verified session.
type Session struct {
	ID        string
	Claims    auth.SessionClaims
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserType            models.UserType `json:"userType"`
	OnboardingCompleted bool            `json:"onboardingCompleted"`
	jwt.RegisteredClaims
}

type entry struct {
	AccessToken string `json:"accessToken,omitempty"`
}

// Manager signs session cookies and keeps their server side entries.
type Manager struct {
	secret  []byte
	issuer  string
	expiry  time.Duration
	secure  bool
	storage fiber.Storage
	now     func() time.Time
}

// New creates a Manager from the webserver config.
func New(cfg *config.Config, storage fiber.Storage) *Manager {
	if cfg == nil || storage == nil {
		panic("session: config and storage are required")
	}

	return &Manager{
		secret:  []byte(cfg.Webserver.Session.Secret),
		issuer:  cfg.Webserver.Session.Issuer,
		expiry:  cfg.Webserver.Session.ExpiryTime,
		secure:  !cfg.DevMode,
		storage: storage,
		now:     time.Now,
	}
}

// Issue starts a new session for claims and sets the cookie.
func (m *Manager) Issue(c *fiber.Ctx, claims auth.SessionClaims) (*Session, error) {
	s := &Session{ID: uuid.NewString(), Claims: claims}

	if err := m.write(c, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Renew moves s to a new session id signed with its current claims and
// deletes the entry of the old id, revoking every cookie issued before.
// Handlers call it after reloading the claims.
func (m *Manager) Renew(c *fiber.Ctx, s *Session) error {
	previous := s.ID
	s.ID = uuid.NewString()

	if err := m.write(c, s); err != nil {
		s.ID = previous
		return err
	}

	if err := m.storage.Delete(previous); err != nil {
		return fmt.Errorf("revoke session %s: %w", previous, err)
	}

	return nil
}

func (m *Manager) write(c *fiber.Ctx, s *Session) error {
	now := m.now()
	s.ExpiresAt = now.Add(m.expiry)

	raw, err := json.Marshal(entry{AccessToken: s.Claims.AccessToken})
	if err != nil {
		return err
	}

	if err = m.storage.Set(s.ID, raw, m.expiry); err != nil {
		return fmt.Errorf("store session %s: %w", s.ID, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserType:            s.Claims.UserType,
		OnboardingCompleted: s.Claims.OnboardingCompleted,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Claims.UserID,
			ID:        s.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.expiry.Seconds()),
		Expires:  s.ExpiresAt,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// Read verifies the cookie of c and loads the server side entry.
func (m *Manager) Read(c *fiber.Ctx) (*Session, error) {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return nil, ErrNoSession
	}

	tc := new(tokenClaims)

	_, err := jwt.ParseWithClaims(raw, tc, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if tc.ID == "" || tc.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub or jti", ErrInvalidSession)
	}

	stored, err := m.storage.Get(tc.ID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", tc.ID, err)
	}

	if len(stored) == 0 {
		return nil, ErrRevoked
	}

	var e entry
	if err = json.Unmarshal(stored, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	return &Session{
		ID: tc.ID,
		Claims: auth.SessionClaims{
			UserID:              tc.Subject,
			UserType:            tc.UserType,
			OnboardingCompleted: tc.OnboardingCompleted,
			AccessToken:         e.AccessToken,
		},
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}

// Destroy deletes the entry of sessionID, if any, and clears the cookie.
func (m *Manager) Destroy(c *fiber.Ctx, sessionID string) error {
	var err error
	if sessionID != "" {
		err = m.storage.Delete(sessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return err
}
