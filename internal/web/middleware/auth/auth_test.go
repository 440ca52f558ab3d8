package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreauth "github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/cache"
	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/web/navigation"
	"github.com/marketlink/marketlink/internal/web/session"
)

func newTestApp(t *testing.T) (*fiber.App, *session.Manager) {
	t.Helper()

	cfg := &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			Session: config.Session{ExpiryTime: time.Hour, Secret: "test-secret", Issuer: "test"},
		},
	}

	sessions := session.New(cfg, cache.NewStorage(cache.NewMemory("test:"), "session:"))
	mw := New(sessions, coreauth.NewClaimsBuilder(nil))

	app := fiber.New()

	// /issue/:type/:completed creates a session for user u1.
	app.Get("/issue/:type/:completed", func(c *fiber.Ctx) error {
		_, err := sessions.Issue(c, coreauth.SessionClaims{
			UserID:              "u1",
			UserType:            models.UserType(c.Params("type")),
			OnboardingCompleted: c.Params("completed") == "true",
		})

		return err
	})

	app.Get("/optional", mw.Load, func(c *fiber.Ctx) error {
		if _, ok := Current(c); ok {
			return c.SendString("with session")
		}

		return c.SendString("anonymous")
	})
	app.Get("/api/me", mw.Require, func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUser).(string))
	})
	app.Get(navigation.TypeSelectionPath, mw.Require, mw.Guard, func(c *fiber.Ctx) error {
		return c.SendString("type selection")
	})
	app.Get(navigation.OnboardingPrefix+":type", mw.Require, mw.Guard, func(c *fiber.Ctx) error {
		return c.SendString("onboarding")
	})
	app.Get(navigation.DashboardPath, mw.Require, mw.Guard, func(c *fiber.Ctx) error {
		return c.SendString("dashboard")
	})

	return app, sessions
}

func login(t *testing.T, app *fiber.App, userType models.UserType, completed bool) string {
	t.Helper()

	path := "/issue/" + string(userType) + "/false"
	if completed {
		path = "/issue/" + string(userType) + "/true"
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}

	t.Fatal("no session cookie issued")

	return ""
}

func get(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestRequire(t *testing.T) {
	app, _ := newTestApp(t)

	resp := get(t, app, "/api/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "/api/me", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, navigation.DashboardPath, "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, navigation.LoginPath, resp.Header.Get("Location"))

	cookie := login(t, app, models.UserTypeBuyer, true)
	resp = get(t, app, "/api/me", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoad(t *testing.T) {
	app, _ := newTestApp(t)

	for cookie, want := range map[string]int{"": fiber.StatusOK, "garbage": fiber.StatusOK} {
		resp := get(t, app, "/optional", cookie)
		assert.Equal(t, want, resp.StatusCode)
	}

	resp := get(t, app, "/optional", login(t, app, models.UserTypeUnassigned, false))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGuard(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name      string
		userType  models.UserType
		completed bool
		path      string
		location  string
	}{
		{"unassigned kept off dashboard", models.UserTypeUnassigned, false, navigation.DashboardPath, navigation.TypeSelectionPath},
		{"unassigned kept off onboarding", models.UserTypeUnassigned, false, "/onboarding/buyer", navigation.TypeSelectionPath},
		{"unassigned on type selection", models.UserTypeUnassigned, false, navigation.TypeSelectionPath, ""},
		{"onboarding sent to own form", models.UserTypeVendor, false, navigation.DashboardPath, "/onboarding/vendor"},
		{"onboarding on wrong form", models.UserTypeVendor, false, "/onboarding/buyer", "/onboarding/vendor"},
		{"onboarding on own form", models.UserTypeVendor, false, "/onboarding/vendor", ""},
		{"complete sent to dashboard", models.UserTypeBuyer, true, navigation.TypeSelectionPath, navigation.DashboardPath},
		{"complete on dashboard", models.UserTypeBuyer, true, navigation.DashboardPath, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, app, tt.path, login(t, app, tt.userType, tt.completed))

			if tt.location == "" {
				assert.Equal(t, fiber.StatusOK, resp.StatusCode)
				return
			}

			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}
