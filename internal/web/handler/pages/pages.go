// Package pages serves the pages a session is routed between. Each page
// answers with its navigation context; the guard middleware keeps every
// session on the page its onboarding state allows.
package pages

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/web/handler"
	authmiddleware "github.com/marketlink/marketlink/internal/web/middleware/auth"
	"github.com/marketlink/marketlink/internal/web/navigation"
)

// Page is the body of a rendered page.
type Page struct {
	Navigation *navigation.Context `json:"navigation"`
	Session    auth.PublicSession  `json:"session"`
	// UserTypes are the choices of the type selection page.
	UserTypes []models.UserType `json:"userTypes,omitempty"`
}

// Service is the page handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the page routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps
	mw := deps.Middleware

	app.Get(handler.RootPath, mw.Load, s.Root)
	app.Get(navigation.TypeSelectionPath, mw.Require, mw.Guard, s.TypeSelection)
	app.Get(navigation.OnboardingPrefix+":type", mw.Require, mw.Guard, s.Onboarding)
	app.Get(navigation.DashboardPath, mw.Require, mw.Guard, s.Dashboard)

	return nil
}

// Root sends the browser to the login or to the page of its session.
func (s *Service) Root(c *fiber.Ctx) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return c.Redirect(navigation.LoginPath)
	}

	return c.Redirect(navigation.Destination(sess.Claims))
}

func (s *Service) render(c *fiber.Ctx, title string, build func(p *Page)) error {
	sess, ok := authmiddleware.Current(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	p := &Page{
		Navigation: navigation.NewContext(title, c.Path(), sess.Claims).AddBreadcrumb("Home", handler.RootPath, false),
		Session:    s.deps.Auth.Claims().ToPublic(sess.Claims),
	}

	if build != nil {
		build(p)
	}

	return c.JSON(p)
}

// TypeSelection is the first page of a new account.
func (s *Service) TypeSelection(c *fiber.Ctx) error {
	return s.render(c, "Choose your role", func(p *Page) {
		p.Navigation.AddBreadcrumb("Role", navigation.TypeSelectionPath, true)
		p.UserTypes = []models.UserType{models.UserTypeIntroducer, models.UserTypeVendor, models.UserTypeBuyer}
	})
}

// Onboarding is the profile form of the selected user type.
func (s *Service) Onboarding(c *fiber.Ctx) error {
	return s.render(c, "Complete your profile", func(p *Page) {
		p.Navigation.AddBreadcrumb("Onboarding", c.Path(), true)
	})
}

// Dashboard is the landing page of onboarded users.
func (s *Service) Dashboard(c *fiber.Ctx) error {
	return s.render(c, "Dashboard", func(p *Page) {
		p.Navigation.AddBreadcrumb("Dashboard", navigation.DashboardPath, true)
	})
}
