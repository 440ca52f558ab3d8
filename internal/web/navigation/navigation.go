// Package navigation decides where a session belongs.
//
// A session is in one of three states, derived from its claims only:
//
//	Unassigned  userType is unassigned                  -> /user-type-selection
//	Onboarding  userType is set, onboarding incomplete  -> /onboarding/<userType>
//	Complete    onboarding completed                    -> /dashboard
//
// The state moves forward through onboarding.Service.SelectUserType and
// onboarding.Service.Complete. Both write the user record first; the
// handler then reloads the claims so the next request sees the new state.
package navigation

import (
	"strings"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/db/models"
)

const (
	// LoginPath is where sessions start.
	LoginPath = "/login"
	// TypeSelectionPath is the page where a user picks a user type.
	TypeSelectionPath = "/user-type-selection"
	// OnboardingPrefix is followed by the user type.
	OnboardingPrefix = "/onboarding/"
	// DashboardPath is the landing page of onboarded users.
	DashboardPath = "/dashboard"
)

// State is the onboarding state of a session.
type State int

const (
	// Unassigned sessions have not picked a user type yet.
	Unassigned State = iota
	// Onboarding sessions picked a type but did not complete the profile.
	Onboarding
	// Complete sessions may use the dashboard.
	Complete
)

func (s State) String() string {
	switch s {
	case Unassigned:
		return "unassigned"
	case Onboarding:
		return "onboarding"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateOf returns the state of c.
func StateOf(c auth.SessionClaims) State {
	switch {
	case c.OnboardingCompleted:
		return Complete
	case c.UserType == models.UserTypeUnassigned || c.UserType == "":
		return Unassigned
	default:
		return Onboarding
	}
}

// OnboardingPath returns the onboarding form of t.
func OnboardingPath(t models.UserType) string {
	return OnboardingPrefix + string(t)
}

// Destination is the page c has to be sent to.
func Destination(c auth.SessionClaims) string {
	switch StateOf(c) {
	case Complete:
		return DashboardPath
	case Onboarding:
		return OnboardingPath(c.UserType)
	default:
		return TypeSelectionPath
	}
}

// Allowed reports whether c may see page.
// An Onboarding session may go back to the type selection, every other
// session is held to its destination. Unassigned sessions never reach the dashboard.
func Allowed(c auth.SessionClaims, page string) bool {
	page = strings.TrimSuffix(strings.ToLower(page), "/")
	if page == "" {
		page = "/"
	}

	if page == Destination(c) {
		return true
	}

	return StateOf(c) == Onboarding && page == TypeSelectionPath
}

// BreadcrumbItem is one link of a page trail.
type BreadcrumbItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Context describes a rendered page.
type Context struct {
	PageTitle   string           `json:"pageTitle"`
	ActivePage  string           `json:"activePage"`
	State       State            `json:"state"`
	Breadcrumbs []BreadcrumbItem `json:"breadcrumbs"`
}

// NewContext creates the page context of page for c.
func NewContext(pageTitle, page string, c auth.SessionClaims) *Context {
	return &Context{
		PageTitle:   pageTitle,
		ActivePage:  page,
		State:       StateOf(c),
		Breadcrumbs: make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if page is the current page.
func (c *Context) IsActive(page string) bool {
	return c.ActivePage == page
}
