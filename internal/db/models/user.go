// Package models contains database model definitions.
package models

import (
	"strings"
	"time"
)

// UserType is the marketplace role a user picked during onboarding.
type UserType string

const (
	// UserTypeUnassigned is the type of every new record until the user picks one.
	UserTypeUnassigned UserType = "unassigned"
	// UserTypeIntroducer connects buyers and vendors.
	UserTypeIntroducer UserType = "introducer"
	// UserTypeVendor offers products and services.
	UserTypeVendor UserType = "vendor"
	// UserTypeBuyer is looking for products and services.
	UserTypeBuyer UserType = "buyer"
)

// Selectable reports whether t can be chosen by a user.
func (t UserType) Selectable() bool {
	switch t {
	case UserTypeIntroducer, UserTypeVendor, UserTypeBuyer:
		return true
	default:
		return false
	}
}

// ParseUserType returns the selectable user type named s.
func ParseUserType(s string) (UserType, bool) {
	t := UserType(strings.ToLower(strings.TrimSpace(s)))

	return t, t.Selectable()
}

// Profile holds the onboarding answers. Which fields are used depends on the user type.
type Profile struct {
	Company                 string    `gorm:"size:255"`
	CompanySize             string    `gorm:"size:50"`
	FoundingDate            string    `gorm:"size:50"`
	Location                string    `gorm:"size:255"`
	Requirements            string    `gorm:"type:text"`
	Budget                  string    `gorm:"size:100"`
	Products                []string  `gorm:"serializer:json"`
	Services                []string  `gorm:"serializer:json"`
	Expertise               []string  `gorm:"serializer:json"`
	Industries              []string  `gorm:"serializer:json"`
	SuccessfulIntroductions int
	LinkedinProfile         string `gorm:"size:255"`
	Description             string `gorm:"type:text"`
}

// User represents a marketplace account.
// Accounts are created by signup or by the first federated login and are never deleted here.
type User struct {
	// ID is a random UUID assigned on insert.
	ID string `gorm:"primaryKey;size:36"`
	// Email is unique, stored lower-cased and trimmed.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Name is the display name.
	Name string `gorm:"size:255;not null"`
	// Password is the password digest, empty for accounts created by a federated login.
	Password string `gorm:"size:255"`
	// UserType starts as unassigned.
	UserType UserType `gorm:"type:varchar(20);not null;default:'unassigned'"`
	// OnboardingCompleted starts as false.
	OnboardingCompleted bool `gorm:"not null;default:false"`
	// Image is an optional avatar URL.
	Image string `gorm:"size:1024"`
	// Provider and ProviderID link a record created by a federated login to its identity.
	Provider   string `gorm:"size:50"`
	ProviderID string `gorm:"size:255"`

	Profile Profile `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
