package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/metrics"
)

// SignupInput is the payload of a credential signup.
type SignupInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"` //nolint:gosec
}

// CredentialVerifier handles email and password accounts.
type CredentialVerifier struct {
	store    UserStore
	hasher   PasswordHasher
	validate *validator.Validate

	decoyOnce sync.Once
	decoy     string
}

const decoyPassword = "marketlink-decoy-password" //nolint:gosec

// NewCredentialVerifier creates a CredentialVerifier.
func NewCredentialVerifier(store UserStore, hasher PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{
		store:    store,
		hasher:   hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Verify returns the account matching email and password. It never writes.
//
// An unknown email and an account without password both yield ErrNoSuchAccount,
// a wrong password yields ErrInvalidCredentials.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := v.store.FindByEmail(ctx, email)

	switch {
	case errors.Is(err, user.ErrUserNotFound):
		v.compareDecoy(password)
		return nil, ErrNoSuchAccount
	case err != nil:
		return nil, fmt.Errorf("%w: find %s: %w", ErrPersistenceFailure, email, err)
	case !u.HasPassword():
		v.compareDecoy(password)
		return nil, ErrNoSuchAccount
	case !v.hasher.Verify(password, u.Password):
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// compareDecoy runs a full digest compare for logins that have no digest of
// their own, keeping unknown emails as slow as wrong passwords.
func (v *CredentialVerifier) compareDecoy(password string) {
	v.decoyOnce.Do(func() {
		digest, err := v.hasher.Hash(decoyPassword)
		if err == nil {
			v.decoy = digest
		}
	})

	if v.decoy != "" {
		_ = v.hasher.Verify(password, v.decoy)
	}
}

// Signup creates a credential account. Like every new account it starts with
// user type unassigned and onboarding incomplete.
func (v *CredentialVerifier) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)

	if err := v.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignup, err)
	}

	digest, err := v.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:               in.Email,
		Name:                in.Name,
		Password:            digest,
		UserType:            models.UserTypeUnassigned,
		OnboardingCompleted: false,
	}

	err = v.store.Insert(ctx, u)

	switch {
	case errors.Is(err, user.ErrDuplicateEmail):
		return nil, ErrEmailAlreadyRegistered
	case err != nil:
		return nil, fmt.Errorf("%w: insert %s: %w", ErrPersistenceFailure, in.Email, err)
	}

	metrics.UserCreated(Credential().String())

	return u, nil
}
