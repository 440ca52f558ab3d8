// Package onboarding moves a user from unassigned through type selection to a completed profile.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
)

// Store is the part of the user store onboarding writes to.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateByID(ctx context.Context, id string, values *models.User, fields ...string) error
}

// Service performs the onboarding writes. Callers reload the session claims afterwards.
type Service struct {
	store    Store
	validate *validator.Validate
}

// New creates a Service.
func New(store Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Profile returns the stored record of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}

	return u, nil
}

// SelectUserType stores t as the user's type.
// The type may change until onboarding is completed.
func (s *Service) SelectUserType(ctx context.Context, userID string, t models.UserType) (*models.User, error) {
	if !t.Selectable() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUserType, t)
	}

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.OnboardingCompleted {
		return nil, ErrAlreadyOnboarded
	}

	if u.UserType == t {
		return u, nil
	}

	if err = s.store.UpdateByID(ctx, userID, &models.User{UserType: t}, "UserType"); err != nil {
		return nil, fmt.Errorf("update user type of %s: %w", userID, err)
	}

	log.Info().Str("user", userID).Str("userType", string(t)).Msg("user type selected")

	return s.Profile(ctx, userID)
}

// Complete validates and stores the onboarding form and marks onboarding completed.
// The form must match the selected user type. A completed profile can be submitted again.
func (s *Service) Complete(ctx context.Context, userID string, sub Submission) (*models.User, error) {
	if err := s.validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case u.UserType == models.UserTypeUnassigned || u.UserType == "":
		return nil, ErrUserTypeNotSelected
	case u.UserType != sub.UserType():
		return nil, fmt.Errorf("%w: selected %s, submitted %s", ErrUserTypeMismatch, u.UserType, sub.UserType())
	}

	values := &models.User{OnboardingCompleted: true}
	fields := append(sub.apply(values), "OnboardingCompleted")

	if err = s.store.UpdateByID(ctx, userID, values, fields...); err != nil {
		return nil, fmt.Errorf("store profile of %s: %w", userID, err)
	}

	log.Info().Str("user", userID).Str("userType", string(u.UserType)).Msg("onboarding completed")

	return s.Profile(ctx, userID)
}

// ProfileEdit is a local edit of the display name and avatar.
type ProfileEdit struct {
	Name  string `json:"name"  form:"name"  validate:"required,max=255"`
	Image string `json:"image" form:"image" validate:"omitempty,http_url,max=2048"`
}

// UpdateProfile stores name and image. Later provider logins never overwrite them.
func (s *Service) UpdateProfile(ctx context.Context, userID string, edit ProfileEdit) (*models.User, error) {
	edit.Name = strings.TrimSpace(edit.Name)
	edit.Image = strings.TrimSpace(edit.Image)

	if err := s.validate.Struct(edit); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	err := s.store.UpdateByID(ctx, userID, &models.User{Name: edit.Name, Image: edit.Image}, "Name", "Image")
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("update profile of %s: %w", userID, err)
	}

	log.Info().Str("user", userID).Msg("profile updated")

	return s.Profile(ctx, userID)
}
