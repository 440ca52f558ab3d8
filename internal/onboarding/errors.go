package onboarding

import "errors"

var (
	// ErrInvalidUserType is returned for a user type that cannot be selected.
	ErrInvalidUserType = errors.New("invalid user type")

	// ErrAlreadyOnboarded is returned when the user type is changed after onboarding completed.
	ErrAlreadyOnboarded = errors.New("onboarding already completed")

	// ErrUserTypeNotSelected is returned when a profile is submitted before a user type was selected.
	ErrUserTypeNotSelected = errors.New("user type not selected")

	// ErrUserTypeMismatch is returned when the submitted profile does not match the selected user type.
	ErrUserTypeMismatch = errors.New("profile does not match user type")

	// ErrInvalidProfile is returned when a profile submission fails validation.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrUserNotFound is returned when the user record does not exist.
	ErrUserNotFound = errors.New("user not found")
)
