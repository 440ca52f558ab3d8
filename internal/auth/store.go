package auth

import (
	"context"

	"github.com/marketlink/marketlink/internal/db/models"
)

// UserStore is the part of the user store the login paths need.
// Implementations return user.ErrUserNotFound and user.ErrDuplicateEmail.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
}
