package daemon

import (
	"context"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/db"
	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/db/pool"
)

// CreateUser signs up a credential account without the web service.
func CreateUser(ctx context.Context, cfg *config.Config, in auth.SignupInput) (*models.User, error) {
	p := pool.New(db.Opener(cfg.DB))
	defer func() { _ = p.Close() }()

	verifier := auth.NewCredentialVerifier(user.New(p), auth.NewPasswordHasher())

	return verifier.Signup(ctx, in)
}
