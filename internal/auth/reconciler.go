package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/metrics"
)

// Reconciler finds or creates the user record of an identity.
type Reconciler struct {
	store UserStore
	group singleflight.Group
}

// NewReconciler creates a Reconciler on store.
func NewReconciler(store UserStore) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile returns the user record for identity.
//
// A credential identity was already verified, its record is read and returned
// unchanged. A federated identity is looked up by email; an existing record is
// returned as stored, otherwise a new unassigned record is created. Store
// failures yield ErrPersistenceFailure.
func (r *Reconciler) Reconcile(ctx context.Context, identity NormalizedIdentity, origin Origin) (*models.User, error) {
	email := models.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, ErrMissingCredentials
	}

	if !origin.IsFederated() {
		return r.existing(ctx, email)
	}

	// callers for the same email share one find-or-create
	v, err, shared := r.group.Do(email, func() (any, error) {
		return r.findOrCreate(context.WithoutCancel(ctx), email, identity, origin)
	})
	if err != nil {
		return nil, err
	}

	u, _ := v.(*models.User)
	if shared {
		// every caller gets its own copy
		c := *u
		u = &c
	}

	return u, nil
}

func (r *Reconciler) existing(ctx context.Context, email string) (*models.User, error) {
	u, err := r.store.FindByEmail(ctx, email)

	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return nil, ErrNoSuchAccount
	case err != nil:
		return nil, fmt.Errorf("%w: find %s: %w", ErrPersistenceFailure, email, err)
	}

	return u, nil
}

func (r *Reconciler) findOrCreate(ctx context.Context, email string, identity NormalizedIdentity, origin Origin) (*models.User, error) {
	u, err := r.store.FindByEmail(ctx, email)

	switch {
	case err == nil:
		return u, nil
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, fmt.Errorf("%w: find %s: %w", ErrPersistenceFailure, email, err)
	}

	u, err = r.create(ctx, email, identity, origin)
	if !errors.Is(err, ErrDuplicateEmailConflict) {
		return u, err
	}

	// another process inserted the email between our find and insert
	metrics.ReconcileConflict()
	log.Debug().Str("email", email).Str("provider", origin.Provider()).Msg("duplicate email on insert, re-reading")

	u, err = r.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: re-read %s after conflict: %w", ErrPersistenceFailure, email, err)
	}

	return u, nil
}

func (r *Reconciler) create(ctx context.Context, email string, identity NormalizedIdentity, origin Origin) (*models.User, error) {
	name := identity.Name
	if name == "" {
		name = email
	}

	u := &models.User{
		Email:               email,
		Name:                name,
		Image:               identity.AvatarURL,
		Provider:            origin.Provider(),
		ProviderID:          identity.Subject,
		UserType:            models.UserTypeUnassigned,
		OnboardingCompleted: false,
	}

	err := r.store.Insert(ctx, u)

	switch {
	case errors.Is(err, user.ErrDuplicateEmail):
		return nil, ErrDuplicateEmailConflict
	case err != nil:
		return nil, fmt.Errorf("%w: insert %s: %w", ErrPersistenceFailure, email, err)
	}

	metrics.UserCreated(origin.String())
	log.Info().Str("user", u.ID).Str("provider", origin.Provider()).Msg("created user from federated login")

	return u, nil
}
