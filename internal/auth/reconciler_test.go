package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
)

var errStoreDown = errors.New("store down")

// scriptedStore answers FindByEmail from a queue and records inserts.
type scriptedStore struct {
	mu        sync.Mutex
	finds     []func() (*models.User, error)
	insertErr error
	inserted  []*models.User
	findCalls int
}

func (s *scriptedStore) FindByEmail(_ context.Context, _ string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findCalls++

	if len(s.finds) == 0 {
		return nil, user.ErrUserNotFound
	}

	next := s.finds[0]
	s.finds = s.finds[1:]

	return next()
}

func (s *scriptedStore) FindByID(_ context.Context, _ string) (*models.User, error) {
	return nil, user.ErrUserNotFound
}

func (s *scriptedStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return s.insertErr
	}

	u.ID = "new-id"
	s.inserted = append(s.inserted, u)

	return nil
}

func countUsers(t *testing.T, store *user.Store, email string) int {
	t.Helper()

	_, err := store.FindByEmail(context.Background(), email)
	if errors.Is(err, user.ErrUserNotFound) {
		return 0
	}

	require.NoError(t, err)

	return 1
}

func TestReconcileFederatedFirstAndSecondLogin(t *testing.T) {
	store, gdb := setupTestStore(t)
	r := NewReconciler(store)
	ctx := context.Background()

	identity := NormalizedIdentity{Provider: "linkedin", Subject: "p1", Email: "a@x.com", Name: "A"}

	first, err := r.Reconcile(ctx, identity, Federated("linkedin"))
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "a@x.com", first.Email)
	assert.Equal(t, "A", first.Name)
	assert.Empty(t, first.Password)
	assert.Equal(t, "linkedin", first.Provider)
	assert.Equal(t, "p1", first.ProviderID)
	assert.Equal(t, models.UserTypeUnassigned, first.UserType)
	assert.False(t, first.OnboardingCompleted)

	// the user edits the record locally
	require.NoError(t, store.UpdateByID(ctx, first.ID, &models.User{Name: "Local Name", Image: "local.png"}, "Name", "Image"))

	// the provider now reports different data
	identity.Name = "Provider Name"
	identity.AvatarURL = "provider.png"

	second, err := r.Reconcile(ctx, identity, Federated("linkedin"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Local Name", second.Name)
	assert.Equal(t, "local.png", second.Image)

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReconcileFederatedExistingCredentialAccount(t *testing.T) {
	store, _ := setupTestStore(t)
	verifier := newTestVerifier(store)
	r := NewReconciler(store)
	ctx := context.Background()

	existing, err := verifier.Signup(ctx, SignupInput{Name: "Carol", Email: "carol@x.com", Password: "long-enough"})
	require.NoError(t, err)

	u, err := r.Reconcile(ctx, NormalizedIdentity{Provider: "linkedin", Subject: "c9", Email: "CAROL@x.com", Name: "C"}, Federated("linkedin"))
	require.NoError(t, err)

	assert.Equal(t, existing.ID, u.ID)
	assert.Equal(t, "Carol", u.Name)
	assert.Empty(t, u.Provider, "no provider linkage is written to an existing record")
	assert.Equal(t, existing.Password, u.Password)
}

func TestReconcileCredential(t *testing.T) {
	store, _ := setupTestStore(t)
	verifier := newTestVerifier(store)
	r := NewReconciler(store)
	ctx := context.Background()

	existing, err := verifier.Signup(ctx, SignupInput{Name: "Dan", Email: "dan@x.com", Password: "long-enough"})
	require.NoError(t, err)

	u, err := r.Reconcile(ctx, NormalizedIdentity{Email: "dan@x.com", Name: "ignored"}, Credential())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)
	assert.Equal(t, "Dan", u.Name)

	_, err = r.Reconcile(ctx, NormalizedIdentity{Email: "ghost@x.com"}, Credential())
	require.ErrorIs(t, err, ErrNoSuchAccount)
	assert.Equal(t, 0, countUsers(t, store, "ghost@x.com"), "credential origin never creates")
}

func TestReconcileConcurrentFirstLogin(t *testing.T) {
	store, gdb := setupTestStore(t)
	r := NewReconciler(store)

	// a second reconciler plays another process sharing the database
	other := NewReconciler(store)

	identity := NormalizedIdentity{Provider: "linkedin", Subject: "p2", Email: "race@x.com", Name: "Race"}

	var (
		g   errgroup.Group
		mu  sync.Mutex
		ids = map[string]struct{}{}
	)

	for i := range 20 {
		rec := r
		if i%2 == 1 {
			rec = other
		}

		g.Go(func() error {
			u, err := rec.Reconcile(context.Background(), identity, Federated("linkedin"))
			if err != nil {
				return err
			}

			mu.Lock()
			ids[u.ID] = struct{}{}
			mu.Unlock()

			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Len(t, ids, 1, "every caller sees the same record")

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Where("email = ?", "race@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReconcileRetriesOnceOnConflict(t *testing.T) {
	winner := &models.User{ID: "winner", Email: "a@x.com", Name: "Winner", UserType: models.UserTypeUnassigned}

	store := &scriptedStore{
		finds: []func() (*models.User, error){
			func() (*models.User, error) { return nil, user.ErrUserNotFound },
			func() (*models.User, error) { return winner, nil },
		},
		insertErr: user.ErrDuplicateEmail,
	}

	u, err := NewReconciler(store).Reconcile(context.Background(),
		NormalizedIdentity{Provider: "linkedin", Email: "a@x.com", Name: "A"}, Federated("linkedin"))
	require.NoError(t, err)

	assert.Equal(t, "winner", u.ID)
	assert.Equal(t, 2, store.findCalls)
}

func TestReconcilePersistenceFailures(t *testing.T) {
	identity := NormalizedIdentity{Provider: "linkedin", Email: "a@x.com", Name: "A"}

	testCases := []struct {
		name  string
		store *scriptedStore
	}{
		{
			name: "find fails",
			store: &scriptedStore{finds: []func() (*models.User, error){
				func() (*models.User, error) { return nil, errStoreDown },
			}},
		},
		{
			name:  "insert fails",
			store: &scriptedStore{insertErr: errStoreDown},
		},
		{
			name: "re-read after conflict fails",
			store: &scriptedStore{
				finds: []func() (*models.User, error){
					func() (*models.User, error) { return nil, user.ErrUserNotFound },
					func() (*models.User, error) { return nil, errStoreDown },
				},
				insertErr: user.ErrDuplicateEmail,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewReconciler(tc.store).Reconcile(context.Background(), identity, Federated("linkedin"))
			require.ErrorIs(t, err, ErrPersistenceFailure)
			assert.Nil(t, u)
			assert.Equal(t, MessageAuthenticationError, PublicMessage(err))
		})
	}
}

func TestReconcileNewRecordDefaults(t *testing.T) {
	store := &scriptedStore{}

	u, err := NewReconciler(store).Reconcile(context.Background(),
		NormalizedIdentity{Provider: "linkedin", Subject: "s", Email: " New@X.com ", AvatarURL: "a.png"}, Federated("linkedin"))
	require.NoError(t, err)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "new@x.com", u.Email)
	assert.Equal(t, "new@x.com", u.Name, "name falls back to the email")
	assert.Equal(t, "a.png", u.Image)
	assert.Equal(t, models.UserTypeUnassigned, u.UserType)
	assert.False(t, u.OnboardingCompleted)

	_, err = NewReconciler(store).Reconcile(context.Background(), NormalizedIdentity{}, Federated("linkedin"))
	require.ErrorIs(t, err, ErrMissingCredentials)
}
