package onboarding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketlink/marketlink/internal/db"
	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/db/pool"
)

func setupTestService(t *testing.T) (*Service, *user.Store) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "onboarding.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.Migrate(gdb))

	p := pool.New(func(_ context.Context) (*gorm.DB, error) { return gdb, nil })
	t.Cleanup(func() { _ = p.Close() })

	store := user.New(p)

	return New(store), store
}

func newUser(t *testing.T, store *user.Store, email string) *models.User {
	t.Helper()

	u := &models.User{Email: email, Name: "Test"}
	require.NoError(t, store.Insert(context.Background(), u))

	return u
}

func validBuyer() *BuyerProfile {
	return &BuyerProfile{
		Company:      "Acme",
		CompanySize:  "11-50",
		FoundingDate: "2019-04-01",
		Location:     "Berlin",
		Requirements: "CRM integration",
		Budget:       "10k",
	}
}

func TestSelectUserType(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	u := newUser(t, store, "a@x.com")

	got, err := svc.SelectUserType(ctx, u.ID, models.UserTypeBuyer)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeBuyer, got.UserType)
	assert.False(t, got.OnboardingCompleted)

	got, err = svc.SelectUserType(ctx, u.ID, models.UserTypeVendor)
	require.NoError(t, err, "type can change before completion")
	assert.Equal(t, models.UserTypeVendor, got.UserType)

	_, err = svc.SelectUserType(ctx, u.ID, models.UserTypeUnassigned)
	require.ErrorIs(t, err, ErrInvalidUserType)

	_, err = svc.SelectUserType(ctx, u.ID, models.UserType("admin"))
	require.ErrorIs(t, err, ErrInvalidUserType)

	_, err = svc.SelectUserType(ctx, "missing", models.UserTypeBuyer)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestComplete(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	u := newUser(t, store, "b@x.com")

	_, err := svc.Complete(ctx, u.ID, validBuyer())
	require.ErrorIs(t, err, ErrUserTypeNotSelected)

	_, err = svc.SelectUserType(ctx, u.ID, models.UserTypeBuyer)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, u.ID, &VendorProfile{
		Company: "Acme", CompanySize: "1-10", Location: "Berlin", Products: []string{"widgets"},
	})
	require.ErrorIs(t, err, ErrUserTypeMismatch)

	invalid := validBuyer()
	invalid.Company = ""
	_, err = svc.Complete(ctx, u.ID, invalid)
	require.ErrorIs(t, err, ErrInvalidProfile)

	got, err := svc.Complete(ctx, u.ID, validBuyer())
	require.NoError(t, err)
	assert.True(t, got.OnboardingCompleted)
	assert.Equal(t, models.UserTypeBuyer, got.UserType)
	assert.Equal(t, "Acme", got.Profile.Company)
	assert.Equal(t, "2019-04-01", got.Profile.FoundingDate)

	_, err = svc.SelectUserType(ctx, u.ID, models.UserTypeVendor)
	require.ErrorIs(t, err, ErrAlreadyOnboarded)
}

func TestCompleteVendorAndIntroducer(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	vendor := newUser(t, store, "v@x.com")
	_, err := svc.SelectUserType(ctx, vendor.ID, models.UserTypeVendor)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, vendor.ID, &VendorProfile{Company: "V", CompanySize: "1-10", Location: "Paris"})
	require.ErrorIs(t, err, ErrInvalidProfile, "products or services are required")

	got, err := svc.Complete(ctx, vendor.ID, &VendorProfile{
		Company: "V", CompanySize: "1-10", Location: "Paris", Services: []string{"consulting"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"consulting"}, got.Profile.Services)

	intro := newUser(t, store, "i@x.com")
	_, err = svc.SelectUserType(ctx, intro.ID, models.UserTypeIntroducer)
	require.NoError(t, err)

	got, err = svc.Complete(ctx, intro.ID, &IntroducerProfile{
		Expertise:       []string{"saas"},
		Industries:      []string{"fintech"},
		LinkedinProfile: "https://www.linkedin.com/in/intro",
	})
	require.NoError(t, err)
	assert.True(t, got.OnboardingCompleted)
	assert.Equal(t, []string{"saas"}, got.Profile.Expertise)

	_, err = svc.Complete(ctx, intro.ID, &IntroducerProfile{Expertise: []string{"saas"}})
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestNewSubmission(t *testing.T) {
	for _, ut := range []models.UserType{models.UserTypeBuyer, models.UserTypeVendor, models.UserTypeIntroducer} {
		sub, ok := NewSubmission(ut)
		require.True(t, ok)
		assert.Equal(t, ut, sub.UserType())
	}

	_, ok := NewSubmission(models.UserTypeUnassigned)
	assert.False(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	u := newUser(t, store, "p@x.com")

	got, err := svc.UpdateProfile(ctx, u.ID, ProfileEdit{Name: " Local Name ", Image: "https://cdn.example.com/me.png"})
	require.NoError(t, err)
	assert.Equal(t, "Local Name", got.Name)
	assert.Equal(t, "https://cdn.example.com/me.png", got.Image)

	// the image can be removed
	got, err = svc.UpdateProfile(ctx, u.ID, ProfileEdit{Name: "Local Name"})
	require.NoError(t, err)
	assert.Empty(t, got.Image)

	for _, edit := range []ProfileEdit{
		{Name: "   "},
		{Name: "N", Image: "not a url"},
		{Name: "N", Image: "ftp://example.com/me.png"},
	} {
		_, err = svc.UpdateProfile(ctx, u.ID, edit)
		require.ErrorIs(t, err, ErrInvalidProfile, "%+v", edit)
	}

	_, err = svc.UpdateProfile(ctx, "missing", ProfileEdit{Name: "N"})
	require.ErrorIs(t, err, ErrUserNotFound)
}
