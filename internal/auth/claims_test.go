package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlink/marketlink/internal/db/models"
)

func TestClaimsBuilder(t *testing.T) {
	store, _ := setupTestStore(t)
	b := NewClaimsBuilder(store)
	ctx := context.Background()

	u := &models.User{Email: "a@x.com", Name: "A", UserType: models.UserTypeUnassigned}
	require.NoError(t, store.Insert(ctx, u))

	claims := b.OnIssue(u, "provider-token")
	assert.Equal(t, SessionClaims{
		UserID:              u.ID,
		UserType:            models.UserTypeUnassigned,
		OnboardingCompleted: false,
		AccessToken:         "provider-token",
	}, claims)

	// onboarding completes in the store
	require.NoError(t, store.UpdateByID(ctx, u.ID, &models.User{
		UserType:            models.UserTypeBuyer,
		OnboardingCompleted: true,
	}, "UserType", "OnboardingCompleted"))

	assert.Equal(t, claims, b.OnRefresh(claims), "refresh does not read the store")

	reloaded, err := b.Reload(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeBuyer, reloaded.UserType)
	assert.True(t, reloaded.OnboardingCompleted)
	assert.Equal(t, "provider-token", reloaded.AccessToken)

	_, err = b.Reload(ctx, SessionClaims{UserID: "gone"})
	require.ErrorIs(t, err, ErrNoSuchAccount)
}

func TestToPublic(t *testing.T) {
	public := NewClaimsBuilder(nil).ToPublic(SessionClaims{
		UserID:              "id-1",
		UserType:            models.UserTypeVendor,
		OnboardingCompleted: true,
		AccessToken:         "secret-token",
	})

	assert.Equal(t, PublicSession{UserID: "id-1", UserType: models.UserTypeVendor, OnboardingCompleted: true}, public)

	body, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret-token")
	assert.JSONEq(t, `{"userId":"id-1","userType":"vendor","onboardingCompleted":true}`, string(body))
}
