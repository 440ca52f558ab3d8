package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketlink/marketlink/internal/db"
	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/pool"
)

// setupTestStore creates a user store on a file backed SQLite database.
func setupTestStore(t *testing.T) (*user.Store, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")+"?_pragma=busy_timeout(5000)"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")

	p := pool.New(func(_ context.Context) (*gorm.DB, error) { return gdb, nil })
	t.Cleanup(func() { _ = p.Close() })

	return user.New(p), gdb
}

func newTestVerifier(store UserStore) *CredentialVerifier {
	return NewCredentialVerifier(store, &Argon2Hasher{Params: testParams})
}
