package auth

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher creates and checks password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"} //nolint:gochecknoglobals

// Argon2Hasher hashes with argon2id and still verifies bcrypt digests of
// accounts imported from the previous user store.
type Argon2Hasher struct {
	Params *argon2id.Params
}

// NewPasswordHasher returns an Argon2Hasher with argon2id.DefaultParams.
func NewPasswordHasher() *Argon2Hasher {
	return &Argon2Hasher{Params: argon2id.DefaultParams}
}

// Hash returns the argon2id digest of password.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}

	return argon2id.CreateHash(password, params) //nolint:wrapcheck
}

// Verify compares password and digest in constant time.
// Malformed digests never match.
func (h *Argon2Hasher) Verify(password, digest string) bool {
	if digest == "" {
		return false
	}

	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(digest, prefix) {
			return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
		}
	}

	match, err := argon2id.ComparePasswordAndHash(password, digest)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify password")

		return false
	}

	return match
}
