// Package oidctest runs an in-process OpenID Connect issuer for tests.
package oidctest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketlink/marketlink/internal/config"
)

const (
	keyID        = "test-key"
	clientSecret = "test-secret"
	// ClientID is the audience of issued ID tokens.
	ClientID = "marketlink-test"
)

// Grant is what the issuer returns for one authorization code.
type Grant struct {
	// IDToken claims besides iss, aud, exp and iat. No ID token is issued when nil.
	IDToken map[string]any
	// UserInfo claims, served for the grant's access token.
	UserInfo map[string]any
	// Verifier is the expected PKCE code verifier, unchecked when empty.
	Verifier string
}

// Issuer is a minimal OIDC provider: discovery, JWKS, token and userinfo endpoints.
type Issuer struct {
	Server *httptest.Server

	key *rsa.PrivateKey

	mu     sync.Mutex
	grants map[string]Grant
	tokens map[string]Grant
}

// New starts an issuer which is closed with the test.
func New(t testing.TB) *Issuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048) //nolint:mnd
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	i := &Issuer{
		key:    key,
		grants: map[string]Grant{},
		tokens: map[string]Grant{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", i.discovery)
	mux.HandleFunc("/keys", i.keys)
	mux.HandleFunc("/token", i.token)
	mux.HandleFunc("/userinfo", i.userInfo)

	i.Server = httptest.NewServer(mux)
	t.Cleanup(i.Server.Close)

	return i
}

// URL is the issuer URL.
func (i *Issuer) URL() string {
	return i.Server.URL
}

// Config returns an enabled provider config pointing at the issuer.
func (i *Issuer) Config(redirectURL string) config.OIDCAuth {
	return config.OIDCAuth{
		Enabled:      true,
		ProviderURL:  i.URL(),
		ClientID:     ClientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "profile", "email"},
	}
}

// AddCode makes code redeemable once for g.
func (i *Issuer) AddCode(code string, g Grant) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.grants[code] = g
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (i *Issuer) discovery(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                i.URL(),
		"authorization_endpoint":                i.URL() + "/authorize",
		"token_endpoint":                        i.URL() + "/token",
		"jwks_uri":                              i.URL() + "/keys",
		"userinfo_endpoint":                     i.URL() + "/userinfo",
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (i *Issuer) keys(w http.ResponseWriter, _ *http.Request) {
	pub := i.key.PublicKey

	writeJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": keyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (i *Issuer) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})

		return
	}

	code := r.PostForm.Get("code")

	i.mu.Lock()
	g, ok := i.grants[code]
	delete(i.grants, code)
	i.mu.Unlock()

	if !ok || (g.Verifier != "" && g.Verifier != r.PostForm.Get("code_verifier")) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})

		return
	}

	accessToken := "at-" + code

	i.mu.Lock()
	i.tokens[accessToken] = g
	i.mu.Unlock()

	resp := map[string]any{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   3600, //nolint:mnd
	}

	if g.IDToken != nil {
		idToken, err := i.sign(g.IDToken)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})

			return
		}

		resp["id_token"] = idToken
	}

	writeJSON(w, http.StatusOK, resp)
}

func (i *Issuer) userInfo(w http.ResponseWriter, r *http.Request) {
	accessToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	i.mu.Lock()
	g, ok := i.tokens[accessToken]
	i.mu.Unlock()

	if !ok || g.UserInfo == nil {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	writeJSON(w, http.StatusOK, g.UserInfo)
}

func (i *Issuer) sign(extra map[string]any) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss": i.URL(),
		"aud": ClientID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}

	for k, v := range extra {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = keyID

	return token.SignedString(i.key) //nolint:wrapcheck
}
