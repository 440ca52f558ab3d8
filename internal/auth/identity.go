package auth

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/marketlink/marketlink/internal/db/models"
)

// NormalizedIdentity is the provider independent result of a login.
// Provider is empty for credential logins.
type NormalizedIdentity struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

var (
	subjectClaims = []string{"sub", "id", "user_id"}                     //nolint:gochecknoglobals
	emailClaims   = []string{"email", "emailAddress", "email_address"}   //nolint:gochecknoglobals
	nameClaims    = []string{"name", "displayName", "formattedName"}     //nolint:gochecknoglobals
	pictureClaims = []string{"picture", "avatar_url", "profilePicture"} //nolint:gochecknoglobals
)

// NormalizeClaims maps the claim names used by different providers and API
// versions onto a NormalizedIdentity.
//
// The name falls back to given and family name, then LinkedIn's localized
// first and last name, then the local part of the email.
func NormalizeClaims(provider string, claims map[string]any) NormalizedIdentity {
	id := NormalizedIdentity{
		Provider:  provider,
		Subject:   firstString(claims, subjectClaims...),
		Email:     models.NormalizeEmail(firstString(claims, emailClaims...)),
		Name:      firstString(claims, nameClaims...),
		AvatarURL: firstString(claims, pictureClaims...),
	}

	if id.Name == "" {
		id.Name = joinName(claims, "given_name", "family_name")
	}

	if id.Name == "" {
		id.Name = joinName(claims, "localizedFirstName", "localizedLastName")
	}

	if id.Name == "" && id.Email != "" {
		id.Name, _, _ = strings.Cut(id.Email, "@")
	}

	return id
}

func joinName(claims map[string]any, first, last string) string {
	return strings.TrimSpace(firstString(claims, first) + " " + firstString(claims, last))
}

// firstString returns the first non-empty claim among keys.
// Numeric ids are formatted, other non-string values are skipped.
func firstString(claims map[string]any, keys ...string) string {
	for _, k := range keys {
		var s string

		switch v := claims[k].(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			s = v.String()
		}

		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return ""
}
