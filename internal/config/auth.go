package config

// LocalDBAuth toggles email and password login against the user table.
type LocalDBAuth struct {
	Enabled bool
}

// OIDCAuth describes one external OpenID Connect identity provider.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string // issuer URL used for discovery
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Auth groups the login methods.
type Auth struct {
	LocalDB   LocalDBAuth
	Providers map[string]OIDCAuth // keyed by provider name, e.g. "linkedin"
}

// EnabledProviders returns the names of all enabled identity providers.
func (a Auth) EnabledProviders() []string {
	names := make([]string, 0, len(a.Providers))

	for name, p := range a.Providers {
		if p.Enabled {
			names = append(names, name)
		}
	}

	return names
}
