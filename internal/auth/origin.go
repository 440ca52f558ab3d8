package auth

// Origin tells the reconciler which login path produced an identity.
// The zero value is the credential origin.
type Origin struct {
	provider string
}

// Credential is the origin of a password login.
func Credential() Origin {
	return Origin{}
}

// Federated is the origin of a login at the named identity provider.
func Federated(provider string) Origin {
	return Origin{provider: provider}
}

// IsFederated reports whether the identity came from an identity provider.
func (o Origin) IsFederated() bool {
	return o.provider != ""
}

// Provider returns the provider name, empty for credential logins.
func (o Origin) Provider() string {
	return o.provider
}

// String returns "credential" or the provider name.
func (o Origin) String() string {
	if o.IsFederated() {
		return o.provider
	}

	return "credential"
}
