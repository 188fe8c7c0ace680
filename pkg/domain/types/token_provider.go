package types

// TokenProvider identifies which store issued an API token. Revocation walks
// the providers in a fixed order and stops at the first hit.
type TokenProvider string

const (
	TokenProviderRefresh TokenProvider = "refresh"
	TokenProviderAccess  TokenProvider = "access"
)

// String returns the string representation of the token provider
func (p TokenProvider) String() string {
	return string(p)
}
