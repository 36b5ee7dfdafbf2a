package helpers

// AuthClaims is the identity the auth middleware extracts from a verified
// Firebase ID token and stores in the request context under "user".
type AuthClaims struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	// RoleHint is the organizador/colaborador flag the client caches for
	// navigation. It is never consulted for authorization; every protected
	// action re-derives access from the permission service.
	RoleHint string `json:"role_hint,omitempty"`
}

// DisplayName falls back to the email when the provider supplied no name.
func (a *AuthClaims) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

func (a *AuthClaims) IsOwnerOf(ownerUID string) bool {
	return a != nil && a.UID == ownerUID
}
