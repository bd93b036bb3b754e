package auth

import "strings"

// Settings is the credential material for the health endpoints. It mirrors
// the server.auth configuration block after secret resolution.
type Settings struct {
	JWTSecret string
	JWTIssuer string
	APIKeys   []string
}

// New builds the authenticator chain for s: JWT first, then API keys. JWT
// roles are read from the "roles" claim.
// It returns ErrNoAuthenticators when nothing is configured so the caller
// can leave the endpoints open.
func New(s Settings) (Authenticator, error) {
	var chain []Authenticator
	if secret := strings.TrimSpace(s.JWTSecret); secret != "" {
		chain = append(chain, NewJWTAuthenticator(JWTConfig{Issuer: s.JWTIssuer, RolesClaim: "roles"}, []byte(secret)))
	}
	if store := NewStaticAPIKeyStore(s.APIKeys); store.Len() > 0 {
		chain = append(chain, NewAPIKeyAuthenticator(APIKeyConfig{}, store))
	}
	switch len(chain) {
	case 0:
		return nil, ErrNoAuthenticators
	case 1:
		return chain[0], nil
	default:
		return NewCompositeAuthenticator(chain...), nil
	}
}
