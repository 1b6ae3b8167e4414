package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of the bearer token presented on websocket upgrade.
type Claims struct {
	ClientID string `json:"client_id"`
	Peer     string `json:"peer,omitempty"`
	jwt.RegisteredClaims
}

// Copy returns a copy of claims to avoid sharing state across goroutines.
func (c *Claims) Copy() *Claims {
	if c == nil {
		return nil
	}
	copyClaims := *c
	return &copyClaims
}
