// Package utils provides helper functions for session token creation.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed JWT scoping API calls to one wizard session.
// The wizard is anonymous, so the token carries no identity, only the
// session UUID as subject: a visitor can read and mutate their own session
// and nothing else. The Token field contains the JWT string; Exp stores the
// UTC expiration.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs an HS256 JWT for a wizard session. The
// token lives exactly as long as the session's Redis TTL, so an expired
// token never points at live state. Claims: subject (sub) holds the session
// ID, plus standard exp and iat.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
