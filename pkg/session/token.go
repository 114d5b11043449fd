package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// decodeClaims parses a JWT without verifying its signature. The server is
// the only party that verifies; the client reads claims for UX purposes only.
func decodeClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// IsExpired reports whether the token's exp claim is at or before now. A
// token that cannot be decoded, or that carries no expiry, is treated as
// expired.
func IsExpired(token string, now time.Time) bool {
	claims, err := decodeClaims(token)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !exp.Time.After(now)
}

// UserID extracts the user id claim from an access token.
func UserID(token string) (string, error) {
	claims, err := decodeClaims(token)
	if err != nil {
		return "", err
	}
	id, _ := claims["user_id"].(string)
	if id == "" {
		return "", errors.New("token missing user_id claim")
	}
	return id, nil
}
