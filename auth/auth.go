// Package auth resolves bearer tokens to stable caller identities.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// ErrUnauthorized covers every missing/invalid-token case. The HTTP layer
// maps it to 401.
var ErrUnauthorized = errors.New("auth: unauthorized")

// Verifier resolves a bearer token into a stable caller identity.
type Verifier interface {
	Verify(token string) (identity string, err error)
}

// JWTVerifier validates HMAC-signed JWTs and uses the sub claim as identity.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier over the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(strings.TrimSpace(secret))}
}

// Verify parses and validates tokenStr, returning the sub claim.
func (v *JWTVerifier) Verify(tokenStr string) (string, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("%w: JWT secret not configured", ErrUnauthorized)
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return sub, nil
}
