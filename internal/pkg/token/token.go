// Package token issues and validates signed, stateless session tokens.
// A token carries everything needed to identify the subject, so no server-side
// session store exists: logout is a client-side discard, and revocation before
// natural expiry is not supported.
package token

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "logistics-api"

// Claims carries the identity embedded in a session token.
// UserID and the registered Subject (email) identify the principal; roles and
// permissions are intentionally NOT embedded, so changes to them take effect
// on the next request when the user record is re-read.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a symmetric key.
// The key is held only by this service.
type Service struct {
	secretKey []byte
	expiry    time.Duration
}

// NewService creates a token service with the given signing key and token lifetime.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
	}
}

// Issue produces a compact signed token for the given user.
// The token contains the user id, the email as subject, issued-at and expiry.
func (s *Service) Issue(userID string, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate verifies the signature and time bounds of a token string.
// Returns the embedded claims on success, or a TokenInvalid error when the
// token is malformed, the signature does not verify, or the token is expired.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewTokenInvalidErrorWithCause("token is expired", err)
		}
		return nil, errs.NewTokenInvalidErrorWithCause("token verification failed", err)
	}

	if !parsed.Valid {
		return nil, errs.NewTokenInvalidError("token is not valid")
	}

	return claims, nil
}
