package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	apperrors "researchhub/internal/errors"
)

// IdentityClaims are the claims carried by an identity-provider token.
// The subject identifier may arrive either as the registered "sub" claim
// or as the provider-specific "user_id" claim.
type IdentityClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UID returns the subject identifier, preferring the provider claim.
func (c *IdentityClaims) UID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Verifier checks a bearer credential and returns its claims. Implementations
// must verify the signature; decoding the payload without verification is not
// authentication.
type Verifier interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}

// HMACVerifier verifies HS256-signed tokens with a shared secret.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier with the given secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify parses and verifies a token, returning its claims.
// Errors follow the auth taxonomy: a credential without the three-segment
// structure is malformed, a verified token without a subject is rejected,
// and signature or expiry failures are invalid.
func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (*IdentityClaims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return nil, apperrors.ErrMalformedToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, apperrors.ErrMalformedToken
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.UID() == "" {
		return nil, apperrors.ErrMissingSubject
	}
	return claims, nil
}
