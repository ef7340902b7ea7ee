package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"researchhub/internal/cache"
)

const (
	verifiedTokenKeyPrefix = "verified_token:"
	maxClaimsTTL           = 10 * time.Minute
)

// TokenCache stores verified claims in Redis keyed by a hash of the raw
// token, so repeated requests with the same credential skip verification.
type TokenCache struct {
	cache *cache.Client
}

// NewTokenCache creates a new token cache.
func NewTokenCache(cache *cache.Client) *TokenCache {
	return &TokenCache{cache: cache}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return verifiedTokenKeyPrefix + hex.EncodeToString(sum[:])
}

// GetClaims returns cached claims for the token, or nil on a miss.
func (s *TokenCache) GetClaims(ctx context.Context, token string) *IdentityClaims {
	data, err := s.cache.Get(ctx, tokenKey(token))
	if err != nil || data == nil {
		return nil
	}
	var claims IdentityClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil
	}
	return &claims
}

// StoreClaims caches verified claims until shortly before the token expires.
func (s *TokenCache) StoreClaims(ctx context.Context, token string, claims *IdentityClaims) {
	if claims == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if ttl > maxClaimsTTL {
		ttl = maxClaimsTTL
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, tokenKey(token), payload, ttl)
}

// CachingVerifier wraps a Verifier with the token cache. Verification
// failures are never cached.
type CachingVerifier struct {
	inner Verifier
	store *TokenCache
}

// Ensure CachingVerifier implements Verifier.
var _ Verifier = (*CachingVerifier)(nil)

// NewCachingVerifier creates a caching wrapper around inner.
func NewCachingVerifier(inner Verifier, store *TokenCache) *CachingVerifier {
	return &CachingVerifier{inner: inner, store: store}
}

// Verify returns cached claims when available, delegating to the inner
// verifier otherwise.
func (v *CachingVerifier) Verify(ctx context.Context, token string) (*IdentityClaims, error) {
	if claims := v.store.GetClaims(ctx, token); claims != nil {
		return claims, nil
	}
	claims, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	v.store.StoreClaims(ctx, token, claims)
	return claims, nil
}
