package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// Local fallback used when redis cannot be reached. Covers only this
// instance, which still beats accepting a revoked token.
var (
	localRevoked   = map[string]time.Time{}
	localRevokedMu sync.Mutex
)

// BlacklistToken revokes a token until its natural expiration so logout
// takes effect immediately.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := GetRedis().Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err == nil {
		return
	}
	localRevokedMu.Lock()
	localRevoked[token] = expiresAt
	localRevokedMu.Unlock()
}

// IsTokenBlacklisted reports whether a token was revoked. Redis errors fail
// open apart from entries recorded locally.
func IsTokenBlacklisted(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if n, err := GetRedis().Exists(ctx, blacklistKeyPrefix+token).Result(); err == nil && n > 0 {
		return true
	}

	localRevokedMu.Lock()
	defer localRevokedMu.Unlock()
	expiresAt, ok := localRevoked[token]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(localRevoked, token)
		return false
	}
	return true
}
