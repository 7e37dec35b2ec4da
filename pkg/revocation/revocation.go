// Package revocation records bearer tokens that were logged out before they expired.
//
// Entries only need to live until the token's own expiry; after that the token is
// rejected by signature validation anyway.
package revocation

import (
	"context"
	"time"
)

const (
	BackendInMemory = "inmem"
	BackendRedis    = "redis"
)

// Store remembers revoked token ids
type Store interface {
	// Revoke marks tokenID as revoked until expiresAt
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether tokenID was revoked and has not yet expired
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
