package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is a shared byte cache for upstream responses. Implementations must
// be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// MakeKey hashes a request URL into a fixed-length key so credentials in the
// query string never appear in the store.
func MakeKey(prefix, url string) string {
	sum := sha256.Sum256([]byte(url))
	return prefix + ":fetch:" + hex.EncodeToString(sum[:])
}
