package outbound

import (
	"context"
	"time"

	"campus-marketplace/internal/domain/shared"
)

// Cache stores JSON-encodable values for a limited time
type Cache interface {
	// Get loads the value stored under key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst interface{}) (bool, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error
}

// HistoryRecorder appends executed searches in the background
type HistoryRecorder interface {
	// Record queues the query for the session's user. It never blocks on the store
	// and never reports failures to the caller.
	Record(sess *shared.Session, query string)
}
