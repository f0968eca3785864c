package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Entry is one executed search. Entries are append-only.
type Entry struct {
	ID        ulid.ULID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Query     string    `json:"search_query"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize lower-cases and trims a search query
func Normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// NewEntry builds an entry for a normalized, non-empty query
func NewEntry(userID uuid.UUID, query string, now time.Time) *Entry {
	return &Entry{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		UserID:    userID,
		Query:     query,
		CreatedAt: now,
	}
}
