package saved

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SavedItem is a user's bookmark of an item. At most one exists per (user, item) pair.
type SavedItem struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Set is the local view of the item ids a user has saved
type Set struct {
	ids map[uuid.UUID]struct{}
}

// NewSet builds a set from the given ids
func NewSet(ids ...uuid.UUID) *Set {
	s := &Set{ids: make(map[uuid.UUID]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *Set) Has(id uuid.UUID) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Add(id uuid.UUID) {
	s.ids[id] = struct{}{}
}

func (s *Set) Remove(id uuid.UUID) {
	delete(s.ids, id)
}

func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the saved ids in a stable order
func (s *Set) IDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
