package shared

import (
	"time"

	"github.com/google/uuid"
)

// Session is the verified identity of the caller. A nil *Session is an anonymous caller.
type Session struct {
	UserID uuid.UUID
	Email  string
	Admin  bool
}

// Authenticated returns true if the session belongs to a signed-in user
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// IsAdmin returns true if the session belongs to a moderator
func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.Admin
}

// Profile represents the public part of a user account
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	Affiliation *string   `json:"affiliation,omitempty" db:"affiliation"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AffiliationOrEmpty returns the affiliation string, or "" when unset
func (p *Profile) AffiliationOrEmpty() string {
	if p == nil || p.Affiliation == nil {
		return ""
	}
	return *p.Affiliation
}
