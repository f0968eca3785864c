package item

import (
	"strings"
	"time"

	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
)

// Category is the enumerated listing category
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategoryTextbooks      Category = "Textbooks"
	CategoryFurniture      Category = "Furniture"
	CategoryClothing       Category = "Clothing"
	CategorySchoolSupplies Category = "School Supplies"
	CategoryDormEssentials Category = "Dorm Essentials"
)

// AllCategories is the filter value that disables category matching. It is never stored.
const AllCategories = "All Categories"

// Categories lists every category in display order
var Categories = []Category{
	CategoryElectronics,
	CategoryTextbooks,
	CategoryFurniture,
	CategoryClothing,
	CategorySchoolSupplies,
	CategoryDormEssentials,
}

// ParseCategory resolves a category name case-insensitively
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", shared.ErrInvalidCategory
}

// Item represents a marketplace listing
type Item struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Price        float64   `json:"price" db:"price"`
	Category     Category  `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	Location     string    `json:"location" db:"location"`
	ImageURL     *string   `json:"image_url,omitempty" db:"image_url"`
	ContactPhone *string   `json:"contact_phone,omitempty" db:"contact_phone"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OwnedBy returns true if the listing was created by the given user
func (i *Item) OwnedBy(userID uuid.UUID) bool {
	return i.UserID == userID
}

// Editable returns true if the session may change or delete the listing
func (i *Item) Editable(sess *shared.Session) bool {
	if !sess.Authenticated() {
		return false
	}
	return sess.IsAdmin() || i.OwnedBy(sess.UserID)
}

// Listing holds the seller-supplied fields of an item
type Listing struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	ImageURL     *string `json:"image_url,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

// Validate checks the listing and returns its parsed category
func (l *Listing) Validate() (Category, error) {
	if strings.TrimSpace(l.Title) == "" {
		return "", shared.ErrTitleRequired
	}
	if l.Price < 0 {
		return "", shared.ErrInvalidPrice
	}
	category, err := ParseCategory(l.Category)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(l.Description) == "" {
		return "", shared.ErrDescriptionRequired
	}
	if strings.TrimSpace(l.Location) == "" {
		return "", shared.ErrLocationRequired
	}
	if l.ImageURL != nil && *l.ImageURL != "" {
		if err := ValidateImageRef(*l.ImageURL); err != nil {
			return "", err
		}
	}
	return category, nil
}

// Apply copies the listing onto the item. Validate must have succeeded first.
func (l *Listing) Apply(it *Item, category Category) {
	it.Title = strings.TrimSpace(l.Title)
	it.Price = l.Price
	it.Category = category
	it.Description = strings.TrimSpace(l.Description)
	it.Location = strings.TrimSpace(l.Location)
	it.ImageURL = nonEmpty(l.ImageURL)
	it.ContactPhone = nonEmpty(l.ContactPhone)
}

// ValidateImageRef accepts http(s) URLs and inline image data URLs
func ValidateImageRef(ref string) error {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return nil
	case strings.HasPrefix(lower, "data:image/") && strings.Contains(lower, ";base64,"):
		return nil
	}
	return shared.ErrInvalidImageRef
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
