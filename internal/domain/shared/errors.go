package shared

import "errors"

// Domain-specific errors
var (
	// Session errors
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("not allowed to perform this action")
	ErrInvalidToken = errors.New("invalid access token")

	// Item errors
	ErrItemNotFound        = errors.New("item not found")
	ErrInvalidItemID       = errors.New("invalid item id format")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrLocationRequired    = errors.New("location is required")
	ErrInvalidPrice        = errors.New("price must be zero or greater")
	ErrInvalidImageRef     = errors.New("image must be an http(s) URL or an image data URL")

	// Search errors
	ErrInvalidCategory   = errors.New("unknown category")
	ErrInvalidSort       = errors.New("unknown sort key")
	ErrInvalidPriceRange = errors.New("price bounds must be non-negative numbers")

	// Profile errors
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDisplayNameRequired = errors.New("display name is required")

	// Database errors
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseTransaction = errors.New("database transaction failed")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrItemIDRequired      = errors.New("item_id is required")
	ErrRequestIDRequired   = errors.New("request_id is required")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// Broadcasting errors
	ErrBroadcastFailed = errors.New("broadcast failed")
)

var clientErrors = []error{
	ErrAuthRequired,
	ErrForbidden,
	ErrInvalidToken,
	ErrItemNotFound,
	ErrInvalidItemID,
	ErrTitleRequired,
	ErrDescriptionRequired,
	ErrLocationRequired,
	ErrInvalidPrice,
	ErrInvalidImageRef,
	ErrInvalidCategory,
	ErrInvalidSort,
	ErrInvalidPriceRange,
	ErrProfileNotFound,
	ErrDisplayNameRequired,
	ErrMessageTypeRequired,
	ErrItemIDRequired,
	ErrRequestIDRequired,
	ErrUnknownMessageType,
}

// IsClientError returns true if err was caused by the caller's request rather than
// a failed call to the store. Only these errors may be shown to the caller verbatim.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
