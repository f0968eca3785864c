package http

import (
	"errors"
	"net/http"

	"campus-marketplace/internal/domain/shared"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var badRequestErrors = []error{
	shared.ErrInvalidItemID,
	shared.ErrTitleRequired,
	shared.ErrDescriptionRequired,
	shared.ErrLocationRequired,
	shared.ErrInvalidPrice,
	shared.ErrInvalidImageRef,
	shared.ErrInvalidCategory,
	shared.ErrInvalidSort,
	shared.ErrInvalidPriceRange,
	shared.ErrDisplayNameRequired,
}

// statusFor maps a service error onto an HTTP status. Anything unrecognised is a
// failed call to the store.
func statusFor(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, shared.ErrAuthRequired), errors.Is(err, shared.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrItemNotFound), errors.Is(err, shared.ErrProfileNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func respondError(c *gin.Context, logger zerolog.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusBadGateway {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		message = "the marketplace is temporarily unavailable"
	}
	c.JSON(status, gin.H{"error": message})
}
