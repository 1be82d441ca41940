package store

import (
	"errors"

	"sixcities/internal/api"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrInvalidComment = errors.New("comment must be between 50 and 300 characters")
	ErrInvalidSort    = errors.New("unknown sort option")
	ErrUnknownCity    = errors.New("unknown city")
)

// Messages recorded when a failure carries nothing better.
const (
	msgLoadOffers     = "Failed to load offers"
	msgLoadOffer      = "Failed to load offer"
	msgLoadNearby     = "Failed to load nearby offers"
	msgLoadFavorites  = "Failed to load favorites"
	msgToggleFavorite = "Failed to update favorite status"
	msgLoadComments   = "Failed to load comments"
	msgPostComment    = "Failed to post comment"
	msgLogin          = "Failed to login"
	msgCheckAuth      = "Failed to check authorization"
)

// errorMessage picks the text a container records for err: the server's
// message when it sent one, otherwise the error text, otherwise fallback.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
