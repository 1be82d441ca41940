// Package store holds the client-side state containers and keeps their
// copies of the same offer in agreement.
package store

import (
	"log/slog"

	"sixcities/internal/metrics"
)

// API is everything the containers need from the six-cities server.
type API interface {
	OffersAPI
	OfferAPI
	NearbyAPI
	FavoritesAPI
	CommentsAPI
	AuthAPI
}

type Store struct {
	Bus       *Bus
	Auth      *AuthStore
	Offers    *OffersStore
	Offer     *OfferStore
	Nearby    *NearbyStore
	Favorites *FavoritesStore
	Comments  *CommentsStore
}

func New(api API, tokens TokenStorage, m *metrics.Metrics, log *slog.Logger) *Store {
	bus := NewBus(log)
	s := &Store{
		Bus:       bus,
		Auth:      NewAuthStore(api, tokens, bus, log),
		Offers:    NewOffersStore(api, bus, log),
		Offer:     NewOfferStore(api, bus, log),
		Nearby:    NewNearbyStore(api, bus, log),
		Favorites: NewFavoritesStore(api, bus, m, log),
		Comments:  NewCommentsStore(api, bus, log),
	}
	bus.On(EventLoggedOut, func(Event) { s.Favorites.Clear() })
	return s
}

func (s *Store) Close() {
	s.Offers.Close()
}
