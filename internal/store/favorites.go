package store

import (
	"context"
	"log/slog"
	"sync"

	"sixcities/internal/domain"
	"sixcities/internal/metrics"
)

type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]domain.Offer, error)
	SetFavorite(ctx context.Context, offerID string, status bool) (domain.Offer, error)
}

type FavoritesState struct {
	Offers      []domain.Offer `json:"offers"`
	Loading     bool           `json:"loading"`
	Error       string         `json:"error,omitempty"`
	ToggleError string         `json:"toggleError,omitempty"`
}

// FavoritesStore holds the user's favorite offers and is the only container
// that talks to the favorite endpoint.
type FavoritesStore struct {
	api     FavoritesAPI
	bus     *Bus
	metrics *metrics.Metrics
	log     *slog.Logger

	mu    sync.RWMutex
	state FavoritesState
}

func NewFavoritesStore(api FavoritesAPI, bus *Bus, m *metrics.Metrics, log *slog.Logger) *FavoritesStore {
	return &FavoritesStore{
		api:     api,
		bus:     bus,
		metrics: m,
		log:     log.With("component", "favorites"),
		state:   FavoritesState{Offers: []domain.Offer{}},
	}
}

func (s *FavoritesStore) State() FavoritesState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Offers = cloneOffers(s.state.Offers)
	return st
}

func (s *FavoritesStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	offers, err := s.api.Favorites(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errorMessage(err, msgLoadFavorites)
		s.log.Warn("fetch favorites failed", "error", err)
		return err
	}
	s.state.Offers = cloneOffers(offers)
	return nil
}

// Toggle asks the server to set the favorite status of an offer. On success
// membership follows status, whatever the returned offer says, and a
// FavoriteToggled event carries the returned offer to the other containers.
func (s *FavoritesStore) Toggle(ctx context.Context, offerID string, status bool) (domain.Offer, error) {
	s.mu.Lock()
	s.state.ToggleError = ""
	s.mu.Unlock()

	updated, err := s.api.SetFavorite(ctx, offerID, status)
	s.metrics.FavoriteToggled(err == nil)
	if err != nil {
		s.mu.Lock()
		s.state.ToggleError = msgToggleFavorite
		s.mu.Unlock()
		s.log.Warn("toggle favorite failed", "offer_id", offerID, "status", status, "error", err)
		return domain.Offer{}, err
	}

	s.mu.Lock()
	if status {
		s.state.Offers = upsertOffer(s.state.Offers, updated.Clone())
	} else {
		s.state.Offers = removeOffer(s.state.Offers, offerID)
	}
	s.mu.Unlock()

	payload := updated.Clone()
	s.bus.Publish(Event{
		Kind:    EventFavoriteToggled,
		OfferID: offerID,
		Status:  status,
		Offer:   &payload,
	})
	return updated, nil
}

// UpdateLocal reconciles membership without a network call. Only removal
// changes the list.
func (s *FavoritesStore) UpdateLocal(offerID string, isFavorite bool) {
	if isFavorite {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Offers = removeOffer(s.state.Offers, offerID)
}

func (s *FavoritesStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Offers = []domain.Offer{}
	s.state.Error = ""
	s.state.ToggleError = ""
}

func (s *FavoritesStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Offers)
}

func upsertOffer(offers []domain.Offer, o domain.Offer) []domain.Offer {
	for i := range offers {
		if offers[i].ID == o.ID {
			offers[i] = o
			return offers
		}
	}
	return append(offers, o)
}

func removeOffer(offers []domain.Offer, id string) []domain.Offer {
	out := offers[:0]
	for _, o := range offers {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func cloneOffers(offers []domain.Offer) []domain.Offer {
	out := make([]domain.Offer, len(offers))
	for i, o := range offers {
		out[i] = o.Clone()
	}
	return out
}
