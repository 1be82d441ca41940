package store

import (
	"context"
	"log/slog"
	"sync"

	"sixcities/internal/domain"
)

type NearbyAPI interface {
	NearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error)
}

type NearbyState struct {
	Offers  map[string][]domain.Offer `json:"offers"`
	Loading bool                      `json:"loading"`
	Error   string                    `json:"error,omitempty"`
}

// NearbyStore keeps the nearby list of every offer that has been opened,
// keyed by that offer's id.
type NearbyStore struct {
	api NearbyAPI
	log *slog.Logger

	mu    sync.RWMutex
	state NearbyState
}

func NewNearbyStore(api NearbyAPI, bus *Bus, log *slog.Logger) *NearbyStore {
	s := &NearbyStore{
		api:   api,
		log:   log.With("component", "nearby"),
		state: NearbyState{Offers: make(map[string][]domain.Offer)},
	}
	bus.On(EventFavoriteToggled, s.onFavoriteToggled)
	return s
}

func (s *NearbyStore) State() NearbyState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Offers = make(map[string][]domain.Offer, len(s.state.Offers))
	for id, offers := range s.state.Offers {
		st.Offers[id] = cloneOffers(offers)
	}
	return st
}

// For returns the nearby offers stored for offerID, nil when none were fetched.
func (s *NearbyStore) For(offerID string) []domain.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offers, ok := s.state.Offers[offerID]
	if !ok {
		return nil
	}
	return cloneOffers(offers)
}

func (s *NearbyStore) Fetch(ctx context.Context, offerID string) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	offers, err := s.api.NearbyOffers(ctx, offerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errorMessage(err, msgLoadNearby)
		s.log.Warn("fetch nearby failed", "offer_id", offerID, "error", err)
		return err
	}
	s.state.Offers[offerID] = cloneOffers(offers)
	return nil
}

func (s *NearbyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NearbyState{Offers: make(map[string][]domain.Offer)}
}

func (s *NearbyStore) onFavoriteToggled(e Event) {
	if e.Offer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, offers := range s.state.Offers {
		for i := range offers {
			if offers[i].ID == e.Offer.ID {
				offers[i] = e.Offer.Clone()
			}
		}
	}
}
