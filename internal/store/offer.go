package store

import (
	"context"
	"log/slog"
	"sync"

	"sixcities/internal/domain"
)

type OfferAPI interface {
	Offer(ctx context.Context, offerID string) (domain.Offer, error)
}

type OfferState struct {
	Offer   *domain.Offer `json:"offer"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
}

// OfferStore holds the offer the detail page is showing.
type OfferStore struct {
	api OfferAPI
	log *slog.Logger

	mu    sync.RWMutex
	state OfferState
}

func NewOfferStore(api OfferAPI, bus *Bus, log *slog.Logger) *OfferStore {
	s := &OfferStore{
		api: api,
		log: log.With("component", "offer"),
	}
	bus.On(EventFavoriteToggled, s.onFavoriteToggled)
	return s
}

func (s *OfferStore) State() OfferState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if s.state.Offer != nil {
		o := s.state.Offer.Clone()
		st.Offer = &o
	}
	return st
}

func (s *OfferStore) Fetch(ctx context.Context, offerID string) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	offer, err := s.api.Offer(ctx, offerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Offer = nil
		s.state.Error = errorMessage(err, msgLoadOffer)
		s.log.Warn("fetch offer failed", "offer_id", offerID, "error", err)
		return err
	}
	o := offer.Clone()
	s.state.Offer = &o
	return nil
}

// ToggleFavoriteLocal flips the held offer's flag when the id matches.
func (s *OfferStore) ToggleFavoriteLocal(offerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Offer != nil && s.state.Offer.ID == offerID {
		s.state.Offer.IsFavorite = !s.state.Offer.IsFavorite
	}
}

func (s *OfferStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = OfferState{}
}

func (s *OfferStore) onFavoriteToggled(e Event) {
	if e.Offer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Offer == nil || s.state.Offer.ID != e.Offer.ID {
		return
	}
	o := e.Offer.Clone()
	s.state.Offer = &o
}
