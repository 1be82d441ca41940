package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"sixcities/internal/domain"
)

type OffersAPI interface {
	Offers(ctx context.Context) ([]domain.Offer, error)
}

type OffersState struct {
	Offers        []domain.Offer    `json:"offers"`
	Cities        []domain.City     `json:"cities"`
	SelectedCity  domain.City       `json:"selectedCity"`
	SelectedSort  domain.SortOption `json:"selectedSort"`
	ActiveOfferID string            `json:"activeOfferId,omitempty"`
	Loading       bool              `json:"loading"`
	Loaded        bool              `json:"loaded"`
	Error         string            `json:"error,omitempty"`
}

const visibleTTL = time.Hour

// OffersStore holds the full offer list plus the main page's city, sort and
// hover selection.
type OffersStore struct {
	api OffersAPI
	log *slog.Logger

	mu    sync.RWMutex
	state OffersState
	// version changes whenever the offer list does and keys the visible cache.
	version uint64

	visible *ccache.Cache[[]domain.Offer]
}

func NewOffersStore(api OffersAPI, bus *Bus, log *slog.Logger) *OffersStore {
	s := &OffersStore{
		api: api,
		log: log.With("component", "offers"),
		state: OffersState{
			Offers:       []domain.Offer{},
			Cities:       domain.Cities,
			SelectedCity: domain.DefaultCity(),
			SelectedSort: domain.DefaultSortOption,
		},
		visible: ccache.New(ccache.Configure[[]domain.Offer]().MaxSize(64)),
	}
	bus.On(EventFavoriteToggled, s.onFavoriteToggled)
	return s
}

func (s *OffersStore) State() OffersState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Offers = cloneOffers(s.state.Offers)
	st.Cities = append([]domain.City(nil), s.state.Cities...)
	return st
}

func (s *OffersStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	offers, err := s.api.Offers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errorMessage(err, msgLoadOffers)
		s.log.Warn("fetch offers failed", "error", err)
		return err
	}
	s.state.Offers = cloneOffers(offers)
	s.state.Loaded = true
	s.version++
	return nil
}

// Loaded reports whether a fetch has succeeded at least once.
func (s *OffersStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loaded
}

// SetSelectedCity switches the main page to a city and drops the hover
// selection, which belonged to the previous city's list.
func (s *OffersStore) SetSelectedCity(name string) error {
	city, ok := domain.CityByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCity, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedCity = city
	s.state.ActiveOfferID = ""
	return nil
}

func (s *OffersStore) SetSelectedSort(sort domain.SortOption) error {
	if !sort.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedSort = sort
	return nil
}

// SetActiveOfferID marks the hovered card. An empty id clears it.
func (s *OffersStore) SetActiveOfferID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveOfferID = id
}

// Visible returns the offers of the selected city in the selected order.
func (s *OffersStore) Visible() []domain.Offer {
	s.mu.RLock()
	key := fmt.Sprintf("%d|%s|%s", s.version, s.state.SelectedCity.Name, s.state.SelectedSort)
	if item := s.visible.Get(key); item != nil && !item.Expired() {
		s.mu.RUnlock()
		return cloneOffers(item.Value())
	}
	offers := domain.SortOffers(domain.FilterByCity(s.state.Offers, s.state.SelectedCity.Name), s.state.SelectedSort)
	offers = cloneOffers(offers)
	s.mu.RUnlock()

	s.visible.Set(key, offers, visibleTTL)
	return cloneOffers(offers)
}

// Close stops the cache's background worker.
func (s *OffersStore) Close() {
	s.visible.Stop()
}

func (s *OffersStore) onFavoriteToggled(e Event) {
	if e.Offer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Offers {
		if s.state.Offers[i].ID == e.Offer.ID {
			s.state.Offers[i].IsFavorite = e.Offer.IsFavorite
			s.version++
			return
		}
	}
}
