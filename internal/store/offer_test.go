package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sixcities/internal/api"
	"sixcities/internal/domain"
)

func TestOffer_FetchAndClear(t *testing.T) {
	s, m, _ := newTestStore(t)
	d := detailed(offer("A", "Paris", 100, 4, false))
	m.On("Offer", mock.Anything, "A").Return(d, nil)

	require.NoError(t, s.Offer.Fetch(context.Background(), "A"))

	st := s.Offer.State()
	require.NotNil(t, st.Offer)
	assert.Equal(t, domain.KindDetailed, st.Offer.Kind())
	assert.Equal(t, d, *st.Offer)

	s.Offer.Clear()
	assert.Equal(t, OfferState{}, s.Offer.State())
}

func TestOffer_FetchNotFound(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("Offer", mock.Anything, "missing").
		Return(domain.Offer{}, &api.Error{StatusCode: http.StatusNotFound, Message: "Offer with id missing not found."})

	err := s.Offer.Fetch(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))

	st := s.Offer.State()
	assert.Nil(t, st.Offer)
	assert.Equal(t, "Offer with id missing not found.", st.Error)
}

func TestOffer_ToggleFavoriteLocal(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("Offer", mock.Anything, "A").Return(detailed(offer("A", "Paris", 100, 4, false)), nil)
	require.NoError(t, s.Offer.Fetch(context.Background(), "A"))

	s.Offer.ToggleFavoriteLocal("B")
	assert.False(t, s.Offer.State().Offer.IsFavorite)

	s.Offer.ToggleFavoriteLocal("A")
	assert.True(t, s.Offer.State().Offer.IsFavorite)
	s.Offer.ToggleFavoriteLocal("A")
	assert.False(t, s.Offer.State().Offer.IsFavorite)
}

func TestNearby_KeyedByOffer(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()
	m.On("NearbyOffers", mock.Anything, "A").Return([]domain.Offer{offer("B", "Paris", 1, 1, false)}, nil)
	m.On("NearbyOffers", mock.Anything, "C").Return([]domain.Offer{offer("D", "Paris", 1, 1, false), offer("E", "Paris", 1, 1, false)}, nil)

	require.NoError(t, s.Nearby.Fetch(ctx, "A"))
	require.NoError(t, s.Nearby.Fetch(ctx, "C"))

	assert.Equal(t, []string{"B"}, ids(s.Nearby.For("A")))
	assert.Equal(t, []string{"D", "E"}, ids(s.Nearby.For("C")))
	assert.Nil(t, s.Nearby.For("Z"))

	s.Nearby.Clear()
	assert.Empty(t, s.Nearby.State().Offers)
}

func TestNearby_FetchFailureKeepsOtherLists(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()
	m.On("NearbyOffers", mock.Anything, "A").Return([]domain.Offer{offer("B", "Paris", 1, 1, false)}, nil)
	m.On("NearbyOffers", mock.Anything, "C").Return(nil, &api.Error{StatusCode: http.StatusInternalServerError})

	require.NoError(t, s.Nearby.Fetch(ctx, "A"))
	require.Error(t, s.Nearby.Fetch(ctx, "C"))

	st := s.Nearby.State()
	assert.Equal(t, "Failed to load nearby offers", st.Error)
	assert.Len(t, st.Offers["A"], 1)
	_, ok := st.Offers["C"]
	assert.False(t, ok)
}
