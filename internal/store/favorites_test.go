package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sixcities/internal/api"
	"sixcities/internal/domain"
)

func TestFavorites_Fetch(t *testing.T) {
	s, m, _ := newTestStore(t)
	favs := []domain.Offer{offer("A", "Paris", 100, 4, true)}
	m.On("Favorites", mock.Anything).Return(favs, nil).Once()

	require.NoError(t, s.Favorites.Fetch(context.Background()))

	st := s.Favorites.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, favs, st.Offers)
}

func TestFavorites_FetchFailureRecordsMessage(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("Favorites", mock.Anything).Return(nil, &api.Error{StatusCode: http.StatusUnauthorized, Message: "Access denied"})

	err := s.Favorites.Fetch(context.Background())

	require.Error(t, err)
	st := s.Favorites.State()
	assert.Equal(t, "Access denied", st.Error)
	assert.Empty(t, st.Offers)
}

func TestFavorites_ToggleOffRemovesAndPatchesOffers(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()

	m.On("Favorites", mock.Anything).Return([]domain.Offer{
		offer("A", "Paris", 100, 4, true),
		offer("B", "Paris", 200, 3, true),
	}, nil)
	m.On("Offers", mock.Anything).Return([]domain.Offer{
		offer("A", "Paris", 100, 4, true),
		offer("B", "Paris", 200, 3, true),
		offer("C", "Paris", 300, 5, false),
	}, nil)
	m.On("SetFavorite", mock.Anything, "A", false).Return(offer("A", "Paris", 100, 4, false), nil)

	require.NoError(t, s.Favorites.Fetch(ctx))
	require.NoError(t, s.Offers.Fetch(ctx))

	_, err := s.Favorites.Toggle(ctx, "A", false)
	require.NoError(t, err)

	favs := s.Favorites.State().Offers
	require.Len(t, favs, 1)
	assert.Equal(t, "B", favs[0].ID)

	offers := s.Offers.State().Offers
	require.Len(t, offers, 3)
	assert.False(t, offers[0].IsFavorite)
	assert.True(t, offers[1].IsFavorite)
	assert.False(t, offers[2].IsFavorite)
	assert.Equal(t, "Offer C", offers[2].Title)
}

func TestFavorites_ToggleOnUpserts(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()

	m.On("Favorites", mock.Anything).Return([]domain.Offer{offer("A", "Paris", 100, 4, true)}, nil)
	m.On("SetFavorite", mock.Anything, "B", true).Return(offer("B", "Hamburg", 90, 4.5, true), nil)
	m.On("SetFavorite", mock.Anything, "A", true).Return(offer("A", "Paris", 120, 4, true), nil)

	require.NoError(t, s.Favorites.Fetch(ctx))
	_, err := s.Favorites.Toggle(ctx, "B", true)
	require.NoError(t, err)
	_, err = s.Favorites.Toggle(ctx, "A", true)
	require.NoError(t, err)

	favs := s.Favorites.State().Offers
	require.Len(t, favs, 2)
	assert.Equal(t, "A", favs[0].ID)
	assert.Equal(t, 120, favs[0].Price)
	assert.Equal(t, "B", favs[1].ID)
}

func TestFavorites_MembershipFollowsRequestedStatus(t *testing.T) {
	s, m, _ := newTestStore(t)
	// The server answers with a stale flag; membership still follows the request.
	m.On("SetFavorite", mock.Anything, "A", true).Return(offer("A", "Paris", 100, 4, false), nil)

	_, err := s.Favorites.Toggle(context.Background(), "A", true)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Favorites.Count())
}

func TestFavorites_ToggleUpdatesEveryContainer(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()

	a := offer("A", "Paris", 100, 4, false)
	m.On("Offers", mock.Anything).Return([]domain.Offer{a, offer("B", "Paris", 50, 3, false)}, nil)
	m.On("Offer", mock.Anything, "A").Return(detailed(a), nil)
	m.On("NearbyOffers", mock.Anything, "X").Return([]domain.Offer{a}, nil)
	m.On("NearbyOffers", mock.Anything, "Y").Return([]domain.Offer{offer("B", "Paris", 50, 3, false), a}, nil)

	faved := detailed(a)
	faved.IsFavorite = true
	m.On("SetFavorite", mock.Anything, "A", true).Return(faved, nil)

	require.NoError(t, s.Offers.Fetch(ctx))
	require.NoError(t, s.Offer.Fetch(ctx, "A"))
	require.NoError(t, s.Nearby.Fetch(ctx, "X"))
	require.NoError(t, s.Nearby.Fetch(ctx, "Y"))

	_, err := s.Favorites.Toggle(ctx, "A", true)
	require.NoError(t, err)

	for _, o := range s.Offers.State().Offers {
		if o.ID == "A" {
			assert.True(t, o.IsFavorite)
			assert.Nil(t, o.Details, "list keeps its summary fields")
		}
	}
	held := s.Offer.State().Offer
	require.NotNil(t, held)
	assert.True(t, held.IsFavorite)
	for _, id := range []string{"X", "Y"} {
		for _, o := range s.Nearby.For(id) {
			if o.ID == "A" {
				assert.True(t, o.IsFavorite, "nearby of %s", id)
			}
		}
	}
	favs := s.Favorites.State().Offers
	require.Len(t, favs, 1)
	assert.True(t, favs[0].IsFavorite)
}

func TestFavorites_ToggleFailureLeavesDataUnchanged(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()

	a := offer("A", "Paris", 100, 4, true)
	m.On("Favorites", mock.Anything).Return([]domain.Offer{a}, nil)
	m.On("Offers", mock.Anything).Return([]domain.Offer{a}, nil)
	m.On("Offer", mock.Anything, "A").Return(detailed(a), nil)
	m.On("NearbyOffers", mock.Anything, "Z").Return([]domain.Offer{a}, nil)
	m.On("SetFavorite", mock.Anything, "A", false).
		Return(domain.Offer{}, &api.Error{StatusCode: http.StatusInternalServerError, Message: "boom"})

	require.NoError(t, s.Favorites.Fetch(ctx))
	require.NoError(t, s.Offers.Fetch(ctx))
	require.NoError(t, s.Offer.Fetch(ctx, "A"))
	require.NoError(t, s.Nearby.Fetch(ctx, "Z"))

	favBefore := s.Favorites.State()
	offersBefore := s.Offers.State()
	offerBefore := s.Offer.State()
	nearbyBefore := s.Nearby.State()

	_, err := s.Favorites.Toggle(ctx, "A", false)
	require.Error(t, err)

	favAfter := s.Favorites.State()
	assert.Equal(t, "Failed to update favorite status", favAfter.ToggleError)
	favAfter.ToggleError = ""
	assert.Equal(t, favBefore, favAfter)
	assert.Equal(t, offersBefore, s.Offers.State())
	assert.Equal(t, offerBefore, s.Offer.State())
	assert.Equal(t, nearbyBefore, s.Nearby.State())
}

func TestFavorites_ToggleNoMatchIsNotAnError(t *testing.T) {
	s, m, _ := newTestStore(t)
	ctx := context.Background()

	m.On("Offers", mock.Anything).Return([]domain.Offer{offer("B", "Paris", 50, 3, false)}, nil)
	m.On("SetFavorite", mock.Anything, "Q", true).Return(offer("Q", "Brussels", 70, 2, true), nil)

	require.NoError(t, s.Offers.Fetch(ctx))
	before := s.Offers.State()

	_, err := s.Favorites.Toggle(ctx, "Q", true)
	require.NoError(t, err)

	assert.Equal(t, before, s.Offers.State())
	assert.Nil(t, s.Offer.State().Offer)
}

func TestFavorites_UpdateLocal(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("Favorites", mock.Anything).Return([]domain.Offer{
		offer("A", "Paris", 100, 4, true),
		offer("B", "Paris", 200, 3, true),
		offer("C", "Amsterdam", 300, 5, true),
	}, nil)
	require.NoError(t, s.Favorites.Fetch(context.Background()))

	s.Favorites.UpdateLocal("B", true)
	assert.Equal(t, 3, s.Favorites.Count())

	s.Favorites.UpdateLocal("B", false)
	favs := s.Favorites.State().Offers
	require.Len(t, favs, 2)
	assert.Equal(t, "A", favs[0].ID)
	assert.Equal(t, "C", favs[1].ID)
	assert.Equal(t, 100, favs[0].Price)

	s.Favorites.UpdateLocal("missing", false)
	assert.Equal(t, 2, s.Favorites.Count())
}

func TestFavorites_SnapshotIsACopy(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("Favorites", mock.Anything).Return([]domain.Offer{offer("A", "Paris", 100, 4, true)}, nil)
	require.NoError(t, s.Favorites.Fetch(context.Background()))

	snap := s.Favorites.State()
	snap.Offers[0].IsFavorite = false

	assert.True(t, s.Favorites.State().Offers[0].IsFavorite)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", errorMessage(nil, "fallback"))
	assert.Equal(t, "server says", errorMessage(&api.Error{StatusCode: 400, Message: "server says"}, "fallback"))
	assert.Equal(t, "fallback", errorMessage(&api.Error{StatusCode: 400}, "fallback"))
	assert.Equal(t, "dial tcp: refused", errorMessage(errors.New("dial tcp: refused"), "fallback"))
}
