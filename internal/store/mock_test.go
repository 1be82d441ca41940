package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"sixcities/internal/domain"
	"sixcities/internal/logger"
	"sixcities/internal/tokenstore"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Offers(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockAPI) Offer(ctx context.Context, offerID string) (domain.Offer, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(domain.Offer), args.Error(1)
}

func (m *MockAPI) NearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockAPI) Favorites(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockAPI) SetFavorite(ctx context.Context, offerID string, status bool) (domain.Offer, error) {
	args := m.Called(ctx, offerID, status)
	return args.Get(0).(domain.Offer), args.Error(1)
}

func (m *MockAPI) Comments(ctx context.Context, offerID string) ([]domain.Review, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockAPI) PostComment(ctx context.Context, offerID, comment string, rating int) (domain.Review, error) {
	args := m.Called(ctx, offerID, comment, rating)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *MockAPI) CheckAuth(ctx context.Context) (domain.AuthInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AuthInfo), args.Error(1)
}

func (m *MockAPI) Login(ctx context.Context, email, password string) (domain.AuthInfo, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.AuthInfo), args.Error(1)
}

func (m *MockAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestStore(t *testing.T) (*Store, *MockAPI, *tokenstore.Memory) {
	t.Helper()
	api := new(MockAPI)
	tokens := tokenstore.NewMemory()
	s := New(api, tokens, nil, logger.Discard())
	t.Cleanup(s.Close)
	return s, api, tokens
}

func offer(id, city string, price int, rating float64, fav bool) domain.Offer {
	return domain.Offer{
		ID:         id,
		Title:      "Offer " + id,
		Type:       "apartment",
		Price:      price,
		Rating:     rating,
		IsFavorite: fav,
		City:       domain.City{Name: city},
	}
}

func detailed(o domain.Offer) domain.Offer {
	o.Details = &domain.OfferDetails{
		Description: "A quiet place",
		Bedrooms:    2,
		MaxAdults:   4,
		Goods:       []string{"Wi-Fi", "Kitchen"},
		Host:        domain.Host{Name: "Angelina", IsPro: true},
		Images:      []string{"img/1.jpg"},
	}
	return o
}
