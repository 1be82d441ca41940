package web

import "sixcities/internal/domain"

const (
	maxNearbyOnPage  = 3
	maxReviewsOnPage = 10
)

type mainView struct {
	Offers              []domain.Offer             `json:"offers"`
	Cities              []domain.City              `json:"cities"`
	SelectedCity        domain.City                `json:"selectedCity"`
	SelectedSort        domain.SortOption          `json:"selectedSort"`
	SortOptions         []domain.SortOption        `json:"sortOptions"`
	ActiveOfferID       string                     `json:"activeOfferId,omitempty"`
	Error               string                     `json:"error,omitempty"`
	AuthorizationStatus domain.AuthorizationStatus `json:"authorizationStatus"`
	FavoritesCount      int                        `json:"favoritesCount"`
}

type offerView struct {
	Offer               domain.Offer               `json:"offer"`
	Nearby              []domain.Offer             `json:"nearby"`
	NearbyError         string                     `json:"nearbyError,omitempty"`
	Reviews             []domain.Review            `json:"reviews"`
	ReviewsCount        int                        `json:"reviewsCount"`
	ReviewsError        string                     `json:"reviewsError,omitempty"`
	AuthorizationStatus domain.AuthorizationStatus `json:"authorizationStatus"`
}

type favoritesView struct {
	Groups []domain.CityGroup `json:"groups"`
	Count  int                `json:"count"`
}

type loginView struct {
	AuthorizationStatus domain.AuthorizationStatus `json:"authorizationStatus"`
	Error               string                     `json:"error,omitempty"`
	From                string                     `json:"from"`
}

type sessionView struct {
	AuthorizationStatus domain.AuthorizationStatus `json:"authorizationStatus"`
	User                *domain.UserProfile        `json:"user"`
	Redirect            string                     `json:"redirect,omitempty"`
}

type cityRequest struct {
	Name string `json:"name" binding:"required"`
}

type sortRequest struct {
	Sort domain.SortOption `json:"sort" binding:"required"`
}

type activeOfferRequest struct {
	OfferID string `json:"offerId"`
}

type commentRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	From     string `json:"from"`
}
