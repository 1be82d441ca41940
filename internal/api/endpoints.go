package api

import (
	"context"
	"net/http"
	"net/url"

	"sixcities/internal/domain"
)

func (c *Client) Offers(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := c.do(ctx, http.MethodGet, "/offers", "/offers", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *Client) Offer(ctx context.Context, offerID string) (domain.Offer, error) {
	var offer domain.Offer
	err := c.do(ctx, http.MethodGet, "/offers/:id", "/offers/"+url.PathEscape(offerID), nil, &offer)
	return offer, err
}

func (c *Client) NearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := c.do(ctx, http.MethodGet, "/offers/:id/nearby", "/offers/"+url.PathEscape(offerID)+"/nearby", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *Client) Favorites(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := c.do(ctx, http.MethodGet, "/favorite", "/favorite", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// SetFavorite adds (status true) or removes the offer from the user's
// favorites and returns the offer as the server now sees it.
func (c *Client) SetFavorite(ctx context.Context, offerID string, status bool) (domain.Offer, error) {
	flag := "0"
	if status {
		flag = "1"
	}
	var offer domain.Offer
	err := c.do(ctx, http.MethodPost, "/favorite/:id/:status", "/favorite/"+url.PathEscape(offerID)+"/"+flag, nil, &offer)
	return offer, err
}

func (c *Client) Comments(ctx context.Context, offerID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.do(ctx, http.MethodGet, "/comments/:id", "/comments/"+url.PathEscape(offerID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

type postCommentRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

func (c *Client) PostComment(ctx context.Context, offerID, comment string, rating int) (domain.Review, error) {
	var review domain.Review
	body := postCommentRequest{Comment: comment, Rating: rating}
	err := c.do(ctx, http.MethodPost, "/comments/:id", "/comments/"+url.PathEscape(offerID), body, &review)
	return review, err
}

// CheckAuth probes the session the stored token belongs to.
func (c *Client) CheckAuth(ctx context.Context) (domain.AuthInfo, error) {
	var info domain.AuthInfo
	err := c.do(ctx, http.MethodGet, "/login", "/login", nil, &info)
	return info, err
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthInfo, error) {
	var info domain.AuthInfo
	err := c.do(ctx, http.MethodPost, "/login", "/login", loginRequest{Email: email, Password: password}, &info)
	return info, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/logout", "/logout", nil, nil)
}
