package domain

import "time"

type ReviewUser struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// Review is a user's comment on an offer. Date is the ISO 8601 timestamp
// the server assigned.
type Review struct {
	ID      string     `json:"id"`
	Comment string     `json:"comment"`
	Rating  int        `json:"rating"`
	Date    string     `json:"date"`
	User    ReviewUser `json:"user"`
}

// PostedAt parses Date; a malformed value yields the zero time.
func (r Review) PostedAt() time.Time {
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

const (
	MinReviewRating        = 1
	MaxReviewRating        = 5
	MinReviewCommentLength = 50
	MaxReviewCommentLength = 300
)
