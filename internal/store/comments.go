package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"unicode/utf8"

	"sixcities/internal/domain"
)

type CommentsAPI interface {
	Comments(ctx context.Context, offerID string) ([]domain.Review, error)
	PostComment(ctx context.Context, offerID, comment string, rating int) (domain.Review, error)
}

type CommentsState struct {
	Comments  map[string][]domain.Review `json:"comments"`
	Loading   bool                       `json:"loading"`
	Error     string                     `json:"error,omitempty"`
	Posting   bool                       `json:"posting"`
	PostError string                     `json:"postError,omitempty"`
}

// CommentsStore keeps reviews per offer id.
type CommentsStore struct {
	api CommentsAPI
	bus *Bus
	log *slog.Logger

	mu    sync.RWMutex
	state CommentsState
}

func NewCommentsStore(api CommentsAPI, bus *Bus, log *slog.Logger) *CommentsStore {
	return &CommentsStore{
		api:   api,
		bus:   bus,
		log:   log.With("component", "comments"),
		state: CommentsState{Comments: make(map[string][]domain.Review)},
	}
}

func (s *CommentsStore) State() CommentsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Comments = make(map[string][]domain.Review, len(s.state.Comments))
	for id, reviews := range s.state.Comments {
		st.Comments[id] = append([]domain.Review(nil), reviews...)
	}
	return st
}

// For returns the reviews stored for offerID in stored order.
func (s *CommentsStore) For(offerID string) []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews, ok := s.state.Comments[offerID]
	if !ok {
		return nil
	}
	return append([]domain.Review(nil), reviews...)
}

// Latest returns up to limit reviews of offerID, newest first.
// A non-positive limit returns them all.
func (s *CommentsStore) Latest(offerID string, limit int) []domain.Review {
	reviews := s.For(offerID)
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].PostedAt().After(reviews[j].PostedAt())
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}

func (s *CommentsStore) Fetch(ctx context.Context, offerID string) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	reviews, err := s.api.Comments(ctx, offerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errorMessage(err, msgLoadComments)
		s.log.Warn("fetch comments failed", "offer_id", offerID, "error", err)
		return err
	}
	s.state.Comments[offerID] = append([]domain.Review(nil), reviews...)
	return nil
}

// Post validates the review, sends it and puts the created review first in
// the offer's list.
func (s *CommentsStore) Post(ctx context.Context, offerID, comment string, rating int) (domain.Review, error) {
	if err := validateReview(comment, rating); err != nil {
		s.mu.Lock()
		s.state.PostError = err.Error()
		s.mu.Unlock()
		return domain.Review{}, err
	}

	s.mu.Lock()
	s.state.Posting = true
	s.state.PostError = ""
	s.mu.Unlock()

	review, err := s.api.PostComment(ctx, offerID, comment, rating)

	s.mu.Lock()
	s.state.Posting = false
	if err != nil {
		s.state.PostError = errorMessage(err, msgPostComment)
		s.mu.Unlock()
		s.log.Warn("post comment failed", "offer_id", offerID, "error", err)
		return domain.Review{}, err
	}
	existing := s.state.Comments[offerID]
	list := make([]domain.Review, 0, len(existing)+1)
	list = append(list, review)
	s.state.Comments[offerID] = append(list, existing...)
	s.mu.Unlock()

	posted := review
	s.bus.Publish(Event{Kind: EventCommentPosted, OfferID: offerID, Review: &posted})
	return review, nil
}

func (s *CommentsStore) ClearByOfferID(offerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.Comments, offerID)
}

func (s *CommentsStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Comments = make(map[string][]domain.Review)
}

func (s *CommentsStore) ClearPostError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PostError = ""
}

func validateReview(comment string, rating int) error {
	if rating < domain.MinReviewRating || rating > domain.MaxReviewRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	n := utf8.RuneCountInString(comment)
	if n < domain.MinReviewCommentLength || n > domain.MaxReviewCommentLength {
		return fmt.Errorf("%w: got %d", ErrInvalidComment, n)
	}
	return nil
}
