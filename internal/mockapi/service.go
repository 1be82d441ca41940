package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"golang.org/x/crypto/bcrypt"

	"sixcities/internal/domain"
	"sixcities/internal/pkg/jwt"
)

var (
	ErrOfferNotFound   = errors.New("offer not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrAlreadyFavorite = errors.New("offer is already in favorites")
	ErrNotFavorite     = errors.New("offer is not in favorites")
)

const (
	nearbyLimit   = 3
	geohashChars  = 9
	defaultAvatar = "https://14.design.htmlacademy.pro/static/avatar/1.jpg"
)

type Service struct {
	repo *Repository
	jwt  *jwt.Service
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo *Repository, j *jwt.Service, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		jwt:  j,
		log:  log.With("component", "mockapi"),
		now:  time.Now,
	}
}

func (s *Service) Offers(ctx context.Context, userID int64) ([]domain.Offer, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, err
	}
	favs, err := s.repo.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offer, len(offers))
	for i, o := range offers {
		out[i] = o.toDomain(favs[o.ID], false)
	}
	return out, nil
}

func (s *Service) Offer(ctx context.Context, userID int64, id string) (domain.Offer, error) {
	o, err := s.offer(ctx, id)
	if err != nil {
		return domain.Offer{}, err
	}
	favs, err := s.repo.FavoriteIDs(ctx, userID)
	if err != nil {
		return domain.Offer{}, err
	}
	return o.toDomain(favs[o.ID], true), nil
}

// Nearby returns the offers of the same city closest to the given one.
// Candidates sharing a longer geohash prefix rank first; ties go to the
// smaller distance between cell centres.
func (s *Service) Nearby(ctx context.Context, userID int64, id string) ([]domain.Offer, error) {
	o, err := s.offer(ctx, id)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.OffersInCity(ctx, o.CityName, o.ID)
	if err != nil {
		return nil, err
	}
	favs, err := s.repo.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	origin := hashOf(*o)
	oLat, oLng := geohash.DecodeCenter(origin)
	type ranked struct {
		offer  Offer
		prefix int
		dist   float64
	}
	list := make([]ranked, len(candidates))
	for i, c := range candidates {
		h := hashOf(c)
		lat, lng := geohash.DecodeCenter(h)
		list[i] = ranked{
			offer:  c,
			prefix: commonPrefix(origin, h),
			dist:   (lat-oLat)*(lat-oLat) + (lng-oLng)*(lng-oLng),
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].prefix != list[j].prefix {
			return list[i].prefix > list[j].prefix
		}
		return list[i].dist < list[j].dist
	})

	if len(list) > nearbyLimit {
		list = list[:nearbyLimit]
	}
	out := make([]domain.Offer, len(list))
	for i, r := range list {
		out[i] = r.offer.toDomain(favs[r.offer.ID], false)
	}
	return out, nil
}

func (s *Service) Favorites(ctx context.Context, userID int64) ([]domain.Offer, error) {
	offers, err := s.repo.FavoriteOffers(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offer, len(offers))
	for i, o := range offers {
		out[i] = o.toDomain(true, false)
	}
	return out, nil
}

// SetFavorite adds (status true) or removes the offer and returns it in the
// detailed shape with the new flag.
func (s *Service) SetFavorite(ctx context.Context, userID int64, offerID string, status bool) (domain.Offer, error) {
	o, err := s.offer(ctx, offerID)
	if err != nil {
		return domain.Offer{}, err
	}

	if status {
		err = s.repo.AddFavorite(ctx, userID, offerID)
		if errors.Is(err, ErrDuplicate) {
			return domain.Offer{}, fmt.Errorf("%w: %s", ErrAlreadyFavorite, offerID)
		}
	} else {
		err = s.repo.RemoveFavorite(ctx, userID, offerID)
		if errors.Is(err, ErrNotFound) {
			return domain.Offer{}, fmt.Errorf("%w: %s", ErrNotFavorite, offerID)
		}
	}
	if err != nil {
		return domain.Offer{}, err
	}
	return o.toDomain(status, true), nil
}

func (s *Service) Reviews(ctx context.Context, offerID string) ([]domain.Review, error) {
	if _, err := s.offer(ctx, offerID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.Reviews(ctx, offerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, len(reviews))
	for i, r := range reviews {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *Service) AddReview(ctx context.Context, userID int64, offerID, comment string, rating int) (domain.Review, error) {
	if _, err := s.offer(ctx, offerID); err != nil {
		return domain.Review{}, err
	}
	r := &Review{
		ID:        uuid.NewString(),
		OfferID:   offerID,
		UserID:    userID,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateReview(ctx, r); err != nil {
		return domain.Review{}, err
	}
	if err := s.repo.UpdateRating(ctx, offerID); err != nil {
		s.log.Warn("update rating failed", "offer_id", offerID, "error", err)
	}
	return r.toDomain(), nil
}

// Login signs a user in. An unknown email registers a new user with the
// given password.
func (s *Service) Login(ctx context.Context, email, password string) (domain.AuthInfo, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.UserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u, err = s.register(ctx, email, password)
		if err != nil {
			return domain.AuthInfo{}, err
		}
	case err != nil:
		return domain.AuthInfo{}, err
	default:
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return domain.AuthInfo{}, ErrWrongPassword
		}
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email)
	if err != nil {
		return domain.AuthInfo{}, fmt.Errorf("generate token: %w", err)
	}
	return domain.AuthInfo{UserProfile: u.profile(), Token: token}, nil
}

// Session describes the holder of a valid token.
func (s *Service) Session(ctx context.Context, userID int64, token string) (domain.AuthInfo, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.AuthInfo{}, ErrUserNotFound
	}
	if err != nil {
		return domain.AuthInfo{}, err
	}
	return domain.AuthInfo{UserProfile: u.profile(), Token: token}, nil
}

func (s *Service) register(ctx context.Context, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		Email:        email,
		Name:         strings.SplitN(email, "@", 2)[0],
		AvatarURL:    defaultAvatar,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

func (s *Service) offer(ctx context.Context, id string) (*Offer, error) {
	o, err := s.repo.GetOffer(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOfferNotFound, id)
	}
	return o, err
}

func hashOf(o Offer) string {
	if len(o.Geohash) >= geohashChars {
		return o.Geohash
	}
	return geohash.EncodeWithPrecision(o.Latitude, o.Longitude, geohashChars)
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
