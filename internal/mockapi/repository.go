package mockapi

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&User{}, &Offer{}, &Favorite{}, &Review{})
}

func (r *Repository) CountOffers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Offer{}).Count(&n).Error
	return n, err
}

func (r *Repository) CreateOffers(ctx context.Context, offers []Offer) error {
	return r.db.WithContext(ctx).Create(&offers).Error
}

func (r *Repository) ListOffers(ctx context.Context) ([]Offer, error) {
	var offers []Offer
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&offers).Error
	return offers, err
}

func (r *Repository) GetOffer(ctx context.Context, id string) (*Offer, error) {
	var o Offer
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *Repository) OffersInCity(ctx context.Context, city, excludeID string) ([]Offer, error) {
	var offers []Offer
	err := r.db.WithContext(ctx).
		Where("city_name = ? AND id <> ?", city, excludeID).
		Find(&offers).Error
	return offers, err
}

// FavoriteIDs returns the set of offer ids the user saved.
func (r *Repository) FavoriteIDs(ctx context.Context, userID int64) (map[string]bool, error) {
	ids := make(map[string]bool)
	if userID == 0 {
		return ids, nil
	}
	var favs []Favorite
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&favs).Error; err != nil {
		return nil, err
	}
	for _, f := range favs {
		ids[f.OfferID] = true
	}
	return ids, nil
}

func (r *Repository) FavoriteOffers(ctx context.Context, userID int64) ([]Offer, error) {
	var offers []Offer
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.offer_id = offers.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at ASC").
		Find(&offers).Error
	return offers, err
}

// AddFavorite fails with ErrDuplicate when the offer is already saved.
func (r *Repository) AddFavorite(ctx context.Context, userID int64, offerID string) error {
	err := r.db.WithContext(ctx).Create(&Favorite{UserID: userID, OfferID: offerID}).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// RemoveFavorite fails with ErrNotFound when there was nothing to remove.
func (r *Repository) RemoveFavorite(ctx context.Context, userID int64, offerID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		Delete(&Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Reviews(ctx context.Context, offerID string) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("offer_id = ?", offerID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *Repository) CreateReview(ctx context.Context, review *Review) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(review).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("User").First(review, "id = ?", review.ID).Error
}

// UpdateRating stores the mean of the offer's review ratings, one decimal.
func (r *Repository) UpdateRating(ctx context.Context, offerID string) error {
	var avg float64
	err := r.db.WithContext(ctx).Model(&Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("offer_id = ?", offerID).
		Scan(&avg).Error
	if err != nil {
		return err
	}
	rounded := float64(int(avg*10+0.5)) / 10
	return r.db.WithContext(ctx).Model(&Offer{}).Where("id = ?", offerID).Update("rating", rounded).Error
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repository) UserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repository) CreateUser(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation recognises duplicate keys from Postgres (23505) and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
