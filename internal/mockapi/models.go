package mockapi

import (
	"time"

	"sixcities/internal/domain"
)

type User struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	AvatarURL    string
	IsPro        bool
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (User) TableName() string { return "users" }

func (u User) profile() domain.UserProfile {
	return domain.UserProfile{Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL, IsPro: u.IsPro}
}

type Offer struct {
	ID           string `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Type         string `gorm:"not null"`
	Price        int
	Rating       float64
	IsPremium    bool
	PreviewImage string
	CityName     string `gorm:"index;not null"`
	Latitude     float64
	Longitude    float64
	Zoom         int
	Geohash      string `gorm:"index"`

	Description   string
	Bedrooms      int
	MaxAdults     int
	Goods         []string `gorm:"serializer:json"`
	Images        []string `gorm:"serializer:json"`
	HostName      string
	HostAvatarURL string
	HostIsPro     bool

	CreatedAt time.Time
}

func (Offer) TableName() string { return "offers" }

func (o Offer) toDomain(isFavorite, detailed bool) domain.Offer {
	city, ok := domain.CityByName(o.CityName)
	if !ok {
		city = domain.City{Name: o.CityName}
	}
	out := domain.Offer{
		ID:           o.ID,
		Title:        o.Title,
		Type:         o.Type,
		Price:        o.Price,
		Rating:       o.Rating,
		IsPremium:    o.IsPremium,
		IsFavorite:   isFavorite,
		PreviewImage: o.PreviewImage,
		City:         city,
		Location:     domain.Location{Latitude: o.Latitude, Longitude: o.Longitude, Zoom: o.Zoom},
	}
	if detailed {
		out.Details = &domain.OfferDetails{
			Description: o.Description,
			Bedrooms:    o.Bedrooms,
			MaxAdults:   o.MaxAdults,
			Goods:       append([]string(nil), o.Goods...),
			Images:      append([]string(nil), o.Images...),
			Host:        domain.Host{Name: o.HostName, AvatarURL: o.HostAvatarURL, IsPro: o.HostIsPro},
		}
	}
	return out
}

type Favorite struct {
	UserID    int64  `gorm:"primaryKey"`
	OfferID   string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (Favorite) TableName() string { return "favorites" }

type Review struct {
	ID        string `gorm:"primaryKey"`
	OfferID   string `gorm:"index;not null"`
	UserID    int64  `gorm:"not null"`
	User      User
	Comment   string `gorm:"not null"`
	Rating    int    `gorm:"not null"`
	CreatedAt time.Time
}

func (Review) TableName() string { return "reviews" }

const reviewDateLayout = "2006-01-02T15:04:05.000Z07:00"

func (r Review) toDomain() domain.Review {
	return domain.Review{
		ID:      r.ID,
		Comment: r.Comment,
		Rating:  r.Rating,
		Date:    r.CreatedAt.UTC().Format(reviewDateLayout),
		User: domain.ReviewUser{
			Name:      r.User.Name,
			AvatarURL: r.User.AvatarURL,
			IsPro:     r.User.IsPro,
		},
	}
}
