package mockapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"sixcities/internal/domain"
)

// offerNamespace derives stable offer ids from the city and position.
var offerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://six-cities.local/offers"))

var (
	offerTypes = []string{"apartment", "room", "house", "hotel"}
	titles     = []string{
		"Beautiful & luxurious studio at great location",
		"Wood and stone place",
		"Canal View Prinsengracht",
		"Nice, cozy, warm big bed apartment",
		"The house among olive",
		"Waterfront with extraordinary view",
	}
	goods = []string{"Heating", "Kitchen", "Washing machine", "Wi-Fi", "Breakfast", "Cable TV", "Dishwasher", "Fridge"}
	hosts = []struct {
		name  string
		isPro bool
	}{{"Angelina", true}, {"Max", false}, {"Oliver", true}}
)

const offersPerCity = 4

// SeedOffers builds the deterministic offer set the stand-in serves.
func SeedOffers() []Offer {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []Offer
	n := 0
	for ci, city := range domain.Cities {
		for i := 0; i < offersPerCity; i++ {
			// spread offers on a small grid around the city centre
			lat := city.Location.Latitude + float64(i%2)*0.012 - 0.006 + float64(ci)*0.0001
			lng := city.Location.Longitude + float64(i/2)*0.015 - 0.0075
			host := hosts[n%len(hosts)]
			out = append(out, Offer{
				ID:           uuid.NewSHA1(offerNamespace, []byte(fmt.Sprintf("%s/%d", city.Name, i))).String(),
				Title:        titles[n%len(titles)],
				Type:         offerTypes[n%len(offerTypes)],
				Price:        80 + (n*37)%400,
				Rating:       float64(20+(n*7)%31) / 10,
				IsPremium:    n%3 == 0,
				PreviewImage: fmt.Sprintf("https://14.design.htmlacademy.pro/static/hotel/%d.jpg", n%20+1),
				CityName:     city.Name,
				Latitude:     lat,
				Longitude:    lng,
				Zoom:         16,
				Geohash:      geohash.EncodeWithPrecision(lat, lng, geohashChars),
				Description:  "A quiet cozy and picturesque that hides behind a river by the unique lightness of " + city.Name + ".",
				Bedrooms:     1 + n%4,
				MaxAdults:    2 + n%5,
				Goods:        goods[:3+n%(len(goods)-3)],
				Images: []string{
					fmt.Sprintf("https://14.design.htmlacademy.pro/static/hotel/%d.jpg", (n+1)%20+1),
					fmt.Sprintf("https://14.design.htmlacademy.pro/static/hotel/%d.jpg", (n+2)%20+1),
				},
				HostName:      host.name,
				HostAvatarURL: "https://14.design.htmlacademy.pro/static/host/avatar-angelina.jpg",
				HostIsPro:     host.isPro,
				CreatedAt:     base.Add(time.Duration(n) * time.Hour),
			})
			n++
		}
	}
	return out
}

// Seed inserts the offer set into an empty database.
func Seed(ctx context.Context, repo *Repository) (int, error) {
	n, err := repo.CountOffers(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	offers := SeedOffers()
	if err := repo.CreateOffers(ctx, offers); err != nil {
		return 0, fmt.Errorf("seed offers: %w", err)
	}
	return len(offers), nil
}
