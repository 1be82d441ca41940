package domain

import (
	"sort"
	"strings"
)

type City struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Cities is the fixed set of cities the client lets the user browse.
var Cities = []City{
	{Name: "Paris", Location: Location{Latitude: 48.85661, Longitude: 2.351499, Zoom: 13}},
	{Name: "Cologne", Location: Location{Latitude: 50.938361, Longitude: 6.959974, Zoom: 13}},
	{Name: "Brussels", Location: Location{Latitude: 50.846557, Longitude: 4.351697, Zoom: 13}},
	{Name: "Amsterdam", Location: Location{Latitude: 52.37454, Longitude: 4.897976, Zoom: 13}},
	{Name: "Hamburg", Location: Location{Latitude: 53.550341, Longitude: 10.000654, Zoom: 13}},
	{Name: "Dusseldorf", Location: Location{Latitude: 51.225402, Longitude: 6.776314, Zoom: 13}},
}

// DefaultCity is selected until the user picks another one.
func DefaultCity() City {
	return Cities[0]
}

// CityByName looks a supported city up case-insensitively.
func CityByName(name string) (City, bool) {
	for _, c := range Cities {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return City{}, false
}

type SortOption string

const (
	SortPopular        SortOption = "popular"
	SortPriceLowToHigh SortOption = "price-low-to-high"
	SortPriceHighToLow SortOption = "price-high-to-low"
	SortTopRated       SortOption = "top-rated"
)

const DefaultSortOption = SortPopular

var SortOptions = []SortOption{SortPopular, SortPriceLowToHigh, SortPriceHighToLow, SortTopRated}

func (s SortOption) Valid() bool {
	for _, o := range SortOptions {
		if o == s {
			return true
		}
	}
	return false
}

// FilterByCity keeps the offers located in the named city, preserving order.
func FilterByCity(offers []Offer, cityName string) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.City.Name == cityName {
			out = append(out, o)
		}
	}
	return out
}

// SortOffers returns a sorted copy. Popular keeps the server order.
func SortOffers(offers []Offer, by SortOption) []Offer {
	out := append([]Offer(nil), offers...)
	switch by {
	case SortPriceLowToHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHighToLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortTopRated:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// GroupByCity groups offers by city name in the order cities first appear.
// The favorites view renders one section per city.
type CityGroup struct {
	City   string  `json:"city"`
	Offers []Offer `json:"offers"`
}

func GroupByCity(offers []Offer) []CityGroup {
	var groups []CityGroup
	index := make(map[string]int)
	for _, o := range offers {
		i, ok := index[o.City.Name]
		if !ok {
			i = len(groups)
			index[o.City.Name] = i
			groups = append(groups, CityGroup{City: o.City.Name})
		}
		groups[i].Offers = append(groups[i].Offers, o)
	}
	return groups
}
