package domain

import "encoding/json"

// OfferKind discriminates the two shapes an offer arrives in.
type OfferKind int

const (
	KindSummary OfferKind = iota
	KindDetailed
)

func (k OfferKind) String() string {
	if k == KindDetailed {
		return "detailed"
	}
	return "summary"
}

// Location is a point on the map with the zoom level the map should use for it.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

// Host is the person renting the offer out.
type Host struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// OfferDetails holds the fields only the detailed shape carries.
type OfferDetails struct {
	Description string   `json:"description"`
	Bedrooms    int      `json:"bedrooms"`
	MaxAdults   int      `json:"maxAdults"`
	Goods       []string `json:"goods"`
	Host        Host     `json:"host"`
	Images      []string `json:"images"`
}

// Offer is a rentable listing. Details is nil for the summary shape.
type Offer struct {
	ID           string
	Title        string
	Type         string
	Price        int
	Rating       float64
	IsPremium    bool
	IsFavorite   bool
	PreviewImage string
	City         City
	Location     Location

	Details *OfferDetails
}

func (o Offer) Kind() OfferKind {
	if o.Details != nil {
		return KindDetailed
	}
	return KindSummary
}

// Clone returns a deep copy so that containers never share slices.
func (o Offer) Clone() Offer {
	if o.Details != nil {
		d := *o.Details
		d.Goods = append([]string(nil), o.Details.Goods...)
		d.Images = append([]string(nil), o.Details.Images...)
		o.Details = &d
	}
	return o
}

// offerWire is the flat JSON shape the six-cities API uses for both variants.
type offerWire struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Price        int      `json:"price"`
	Rating       float64  `json:"rating"`
	IsPremium    bool     `json:"isPremium"`
	IsFavorite   bool     `json:"isFavorite"`
	PreviewImage string   `json:"previewImage,omitempty"`
	City         City     `json:"city"`
	Location     Location `json:"location"`

	Description *string  `json:"description,omitempty"`
	Bedrooms    int      `json:"bedrooms,omitempty"`
	MaxAdults   int      `json:"maxAdults,omitempty"`
	Goods       []string `json:"goods,omitempty"`
	Host        *Host    `json:"host,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func (o Offer) MarshalJSON() ([]byte, error) {
	w := offerWire{
		ID:           o.ID,
		Title:        o.Title,
		Type:         o.Type,
		Price:        o.Price,
		Rating:       o.Rating,
		IsPremium:    o.IsPremium,
		IsFavorite:   o.IsFavorite,
		PreviewImage: o.PreviewImage,
		City:         o.City,
		Location:     o.Location,
	}
	if d := o.Details; d != nil {
		desc := d.Description
		host := d.Host
		w.Description = &desc
		w.Bedrooms = d.Bedrooms
		w.MaxAdults = d.MaxAdults
		w.Goods = d.Goods
		w.Host = &host
		w.Images = d.Images
	}
	return json.Marshal(w)
}

// UnmarshalJSON treats the payload as detailed when it carries a description,
// a host or an image list.
func (o *Offer) UnmarshalJSON(data []byte) error {
	var w offerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*o = Offer{
		ID:           w.ID,
		Title:        w.Title,
		Type:         w.Type,
		Price:        w.Price,
		Rating:       w.Rating,
		IsPremium:    w.IsPremium,
		IsFavorite:   w.IsFavorite,
		PreviewImage: w.PreviewImage,
		City:         w.City,
		Location:     w.Location,
	}

	if w.Description == nil && w.Host == nil && w.Images == nil {
		return nil
	}

	d := &OfferDetails{
		Bedrooms:  w.Bedrooms,
		MaxAdults: w.MaxAdults,
		Goods:     w.Goods,
		Images:    w.Images,
	}
	if w.Description != nil {
		d.Description = *w.Description
	}
	if w.Host != nil {
		d.Host = *w.Host
	}
	o.Details = d
	return nil
}
