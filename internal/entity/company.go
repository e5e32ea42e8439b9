package entity

import (
	"encoding/json"
)

// NotAvailable is emitted for optional text fields the provider did not supply.
const NotAvailable = "N/A"

// SizeTier is the popularity-derived size classification of a business.
type SizeTier string

// Size tiers, ordered by ascending review volume.
const (
	SizeSmall  SizeTier = "Small"
	SizeMedium SizeTier = "Medium"
	SizeLarge  SizeTier = "Large"
)

// Valid reports whether t is one of the known tiers.
func (t SizeTier) Valid() bool {
	switch t {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	default:
		return false
	}
}

// CompanyRecord is one collected business as written to the output dataset.
type CompanyRecord struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Neighborhood string   `json:"neighborhood"`
	Street       string   `json:"street"`
	City         string   `json:"city"`
	Rating       float64  `json:"rating"`
	RatingsCount int      `json:"ratingsCount"`
	Phone        string   `json:"phone"`
	PhoneE164    string   `json:"phoneE164,omitempty"`
	CategoryTags []string `json:"categoryTags"`
	Location     Location `json:"location"`
	SocialLinks  []string `json:"socialLinks"`
	SizeTier     SizeTier `json:"sizeTier"`
}

// Location holds coordinates. A Location without coordinates serializes as {}.
type Location struct {
	Lat   float64
	Lng   float64
	Valid bool
}

type latLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// NewLocation returns a populated Location.
func NewLocation(lat, lng float64) Location {
	return Location{Lat: lat, Lng: lng, Valid: true}
}

// MarshalJSON implements json.Marshaler.
func (l Location) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("{}"), nil
	}
	return json.Marshal(latLng{Lat: &l.Lat, Lng: &l.Lng})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw latLng
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Lat == nil || raw.Lng == nil {
		*l = Location{}
		return nil
	}
	*l = NewLocation(*raw.Lat, *raw.Lng)
	return nil
}
