package models

import "time"

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ListingType string `json:"listing_type"`
}

// Ref returns the embedded form stored on listings.
func (c Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

type Campus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	EmailDomain string `json:"email_domain"`
}

type Photo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CampusSlug  string `json:"campus_slug,omitempty"`
}

// Listing is a catalog entry. It is serialised as-is both in API responses
// and in the listings table document column.
type Listing struct {
	ID                string      `json:"id"`
	Type              string      `json:"type"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	PriceHint         *string     `json:"price_hint"`
	Category          CategoryRef `json:"category"`
	LocationType      string      `json:"location_type"`
	LocationHint      *string     `json:"location_hint"`
	Availability      *string     `json:"availability"`
	ContactPreference string      `json:"contact_preference"`
	Status            string      `json:"status"`
	ViewCount         int         `json:"view_count"`
	Photos            []Photo     `json:"photos"`
	Owner             Owner       `json:"owner"`
	IsFavorited       bool        `json:"is_favorited"`
	IsOwn             bool        `json:"is_own"`
	CreatedAt         time.Time   `json:"created_at"`
	ExpiresAt         time.Time   `json:"expires_at"`
}

// Clone returns a copy that shares no mutable state with l.
func (l Listing) Clone() Listing {
	c := l
	c.Photos = append([]Photo(nil), l.Photos...)
	if c.Photos == nil {
		c.Photos = []Photo{}
	}
	c.PriceHint = cloneString(l.PriceHint)
	c.LocationHint = cloneString(l.LocationHint)
	c.Availability = cloneString(l.Availability)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
