package model

// Venue is a screening location as published by the content store. It
// corresponds to a row in the `venues` table.
//
// Fields:
//
//	ID      – primary key identifier.
//	Name    – display name.
//	Slug    – URL-safe unique key used by the screening venue filter.
//	City    – city the venue is in.
//	Address – free-form street address.
type Venue struct {
	ID      uint64 `json:"id"`      // venues.id
	Name    string `json:"name"`    // venues.name
	Slug    string `json:"slug"`    // venues.slug
	City    string `json:"city"`    // venues.city
	Address string `json:"address"` // venues.address
}

// VenueRef is the one-hop projection of a venue embedded in screening rows.
type VenueRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
