package model

// Person is a filmmaker, performer or guest speaker listed in the catalog.
type Person struct {
	ID     uint64 `json:"id"`               // people.id
	Name   string `json:"name"`             // people.name
	Role   string `json:"role"`             // people.role
	Bio    string `json:"bio,omitempty"`    // people.bio
	TMDBID *int64 `json:"tmdbId,omitempty"` // people.tmdb_id (nullable)
}

// ExternalID reports the person's metadata id for enrichment.
func (p Person) ExternalID() (int64, bool) {
	if p.TMDBID == nil {
		return 0, false
	}
	return *p.TMDBID, true
}
