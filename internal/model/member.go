package model

import "time"

// Member is a cinema club member as stored in the `members` table. The
// membership tier drives the discount applied at purchase time.
//
// Fields:
//
//	ID        – primary key identifier (matches the auth provider subject).
//	Email     – contact address.
//	Name      – display name.
//	Tier      – individual, family, patron, lifetime or none.
//	CreatedAt – timestamp of creation.
type Member struct {
	ID        uint64    // members.id
	Email     string    // members.email
	Name      string    // members.name
	Tier      string    // members.tier
	CreatedAt time.Time // members.created_at
}
