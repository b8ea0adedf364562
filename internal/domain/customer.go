package domain

import "time"

// CustomerRecord is an append-only directory entry associating a phone
// number with the name last seen at ticket creation. Keyed by the
// normalized phone; never updated or deleted.
type CustomerRecord struct {
	ID              string
	Name            string
	Phone           string
	PhoneNormalized string
	CreatedAt       time.Time
}
