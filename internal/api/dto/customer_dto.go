package dto

import "time"

// CustomerResponse is one directory entry.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerLookupResponse is the prefill answer for a phone lookup.
type CustomerLookupResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
