package model

import "time"

// ContactStatuses aliases the customer enum: contacts carry the same
// ACTIVE/ARCHIVED status values as their parent.
var ContactStatuses = CustomerStatuses

// Contact mirrors the `contacts` table. Every contact belongs to exactly
// one customer (customer_id is NOT NULL); the Customer field carries the
// reduced parent projection embedded in contact responses.
type Contact struct {
	ID         uint64       `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Status     string       `json:"status"`
	CustomerID uint64       `json:"customer_id"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Customer   *CustomerRef `json:"customer,omitempty"`
}

// CustomerRef is the reduced customer projection embedded in contact
// responses (id, status and email only).
type CustomerRef struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
	Email  string `json:"email"`
}
