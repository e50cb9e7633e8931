package model

import "time"

// Customer and contact rows share the same status enum.
const (
	StatusActive   = "ACTIVE"
	StatusArchived = "ARCHIVED"
)

// CustomerStatuses lists every valid customers.status value.
var CustomerStatuses = []string{StatusActive, StatusArchived}

// Customer mirrors the `customers` table. Contacts is populated by the
// repository when customers are read with their owned contacts.
type Customer struct {
	ID        uint64       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Contacts  []ContactRef `json:"contacts"`
}

// ContactRef is the reduced contact projection embedded in customer
// responses (id, name and status only).
type ContactRef struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
