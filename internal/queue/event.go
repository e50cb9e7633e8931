// Package queue defines message payloads exchanged over the message broker.
package queue

// EntityEvent is published whenever a user, customer or contact is
// created, updated or deleted. It carries enough information for
// downstream consumers to build an audit trail without querying the
// primary database.
type EntityEvent struct {
	Entity     string `json:"entity"`                // "user" | "customer" | "contact"
	Action     string `json:"action"`                // "created" | "updated" | "deleted"
	EntityID   uint64 `json:"entity_id"`
	CustomerID uint64 `json:"customer_id,omitempty"` // parent id for contact events
	ActorID    uint64 `json:"actor_id,omitempty"`    // authenticated user, 0 for signup
	OccurredAt string `json:"occurred_at"`
}
