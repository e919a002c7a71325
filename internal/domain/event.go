package domain

import "time"

type EventStatus string

const (
	EventStatusActive EventStatus = "active"
	EventStatusPaused EventStatus = "paused"
)

// EventMetadata is the descriptive part of an event, carried verbatim in
// the Created notification.
type EventMetadata struct {
	BaseURI string
	Name    string
	Symbol  string
}

// TicketType is one price tier of an event. The set of tiers is fixed at
// creation; Remaining only ever decreases and never exceeds Initial.
type TicketType struct {
	Initial   int
	Remaining int
	UnitPrice Amount
}

// Event is a sellable occasion with its own tiered inventory, revenue
// split and lifecycle status. Everything but Status and the Remaining
// counters is immutable after creation.
type Event struct {
	ID          string
	Creator     Principal
	Organizer   Principal
	Metadata    EventMetadata
	Status      EventStatus
	TicketTypes []TicketType
	EndsAt      time.Time
	CreatedAt   time.Time
}

// Clone returns a deep copy; the ticket type slice must not be shared
// between the store and callers.
func (e Event) Clone() Event {
	out := e
	out.TicketTypes = make([]TicketType, len(e.TicketTypes))
	copy(out.TicketTypes, e.TicketTypes)
	return out
}
