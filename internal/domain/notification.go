package domain

import "time"

// Notification is an observable record of a committed state change. Each
// carries every parameter needed to reconstruct the change; consumers never
// have to query the registry to interpret one.
type Notification interface {
	// Kind is a stable discriminator for serialized envelopes.
	Kind() string
	// EventID scopes the notification to one event's history, or is empty
	// for registry-wide changes such as role management.
	EventID() string
}

type EventCreated struct {
	ID        string    `json:"event_id"`
	Creator   Principal `json:"creator"`
	BaseURI   string    `json:"base_uri"`
	Name      string    `json:"name"`
	EndsAt    time.Time `json:"ends_at"`
	Organizer Principal `json:"organizer"`
}

func (n EventCreated) Kind() string    { return "event.created" }
func (n EventCreated) EventID() string { return n.ID }

type EventPaused struct {
	ID string `json:"event_id"`
}

func (n EventPaused) Kind() string    { return "event.paused" }
func (n EventPaused) EventID() string { return n.ID }

type EventUnpaused struct {
	ID string `json:"event_id"`
}

func (n EventUnpaused) Kind() string    { return "event.unpaused" }
func (n EventUnpaused) EventID() string { return n.ID }

type TicketsSold struct {
	ID          string    `json:"event_id"`
	Buyer       Principal `json:"buyer"`
	TicketTypes []int     `json:"ticket_types"`
	TotalPrice  Amount    `json:"total_price"`
}

func (n TicketsSold) Kind() string    { return "tickets.sold" }
func (n TicketsSold) EventID() string { return n.ID }

type RoleGranted struct {
	Role      Role      `json:"role"`
	Principal Principal `json:"principal"`
	GrantedBy Principal `json:"granted_by"`
}

func (n RoleGranted) Kind() string    { return "role.granted" }
func (n RoleGranted) EventID() string { return "" }

type RoleRevoked struct {
	Role      Role      `json:"role"`
	Principal Principal `json:"principal"`
	RevokedBy Principal `json:"revoked_by"`
}

func (n RoleRevoked) Kind() string    { return "role.revoked" }
func (n RoleRevoked) EventID() string { return "" }
