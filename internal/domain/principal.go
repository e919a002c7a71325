package domain

// Principal is an opaque caller identity supplied by the authentication
// layer (an account id or address). The registry never interprets it beyond
// equality.
type Principal string

// Role is a capability tag a principal may hold. Membership has no expiry.
type Role string

const (
	// RoleAdmin may grant and revoke roles and manage any event's lifecycle.
	RoleAdmin Role = "admin"
	// RoleEventCreator may create events and manage their lifecycle.
	RoleEventCreator Role = "event-creator"
)

// Payee identifies which party's share of an event's proceeds a ledger
// balance belongs to.
type Payee string

const (
	PayeePlatform  Payee = "platform"
	PayeeOrganizer Payee = "organizer"
)
