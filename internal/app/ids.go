package app

import "github.com/google/uuid"

// newEventID allocates a collision-free event identifier. Events are never
// deleted, so the id is stable for the lifetime of the registry.
func newEventID() string {
	return uuid.NewString()
}
