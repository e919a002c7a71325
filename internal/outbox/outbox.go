// Package outbox keeps the append-only log of committed notifications and
// optionally fans them out to an external publisher.
package outbox

import (
	"context"
	"log"
	"sync"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

// Publisher delivers a notification to an external subscriber channel, such
// as a message broker.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// Outbox records every committed notification in append order. Reads are
// consistent snapshots; an entry is never dropped, even when the publisher
// fails, which is what makes delivery at-least-once: a subscriber can always
// re-read the log.
type Outbox struct {
	mu        sync.RWMutex
	entries   []domain.Notification
	publisher Publisher
}

// New returns an empty outbox. publisher may be nil.
func New(publisher Publisher) *Outbox {
	return &Outbox{publisher: publisher}
}

// Append records a committed notification and forwards it to the publisher
// when one is configured. A publish failure is logged, not surfaced: the
// state change is already committed and the log retains the entry.
func (o *Outbox) Append(ctx context.Context, n domain.Notification) {
	o.mu.Lock()
	o.entries = append(o.entries, n)
	o.mu.Unlock()

	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, n); err != nil {
		log.Printf("outbox: publish %s: %v", n.Kind(), err)
	}
}

// All returns every notification in append order.
func (o *Outbox) All() []domain.Notification {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]domain.Notification, len(o.entries))
	copy(out, o.entries)
	return out
}

// ForEvent returns one event's history in append order.
func (o *Outbox) ForEvent(eventID string) []domain.Notification {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var out []domain.Notification
	for _, n := range o.entries {
		if n.EventID() == eventID {
			out = append(out, n)
		}
	}
	return out
}

// Len reports the number of recorded notifications.
func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}
