package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SergejKubat/crypto-sports/internal/domain"
	"github.com/SergejKubat/crypto-sports/internal/storage/memory"
)

// notificationRecorder captures emitted notifications in order.
type notificationRecorder struct {
	mu      sync.Mutex
	entries []domain.Notification
}

func (r *notificationRecorder) Append(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, n)
}

func (r *notificationRecorder) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.entries))
	copy(out, r.entries)
	return out
}

type payout struct {
	to     domain.Principal
	amount domain.Amount
}

// payoutRecorder captures treasury transfers; a non-nil err fails every
// payout.
type payoutRecorder struct {
	mu      sync.Mutex
	err     error
	payouts []payout
}

func (r *payoutRecorder) Payout(_ context.Context, to domain.Principal, amount domain.Amount) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts = append(r.payouts, payout{to: to, amount: amount})
	return nil
}

func (r *payoutRecorder) all() []payout {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]payout, len(r.payouts))
	copy(out, r.payouts)
	return out
}

func grantRole(t *testing.T, store *memory.Store, role domain.Role, principal domain.Principal) {
	t.Helper()
	if _, err := store.GrantRole(context.Background(), role, principal); err != nil {
		t.Fatalf("grant %s to %s: %v", role, principal, err)
	}
}

// seedEvent inserts the reference fixture: four tiers with stock
// [100, 50, 25, 5] priced [5, 10, 25, 50] base units.
func seedEvent(t *testing.T, store *memory.Store, id string, organizer domain.Principal, endsAt time.Time) domain.Event {
	t.Helper()

	event := domain.Event{
		ID:        id,
		Creator:   "super-admin",
		Organizer: organizer,
		Metadata:  domain.EventMetadata{BaseURI: "https://example.com/", Name: "Test Event 123", Symbol: "CRYPTO"},
		Status:    domain.EventStatusActive,
		TicketTypes: []domain.TicketType{
			{Initial: 100, Remaining: 100, UnitPrice: 5},
			{Initial: 50, Remaining: 50, UnitPrice: 10},
			{Initial: 25, Remaining: 25, UnitPrice: 25},
			{Initial: 5, Remaining: 5, UnitPrice: 50},
		},
		EndsAt:    endsAt,
		CreatedAt: endsAt.Add(-2 * time.Hour),
	}
	if err := store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}
