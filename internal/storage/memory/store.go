// Package memory implements the registry store as a single mutex-serialized
// table in process memory. Transactions take the write lock for their whole
// extent and roll back by restoring a snapshot, so no caller ever observes
// a half-applied mutation; read-only queries share the read lock and see
// committed state only.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SergejKubat/crypto-sports/internal/domain"
	"github.com/SergejKubat/crypto-sports/internal/storage/txhook"
)

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(struct{})
	return ok
}

type purchaseKey struct {
	buyer   domain.Principal
	eventID string
}

type balanceKey struct {
	eventID string
	payee   domain.Payee
}

type state struct {
	roles     map[domain.Role]map[domain.Principal]struct{}
	events    map[string]domain.Event
	purchases map[purchaseKey]int
	balances  map[balanceKey]domain.Amount
}

func newState() state {
	return state{
		roles:     make(map[domain.Role]map[domain.Principal]struct{}),
		events:    make(map[string]domain.Event),
		purchases: make(map[purchaseKey]int),
		balances:  make(map[balanceKey]domain.Amount),
	}
}

func (st state) clone() state {
	out := newState()
	for role, members := range st.roles {
		m := make(map[domain.Principal]struct{}, len(members))
		for p := range members {
			m[p] = struct{}{}
		}
		out.roles[role] = m
	}
	for id, event := range st.events {
		out.events[id] = event.Clone()
	}
	for k, v := range st.purchases {
		out.purchases[k] = v
	}
	for k, v := range st.balances {
		out.balances[k] = v
	}
	return out
}

type Store struct {
	mu    sync.RWMutex
	state state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// WithTx serializes fn against all other transactions and restores the
// pre-transaction snapshot when fn fails. Nested calls join the open
// transaction. Commit hooks run before the lock is released, so their order
// always matches the commit order.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	txCtx, hooks := txhook.With(context.WithValue(ctx, txKey{}, struct{}{}))
	if err := fn(txCtx); err != nil {
		s.state = snapshot
		return err
	}
	hooks.Run(ctx)
	return nil
}

// rlock takes the shared lock for a read outside a transaction; inside one
// the exclusive lock is already held.
func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// lock takes the exclusive lock for a single-statement mutation outside a
// transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	defer s.rlock(ctx)()

	_, ok := s.state.roles[role][principal]
	return ok, nil
}

func (s *Store) GrantRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	defer s.lock(ctx)()

	members, ok := s.state.roles[role]
	if !ok {
		members = make(map[domain.Principal]struct{})
		s.state.roles[role] = members
	}
	if _, held := members[principal]; held {
		return false, nil
	}
	members[principal] = struct{}{}
	return true, nil
}

func (s *Store) RevokeRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	defer s.lock(ctx)()

	members := s.state.roles[role]
	if _, held := members[principal]; !held {
		return false, nil
	}
	delete(members, principal)
	return true, nil
}

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	defer s.lock(ctx)()

	if _, exists := s.state.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	s.state.events[event.ID] = event.Clone()
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	defer s.rlock(ctx)()

	return s.getEvent(id)
}

// GetEventForUpdate is GetEvent under the transaction lock; the store-wide
// mutex already gives every transaction exclusive access.
func (s *Store) GetEventForUpdate(ctx context.Context, id string) (domain.Event, error) {
	defer s.rlock(ctx)()

	return s.getEvent(id)
}

func (s *Store) getEvent(id string) (domain.Event, error) {
	event, ok := s.state.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event.Clone(), nil
}

func (s *Store) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	defer s.lock(ctx)()

	event, ok := s.state.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.Status = status
	s.state.events[id] = event
	return nil
}

func (s *Store) DecrementRemaining(ctx context.Context, eventID string, typeIndex, count int) error {
	defer s.lock(ctx)()

	event, ok := s.state.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if typeIndex < 0 || typeIndex >= len(event.TicketTypes) {
		return domain.ErrUnknownTicketType
	}
	if event.TicketTypes[typeIndex].Remaining < count {
		return domain.ErrSoldOut
	}
	event.TicketTypes[typeIndex].Remaining -= count
	s.state.events[eventID] = event
	return nil
}

func (s *Store) AddPurchases(ctx context.Context, buyer domain.Principal, eventID string, count int) error {
	defer s.lock(ctx)()

	s.state.purchases[purchaseKey{buyer: buyer, eventID: eventID}] += count
	return nil
}

func (s *Store) GetPurchases(ctx context.Context, buyer domain.Principal, eventID string) (int, error) {
	defer s.rlock(ctx)()

	return s.state.purchases[purchaseKey{buyer: buyer, eventID: eventID}], nil
}

func (s *Store) CreditBalance(ctx context.Context, eventID string, payee domain.Payee, amount domain.Amount) error {
	defer s.lock(ctx)()

	s.state.balances[balanceKey{eventID: eventID, payee: payee}] += amount
	return nil
}

func (s *Store) GetBalance(ctx context.Context, eventID string, payee domain.Payee) (domain.Amount, error) {
	defer s.rlock(ctx)()

	return s.state.balances[balanceKey{eventID: eventID, payee: payee}], nil
}

func (s *Store) ZeroBalance(ctx context.Context, eventID string, payee domain.Payee) (domain.Amount, error) {
	defer s.lock(ctx)()

	key := balanceKey{eventID: eventID, payee: payee}
	amount := s.state.balances[key]
	s.state.balances[key] = 0
	return amount, nil
}
