package app

import (
	"context"
	"fmt"

	"github.com/SergejKubat/crypto-sports/internal/clock"
	"github.com/SergejKubat/crypto-sports/internal/config"
	"github.com/SergejKubat/crypto-sports/internal/domain"
	"github.com/SergejKubat/crypto-sports/internal/outbox"
)

// Store is the registry's single shared state: role membership, events with
// their inventories, purchase tallies and ledger balances. Every mutating
// operation runs inside WithTx and either fully commits or leaves no trace.
type Store interface {
	RoleRepository
	EventRepository
	SaleRepository
}

// Registry is the orchestrator behind the whole public operation surface.
// It composes access control, event lifecycle/inventory and the sale ledger
// over one store, and appends a notification to its outbox for every
// committed state change.
type Registry struct {
	store  Store
	clock  clock.Clock
	outbox *outbox.Outbox

	access *AccessService
	events *EventService
	sales  *SaleService

	fees            FeePolicy
	enforceEventEnd bool
	treasury        Treasury
	publisher       outbox.Publisher
}

type Option func(*Registry)

// WithFeePolicy overrides the default 10%/90% revenue split.
func WithFeePolicy(p FeePolicy) Option {
	return func(r *Registry) {
		r.fees = p
	}
}

// WithPurchaseCutoff toggles the end-time purchase rule. It is off by
// default, matching the reference deployment.
func WithPurchaseCutoff(enabled bool) Option {
	return func(r *Registry) {
		r.enforceEventEnd = enabled
	}
}

// WithTreasury sets the collaborator that performs refunds and withdrawal
// transfers after commit.
func WithTreasury(t Treasury) Option {
	return func(r *Registry) {
		if t != nil {
			r.treasury = t
		}
	}
}

// WithPublisher forwards every committed notification to an external
// publisher in addition to the outbox.
func WithPublisher(p outbox.Publisher) Option {
	return func(r *Registry) {
		r.publisher = p
	}
}

// FromConfig maps runtime configuration onto registry options.
func FromConfig(cfg config.Config) []Option {
	opts := []Option{
		WithPurchaseCutoff(cfg.EnforceEventEnd),
	}
	if cfg.PlatformFeeBps > 0 {
		opts = append(opts, WithFeePolicy(FeePolicy{PlatformBps: cfg.PlatformFeeBps}))
	}
	return opts
}

// New builds a registry over the given store and seeds superAdmin with the
// administrative and event-creator roles, mirroring the deployment flow.
func New(ctx context.Context, store Store, clk clock.Clock, superAdmin domain.Principal, opts ...Option) (*Registry, error) {
	r := &Registry{
		store:    store,
		clock:    clk,
		fees:     DefaultFeePolicy(),
		treasury: nopTreasury{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.outbox = outbox.New(r.publisher)
	r.access = NewAccessService(store, r.outbox)
	r.events = NewEventService(store, clk, r.outbox)
	r.sales = NewSaleService(store, clk, r.outbox, r.treasury, r.fees, r.enforceEventEnd)

	err := store.WithTx(ctx, func(txCtx context.Context) error {
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleEventCreator} {
			if _, err := store.GrantRole(txCtx, role, superAdmin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed super admin: %w", err)
	}
	return r, nil
}

// Outbox exposes the append-only log of committed notifications.
func (r *Registry) Outbox() *outbox.Outbox {
	return r.outbox
}

func (r *Registry) HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	return r.access.HasRole(ctx, role, principal)
}

func (r *Registry) GrantRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error {
	return r.access.GrantRole(ctx, caller, role, principal)
}

func (r *Registry) RevokeRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error {
	return r.access.RevokeRole(ctx, caller, role, principal)
}

func (r *Registry) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	return r.events.CreateEvent(ctx, in)
}

func (r *Registry) PauseEvent(ctx context.Context, caller domain.Principal, eventID string) error {
	return r.events.PauseEvent(ctx, caller, eventID)
}

func (r *Registry) UnpauseEvent(ctx context.Context, caller domain.Principal, eventID string) error {
	return r.events.UnpauseEvent(ctx, caller, eventID)
}

func (r *Registry) GetAmount(ctx context.Context, eventID string, typeIndex int) (int, error) {
	return r.events.GetAmount(ctx, eventID, typeIndex)
}

func (r *Registry) GetPrice(ctx context.Context, eventID string, typeIndex int) (domain.Amount, error) {
	return r.events.GetPrice(ctx, eventID, typeIndex)
}

func (r *Registry) BuyTickets(ctx context.Context, in BuyTicketsInput) (SaleReceipt, error) {
	return r.sales.BuyTickets(ctx, in)
}

func (r *Registry) GetPurchases(ctx context.Context, buyer domain.Principal, eventID string) (int, error) {
	return r.sales.GetPurchases(ctx, buyer, eventID)
}

func (r *Registry) GetBalance(ctx context.Context, caller domain.Principal, eventID string) (domain.Amount, error) {
	return r.sales.GetBalance(ctx, caller, eventID)
}

func (r *Registry) Withdraw(ctx context.Context, caller domain.Principal, eventID string) (domain.Amount, error) {
	return r.sales.Withdraw(ctx, caller, eventID)
}
