package app

import (
	"context"
	"fmt"

	"github.com/SergejKubat/crypto-sports/internal/clock"
	"github.com/SergejKubat/crypto-sports/internal/domain"
)

type SaleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	GetEventForUpdate(ctx context.Context, id string) (domain.Event, error)
	// DecrementRemaining reduces the stock of one ticket type, failing with
	// domain.ErrSoldOut if fewer than count remain.
	DecrementRemaining(ctx context.Context, eventID string, typeIndex, count int) error
	AddPurchases(ctx context.Context, buyer domain.Principal, eventID string, count int) error
	GetPurchases(ctx context.Context, buyer domain.Principal, eventID string) (int, error)
	CreditBalance(ctx context.Context, eventID string, payee domain.Payee, amount domain.Amount) error
	GetBalance(ctx context.Context, eventID string, payee domain.Payee) (domain.Amount, error)
	// ZeroBalance atomically swaps the balance to zero and returns the
	// previous value.
	ZeroBalance(ctx context.Context, eventID string, payee domain.Payee) (domain.Amount, error)
}

// Treasury performs outward value transfers: purchase refunds and
// withdrawals. It is invoked strictly after the registry transaction has
// committed and must not call back into the registry.
type Treasury interface {
	Payout(ctx context.Context, to domain.Principal, amount domain.Amount) error
}

type nopTreasury struct{}

func (nopTreasury) Payout(context.Context, domain.Principal, domain.Amount) error { return nil }

// SaleService owns the purchase hot path and the per-event ledger.
type SaleService struct {
	repo     SaleRepository
	clock    clock.Clock
	notifier Notifier
	treasury Treasury
	fees     FeePolicy

	// enforceEventEnd gates purchases at the event's end time. The
	// reference deployment runs with the rule disabled.
	enforceEventEnd bool
}

func NewSaleService(repo SaleRepository, clk clock.Clock, notifier Notifier, treasury Treasury, fees FeePolicy, enforceEventEnd bool) *SaleService {
	if treasury == nil {
		treasury = nopTreasury{}
	}
	return &SaleService{
		repo:            repo,
		clock:           clk,
		notifier:        notifier,
		treasury:        treasury,
		fees:            fees,
		enforceEventEnd: enforceEventEnd,
	}
}

type BuyTicketsInput struct {
	Buyer   domain.Principal
	EventID string
	// TicketTypes selects one ticket per entry; a repeated index buys one
	// more of that type.
	TicketTypes []int
	Payment     domain.Amount
}

// SaleReceipt describes one committed purchase.
type SaleReceipt struct {
	EventID     string
	Buyer       domain.Principal
	TicketTypes []int
	TotalPrice  domain.Amount
	// Refund is the excess payment returned to the buyer; it is never
	// retained by the ledger.
	Refund domain.Amount
}

// BuyTickets atomically sells the selected tickets: inventory decrement,
// buyer tally, split ledger credit. A failure at any step leaves no partial
// state. The excess payment is refunded through the treasury after commit.
func (s *SaleService) BuyTickets(ctx context.Context, in BuyTicketsInput) (SaleReceipt, error) {
	var receipt SaleReceipt

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if len(in.TicketTypes) == 0 {
			return domain.ErrEmptySelection
		}
		if event.Status == domain.EventStatusPaused {
			return domain.ErrEventPaused
		}
		if s.enforceEventEnd && !s.clock.Now().Before(event.EndsAt) {
			return domain.ErrEventEnded
		}

		counts := make(map[int]int, len(in.TicketTypes))
		var total domain.Amount
		for _, typeIndex := range in.TicketTypes {
			if typeIndex < 0 || typeIndex >= len(event.TicketTypes) {
				return domain.ErrUnknownTicketType
			}
			counts[typeIndex]++
			total += event.TicketTypes[typeIndex].UnitPrice
		}

		if in.Payment < total {
			return domain.ErrInsufficientFunds
		}
		for typeIndex, count := range counts {
			if count > event.TicketTypes[typeIndex].Remaining {
				return domain.ErrSoldOut
			}
		}

		for typeIndex, count := range counts {
			if err := s.repo.DecrementRemaining(txCtx, in.EventID, typeIndex, count); err != nil {
				return err
			}
		}
		if err := s.repo.AddPurchases(txCtx, in.Buyer, in.EventID, len(in.TicketTypes)); err != nil {
			return err
		}

		platform, organizer := s.fees.Split(total)
		if err := s.repo.CreditBalance(txCtx, in.EventID, domain.PayeePlatform, platform); err != nil {
			return err
		}
		if err := s.repo.CreditBalance(txCtx, in.EventID, domain.PayeeOrganizer, organizer); err != nil {
			return err
		}

		// Both records own their copy of the selection; later mutation of
		// the caller's slice or of the receipt cannot reach the outbox.
		selection := make([]int, len(in.TicketTypes))
		copy(selection, in.TicketTypes)

		receipt = SaleReceipt{
			EventID:     in.EventID,
			Buyer:       in.Buyer,
			TicketTypes: selection,
			TotalPrice:  total,
			Refund:      in.Payment - total,
		}
		notify(txCtx, s.notifier, domain.TicketsSold{
			ID:          receipt.EventID,
			Buyer:       receipt.Buyer,
			TicketTypes: append([]int(nil), selection...),
			TotalPrice:  receipt.TotalPrice,
		})
		return nil
	})
	if err != nil {
		return SaleReceipt{}, err
	}

	if receipt.Refund > 0 {
		if err := s.treasury.Payout(ctx, in.Buyer, receipt.Refund); err != nil {
			// The sale is committed; only the refund transfer failed and the
			// treasury owns the retry.
			return receipt, fmt.Errorf("refund payout: %w", err)
		}
	}
	return receipt, nil
}

// GetPurchases returns how many tickets buyer has ever bought for an event.
func (s *SaleService) GetPurchases(ctx context.Context, buyer domain.Principal, eventID string) (int, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return 0, err
	}
	return s.repo.GetPurchases(ctx, buyer, eventID)
}

// GetBalance returns the unwithdrawn share owed to the caller for an event:
// the organizer share for the event's organizer, the platform share for an
// admin, zero for anyone else.
func (s *SaleService) GetBalance(ctx context.Context, caller domain.Principal, eventID string) (domain.Amount, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	payee, ok, err := s.resolvePayee(ctx, caller, event)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return s.repo.GetBalance(ctx, eventID, payee)
}

// Withdraw transfers the caller's accumulated share to the caller. The
// balance is zeroed inside the transaction and the transfer happens only
// after commit, so a re-entrant call can never withdraw twice.
func (s *SaleService) Withdraw(ctx context.Context, caller domain.Principal, eventID string) (domain.Amount, error) {
	var amount domain.Amount

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}

		payee, ok, err := s.resolvePayee(txCtx, caller, event)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNoFunds
		}

		amount, err = s.repo.ZeroBalance(txCtx, eventID, payee)
		if err != nil {
			return err
		}
		if amount == 0 {
			return domain.ErrNoFunds
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.treasury.Payout(ctx, caller, amount); err != nil {
		// The balance stays zeroed; the treasury owns the retry.
		return amount, fmt.Errorf("withdrawal payout: %w", err)
	}
	return amount, nil
}

// resolvePayee matches the caller against the event's payees. The organizer
// match wins over the admin role, so an organizer who is also an admin
// withdraws the organizer share of their own event.
func (s *SaleService) resolvePayee(ctx context.Context, caller domain.Principal, event domain.Event) (domain.Payee, bool, error) {
	if caller == event.Organizer {
		return domain.PayeeOrganizer, true, nil
	}
	admin, err := s.repo.HasRole(ctx, domain.RoleAdmin, caller)
	if err != nil {
		return "", false, err
	}
	if admin {
		return domain.PayeePlatform, true, nil
	}
	return "", false, nil
}
