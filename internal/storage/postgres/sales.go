package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

func (s *Store) DecrementRemaining(ctx context.Context, eventID string, typeIndex, count int) error {
	const stmt = `
UPDATE ticket_types
SET remaining = remaining - $3
WHERE event_id = $1 AND type_index = $2 AND remaining >= $3`

	tag, err := s.exec(ctx, stmt, eventID, typeIndex, count)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("decrement remaining: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row matched: either the tier does not exist or the guarded update
	// found too little stock.
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM ticket_types WHERE event_id = $1 AND type_index = $2)`
	var exists bool
	if err := s.queryRow(ctx, existsQuery, eventID, typeIndex).Scan(&exists); err != nil {
		return fmt.Errorf("check ticket type: %w", err)
	}
	if !exists {
		return domain.ErrUnknownTicketType
	}
	return domain.ErrSoldOut
}

func (s *Store) AddPurchases(ctx context.Context, buyer domain.Principal, eventID string, count int) error {
	const stmt = `
INSERT INTO purchases (buyer, event_id, ticket_count)
VALUES ($1, $2, $3)
ON CONFLICT (buyer, event_id) DO UPDATE SET ticket_count = purchases.ticket_count + EXCLUDED.ticket_count`

	if _, err := s.exec(ctx, stmt, buyer, eventID, count); err != nil {
		return fmt.Errorf("add purchases: %w", err)
	}
	return nil
}

func (s *Store) GetPurchases(ctx context.Context, buyer domain.Principal, eventID string) (int, error) {
	const query = `SELECT COALESCE(SUM(ticket_count), 0) FROM purchases WHERE buyer = $1 AND event_id = $2`

	var count int
	if err := s.queryRow(ctx, query, buyer, eventID).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("get purchases: %w", err)
	}
	return count, nil
}

func (s *Store) CreditBalance(ctx context.Context, eventID string, payee domain.Payee, amount domain.Amount) error {
	const stmt = `
INSERT INTO balances (event_id, payee, amount)
VALUES ($1, $2, $3)
ON CONFLICT (event_id, payee) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`

	if _, err := s.exec(ctx, stmt, eventID, payee, int64(amount)); err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

func (s *Store) GetBalance(ctx context.Context, eventID string, payee domain.Payee) (domain.Amount, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM balances WHERE event_id = $1 AND payee = $2`

	var amount int64
	if err := s.queryRow(ctx, query, eventID, payee).Scan(&amount); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return domain.Amount(amount), nil
}

func (s *Store) ZeroBalance(ctx context.Context, eventID string, payee domain.Payee) (domain.Amount, error) {
	const stmt = `
WITH current AS (
	SELECT amount FROM balances WHERE event_id = $1 AND payee = $2 FOR UPDATE
)
UPDATE balances b
SET amount = 0
FROM current
WHERE b.event_id = $1 AND b.payee = $2
RETURNING current.amount`

	var amount int64
	if err := s.queryRow(ctx, stmt, eventID, payee).Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		if isInvalidUUID(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("zero balance: %w", err)
	}
	return domain.Amount(amount), nil
}
