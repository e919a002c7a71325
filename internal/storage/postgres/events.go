package postgres

import (
	"context"
	"fmt"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	const eventStmt = `
INSERT INTO events (id, creator, organizer, base_uri, name, symbol, status, ends_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.exec(ctx, eventStmt,
		event.ID,
		event.Creator,
		event.Organizer,
		event.Metadata.BaseURI,
		event.Metadata.Name,
		event.Metadata.Symbol,
		event.Status,
		event.EndsAt,
		event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event %s already exists", event.ID)
		}
		return fmt.Errorf("create event: %w", err)
	}

	const typeStmt = `
INSERT INTO ticket_types (event_id, type_index, initial_amount, remaining, unit_price)
VALUES ($1, $2, $3, $4, $5)`

	for i, ticketType := range event.TicketTypes {
		_, err := s.exec(ctx, typeStmt, event.ID, i, ticketType.Initial, ticketType.Remaining, int64(ticketType.UnitPrice))
		if err != nil {
			return fmt.Errorf("create ticket type %d: %w", i, err)
		}
	}
	return nil
}

const eventColumns = `
SELECT e.id, e.creator, e.organizer, e.base_uri, e.name, e.symbol, e.status, e.ends_at, e.created_at,
       t.initial_amount, t.remaining, t.unit_price
FROM events e
JOIN ticket_types t ON t.event_id = e.id
WHERE e.id = $1
ORDER BY t.type_index`

func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return s.getEvent(ctx, id, eventColumns)
}

func (s *Store) GetEventForUpdate(ctx context.Context, id string) (domain.Event, error) {
	return s.getEvent(ctx, id, eventColumns+`
FOR UPDATE OF e, t`)
}

// getEvent loads the event and its ticket types in one statement so reads
// outside a transaction still observe a consistent snapshot.
func (s *Store) getEvent(ctx context.Context, id, query string) (domain.Event, error) {
	rows, err := s.query(ctx, query, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	defer rows.Close()

	var event domain.Event
	for rows.Next() {
		var (
			ticketType domain.TicketType
			unitPrice  int64
		)
		err := rows.Scan(
			&event.ID,
			&event.Creator,
			&event.Organizer,
			&event.Metadata.BaseURI,
			&event.Metadata.Name,
			&event.Metadata.Symbol,
			&event.Status,
			&event.EndsAt,
			&event.CreatedAt,
			&ticketType.Initial,
			&ticketType.Remaining,
			&unitPrice,
		)
		if err != nil {
			return domain.Event{}, fmt.Errorf("scan event: %w", err)
		}
		ticketType.UnitPrice = domain.Amount(unitPrice)
		event.TicketTypes = append(event.TicketTypes, ticketType)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("read event: %w", err)
	}
	if len(event.TicketTypes) == 0 {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	const stmt = `UPDATE events SET status = $2 WHERE id = $1`

	tag, err := s.exec(ctx, stmt, id, status)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
