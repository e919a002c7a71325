package app

import (
	"context"
	"time"

	"github.com/SergejKubat/crypto-sports/internal/clock"
	"github.com/SergejKubat/crypto-sports/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	GetEventForUpdate(ctx context.Context, id string) (domain.Event, error)
	UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error
}

// EventService owns event creation and the Active/Paused lifecycle.
type EventService struct {
	repo     EventRepository
	clock    clock.Clock
	notifier Notifier
}

func NewEventService(repo EventRepository, clk clock.Clock, notifier Notifier) *EventService {
	return &EventService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
	}
}

type CreateEventInput struct {
	Caller    domain.Principal
	Metadata  domain.EventMetadata
	Amounts   []int
	Prices    []domain.Amount
	Organizer domain.Principal
	EndsAt    time.Time
}

// CreateEvent allocates a new event with a fixed set of ticket types. The
// caller must hold the event-creator role. Either the full event record
// exists afterward or none of it does.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	var event domain.Event

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ok, err := s.repo.HasRole(txCtx, domain.RoleEventCreator, in.Caller)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUnauthorized
		}

		if len(in.Amounts) == 0 || len(in.Amounts) != len(in.Prices) {
			return domain.ErrSizeMismatch
		}

		types := make([]domain.TicketType, len(in.Amounts))
		for i, amount := range in.Amounts {
			types[i] = domain.TicketType{
				Initial:   amount,
				Remaining: amount,
				UnitPrice: in.Prices[i],
			}
		}

		event = domain.Event{
			ID:          newEventID(),
			Creator:     in.Caller,
			Organizer:   in.Organizer,
			Metadata:    in.Metadata,
			Status:      domain.EventStatusActive,
			TicketTypes: types,
			EndsAt:      in.EndsAt,
			CreatedAt:   s.clock.Now(),
		}
		if err := s.repo.CreateEvent(txCtx, event); err != nil {
			return err
		}
		notify(txCtx, s.notifier, domain.EventCreated{
			ID:        event.ID,
			Creator:   event.Creator,
			BaseURI:   event.Metadata.BaseURI,
			Name:      event.Metadata.Name,
			EndsAt:    event.EndsAt,
			Organizer: event.Organizer,
		})
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// PauseEvent moves an active event to Paused, stopping further sales.
func (s *EventService) PauseEvent(ctx context.Context, caller domain.Principal, eventID string) error {
	return s.transition(ctx, caller, eventID, domain.EventStatusActive, domain.EventStatusPaused, domain.ErrAlreadyPaused, domain.EventPaused{ID: eventID})
}

// UnpauseEvent moves a paused event back to Active.
func (s *EventService) UnpauseEvent(ctx context.Context, caller domain.Principal, eventID string) error {
	return s.transition(ctx, caller, eventID, domain.EventStatusPaused, domain.EventStatusActive, domain.ErrAlreadyActive, domain.EventUnpaused{ID: eventID})
}

func (s *EventService) transition(ctx context.Context, caller domain.Principal, eventID string, from, to domain.EventStatus, redundant error, n domain.Notification) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.requireLifecycleRole(txCtx, caller); err != nil {
			return err
		}

		event, err := s.repo.GetEventForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}
		if event.Status != from {
			return redundant
		}
		if err := s.repo.UpdateEventStatus(txCtx, eventID, to); err != nil {
			return err
		}
		notify(txCtx, s.notifier, n)
		return nil
	})
}

// requireLifecycleRole authorizes pause/unpause: the creator role or the
// administrative role, checked before the event is even resolved.
func (s *EventService) requireLifecycleRole(ctx context.Context, caller domain.Principal) error {
	for _, role := range []domain.Role{domain.RoleEventCreator, domain.RoleAdmin} {
		ok, err := s.repo.HasRole(ctx, role, caller)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return domain.ErrUnauthorized
}

// GetAmount returns the remaining stock of one ticket type.
func (s *EventService) GetAmount(ctx context.Context, eventID string, typeIndex int) (int, error) {
	ticketType, err := s.ticketType(ctx, eventID, typeIndex)
	if err != nil {
		return 0, err
	}
	return ticketType.Remaining, nil
}

// GetPrice returns the unit price of one ticket type.
func (s *EventService) GetPrice(ctx context.Context, eventID string, typeIndex int) (domain.Amount, error) {
	ticketType, err := s.ticketType(ctx, eventID, typeIndex)
	if err != nil {
		return 0, err
	}
	return ticketType.UnitPrice, nil
}

func (s *EventService) ticketType(ctx context.Context, eventID string, typeIndex int) (domain.TicketType, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.TicketType{}, err
	}
	if typeIndex < 0 || typeIndex >= len(event.TicketTypes) {
		return domain.TicketType{}, domain.ErrUnknownTicketType
	}
	return event.TicketTypes[typeIndex], nil
}
