package domain

import "errors"

var (
	ErrUnauthorized      = errors.New("caller is not authorized")
	ErrEventNotFound     = errors.New("event doesn't exist")
	ErrSizeMismatch      = errors.New("prices and amounts must be same size")
	ErrEmptySelection    = errors.New("ticket types cannot be empty")
	ErrUnknownTicketType = errors.New("unknown ticket type")
	ErrSoldOut           = errors.New("ticket type is sold out")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyPaused     = errors.New("event is already paused")
	ErrAlreadyActive     = errors.New("event is already active")
	ErrEventPaused       = errors.New("event is paused")
	ErrEventEnded        = errors.New("the event has passed")
	ErrNoFunds           = errors.New("there is no funds")
)
