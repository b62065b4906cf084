package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to vault events fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrPoolNotFound is returned when a pool is not found
	ErrPoolNotFound = errors.New("pool not found")

	// ErrInvalidEvent is returned when a vault event fails validation
	ErrInvalidEvent = errors.New("invalid vault event")

	// ErrUnknownNetwork is returned when no asset table exists for a network
	ErrUnknownNetwork = errors.New("unknown network")
)
