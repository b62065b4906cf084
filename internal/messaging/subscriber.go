package messaging

import (
	"context"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// EventHandler is called once per decoded vault event, in arrival order
type EventHandler func(ctx context.Context, event *domain.VaultEvent) error

// Subscriber defines the interface for consuming decoded vault events
type Subscriber interface {
	// Run consumes events until the context is cancelled, invoking the
	// handler for each one. Events are handled strictly one at a time;
	// the next message is not taken until the handler returns.
	Run(ctx context.Context, handler EventHandler) error

	// Close closes the connection and cleans up resources
	Close()
}
