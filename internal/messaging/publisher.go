package messaging

import (
	"context"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// Publisher defines the interface for publishing vault events to the
// message broker
type Publisher interface {
	// PublishEvent publishes a decoded vault event
	PublishEvent(ctx context.Context, event *domain.VaultEvent) error
	// Close closes the connection
	Close()
}
