// Package jetstream provides the NATS JetStream implementations of the
// messaging interfaces.
package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/rumble-exchange/rumble-indexer/internal/adapter"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
	"github.com/rumble-exchange/rumble-indexer/internal/messaging"
)

// Config holds the configuration for a NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

func connectOptions(cfg Config) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
}

// connect dials NATS with exponential backoff. The server may come up
// after us during a deployment rollout.
func connect(cfg Config, natsJS adapter.NatsJetStream) (adapter.NatsConn, adapter.JetStream, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	b.RandomizationFactor = 0.5

	var nc adapter.NatsConn
	var js adapter.JetStream
	operation := func() error {
		var err error
		nc, js, err = natsJS.Connect(cfg.URL, connectOptions(cfg)...)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("NATS connect failed, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", next))
	}
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}
	return nc, js, nil
}

type publisher struct {
	nc   adapter.NatsConn
	js   adapter.JetStream
	json adapter.JSON
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, err
	}

	return &publisher{
		nc:   nc,
		js:   js,
		json: jsonAdapter,
	}, nil
}

// PublishEvent publishes a vault event to NATS JetStream
func (p *publisher) PublishEvent(ctx context.Context, event *domain.VaultEvent) error {
	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, EventSubject(event), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// EventSubject builds the NATS subject for an event.
// Format: events.{network}.{event_type}, e.g. events.avalanche.swap.
func EventSubject(event *domain.VaultEvent) string {
	return fmt.Sprintf("events.%s.%s", event.Network, event.Type)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
