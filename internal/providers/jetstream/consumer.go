package jetstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/rumble-exchange/rumble-indexer/internal/adapter"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
	"github.com/rumble-exchange/rumble-indexer/internal/messaging"
)

type consumer struct {
	nc      adapter.NatsConn
	js      adapter.JetStream
	json    adapter.JSON
	network domain.Network
	config  Config
}

// NewConsumer creates a durable JetStream consumer for one network's
// vault events
func NewConsumer(cfg Config, network domain.Network, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, err
	}

	return &consumer{
		nc:      nc,
		js:      js,
		json:    jsonAdapter,
		network: network,
		config:  cfg,
	}, nil
}

// Run consumes vault events until the context is cancelled. Messages
// are processed strictly one at a time: valuation depends on events
// being applied in arrival order, so there is no per-message goroutine.
func (c *consumer) Run(ctx context.Context, handler messaging.EventHandler) error {
	subject := fmt.Sprintf("events.%s.>", c.network)

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWaitTimeout,
		MaxDeliver:    c.config.MaxDeliver,
		FilterSubject: subject,
		MaxAckPending: 1,
	}

	jsConsumer, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("%w: create/update consumer: %v", domain.ErrSubscriptionFailed, err)
	}

	consumerInfo, err := jsConsumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved",
		zap.String("consumer", consumerInfo.Name),
		zap.String("subject", subject))

	// Closed when Run returns so an in-flight callback blocked on the
	// send does not leak; the undelivered message redelivers after AckWait.
	done := make(chan struct{})
	defer close(done)

	msgChan := make(chan adapter.Message)
	sub, err := jsConsumer.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-done:
		}
	})
	if err != nil {
		return fmt.Errorf("%w: consume: %v", domain.ErrSubscriptionFailed, err)
	}
	defer sub.Stop()

	logger.Info("Started consuming vault events", zap.String("network", string(c.network)))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down event consumer")
			return ctx.Err()
		case msg := <-msgChan:
			c.handleMessage(ctx, msg, handler)
		}
	}
}

// handleMessage processes a single NATS message
func (c *consumer) handleMessage(ctx context.Context, msg adapter.Message, handler messaging.EventHandler) {
	metadata, _ := msg.Metadata()

	var event domain.VaultEvent
	if err := c.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal event"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	var deliveries uint64
	if metadata != nil {
		deliveries = metadata.NumDelivered
	}
	logger.Debug("Received event",
		zap.String("network", string(event.Network)),
		zap.String("eventType", string(event.Type)),
		zap.String("poolId", event.PoolID),
		zap.String("txHash", event.TxHash.Hex()),
		zap.Uint64("deliveryCount", deliveries))

	if err := handler(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to process event"))

		// Terminal conditions cannot succeed on redelivery.
		if errors.Is(err, domain.ErrInvalidEvent) || errors.Is(err, domain.ErrPoolNotFound) {
			if err := msg.Term(); err != nil {
				logger.Error(err, zap.String("message", "Failed to terminate message"))
			}
			return
		}

		// NAK to retry
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	// ACK message after successful processing
	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the NATS connection
func (c *consumer) Close() {
	if c.nc == nil {
		return
	}

	c.nc.Close()
}
