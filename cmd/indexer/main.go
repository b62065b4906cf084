package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rumble-exchange/rumble-indexer/internal/adapter"
	"github.com/rumble-exchange/rumble-indexer/internal/config"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/handlers"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
	"github.com/rumble-exchange/rumble-indexer/internal/pricing"
	"github.com/rumble-exchange/rumble-indexer/internal/providers/jetstream"
	"github.com/rumble-exchange/rumble-indexer/internal/snapshots"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "indexer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Rumble indexer", zap.String("network", string(cfg.Network)))

	// Resolve the network asset table
	assets, err := config.AssetsForNetwork(cfg.Network)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to resolve network assets", zap.Error(err), zap.String("network", string(cfg.Network)))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if err := store.AutoMigrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate database schema", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store and pricing pipeline
	dataStore := store.NewPGStore(db)
	snapshotService := snapshots.NewService(dataStore)
	engine := pricing.NewEngine(dataStore, snapshotService, assets)
	processor := handlers.NewProcessor(dataStore, engine, assets)

	// Connect to NATS JetStream
	natsConfig, err := jetstreamConfig(cfg.NATS)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid NATS configuration", zap.Error(err))
	}
	consumer, err := jetstream.NewConsumer(natsConfig, cfg.Network, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create consumer", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer consumer.Close()
	logger.InfoCtx(ctx, "Connected to NATS",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		err := consumer.Run(ctx, func(ctx context.Context, event *domain.VaultEvent) error {
			return processor.ProcessEvent(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "consumer"))
		cancel()
	}

	// Give the in-flight message time to finish
	time.Sleep(time.Second)

	logger.Info("Indexer stopped")
}

func jetstreamConfig(cfg config.NATSConfig) (jetstream.Config, error) {
	reconnectWait, err := time.ParseDuration(cfg.ReconnectWait)
	if err != nil {
		return jetstream.Config{}, fmt.Errorf("invalid reconnect_wait: %w", err)
	}
	ackWait, err := time.ParseDuration(cfg.AckWait)
	if err != nil {
		return jetstream.Config{}, fmt.Errorf("invalid ack_wait: %w", err)
	}
	return jetstream.Config{
		URL:            cfg.URL,
		StreamName:     cfg.StreamName,
		ConsumerName:   cfg.ConsumerName,
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  reconnectWait,
		ConnectionName: cfg.ConnectionName,
		AckWaitTimeout: ackWait,
		MaxDeliver:     cfg.MaxDeliver,
	}, nil
}
