// Command replay publishes vault events from a JSON Lines file to the
// event stream. It is a development tool for backfilling or replaying
// captured event logs against a running indexer.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rumble-exchange/rumble-indexer/internal/adapter"
	"github.com/rumble-exchange/rumble-indexer/internal/config"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
	"github.com/rumble-exchange/rumble-indexer/internal/providers/jetstream"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	eventsFile = flag.String("events", "", "Path to a JSON Lines file of vault events")
)

func main() {
	flag.Parse()

	if *eventsFile == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -events <events.jsonl>")
		os.Exit(2)
	}

	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Initialize(logger.Config{Debug: cfg.Debug}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	reconnectWait, err := time.ParseDuration(cfg.NATS.ReconnectWait)
	if err != nil {
		logger.Fatal("Invalid reconnect_wait", zap.Error(err))
	}
	publisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  reconnectWait,
		ConnectionName: "rumble-replay",
	}, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.Fatal("Failed to create publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()

	file, err := os.Open(*eventsFile)
	if err != nil {
		logger.Fatal("Failed to open events file", zap.Error(err), zap.String("path", *eventsFile))
	}
	defer file.Close()

	ctx := context.Background()
	published := 0
	skipped := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event domain.VaultEvent
		if err := json.Unmarshal(line, &event); err != nil {
			logger.Warn("Skipping unparseable line", zap.Error(err), zap.Int("line", published+skipped+1))
			skipped++
			continue
		}
		if !event.Valid() {
			logger.Warn("Skipping invalid event", zap.String("pool_id", event.PoolID), zap.Uint64("block", event.Block))
			skipped++
			continue
		}

		if err := publisher.PublishEvent(ctx, &event); err != nil {
			logger.Fatal("Failed to publish event",
				zap.Error(err),
				zap.String("pool_id", event.PoolID),
				zap.Uint64("block", event.Block))
		}
		published++
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal("Failed to read events file", zap.Error(err))
	}

	logger.Info("Replay complete", zap.Int("published", published), zap.Int("skipped", skipped))
}
