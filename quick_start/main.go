package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kingsmao/binance-futures-connector/internal/config"
	"github.com/kingsmao/binance-futures-connector/pkg/logger"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
	"github.com/kingsmao/binance-futures-connector/pkg/sdk"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	logger.SetLogLevelFromString(cfg.LogLevel)

	client := sdk.New(cfg)

	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		logger.Warn("Startup warmup failed: %v", err)
	}
	defer client.Stop()

	// Subscribe a couple of liquid symbols on top of the default stream.
	for _, symbol := range []string{"BTCUSDT", "ETHUSDT"} {
		contract, ok := client.Contract(symbol)
		if !ok {
			logger.Warn("Symbol %s not in catalog, skipping", symbol)
			continue
		}
		if err := client.Subscribe(schema.ChannelBookTicker, contract); err != nil {
			logger.Warn("Subscribe %s failed: %v", symbol, err)
		}
	}

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			logger.Info("Shutting down")
			return
		case <-ticker.C:
			fmt.Printf("stream=%s\n", client.StreamState())
			for _, symbol := range []string{"XRPUSDT", "BTCUSDT", "ETHUSDT"} {
				if quote, ok := client.Quote(symbol); ok {
					fmt.Printf("  %-8s bid=%s ask=%s\n", symbol, quote.Bid.String(), quote.Ask.String())
				}
			}
		}
	}
}
