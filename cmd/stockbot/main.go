package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/adapter/barcode"
	"github.com/nikkifashion/stockbot/internal/adapter/media"
	"github.com/nikkifashion/stockbot/internal/adapter/shopify"
	"github.com/nikkifashion/stockbot/internal/adapter/telegram"
	"github.com/nikkifashion/stockbot/internal/config"
	"github.com/nikkifashion/stockbot/internal/core/service"
	"github.com/nikkifashion/stockbot/internal/port"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("failed to connect telegram", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	inventory := shopify.NewClient(cfg.GraphQLURL(), cfg.ShopifyToken, httpClient, logger)
	fetcher := media.NewHTTPFetcher(cfg.HTTPTimeout)
	transport := telegram.NewTransport(botAPI)

	stockService := service.NewStockService(inventory, logger)
	mediaService := service.NewMediaService(transport, fetcher, logger)

	var decoder port.BarcodeDecoder
	if cfg.BarcodeEnabled {
		decoder = barcode.NewZXingDecoder()
		logger.Info("QR/barcode scanning enabled")
	} else {
		logger.Warn("QR/barcode scanning disabled")
	}

	bot := telegram.NewBot(
		botAPI,
		transport,
		stockService,
		mediaService,
		fetcher,
		decoder,
		cfg.StoreDomain,
		cfg.PollTimeout,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- bot.Run(ctx)
	}()
	logger.Info("bot starting", zap.String("store", cfg.ShopifyStore))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down")
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("bot stopped", zap.Error(err))
		}
	}
	logger.Info("bot stopped")
}
