package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/api"
	"github.com/ayyubpromptcoder/sellerbot/config"
	"github.com/ayyubpromptcoder/sellerbot/internal/bot"
	"github.com/ayyubpromptcoder/sellerbot/internal/catalog"
	"github.com/ayyubpromptcoder/sellerbot/internal/ledger"
	"github.com/ayyubpromptcoder/sellerbot/internal/sheet"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet at this point.
		panic(err)
	}

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if len(cfg.Bot.AdminIDs) == 0 {
		logger.Warn("ADMIN_IDS is empty, admin flows will be unreachable")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sheet.NewGoogleStore(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsJSON, logger)
	if err != nil {
		logger.Fatal("could not build sheets client", zap.Error(err))
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Fatal("could not authorize bot", zap.Error(err))
	}
	logger.Info("bot authorized", zap.String("username", botAPI.Self.UserName))

	if err := api.RegisterCommands(botAPI); err != nil {
		logger.Warn("command registration failed", zap.Error(err))
	}

	catalogSvc := catalog.NewService(store, logger)
	ledgerSvc := ledger.NewService(store, logger)
	dispatcher := bot.NewDispatcher(cfg.Bot.AdminIDs,
		catalogSvc, ledgerSvc, api.NewTelegramMessenger(botAPI), logger)

	switch cfg.Bot.Mode {
	case config.ModeWebhook:
		secret := cfg.Server.WebhookSecret
		if secret == "" {
			secret = uuid.NewString()
			logger.Info("generated webhook secret")
		}
		err = api.RunWebhook(ctx, botAPI, dispatcher, cfg.Server.WebhookBase, secret, cfg.Server.Port, logger)
	default:
		err = api.RunPolling(ctx, botAPI, dispatcher, logger)
	}
	if err != nil {
		logger.Fatal("transport stopped with error", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
