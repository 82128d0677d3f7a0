package api

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/internal/bot"
)

// RunPolling delivers updates by long polling until the context is
// canceled. Each update is dispatched on its own goroutine; the per-chat
// session lock keeps one conversation strictly ordered.
func RunPolling(ctx context.Context, api *tgbotapi.BotAPI, d *bot.Dispatcher, logger *zap.Logger) error {
	// A leftover webhook blocks getUpdates.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		logger.Warn("webhook delete failed", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)
	logger.Info("long polling started")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			logger.Info("long polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := EventFromUpdate(update)
			if !ok {
				continue
			}
			go d.Dispatch(ctx, ev)
		}
	}
}
