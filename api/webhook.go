package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/internal/bot"
)

// WebhookPath is where Telegram pushes updates in webhook mode.
const WebhookPath = "/webhook"

// secretHeader carries the shared secret Telegram echoes back on every
// webhook delivery.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// InitRoutes registers the webhook endpoint and a health route on the
// given Gin engine. Requests without the correct secret header are
// rejected before any update is parsed. ctx scopes the dispatch work
// spawned per update; the per-request context cannot be used because it
// is canceled as soon as the handler acknowledges the delivery.
func InitRoutes(ctx context.Context, e *gin.Engine, d *bot.Dispatcher, secret string, logger *zap.Logger) {
	e.POST(WebhookPath, func(c *gin.Context) {
		if c.GetHeader(secretHeader) != secret {
			logger.Warn("webhook request with bad secret", zap.String("remote", c.ClientIP()))
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			logger.Warn("webhook request with bad payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
			return
		}

		if ev, ok := EventFromUpdate(update); ok {
			go d.Dispatch(ctx, ev)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

// RunWebhook registers the webhook with Telegram, serves the Gin engine
// until the context is canceled, then deregisters the webhook.
func RunWebhook(ctx context.Context, api *tgbotapi.BotAPI, d *bot.Dispatcher, baseURL, secret, port string, logger *zap.Logger) error {
	if err := setWebhook(api, baseURL+WebhookPath, secret); err != nil {
		return err
	}
	logger.Info("webhook registered", zap.String("url", baseURL+WebhookPath))

	e := gin.Default()
	InitRoutes(ctx, e, d, secret, logger)

	srv := &http.Server{Addr: ":" + port, Handler: e}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	logger.Info("webhook server started", zap.String("port", port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	_ = srv.Shutdown(context.Background())
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn("webhook delete failed", zap.Error(err))
	}
	logger.Info("webhook server stopped")
	return nil
}

// setWebhook calls setWebhook with a secret token through the raw request
// path; the typed WebhookConfig of the client predates secret tokens.
func setWebhook(api *tgbotapi.BotAPI, url, secret string) error {
	params := tgbotapi.Params{
		"url":          url,
		"secret_token": secret,
	}
	_, err := api.MakeRequest("setWebhook", params)
	return err
}
