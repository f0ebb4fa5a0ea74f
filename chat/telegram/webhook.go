package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/docshelf/chat/metrics"
)

const shutdownTimeout = 10 * time.Second

// serveHTTP runs the echo server carrying the webhook endpoint (when the
// profile selects webhook transport) plus health and metrics. It blocks
// until the context is cancelled.
func (b *Bot) serveHTTP(ctx context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	if b.profile.Transport == "webhook" {
		e.POST("/telegram/webhook", b.handleWebhook)
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", b.profile.Addr, b.profile.Port)
		slog.Info("http server listening", "addr", addr, "transport", b.profile.Transport)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if b.profile.Transport == "webhook" {
		if err := b.deleteWebhook(); err != nil {
			slog.Warn("failed to delete webhook", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// handleWebhook accepts one Telegram update per request. Telegram does not
// sign webhooks; the URL path is the shared secret.
func (b *Bot) handleWebhook(c echo.Context) error {
	var update tgbotapi.Update
	if err := c.Bind(&update); err != nil {
		slog.Warn("failed to decode webhook update", "error", err)
		return c.NoContent(http.StatusBadRequest)
	}

	b.handleUpdate(b.runCtx, update)
	return c.NoContent(http.StatusOK)
}

func (b *Bot) setWebhook() error {
	parsed, err := url.Parse(b.profile.WebhookURL)
	if err != nil {
		return err
	}
	_, err = b.api.Request(tgbotapi.WebhookConfig{
		URL:                parsed,
		DropPendingUpdates: true,
	})
	if err != nil {
		return err
	}
	slog.Info("webhook registered", "url", b.profile.WebhookURL)
	return nil
}

func (b *Bot) deleteWebhook() error {
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	})
	return err
}
