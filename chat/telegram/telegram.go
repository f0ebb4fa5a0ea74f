// Package telegram adapts the conversation core to the Telegram Bot API:
// it classifies incoming updates into events and renders reply effects.
package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hrygo/docshelf/chat"
	"github.com/hrygo/docshelf/internal/profile"
)

// Telegram caps bots at roughly 30 messages per second across all chats;
// outbound sends are throttled a little under that.
const (
	sendRatePerSecond = 25
	sendBurst         = 5

	pollTimeoutSeconds = 60
	mediaGroupLimit    = 10
)

// Bot wires a Telegram bot to the conversation dispatcher.
type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *chat.Dispatcher
	profile    *profile.Profile
	limiter    *rate.Limiter

	// runCtx is the process lifecycle context. Webhook requests dispatch
	// under it rather than the request context, so in-flight rendering is
	// not cut short by the HTTP response completing.
	runCtx context.Context
}

// NewBot creates the Telegram adapter and authorizes against the Bot API.
func NewBot(profile *profile.Profile, dispatcher *chat.Dispatcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(profile.BotToken)
	if err != nil {
		return nil, err
	}
	slog.Info("authorized on telegram", "account", api.Self.UserName)

	return &Bot{
		api:        api,
		dispatcher: dispatcher,
		profile:    profile,
		limiter:    rate.NewLimiter(rate.Limit(sendRatePerSecond), sendBurst),
	}, nil
}

// Run receives updates until the context is cancelled. Polling or webhook
// mode is chosen by the profile; the HTTP server (webhook endpoint, metrics,
// health) runs alongside either.
func (b *Bot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	b.runCtx = ctx

	g.Go(func() error {
		return b.serveHTTP(ctx)
	})

	if b.profile.Transport == "polling" {
		g.Go(func() error {
			return b.runPolling(ctx)
		})
	} else {
		if err := b.setWebhook(); err != nil {
			return err
		}
	}

	return g.Wait()
}

func (b *Bot) runPolling(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(cfg)

	slog.Info("receiving telegram updates via long polling")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate classifies and dispatches one update. Dispatch runs
// synchronously so a user's updates keep their arrival order; rendering the
// effects (network sends) happens concurrently.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	event, origin, ok := classifyUpdate(update)
	if !ok {
		return
	}

	if update.CallbackQuery != nil {
		// Stop the client-side loading indicator; best effort.
		if _, err := b.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			slog.Warn("failed to answer callback query", "error", err)
		}
	}

	effects := b.dispatcher.Dispatch(ctx, event)
	if len(effects) == 0 {
		return
	}
	go b.render(ctx, origin, effects)
}

// origin identifies the message an event came from, so effects can reply
// into the right chat and delete the triggering message when asked to.
type origin struct {
	chatID    int64
	messageID int
}

func classifyUpdate(update tgbotapi.Update) (chat.Event, origin, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil {
			return nil, origin{}, false
		}
		event := chat.ButtonSelected{OwnerID: cq.From.ID, Payload: cq.Data}
		return event, origin{chatID: cq.Message.Chat.ID, messageID: cq.Message.MessageID}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil, origin{}, false
	}
	from := origin{chatID: msg.Chat.ID, messageID: msg.MessageID}

	switch {
	case msg.Document != nil:
		event := chat.DocumentUploaded{
			OwnerID:      msg.From.ID,
			FileUniqueID: msg.Document.FileUniqueID,
			FileID:       msg.Document.FileID,
			FileName:     msg.Document.FileName,
		}
		return event, from, true

	case msg.IsCommand():
		command := msg.Command()
		switch {
		case command == "start":
			return chat.StartCommand{OwnerID: msg.From.ID}, from, true
		case strings.HasPrefix(command, "f"):
			return chat.ShortReferenceCommand{
				OwnerID: msg.From.ID,
				Kind:    chat.CommandFetch,
				RawRef:  command[1:],
			}, from, true
		case strings.HasPrefix(command, "d"):
			return chat.ShortReferenceCommand{
				OwnerID: msg.From.ID,
				Kind:    chat.CommandDelete,
				RawRef:  command[1:],
			}, from, true
		default:
			return nil, origin{}, false
		}

	default:
		return chat.TextEntered{OwnerID: msg.From.ID, Text: msg.Text}, from, true
	}
}

func (b *Bot) render(ctx context.Context, from origin, effects []chat.Effect) {
	for _, effect := range effects {
		var err error
		switch e := effect.(type) {
		case chat.ReplyText:
			err = b.sendText(ctx, from.chatID, e)
		case chat.ReplyAttachments:
			err = b.sendAttachments(ctx, from.chatID, e.FileIDs)
		case chat.DeleteOriginalMessage:
			_, err = b.api.Request(tgbotapi.NewDeleteMessage(from.chatID, from.messageID))
		}
		if err != nil {
			slog.Error("failed to render effect", "chat_id", from.chatID, "error", err)
		}
	}
}

func (b *Bot) sendText(ctx context.Context, chatID int64, e chat.ReplyText) error {
	msg := tgbotapi.NewMessage(chatID, e.Text)
	if e.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if e.Keyboard != nil {
		msg.ReplyMarkup = inlineKeyboard(e.Keyboard)
	}
	if e.MainMenu {
		msg.ReplyMarkup = mainMenuKeyboard()
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := b.api.Send(msg)
	return err
}

// sendAttachments re-delivers stored files as media groups, splitting at
// Telegram's group size limit. A leftover single file is sent as a plain
// document since a group needs at least two entries.
func (b *Bot) sendAttachments(ctx context.Context, chatID int64, fileIDs []string) error {
	for len(fileIDs) > 0 {
		n := len(fileIDs)
		if n > mediaGroupLimit {
			n = mediaGroupLimit
		}
		batch := fileIDs[:n]
		fileIDs = fileIDs[n:]

		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}

		if len(batch) == 1 {
			doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(batch[0]))
			if _, err := b.api.Send(doc); err != nil {
				return err
			}
			continue
		}

		media := make([]interface{}, 0, len(batch))
		for _, fileID := range batch {
			media = append(media, tgbotapi.NewInputMediaDocument(tgbotapi.FileID(fileID)))
		}
		group := tgbotapi.MediaGroupConfig{ChatID: chatID, Media: media}
		if _, err := b.api.SendMediaGroup(group); err != nil {
			return err
		}
	}
	return nil
}

func inlineKeyboard(k *chat.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(k.Buttons))
	for _, label := range k.Buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, label),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(chat.MainMenuButtons))
	for _, label := range chat.MainMenuButtons {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
