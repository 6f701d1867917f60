// Package bot is the Telegram transport layer: it consumes long-poll
// updates, routes commands and callbacks through the dialog state machine
// and renders service results back into chat messages.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"buildflow/internal/ai"
	"buildflow/internal/dialog"
	"buildflow/internal/logger"
	"buildflow/internal/services"
)

// Deps bundles everything the bot needs to operate.
type Deps struct {
	Users        services.UserServicer
	Projects     services.ProjectServicer
	Transactions services.TransactionServicer
	Photos       services.PhotoServicer
	ChangeOrders services.ChangeOrderServicer
	Tasks        services.TaskServicer
	Reports      services.ReportServicer
	Audit        services.AuditServicer
	AI           *ai.Client // nil when voice input is disabled
}

// Bot drives one Telegram bot account.
type Bot struct {
	api     *tgbotapi.BotAPI
	dialogs *dialog.Manager
	deps    Deps
}

// New authorizes against the Bot API and builds the dispatcher.
func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:     api,
		dialogs: dialog.NewManager(),
		deps:    deps,
	}, nil
}

// Username returns the authorized bot account name.
func (b *Bot) Username() string { return b.api.Self.UserName }

// Run consumes the long-poll update channel until the context is
// cancelled. Each update is handled to completion before the next one.
func (b *Bot) Run(ctx context.Context) {
	log := logger.Get()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Infow("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Infow("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := logger.Get()
	traceID := uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic while handling update", "trace_id", traceID, "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		log.Infow("callback", "trace_id", traceID, "chat_id", cb.Message.Chat.ID, "data", cb.Data)
		b.handleCallback(ctx, cb)
	case update.Message != nil:
		msg := update.Message
		log.Infow("message", "trace_id", traceID, "chat_id", msg.Chat.ID, "has_text", msg.Text != "")
		b.handleMessage(ctx, msg)
	}
}

// send delivers an HTML message with an optional inline keyboard.
func (b *Bot) send(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		logger.Get().Errorw("failed to send message", "chat_id", chatID, "error", err)
	}
}

// edit replaces the callback's message text in place.
func (b *Bot) edit(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	if _, err := b.api.Send(edit); err != nil {
		logger.Get().Errorw("failed to edit message", "chat_id", cb.Message.Chat.ID, "error", err)
	}
}

// ack closes the callback spinner without a popup.
func (b *Bot) ack(cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		logger.Get().Errorw("failed to answer callback", "error", err)
	}
}

// toast shows a short non-blocking popup.
func (b *Bot) toast(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		logger.Get().Errorw("failed to answer callback", "error", err)
	}
}

// alert shows a blocking popup, used for not-found and invalid input.
func (b *Bot) alert(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cb.ID, text)); err != nil {
		logger.Get().Errorw("failed to answer callback", "error", err)
	}
}

// sendDocument uploads an in-memory file as a chat document.
func (b *Bot) sendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(doc)
	return err
}
