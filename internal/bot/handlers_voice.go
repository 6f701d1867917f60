package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buildflow/internal/dialog"
	apperrors "buildflow/internal/errors"
	"buildflow/internal/format"
	"buildflow/internal/logger"
	"buildflow/internal/models"
)

func (b *Bot) cbVoiceInputMenu(cb *tgbotapi.CallbackQuery) {
	if b.deps.AI == nil {
		b.edit(cb, apperrors.ErrVoiceUnavailable.Message, ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) { s.Step = dialog.StepVoiceAwait })
	b.edit(cb,
		"🎙️ <b>Голосовой ввод расхода</b>\n\n"+
			"Отправьте голосовое сообщение с описанием расхода.\n\n"+
			"Например: «Купил цемент на пятьсот рублей»",
		ptr(backToMenuKb()))
	b.ack(cb)
}

func (b *Bot) msgVoiceNote(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.Voice == nil {
		b.send(chatID, "❌ Пожалуйста, отправьте голосовое сообщение", nil)
		return
	}
	if b.deps.AI == nil {
		b.dialogs.Reset(chatID)
		b.send(chatID, apperrors.ErrVoiceUnavailable.Message, ptr(mainMenuKb()))
		return
	}

	b.send(chatID, "⏳ Обработка голосового сообщения...", nil)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	transcript, err := b.transcribeVoice(ctx, msg.Voice.FileID)
	if err != nil {
		logger.Get().Errorw("voice transcription failed", "chat_id", chatID, "error", err)
		b.send(chatID, "❌ Не удалось распознать голосовое сообщение. Попробуйте ещё раз.", nil)
		return
	}

	parsed, err := b.deps.AI.ParseExpense(ctx, transcript)
	if err != nil {
		if errors.Is(err, apperrors.ErrLowConfidence) {
			b.send(chatID, fmt.Sprintf(
				"❓ Я не совсем понял расход.\n\n"+
					"Вы сказали: «%s»\n\n"+
					"Попробуйте сформулировать так: «Купил цемент на 500 рублей»",
				transcript), nil)
			return
		}
		logger.Get().Errorw("expense parsing failed", "chat_id", chatID, "error", err)
		b.send(chatID, "❌ Не удалось разобрать расход. Попробуйте ещё раз.", nil)
		return
	}

	var description *string
	if parsed.Description != "" {
		d := parsed.Description
		description = &d
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Step = dialog.StepVoiceConfirm
		s.Voice = &dialog.VoiceForm{
			Amount:      parsed.Amount,
			Category:    parsed.Category,
			Description: description,
		}
	})

	descLine := ""
	if description != nil {
		descLine = fmt.Sprintf("📝 Описание: <code>%s</code>\n", *description)
	}
	b.send(chatID, fmt.Sprintf(
		"🎙️ <b>Распознанный расход:</b>\n\n"+
			"💰 Сумма: %s\n"+
			"📂 Категория: %s\n"+
			"%s"+
			"🎯 Уверенность: %.0f%%\n\n"+
			"Продолжить?",
		format.Price(parsed.Amount),
		format.Category(models.TransactionCategory(parsed.Category)),
		descLine,
		parsed.Confidence*100), ptr(voiceConfirmKb()))
}

// transcribeVoice downloads the voice note from Telegram and runs it
// through speech recognition.
func (b *Bot) transcribeVoice(ctx context.Context, fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("voice download failed: status %d", resp.StatusCode)
	}

	return b.deps.AI.Transcribe(ctx, "voice.ogg", resp.Body)
}

func (b *Bot) cbVoiceConfirm(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)
	if session.Step != dialog.StepVoiceConfirm || session.Voice == nil {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	projects := b.ownProjects(cb)
	if projects == nil {
		return
	}
	if len(projects) == 0 {
		b.dialogs.Reset(chatID)
		b.edit(cb, textNoProjects, ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepVoiceProject })
	b.edit(cb, "📦 Выберите проект для расхода:", ptr(projectListKb(projects, "voice_proj", "voice_cancel")))
	b.ack(cb)
}

func (b *Bot) cbVoiceProjectSelected(ctx context.Context, cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)
	if session.Step != dialog.StepVoiceProject || session.Voice == nil {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	form := session.Voice
	if err := form.Validate(); err != nil {
		logger.Get().Warnw("voice form failed validation", "chat_id", chatID, "error", err)
		b.alert(cb, apperrors.ErrInvalidInput.Message)
		return
	}

	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	transaction, err := b.deps.Transactions.Create(
		cmd.ID, form.Amount, form.ModelCategory(), form.Description, nil, &user.ID)
	if err != nil {
		logger.Get().Errorw("voice expense creation failed", "project_id", cmd.ID, "error", err)
		b.alert(cb, userMessage(err))
		return
	}

	text := fmt.Sprintf(
		"✅ <b>Расход добавлен!</b>\n\n"+
			"Сумма: %s\n"+
			"Категория: %s\n"+
			"Дата: %s",
		format.Price(transaction.Amount),
		format.Category(transaction.Category),
		format.DateTime(transaction.CreatedAt))

	if user.Role == models.RoleClient {
		order, coErr := b.deps.ChangeOrders.Create(transaction.ID, user.ID)
		if coErr != nil {
			logger.Get().Errorw("change order creation failed", "transaction_id", transaction.ID, "error", coErr)
		} else {
			text += fmt.Sprintf("\n\n📋 Создан запрос на согласование #%d", order.ID)
			b.notifyProjectOwner(cmd.ID, order.ID, transaction, user)
		}
	}

	b.deps.Audit.Log(user.ID, "expense_created", "transaction", transaction.ID, map[string]any{
		"amount": transaction.Amount.String(), "category": string(transaction.Category), "source": "voice",
	})

	b.dialogs.Reset(chatID)
	b.edit(cb, text, ptr(mainMenuKb()))
	b.ack(cb)
}

func (b *Bot) cbVoiceCancel(cb *tgbotapi.CallbackQuery) {
	b.dialogs.Reset(cb.Message.Chat.ID)
	b.edit(cb, "❌ <b>Действие отменено</b>\n\nВозврат в главное меню.", ptr(mainMenuKb()))
	b.ack(cb)
}
