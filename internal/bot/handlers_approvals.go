package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buildflow/internal/dialog"
	"buildflow/internal/format"
	"buildflow/internal/logger"
	"buildflow/internal/models"
)

// rejectionReasons maps a reason token to the stored localized text.
var rejectionReasons = map[Action]string{
	ActionReasonBudget:  "Превышен бюджет",
	ActionReasonQuality: "Плохое качество",
	ActionReasonOther:   "Другое",
}

func (b *Bot) cbApprovalsMenu(cb *tgbotapi.CallbackQuery) {
	b.dialogs.Reset(cb.Message.Chat.ID)
	b.edit(cb, "✅ <b>Согласования</b>\n\nВыберите действие:", ptr(approvalsMenuKb()))
	b.ack(cb)
}

func (b *Bot) cbPendingApprovals(cb *tgbotapi.CallbackQuery) {
	orders, err := b.deps.ChangeOrders.ListPending()
	if err != nil {
		logger.Get().Errorw("failed to list pending change orders", "error", err)
		b.alert(cb, textLoadError)
		return
	}

	if len(orders) == 0 {
		b.edit(cb, "📭 Нет ожидающих согласований", ptr(approvalsMenuKb()))
		b.ack(cb)
		return
	}

	b.edit(cb, fmt.Sprintf(
		"📋 <b>Ожидающие согласования (%d):</b>\n\nНажмите для просмотра:",
		len(orders)), ptr(pendingOrdersKb(orders)))
	b.ack(cb)
}

func (b *Bot) cbResolvedApprovals(cb *tgbotapi.CallbackQuery, status models.ChangeOrderStatus) {
	orders, err := b.deps.ChangeOrders.ListByStatus(status)
	if err != nil {
		b.alert(cb, textLoadError)
		return
	}

	title := "✅ <b>Одобренные согласования"
	empty := "📭 Одобренных согласований пока нет"
	if status == models.ChangeOrderRejected {
		title = "❌ <b>Отклоненные согласования"
		empty = "📭 Отклоненных согласований пока нет"
	}

	if len(orders) == 0 {
		b.edit(cb, empty, ptr(approvalsMenuKb()))
		b.ack(cb)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d):</b>\n\n", title, len(orders))
	for _, o := range orders {
		fmt.Fprintf(&sb, "#%d • %s • %s\n", o.ID, format.Price(o.Transaction.Amount), o.Requester.Name)
		if o.RejectionReason != nil {
			fmt.Fprintf(&sb, "   Причина: %s\n", *o.RejectionReason)
		}
	}

	b.edit(cb, sb.String(), ptr(approvalsMenuKb()))
	b.ack(cb)
}

func (b *Bot) cbViewApproval(cb *tgbotapi.CallbackQuery, cmd Command) {
	order, err := b.deps.ChangeOrders.GetByID(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	description := "нет"
	if order.Transaction.Description != nil && *order.Transaction.Description != "" {
		description = *order.Transaction.Description
	}

	b.edit(cb, fmt.Sprintf(
		"📋 <b>Согласование #%d</b>\n\n"+
			"👷 От: %s\n"+
			"💰 Сумма: %s\n"+
			"📂 Категория: %s\n"+
			"📝 Описание: %s\n"+
			"📅 Дата: %s",
		order.ID, order.Requester.Name,
		format.Price(order.Transaction.Amount),
		format.Category(order.Transaction.Category),
		description,
		format.DateTime(order.CreatedAt)), ptr(approvalDecisionKb(order.ID)))
	b.ack(cb)
}

func (b *Bot) cbApprove(cb *tgbotapi.CallbackQuery, cmd Command) {
	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	order, err := b.deps.ChangeOrders.Approve(cmd.ID, user.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.deps.Audit.Log(user.ID, "change_order_approved", "change_order", order.ID, map[string]any{
		"amount": order.Transaction.Amount.String(),
	})

	b.edit(cb, fmt.Sprintf(
		"✅ <b>Согласование #%d одобрено!</b>\n\n"+
			"Сумма: %s\n"+
			"Запросил: %s",
		order.ID, format.Price(order.Transaction.Amount), order.Requester.Name),
		ptr(approvalsMenuKb()))
	b.ack(cb)
}

func (b *Bot) cbRejectStart(cb *tgbotapi.CallbackQuery, cmd Command) {
	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) {
		s.Step = dialog.StepRejectReason
		s.Reject = &dialog.RejectForm{OrderID: cmd.ID}
	})
	b.edit(cb, "❌ Выберите причину отклонения:", ptr(rejectionReasonKb()))
	b.ack(cb)
}

func (b *Bot) cbRejectionReason(cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)
	if session.Step != dialog.StepRejectReason || session.Reject == nil {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	if cmd.Action == ActionReasonCancel {
		b.dialogs.Reset(chatID)
		b.edit(cb, "✅ <b>Согласования</b>\n\nВыберите действие:", ptr(approvalsMenuKb()))
		b.toast(cb, "Отменено")
		return
	}

	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	reason := rejectionReasons[cmd.Action]
	order, err := b.deps.ChangeOrders.Reject(session.Reject.OrderID, user.ID, reason)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.deps.Audit.Log(user.ID, "change_order_rejected", "change_order", order.ID, map[string]any{
		"reason": reason,
	})

	b.dialogs.Reset(chatID)
	b.edit(cb, fmt.Sprintf(
		"❌ <b>Согласование #%d отклонено</b>\n\nПричина: %s",
		order.ID, reason), ptr(approvalsMenuKb()))
	b.ack(cb)
}
