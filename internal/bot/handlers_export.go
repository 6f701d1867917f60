package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"buildflow/internal/dialog"
	apperrors "buildflow/internal/errors"
	"buildflow/internal/export"
	"buildflow/internal/logger"
)

func (b *Bot) cbExportStart(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	projects := b.ownProjects(cb)
	if projects == nil {
		return
	}
	if len(projects) == 0 {
		b.edit(cb, textNoProjects, ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepExportProject })
	b.edit(cb, "💾 Выберите проект для экспорта:", ptr(projectListKb(projects, "proj", "back_to_menu")))
	b.ack(cb)
}

func (b *Bot) cbExportProjectSelected(cb *tgbotapi.CallbackQuery, cmd Command) {
	b.dialogs.Reset(cb.Message.Chat.ID)
	b.edit(cb, "💾 Выберите тип отчёта:", ptr(exportKindKb(cmd.ID)))
	b.ack(cb)
}

func (b *Bot) cbExport(cb *tgbotapi.CallbackQuery, cmd Command, full bool) {
	chatID := cb.Message.Chat.ID

	project, err := b.deps.Projects.GetByID(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.toast(cb, "⏳ Формирую отчёт...")

	var data []byte
	if full {
		transactions, tErr := b.deps.Transactions.ListByProject(project.ID)
		if tErr == nil {
			data, err = export.FullReport(project, transactions, time.Now())
		} else {
			err = tErr
		}
	} else {
		report, rErr := b.deps.Reports.ProjectReport(project.ID)
		byCategory, cErr := b.deps.Reports.SpendingByCategory(project.ID)
		switch {
		case rErr != nil:
			err = rErr
		case cErr != nil:
			err = cErr
		default:
			data, err = export.SummaryReport(project, report.BudgetSpent, byCategory, report.TransactionsCount)
		}
	}
	if err != nil {
		logger.Get().Errorw("export failed", "project_id", project.ID, "error", err)
		b.send(chatID, apperrors.ErrExportUnavailable.Message, ptr(backToMenuKb()))
		return
	}

	kind := "summary"
	caption := fmt.Sprintf("📑 Сводка по проекту <b>%s</b>", project.Name)
	if full {
		kind = "full"
		caption = fmt.Sprintf("📄 Полный отчёт по проекту <b>%s</b>", project.Name)
	}
	name := fmt.Sprintf("report_%s_%d_%s.xlsx", kind, project.ID, uuid.New().String()[:8])

	if err := b.sendDocument(chatID, name, data, caption); err != nil {
		logger.Get().Errorw("failed to send export document", "project_id", project.ID, "error", err)
		b.send(chatID, apperrors.ErrExportUnavailable.Message, ptr(backToMenuKb()))
		return
	}

	b.send(chatID, "✅ Отчёт сформирован!", ptr(mainMenuKb()))
}
