package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buildflow/internal/format"
	"buildflow/internal/models"
)

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

// mainMenuKb is the top-level menu shown after /start and at flow ends.
func mainMenuKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📂 Мои проекты", "menu_my_projects")),
		row(btn("➕ Создать проект", "menu_create_project")),
		row(btn("💰 Добавить расход", "menu_add_expense")),
		row(btn("🎙️ Голосовой ввод", "menu_voice_input")),
		row(btn("📸 Фото отчёт", "menu_photo_report")),
		row(btn("📊 Отчёт по проекту", "menu_project_report")),
		row(btn("📋 Мои задачи", "menu_my_tasks")),
		row(btn("✅ Согласования", "menu_approvals")),
		row(btn("💾 Экспорт в Excel", "menu_export_excel")),
		row(btn("⚙️ Настройки", "menu_settings")),
	)
}

// roleSelectKb asks a new user to pick a role.
func roleSelectKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("👷 Прораб", "role_foreman")),
		row(btn("👤 Заказчик", "role_client")),
	)
}

// projectListKb lists the user's projects, one button each. The prefix
// selects which flow the chosen project feeds ("proj", "task_proj",
// "voice_proj", "export_full", "export_summary").
func projectListKb(projects []models.Project, prefix, cancelData string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range projects {
		rows = append(rows, row(btn("📦 "+p.Name, fmt.Sprintf("%s_%d", prefix, p.ID))))
	}
	rows = append(rows, row(btn("◀️ Назад", cancelData)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// projectMenuKb shows the per-project actions.
func projectMenuKb(projectID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📋 Детали проекта", fmt.Sprintf("proj_details_%d", projectID))),
		row(btn("💰 Добавить расход", fmt.Sprintf("proj_add_expense_%d", projectID))),
		row(btn("📸 Загрузить фото", fmt.Sprintf("proj_add_photo_%d", projectID))),
		row(btn("📊 Отчёт", fmt.Sprintf("proj_report_%d", projectID))),
		row(btn("◀️ Вернуться", "back_to_menu")),
	)
}

// projectDetailsKb shows the statistics and maintenance actions.
func projectDetailsKb(projectID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📊 Статистика расходов", fmt.Sprintf("stat_expenses_%d", projectID))),
		row(btn("📈 Прогресс по этапам", fmt.Sprintf("stat_progress_%d", projectID))),
		row(btn("💾 История расходов", fmt.Sprintf("history_expenses_%d", projectID))),
		row(btn("📷 Галерея фото", fmt.Sprintf("gallery_%d", projectID))),
		row(btn("💰 Обновить бюджет", fmt.Sprintf("update_budget_%d", projectID))),
		row(btn("◀️ Вернуться", "back_to_menu")),
	)
}

// backToDetailsKb returns from a statistics view to the project details.
func backToDetailsKb(projectID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("🔙 Назад к проекту", fmt.Sprintf("proj_details_%d", projectID))),
		row(btn("◀️ Главное меню", "back_to_menu")),
	)
}

// categoryKb asks for an expense category.
func categoryKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn(format.Category(models.CategoryMaterials), "cat_materials")),
		row(btn(format.Category(models.CategoryLabor), "cat_labor")),
		row(btn(format.Category(models.CategoryOther), "cat_other")),
	)
}

// confirmExpenseKb asks to confirm or discard a collected expense.
func confirmExpenseKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(
			btn("✅ Подтвердить", "confirm_expense"),
			btn("❌ Отменить", "cancel_expense"),
		),
	)
}

// stageKb asks for a construction stage.
func stageKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn(format.Stage(models.StageDraft), "stage_draft")),
		row(btn(format.Stage(models.StageElectric), "stage_electric")),
		row(btn(format.Stage(models.StageFinish), "stage_finish")),
	)
}

// photoUploadKb is shown while photos are being collected.
func photoUploadKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("✅ Завершить", "finish_photos")),
	)
}

// backToMenuKb is the single "back" button.
func backToMenuKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("◀️ В главное меню", "back_to_menu")),
	)
}

// settingsKb shows the settings actions.
func settingsKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("🔐 Изменить роль", "settings_change_role")),
		row(btn("ℹ️ О приложении", "settings_about")),
		row(btn("◀️ Назад", "back_to_menu")),
	)
}

// tasksMenuKb shows the tasks submenu.
func tasksMenuKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📋 Мои задачи", "tasks_my_tasks")),
		row(btn("➕ Создать задачу", "tasks_create")),
		row(btn("✅ Утвержденные задачи", "tasks_approved")),
		row(btn("◀️ Назад", "back_to_menu")),
	)
}

// taskListKb lists tasks with complete/delete controls for open ones.
func taskListKb(tasks []models.Task) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range tasks {
		status := "⏳"
		if t.IsCompleted {
			status = "✅"
		}
		rows = append(rows, row(btn(fmt.Sprintf("%s %s", status, t.Title), fmt.Sprintf("task_view_%d", t.ID))))
		if !t.IsCompleted {
			rows = append(rows, row(
				btn("✔️ Отметить выполненной", fmt.Sprintf("task_complete_%d", t.ID)),
				btn("🗑️ Удалить", fmt.Sprintf("task_delete_%d", t.ID)),
			))
		}
	}
	rows = append(rows, row(btn("◀️ Назад", "tasks_back")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// approvalsMenuKb shows the approvals submenu.
func approvalsMenuKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📋 Ожидающие согласования", "approvals_pending")),
		row(btn("✅ Одобренные", "approvals_approved")),
		row(btn("❌ Отклоненные", "approvals_rejected")),
		row(btn("◀️ Назад", "back_to_menu")),
	)
}

// pendingOrdersKb lists pending change orders.
func pendingOrdersKb(orders []models.ChangeOrder) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range orders {
		label := fmt.Sprintf("💰 %s от %s", format.Price(o.Transaction.Amount), o.Requester.Name)
		rows = append(rows, row(btn(label, fmt.Sprintf("view_approval_%d", o.ID))))
	}
	rows = append(rows, row(btn("◀️ Назад", "back_approvals")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// approvalDecisionKb shows approve/reject for one change order.
func approvalDecisionKb(orderID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(
			btn("✅ Одобрить", fmt.Sprintf("approve_%d", orderID)),
			btn("❌ Отклонить", fmt.Sprintf("reject_%d", orderID)),
		),
		row(btn("◀️ Назад", "approvals_pending")),
	)
}

// rejectionReasonKb asks why the change order is rejected.
func rejectionReasonKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("Превышен бюджет", "reason_budget")),
		row(btn("Плохое качество", "reason_quality")),
		row(btn("Другое", "reason_other")),
		row(btn("Отмена", "reason_cancel")),
	)
}

// voiceConfirmKb asks to continue with a parsed voice expense.
func voiceConfirmKb() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(
			btn("✅ Продолжить", "voice_confirm"),
			btn("❌ Отмена", "voice_cancel"),
		),
	)
}

// exportKindKb asks which workbook to build for the chosen project.
func exportKindKb(projectID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(btn("📄 Полный отчёт", fmt.Sprintf("export_full_%d", projectID))),
		row(btn("📑 Сводка", fmt.Sprintf("export_summary_%d", projectID))),
		row(btn("◀️ Назад", "back_to_menu")),
	)
}
