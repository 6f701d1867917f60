package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"buildflow/internal/dialog"
	apperrors "buildflow/internal/errors"
	"buildflow/internal/format"
	"buildflow/internal/logger"
	"buildflow/internal/models"
)

const (
	textMainMenu       = "📋 Главное меню. Выберите действие:"
	textInvalidAmount  = "❌ Введите корректную сумму (больше 0):\nНапример: 50000 или 50000.50"
	textGenericError   = "❌ Произошла ошибка. Попробуйте позже."
	textNoProjects     = "❌ У вас нет проектов.\n\nСначала создайте проект."
	textUserNotFound   = "❌ Пользователь не найден"
	textLoadError      = "❌ Ошибка при загрузке"
	textUnknownCommand = "🤔 Я не понял вашу команду.\n\nИспользуйте меню ниже или отправьте /help для справки."
)

// userMessage extracts the chat-facing text from a service error.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return textGenericError
}

func fullName(u *tgbotapi.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// handleMessage routes an incoming message by command, then by the chat's
// current dialog step.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.cmdStart(msg)
			return
		case "help":
			b.cmdHelp(chatID)
			return
		case "status":
			b.cmdStatus(chatID)
			return
		}
		// Other commands (/skip) are interpreted by the active step below.
	}

	session := b.dialogs.Get(chatID)
	switch session.Step {
	case dialog.StepProjectName:
		b.msgProjectName(msg)
	case dialog.StepProjectAddress:
		b.msgProjectAddress(msg)
	case dialog.StepProjectBudget:
		b.msgProjectBudget(msg)
	case dialog.StepExpenseAmount:
		b.msgExpenseAmount(msg)
	case dialog.StepExpenseDescription:
		b.msgExpenseDescription(msg)
	case dialog.StepPhotoUpload:
		b.msgPhotoUpload(msg)
	case dialog.StepBudgetAmount:
		b.msgBudgetAmount(msg)
	case dialog.StepTaskTitle:
		b.msgTaskTitle(msg)
	case dialog.StepTaskDescription:
		b.msgTaskDescription(msg)
	case dialog.StepVoiceAwait:
		b.msgVoiceNote(ctx, msg)
	default:
		b.send(chatID, textUnknownCommand, ptr(mainMenuKb()))
	}
}

// handleCallback parses the callback token and routes the typed command.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	cmd, ok := ParseCallback(cb.Data)
	if !ok {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	switch cmd.Action {
	case ActionBackToMenu:
		b.dialogs.Reset(cb.Message.Chat.ID)
		b.edit(cb, textMainMenu, ptr(mainMenuKb()))
		b.ack(cb)
	case ActionRoleForeman, ActionRoleClient:
		b.cbSelectRole(cb, cmd)
	case ActionMenuMyProjects:
		b.cbMyProjects(cb)
	case ActionMenuCreateProject:
		b.cbCreateProjectStart(cb)
	case ActionMenuAddExpense:
		b.cbAddExpenseStart(cb)
	case ActionMenuPhotoReport:
		b.cbPhotoReportStart(cb)
	case ActionMenuProjectReport:
		b.cbProjectReportStart(cb)
	case ActionMenuSettings:
		b.cbSettings(cb)
	case ActionSelectProject:
		b.cbProjectSelected(cb, cmd)
	case ActionProjectDetails:
		b.cbProjectDetails(cb, cmd)
	case ActionProjectAddExpense:
		b.cbProjectAddExpense(cb, cmd)
	case ActionProjectAddPhoto:
		b.cbProjectAddPhoto(cb, cmd)
	case ActionProjectReport:
		b.cbProjectReport(cb, cmd)
	case ActionStatExpenses:
		b.cbStatExpenses(cb, cmd)
	case ActionStatProgress:
		b.cbStatProgress(cb, cmd)
	case ActionHistoryExpenses:
		b.cbHistoryExpenses(cb, cmd)
	case ActionGallery:
		b.cbGallery(cb, cmd)
	case ActionUpdateBudget:
		b.cbUpdateBudgetStart(cb, cmd)
	case ActionCategoryMaterials, ActionCategoryLabor, ActionCategoryOther:
		b.cbExpenseCategory(cb, cmd)
	case ActionConfirmExpense:
		b.cbConfirmExpense(cb)
	case ActionCancelExpense:
		b.cbCancelExpense(cb)
	case ActionStageDraft, ActionStageElectric, ActionStageFinish:
		b.cbPhotoStage(cb, cmd)
	case ActionAddMorePhotos:
		b.ack(cb)
	case ActionFinishPhotos:
		b.cbFinishPhotos(cb)
	case ActionSettingsChangeRole:
		b.cbSettingsChangeRole(cb)
	case ActionSettingsAbout:
		b.cbSettingsAbout(cb)
	case ActionMenuMyTasks, ActionTasksBack:
		b.cbTasksMenu(cb)
	case ActionTasksMyTasks:
		b.cbMyTasks(cb)
	case ActionTasksApproved:
		b.cbApprovedTasks(cb)
	case ActionTasksCreate:
		b.cbCreateTaskStart(cb)
	case ActionTaskProject:
		b.cbTaskProjectSelected(cb, cmd)
	case ActionTaskView:
		b.cbTaskView(cb, cmd)
	case ActionTaskComplete:
		b.cbTaskComplete(cb, cmd)
	case ActionTaskDelete:
		b.cbTaskDelete(cb, cmd)
	case ActionMenuApprovals, ActionBackApprovals:
		b.cbApprovalsMenu(cb)
	case ActionApprovalsPending:
		b.cbPendingApprovals(cb)
	case ActionApprovalsApproved:
		b.cbResolvedApprovals(cb, models.ChangeOrderApproved)
	case ActionApprovalsRejected:
		b.cbResolvedApprovals(cb, models.ChangeOrderRejected)
	case ActionViewApproval:
		b.cbViewApproval(cb, cmd)
	case ActionApprove:
		b.cbApprove(cb, cmd)
	case ActionReject:
		b.cbRejectStart(cb, cmd)
	case ActionReasonBudget, ActionReasonQuality, ActionReasonOther, ActionReasonCancel:
		b.cbRejectionReason(cb, cmd)
	case ActionMenuVoiceInput:
		b.cbVoiceInputMenu(cb)
	case ActionVoiceConfirm:
		b.cbVoiceConfirm(cb)
	case ActionVoiceCancel:
		b.cbVoiceCancel(cb)
	case ActionVoiceProject:
		b.cbVoiceProjectSelected(ctx, cb, cmd)
	case ActionMenuExportExcel:
		b.cbExportStart(cb)
	case ActionExportFull:
		b.cbExport(cb, cmd, true)
	case ActionExportSummary:
		b.cbExport(cb, cmd, false)
	default:
		b.alert(cb, "❌ Некорректный ввод")
	}
}

func ptr(kb tgbotapi.InlineKeyboardMarkup) *tgbotapi.InlineKeyboardMarkup { return &kb }

// ---- commands ----

func (b *Bot) cmdStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := b.deps.Users.GetOrCreate(msg.From.ID, fullName(msg.From))
	if err != nil {
		logger.Get().Errorw("registration failed", "tg_id", msg.From.ID, "error", err)
		b.send(chatID, "❌ Ошибка при подключении к базе данных. Попробуйте позже.", nil)
		return
	}

	b.dialogs.Reset(chatID)

	if user.Role == models.RoleForeman {
		b.send(chatID, fmt.Sprintf(
			"👋 Добро пожаловать в <b>BuildFlow v2.0</b>!\n\n"+
				"Вы вошли как: <b>%s</b>\n\n"+
				"Выберите действие:",
			format.Role(user.Role)), ptr(mainMenuKb()))
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepRegisterRole })
	b.send(chatID,
		"👋 Добро пожаловать в <b>BuildFlow v2.0</b>!\n\n"+
			"Это приложение для управления строительными проектами.\n\n"+
			"Пожалуйста, выберите вашу роль:",
		ptr(roleSelectKb()))
}

func (b *Bot) cmdHelp(chatID int64) {
	b.send(chatID,
		"<b>📚 Справка по командам:</b>\n\n"+
			"<code>/start</code> – начать работу / главное меню\n"+
			"<code>/help</code> – эта справка\n"+
			"<code>/status</code> – статус бота\n\n"+
			"<b>Основные функции:</b>\n"+
			"👷 Прорабы могут создавать проекты\n"+
			"💰 Добавляйте расходы по категориям\n"+
			"📸 Загружайте фото прогресса по этапам\n"+
			"📊 Смотрите отчёты и статистику\n"+
			"⚙️ Управляйте своими настройками\n\n"+
			"<b>Советы:</b>\n"+
			"• Используйте меню для навигации\n"+
			"• Нажимайте «Назад» для возврата на предыдущий экран\n"+
			"• Все данные сохраняются автоматически",
		ptr(mainMenuKb()))
}

func (b *Bot) cmdStatus(chatID int64) {
	b.send(chatID, "✅ Бот <b>BuildFlow v2.0</b> работает отлично!\n\nВсе функции доступны. Начните с /start", nil)
}

// ---- registration and settings ----

func (b *Bot) cbSelectRole(cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)

	role := models.RoleForeman
	if cmd.Action == ActionRoleClient {
		role = models.RoleClient
	}

	switch session.Step {
	case dialog.StepRegisterRole, dialog.StepSettingsRole:
	default:
		b.alert(cb, "❌ Неизвестная роль")
		return
	}

	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err == nil {
		_, err = b.deps.Users.UpdateRole(user.ID, role)
	}
	if err != nil {
		logger.Get().Errorw("role update failed", "tg_id", cb.From.ID, "error", err)
		b.alert(cb, "❌ Ошибка при сохранении роли")
		return
	}

	fromSettings := session.Step == dialog.StepSettingsRole
	b.dialogs.Reset(chatID)

	if fromSettings {
		b.edit(cb, fmt.Sprintf("✅ Роль изменена на: <b>%s</b>", format.Role(role)), ptr(mainMenuKb()))
	} else {
		b.edit(cb, fmt.Sprintf(
			"✅ Роль установлена: <b>%s</b>\n\nДобро пожаловать в BuildFlow!",
			format.Role(role)), ptr(mainMenuKb()))
	}
	b.ack(cb)
}

func (b *Bot) cbSettings(cb *tgbotapi.CallbackQuery) {
	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.edit(cb, fmt.Sprintf(
		"⚙️ <b>Мои настройки:</b>\n\n"+
			"👤 Ваш ID: <code>%d</code>\n"+
			"📝 Имя: <code>%s</code>\n"+
			"🔐 Роль: <b>%s</b>\n\n"+
			"Выберите действие:",
		cb.From.ID, user.Name, format.Role(user.Role)), ptr(settingsKb()))
	b.ack(cb)
}

func (b *Bot) cbSettingsChangeRole(cb *tgbotapi.CallbackQuery) {
	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) { s.Step = dialog.StepSettingsRole })
	b.edit(cb, "🔐 Выберите новую роль:", ptr(roleSelectKb()))
	b.ack(cb)
}

func (b *Bot) cbSettingsAbout(cb *tgbotapi.CallbackQuery) {
	b.edit(cb,
		"ℹ️ <b>О BuildFlow v2.0:</b>\n\n"+
			"Приложение для управления строительными проектами на Telegram.\n\n"+
			"<b>Функции:</b>\n"+
			"✅ Создание и управление проектами\n"+
			"✅ Отслеживание расходов по категориям\n"+
			"✅ Ведение фотографического отчета\n"+
			"✅ Контроль бюджета\n"+
			"✅ Анализ прогресса работ\n"+
			"✅ Детальная статистика\n\n"+
			"<b>Версия:</b> 2.0\n"+
			"<b>Разработчик:</b> BuildFlow Team\n"+
			"<b>Поддержка:</b> @support_buildflow",
		ptr(backToMenuKb()))
	b.ack(cb)
}

// ---- project browsing ----

// ownProjects loads the callback sender's projects, replying on failure.
// Returns nil when the caller should stop.
func (b *Bot) ownProjects(cb *tgbotapi.CallbackQuery) []models.Project {
	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return nil
	}
	projects, err := b.deps.Projects.ListByOwner(user.ID)
	if err != nil {
		logger.Get().Errorw("failed to list projects", "user_id", user.ID, "error", err)
		b.alert(cb, "❌ Ошибка при загрузке проектов")
		return nil
	}
	return projects
}

func (b *Bot) cbMyProjects(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	projects := b.ownProjects(cb)
	if projects == nil {
		return
	}
	if len(projects) == 0 {
		b.edit(cb, "📂 У вас нет проектов.\n\nСоздайте новый проект, чтобы начать.", ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepProjectSelect })
	b.edit(cb, fmt.Sprintf("📂 Ваши проекты (%d):\n\nВыберите проект для открытия:", len(projects)),
		ptr(projectListKb(projects, "proj", "back_to_menu")))
	b.ack(cb)
}

// cbProjectSelected handles a proj_<id> press. The same token feeds
// several flows; the dialog step decides which one.
func (b *Bot) cbProjectSelected(cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)

	switch session.Step {
	case dialog.StepExpenseProject:
		b.dialogs.Update(chatID, func(s *dialog.Session) {
			s.Step = dialog.StepExpenseAmount
			s.Expense = &dialog.ExpenseForm{ProjectID: cmd.ID}
		})
		b.edit(cb, "💰 Введите сумму расхода (в BYN):\n\nНапример: 1250.50", nil)
		b.ack(cb)

	case dialog.StepPhotoProject:
		b.dialogs.Update(chatID, func(s *dialog.Session) {
			s.Step = dialog.StepPhotoStage
			s.Photo = &dialog.PhotoForm{ProjectID: cmd.ID}
		})
		b.edit(cb, "📸 Выберите этап работ:", ptr(stageKb()))
		b.ack(cb)

	case dialog.StepReportProject:
		b.dialogs.Reset(chatID)
		b.showProjectReport(cb, cmd.ID, ptr(backToMenuKb()))

	case dialog.StepExportProject:
		b.cbExportProjectSelected(cb, cmd)

	default: // StepProjectSelect and stale keyboards
		project, err := b.deps.Projects.GetByID(cmd.ID)
		if err != nil {
			b.alert(cb, userMessage(err))
			return
		}
		b.edit(cb, fmt.Sprintf(
			"📦 <b>%s</b>\n📍 %s\n💰 Бюджет: %s\n\nВыберите действие:",
			project.Name, project.Address, format.Price(project.Budget)),
			ptr(projectMenuKb(project.ID)))
		b.ack(cb)
	}
}

func (b *Bot) cbProjectAddExpense(cb *tgbotapi.CallbackQuery, cmd Command) {
	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) {
		s.Step = dialog.StepExpenseAmount
		s.Expense = &dialog.ExpenseForm{ProjectID: cmd.ID}
	})
	b.edit(cb, "💰 Введите сумму расхода (в BYN):\n\nНапример: 1250.50", nil)
	b.ack(cb)
}

func (b *Bot) cbProjectAddPhoto(cb *tgbotapi.CallbackQuery, cmd Command) {
	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) {
		s.Step = dialog.StepPhotoStage
		s.Photo = &dialog.PhotoForm{ProjectID: cmd.ID}
	})
	b.edit(cb, "📸 Выберите этап работ:", ptr(stageKb()))
	b.ack(cb)
}

func (b *Bot) cbProjectReport(cb *tgbotapi.CallbackQuery, cmd Command) {
	b.showProjectReport(cb, cmd.ID, ptr(backToMenuKb()))
}

// ---- project creation ----

func (b *Bot) cbCreateProjectStart(cb *tgbotapi.CallbackQuery) {
	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil || user.Role != models.RoleForeman {
		b.alert(cb, apperrors.ErrRoleRequired.Message)
		return
	}

	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) {
		s.Step = dialog.StepProjectName
		s.Project = &dialog.ProjectForm{}
	})
	b.edit(cb, "📝 Введите название проекта:\n\nНапример: 'Ремонт офиса на ул. Ленина'", nil)
	b.ack(cb)
}

func (b *Bot) msgProjectName(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !format.ValidProjectName(msg.Text) {
		b.send(chatID, "❌ Название должно быть от 1 до 255 символов.\nПопробуйте снова:", nil)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Project.Name = msg.Text
		s.Step = dialog.StepProjectAddress
	})
	b.send(chatID, "📍 Введите адрес объекта:\n\nНапример: 'г. Минск, ул. Ленина, 10-15'", nil)
}

func (b *Bot) msgProjectAddress(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !format.ValidProjectAddress(msg.Text) {
		b.send(chatID, "❌ Адрес должен быть от 5 до 512 символов.\nПопробуйте снова:", nil)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Project.Address = msg.Text
		s.Step = dialog.StepProjectBudget
	})
	b.send(chatID, "💰 Введите примерный бюджет проекта (в BYN):\n\nНапример: 50000 или 50000.50", nil)
}

func (b *Bot) msgProjectBudget(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	amount, ok := format.ParseAmount(msg.Text)
	if !ok {
		b.send(chatID, textInvalidAmount, nil)
		return
	}

	form := b.dialogs.Update(chatID, func(s *dialog.Session) { s.Project.Budget = amount }).Project
	if err := form.Validate(); err != nil {
		logger.Get().Warnw("project form failed validation", "chat_id", chatID, "error", err)
		b.send(chatID, apperrors.ErrInvalidInput.Message, nil)
		return
	}

	user, err := b.deps.Users.GetByTgID(msg.From.ID)
	if err != nil {
		b.send(chatID, "❌ Ошибка: пользователь не найден", nil)
		return
	}

	project, err := b.deps.Projects.Create(form.Name, form.Address, form.Budget, user.ID)
	if err != nil {
		logger.Get().Errorw("project creation failed", "user_id", user.ID, "error", err)
		b.send(chatID, "❌ Ошибка при создании проекта. Попробуйте позже.", nil)
		return
	}

	b.deps.Audit.Log(user.ID, "project_created", "project", project.ID, map[string]any{
		"name": project.Name, "budget": project.Budget.String(),
	})

	b.dialogs.Reset(chatID)
	b.send(chatID, fmt.Sprintf(
		"✅ <b>Проект создан!</b>\n\n"+
			"📦 %s\n"+
			"📍 %s\n"+
			"💰 Бюджет: %s\n\n"+
			"Теперь вы можете добавлять расходы и фото!",
		project.Name, project.Address, format.Price(project.Budget)), ptr(mainMenuKb()))
}

// ---- expense entry ----

func (b *Bot) cbAddExpenseStart(cb *tgbotapi.CallbackQuery) {
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

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepExpenseProject })
	b.edit(cb, fmt.Sprintf("💰 Выберите проект для добавления расхода (%d):", len(projects)),
		ptr(projectListKb(projects, "proj", "back_to_menu")))
	b.ack(cb)
}

func (b *Bot) msgExpenseAmount(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	amount, ok := format.ParseAmount(msg.Text)
	if !ok {
		b.send(chatID, "❌ Введите корректную сумму (больше 0):\nНапример: 1250.50", nil)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Expense.Amount = amount
		s.Step = dialog.StepExpenseCategory
	})
	b.send(chatID, "📋 Выберите категорию расхода:", ptr(categoryKb()))
}

func (b *Bot) cbExpenseCategory(cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	if b.dialogs.Get(chatID).Step != dialog.StepExpenseCategory {
		b.alert(cb, "❌ Неизвестная категория")
		return
	}

	category := "other"
	switch cmd.Action {
	case ActionCategoryMaterials:
		category = "materials"
	case ActionCategoryLabor:
		category = "labor"
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Expense.Category = category
		s.Step = dialog.StepExpenseDescription
	})
	b.edit(cb, "📝 Введите описание расхода (опционально):\n\nИли напишите <code>-</code> чтобы пропустить", nil)
	b.ack(cb)
}

func (b *Bot) msgExpenseDescription(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var description *string
	if msg.Text != "-" {
		text := msg.Text
		description = &text
	}

	session := b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Expense.Description = description
		s.Step = dialog.StepExpenseConfirm
	})

	form := session.Expense
	summary := format.ExpenseSummary(form.Amount, form.ModelCategory(), form.Description)
	b.send(chatID, summary+"\nПодтвердить?", ptr(confirmExpenseKb()))
}

func (b *Bot) cbConfirmExpense(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)
	if session.Step != dialog.StepExpenseConfirm || session.Expense == nil {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	form := session.Expense
	if err := form.Validate(); err != nil {
		logger.Get().Warnw("expense form failed validation", "chat_id", chatID, "error", err)
		b.alert(cb, apperrors.ErrInvalidInput.Message)
		return
	}

	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	transaction, err := b.deps.Transactions.Create(
		form.ProjectID, form.Amount, form.ModelCategory(), form.Description, nil, &user.ID)
	if err != nil {
		logger.Get().Errorw("expense creation failed", "project_id", form.ProjectID, "error", err)
		b.edit(cb, "❌ Ошибка при добавлении расхода", ptr(backToMenuKb()))
		b.ack(cb)
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

	// Client spending needs a second-party sign-off.
	if user.Role == models.RoleClient {
		order, coErr := b.deps.ChangeOrders.Create(transaction.ID, user.ID)
		if coErr != nil {
			logger.Get().Errorw("change order creation failed", "transaction_id", transaction.ID, "error", coErr)
		} else {
			text += fmt.Sprintf("\n\n📋 Создан запрос на согласование #%d", order.ID)
			b.notifyProjectOwner(form.ProjectID, order.ID, transaction, user)
		}
	}

	b.deps.Audit.Log(user.ID, "expense_created", "transaction", transaction.ID, map[string]any{
		"amount": transaction.Amount.String(), "category": string(transaction.Category),
	})

	b.dialogs.Reset(chatID)
	b.edit(cb, text, ptr(mainMenuKb()))
	b.ack(cb)
}

// notifyProjectOwner tells the project owner a new approval request was
// opened. Best effort: a failed notification never blocks the expense.
func (b *Bot) notifyProjectOwner(projectID, orderID uint, tx *models.Transaction, requester *models.User) {
	project, err := b.deps.Projects.GetByID(projectID)
	if err != nil || project.OwnerID == nil || *project.OwnerID == requester.ID {
		return
	}

	owner, err := b.deps.Users.GetByID(*project.OwnerID)
	if err != nil {
		logger.Get().Warnw("failed to load project owner for notification", "project_id", projectID, "error", err)
		return
	}

	description := "-"
	if tx.Description != nil && *tx.Description != "" {
		description = *tx.Description
	}
	b.send(owner.TgID,
		format.ChangeOrderNotification(tx.Amount, tx.Category, description, requester.Name),
		ptr(approvalDecisionKb(orderID)))
}

func (b *Bot) cbCancelExpense(cb *tgbotapi.CallbackQuery) {
	b.dialogs.Reset(cb.Message.Chat.ID)
	b.edit(cb, "❌ Добавление расхода отменено", ptr(mainMenuKb()))
	b.ack(cb)
}

// ---- photo report ----

func (b *Bot) cbPhotoReportStart(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	projects := b.ownProjects(cb)
	if projects == nil {
		return
	}
	if len(projects) == 0 {
		b.edit(cb, "❌ У вас нет проектов", ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepPhotoProject })
	b.edit(cb, fmt.Sprintf("📸 Выберите проект для фото отчёта (%d):", len(projects)),
		ptr(projectListKb(projects, "proj", "back_to_menu")))
	b.ack(cb)
}

func (b *Bot) cbPhotoStage(cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	if b.dialogs.Get(chatID).Step != dialog.StepPhotoStage {
		b.alert(cb, "❌ Неизвестный этап")
		return
	}

	stage := "draft"
	switch cmd.Action {
	case ActionStageElectric:
		stage = "electric"
	case ActionStageFinish:
		stage = "finish"
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Photo.Stage = stage
		s.Photo.Count = 0
		s.Step = dialog.StepPhotoUpload
	})
	b.edit(cb, fmt.Sprintf(
		"📸 Загружайте фото для этапа: <b>%s</b>\n\n"+
			"Отправляйте фотографии одну за другой.\n"+
			"Вы можете загружать неограниченное количество фото.",
		format.Stage(models.ProjectStage(stage))), nil)
	b.ack(cb)
}

func (b *Bot) msgPhotoUpload(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if len(msg.Photo) == 0 {
		b.send(chatID, "❌ Пожалуйста, отправьте фотографию", nil)
		return
	}

	// The last size is the highest resolution.
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	form := b.dialogs.Get(chatID).Photo

	_, err := b.deps.Photos.Create(form.ProjectID, fileID, form.ModelStage())
	if err != nil {
		logger.Get().Errorw("photo save failed", "project_id", form.ProjectID, "error", err)
		b.send(chatID, "❌ Ошибка при сохранении фото", nil)
		return
	}

	session := b.dialogs.Update(chatID, func(s *dialog.Session) { s.Photo.Count++ })
	b.send(chatID, fmt.Sprintf(
		"✅ Фото #%d сохранено!\n\nЗагружайте ещё фото или завершите отчёт.",
		session.Photo.Count), ptr(photoUploadKb()))
}

func (b *Bot) cbFinishPhotos(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)
	if session.Step != dialog.StepPhotoUpload || session.Photo == nil {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	count := session.Photo.Count
	stage := session.Photo.ModelStage()

	b.dialogs.Reset(chatID)
	b.edit(cb, fmt.Sprintf(
		"✅ <b>Фото отчёт завершён!</b>\n\n"+
			"📸 Загружено фотографий: %d\n"+
			"📋 Этап: %s\n\n"+
			"Спасибо за отчёт!",
		count, format.Stage(stage)), ptr(mainMenuKb()))
	b.ack(cb)
}

// ---- reports and statistics ----

func (b *Bot) cbProjectReportStart(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	projects := b.ownProjects(cb)
	if projects == nil {
		return
	}
	if len(projects) == 0 {
		b.edit(cb, "❌ У вас нет проектов", ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) { s.Step = dialog.StepReportProject })
	b.edit(cb, fmt.Sprintf("📊 Выберите проект для отчёта (%d):", len(projects)),
		ptr(projectListKb(projects, "proj", "back_to_menu")))
	b.ack(cb)
}

func (b *Bot) showProjectReport(cb *tgbotapi.CallbackQuery, projectID uint, kb *tgbotapi.InlineKeyboardMarkup) {
	report, err := b.deps.Reports.ProjectReport(projectID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.edit(cb, format.Report(*report), kb)
	b.ack(cb)
}

func (b *Bot) cbProjectDetails(cb *tgbotapi.CallbackQuery, cmd Command) {
	report, err := b.deps.Reports.ProjectReport(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	text := format.Report(*report) + "\n\n" + format.BudgetStatus(report.BudgetPlan, report.BudgetSpent)
	b.edit(cb, text, ptr(projectDetailsKb(cmd.ID)))
	b.ack(cb)
}

func (b *Bot) cbStatExpenses(cb *tgbotapi.CallbackQuery, cmd Command) {
	stats, err := b.deps.Reports.SpendingByCategory(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.edit(cb, format.ExpenseStatistics(stats), ptr(backToDetailsKb(cmd.ID)))
	b.ack(cb)
}

func (b *Bot) cbStatProgress(cb *tgbotapi.CallbackQuery, cmd Command) {
	stages, err := b.deps.Reports.ProgressByStage(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	b.edit(cb, format.ProgressStats(stages), ptr(backToDetailsKb(cmd.ID)))
	b.ack(cb)
}

func (b *Bot) cbHistoryExpenses(cb *tgbotapi.CallbackQuery, cmd Command) {
	recent, err := b.deps.Reports.RecentTransactions(cmd.ID, 10)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	if len(recent) == 0 {
		b.edit(cb, "📭 История расходов пуста", ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>История расходов (последние 10):</b>\n\n")
	total := decimal.Zero
	for i, t := range recent {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1,
			format.ExpenseEntry(t.Amount, t.Category, t.Description, t.CreatedAt))
		total = total.Add(t.Amount)
	}
	fmt.Fprintf(&sb, "<b>Итого:</b> %s", format.Price(total))

	b.edit(cb, sb.String(), ptr(backToDetailsKb(cmd.ID)))
	b.ack(cb)
}

func (b *Bot) cbGallery(cb *tgbotapi.CallbackQuery, cmd Command) {
	photos, err := b.deps.Photos.ListByProject(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	if len(photos) == 0 {
		b.edit(cb, "📭 Галерея пуста. Загрузите фотографии.", ptr(backToMenuKb()))
		b.ack(cb)
		return
	}

	first := photos[0]
	photo := tgbotapi.NewPhoto(cb.Message.Chat.ID, tgbotapi.FileID(first.PhotoID))
	photo.Caption = fmt.Sprintf(
		"📸 <b>Фото 1 из %d</b>\nЭтап: %s\nДата: %s",
		len(photos), format.Stage(first.Stage), format.DateTime(first.CreatedAt))
	photo.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(photo); err != nil {
		logger.Get().Errorw("failed to send gallery photo", "error", err)
	}

	b.edit(cb, fmt.Sprintf("📷 Галерея (%d фото)", len(photos)), ptr(backToMenuKb()))
	b.ack(cb)
}

// ---- budget update ----

func (b *Bot) cbUpdateBudgetStart(cb *tgbotapi.CallbackQuery, cmd Command) {
	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) {
		s.Step = dialog.StepBudgetAmount
		s.Budget = &dialog.BudgetForm{ProjectID: cmd.ID}
	})
	b.edit(cb, "💰 Введите новый бюджет проекта (в BYN):\n\nТекущий бюджет будет заменён на новое значение.", nil)
	b.ack(cb)
}

func (b *Bot) msgBudgetAmount(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	amount, ok := format.ParseAmount(msg.Text)
	if !ok {
		b.send(chatID, textInvalidAmount, nil)
		return
	}

	form := b.dialogs.Get(chatID).Budget
	if err := b.deps.Projects.UpdateBudget(form.ProjectID, amount); err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			b.send(chatID, "❌ Проект не найден", nil)
			return
		}
		logger.Get().Errorw("budget update failed", "project_id", form.ProjectID, "error", err)
		b.send(chatID, "❌ Ошибка при обновлении бюджета", nil)
		return
	}

	b.dialogs.Reset(chatID)
	b.send(chatID, fmt.Sprintf(
		"✅ <b>Бюджет обновлён!</b>\n\nНовый бюджет: %s",
		format.Price(amount)), ptr(mainMenuKb()))
}
