package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buildflow/internal/dialog"
	apperrors "buildflow/internal/errors"
	"buildflow/internal/format"
	"buildflow/internal/logger"
	"buildflow/internal/models"
)

func (b *Bot) cbTasksMenu(cb *tgbotapi.CallbackQuery) {
	b.dialogs.Reset(cb.Message.Chat.ID)
	b.edit(cb, "📋 <b>Задачи</b>\n\nВыберите действие:", ptr(tasksMenuKb()))
	b.ack(cb)
}

func (b *Bot) cbMyTasks(cb *tgbotapi.CallbackQuery) {
	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	tasks, err := b.deps.Tasks.ListAssigned(user.ID)
	if err != nil {
		logger.Get().Errorw("failed to list assigned tasks", "user_id", user.ID, "error", err)
		b.alert(cb, "❌ Ошибка при загрузке задач")
		return
	}

	if len(tasks) == 0 {
		b.edit(cb, "📭 У вас нет активных задач.\n\nСоздайте новую задачу!", ptr(tasksMenuKb()))
		b.ack(cb)
		return
	}

	b.edit(cb, fmt.Sprintf("📋 <b>Мои задачи (%d):</b>\n\nНажмите на задачу для деталей:", len(tasks)),
		ptr(taskListKb(tasks)))
	b.ack(cb)
}

// cbApprovedTasks lists completed tasks across the user's projects.
func (b *Bot) cbApprovedTasks(cb *tgbotapi.CallbackQuery) {
	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	projects, err := b.deps.Projects.ListByOwner(user.ID)
	if err != nil {
		b.alert(cb, textLoadError)
		return
	}

	var done []models.Task
	for _, p := range projects {
		tasks, err := b.deps.Tasks.ListByProject(p.ID, true)
		if err != nil {
			continue
		}
		done = append(done, tasks...)
	}

	if len(done) == 0 {
		b.edit(cb, "📭 Завершённых задач пока нет", ptr(tasksMenuKb()))
		b.ack(cb)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ <b>Выполненные задачи (%d):</b>\n\n", len(done))
	for _, t := range done {
		sb.WriteString(format.TaskLine(t))
		sb.WriteString("\n")
	}

	b.edit(cb, sb.String(), ptr(tasksMenuKb()))
	b.ack(cb)
}

// ---- task creation ----

func (b *Bot) cbCreateTaskStart(cb *tgbotapi.CallbackQuery) {
	b.dialogs.Update(cb.Message.Chat.ID, func(s *dialog.Session) {
		s.Step = dialog.StepTaskTitle
		s.Task = &dialog.TaskForm{}
	})
	b.edit(cb, "📝 Введите название задачи:\n\nНапример: 'Закупить цемент'", nil)
	b.ack(cb)
}

func (b *Bot) msgTaskTitle(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !format.ValidProjectName(msg.Text) {
		b.send(chatID, "❌ Название должно быть от 1 до 255 символов.\nПопробуйте снова:", nil)
		return
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Task.Title = msg.Text
		s.Step = dialog.StepTaskDescription
	})
	b.send(chatID, "📝 Введите описание задачи:\n\nИли отправьте /skip чтобы пропустить", nil)
}

func (b *Bot) msgTaskDescription(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var description *string
	if msg.Text != "/skip" && msg.Text != "-" {
		text := msg.Text
		description = &text
	}

	b.dialogs.Update(chatID, func(s *dialog.Session) {
		s.Task.Description = description
		s.Step = dialog.StepTaskProject
	})

	user, err := b.deps.Users.GetByTgID(msg.From.ID)
	if err != nil {
		b.send(chatID, textUserNotFound, nil)
		return
	}
	projects, err := b.deps.Projects.ListByOwner(user.ID)
	if err != nil || len(projects) == 0 {
		b.dialogs.Reset(chatID)
		b.send(chatID, textNoProjects, ptr(backToMenuKb()))
		return
	}

	b.send(chatID, "📦 Выберите проект для задачи:", ptr(projectListKb(projects, "task_proj", "tasks_back")))
}

func (b *Bot) cbTaskProjectSelected(cb *tgbotapi.CallbackQuery, cmd Command) {
	chatID := cb.Message.Chat.ID
	session := b.dialogs.Get(chatID)
	if session.Step != dialog.StepTaskProject || session.Task == nil {
		b.alert(cb, "❌ Некорректный ввод")
		return
	}

	form := session.Task
	if err := form.Validate(); err != nil {
		logger.Get().Warnw("task form failed validation", "chat_id", chatID, "error", err)
		b.alert(cb, apperrors.ErrInvalidInput.Message)
		return
	}

	user, err := b.deps.Users.GetByTgID(cb.From.ID)
	if err != nil {
		b.alert(cb, textUserNotFound)
		return
	}

	task, err := b.deps.Tasks.Create(cmd.ID, form.Title, form.Description, &user.ID, nil)
	if err != nil {
		logger.Get().Errorw("task creation failed", "project_id", cmd.ID, "error", err)
		b.alert(cb, userMessage(err))
		return
	}

	b.deps.Audit.Log(user.ID, "task_created", "task", task.ID, map[string]any{
		"title": task.Title, "project_id": task.ProjectID,
	})

	b.dialogs.Reset(chatID)
	b.edit(cb, fmt.Sprintf(
		"✅ <b>Задача создана!</b>\n\n%s\nЗадача назначена на вас.",
		format.TaskLine(*task)), ptr(tasksMenuKb()))
	b.ack(cb)
}

// ---- task actions ----

func (b *Bot) cbTaskView(cb *tgbotapi.CallbackQuery, cmd Command) {
	task, err := b.deps.Tasks.GetByID(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	status := "⏳ В работе"
	if task.IsCompleted {
		status = "✅ Выполнена"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📌 <b>%s</b>\n\n", task.Title)
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(&sb, "📝 %s\n\n", *task.Description)
	}
	fmt.Fprintf(&sb, "📦 Проект: %s\n", task.Project.Name)
	fmt.Fprintf(&sb, "📊 Статус: %s\n", status)
	if task.DueDate != nil {
		fmt.Fprintf(&sb, "⏰ Срок: %s\n", format.Date(*task.DueDate))
	}
	fmt.Fprintf(&sb, "📅 Создана: %s", format.DateTime(task.CreatedAt))

	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(btn("◀️ Назад", "tasks_my_tasks")),
	)
	if !task.IsCompleted {
		kb = tgbotapi.NewInlineKeyboardMarkup(
			row(
				btn("✔️ Выполнена", fmt.Sprintf("task_complete_%d", task.ID)),
				btn("🗑️ Удалить", fmt.Sprintf("task_delete_%d", task.ID)),
			),
			row(btn("◀️ Назад", "tasks_my_tasks")),
		)
	}

	b.edit(cb, sb.String(), &kb)
	b.ack(cb)
}

func (b *Bot) cbTaskComplete(cb *tgbotapi.CallbackQuery, cmd Command) {
	task, err := b.deps.Tasks.Complete(cmd.ID)
	if err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	if user, uErr := b.deps.Users.GetByTgID(cb.From.ID); uErr == nil {
		b.deps.Audit.Log(user.ID, "task_completed", "task", task.ID, nil)
	}

	b.edit(cb, fmt.Sprintf(
		"✅ <b>Задача выполнена!</b>\n\n📌 %s\n\nОтличная работа! 🎉",
		task.Title), ptr(tasksMenuKb()))
	b.toast(cb, "✅ Выполнено")
}

func (b *Bot) cbTaskDelete(cb *tgbotapi.CallbackQuery, cmd Command) {
	if err := b.deps.Tasks.Delete(cmd.ID); err != nil {
		b.alert(cb, userMessage(err))
		return
	}

	if user, uErr := b.deps.Users.GetByTgID(cb.From.ID); uErr == nil {
		b.deps.Audit.Log(user.ID, "task_deleted", "task", cmd.ID, nil)
	}

	b.edit(cb, "🗑️ <b>Задача удалена</b>", ptr(tasksMenuKb()))
	b.ack(cb)
}
