// Package dialog tracks per-chat conversation state. Each chat is either
// idle or inside exactly one flow, positioned at a named step with a typed
// form accumulating the answers given so far.
package dialog

import "sync"

// Step names a position inside a flow. StepIdle means no flow is active.
type Step string

const (
	StepIdle Step = ""

	// Registration.
	StepRegisterRole Step = "register_role"

	// Project browsing and reports.
	StepProjectSelect Step = "project_select"
	StepReportProject Step = "report_project"
	StepExportProject Step = "export_project"

	// Settings.
	StepSettingsRole Step = "settings_role"

	// Project creation.
	StepProjectName    Step = "project_name"
	StepProjectAddress Step = "project_address"
	StepProjectBudget  Step = "project_budget"

	// Expense entry.
	StepExpenseProject     Step = "expense_project"
	StepExpenseAmount      Step = "expense_amount"
	StepExpenseCategory    Step = "expense_category"
	StepExpenseDescription Step = "expense_description"
	StepExpenseConfirm     Step = "expense_confirm"

	// Photo report.
	StepPhotoProject Step = "photo_project"
	StepPhotoStage   Step = "photo_stage"
	StepPhotoUpload  Step = "photo_upload"

	// Budget update.
	StepBudgetAmount Step = "budget_amount"

	// Task creation.
	StepTaskTitle       Step = "task_title"
	StepTaskDescription Step = "task_description"
	StepTaskProject     Step = "task_project"

	// Approval rejection.
	StepRejectReason Step = "reject_reason"

	// Voice expense.
	StepVoiceAwait   Step = "voice_await"
	StepVoiceConfirm Step = "voice_confirm"
	StepVoiceProject Step = "voice_project"
)

// Session is the dialog state of one chat: the current step plus at most
// one active form. Value semantics; the manager hands out copies.
type Session struct {
	Step Step

	Project *ProjectForm
	Expense *ExpenseForm
	Photo   *PhotoForm
	Budget  *BudgetForm
	Task    *TaskForm
	Reject  *RejectForm
	Voice   *VoiceForm
}

// Active reports whether the chat is inside a flow.
func (s Session) Active() bool { return s.Step != StepIdle }

// Manager holds dialog sessions keyed by chat ID. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

// NewManager creates an empty dialog manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]Session)}
}

// Get returns the chat's session, idle if none exists.
func (m *Manager) Get(chatID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[chatID]
}

// Set replaces the chat's session.
func (m *Manager) Set(chatID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = s
}

// Update applies fn to the chat's session under the lock and stores the
// result. Handlers use it to advance a step and mutate the form together.
func (m *Manager) Update(chatID int64, fn func(*Session)) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[chatID]
	fn(&s)
	m.sessions[chatID] = s
	return s
}

// Reset returns the chat to idle, dropping any in-progress form. Called
// only after a terminal write succeeded or the user cancelled.
func (m *Manager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
