package bot

import (
	"strconv"
	"strings"
)

// Action identifies what a callback button asks the bot to do.
type Action int

const (
	ActionUnknown Action = iota

	// Main menu.
	ActionMenuMyProjects
	ActionMenuCreateProject
	ActionMenuAddExpense
	ActionMenuVoiceInput
	ActionMenuPhotoReport
	ActionMenuProjectReport
	ActionMenuMyTasks
	ActionMenuApprovals
	ActionMenuExportExcel
	ActionMenuSettings
	ActionBackToMenu

	// Registration.
	ActionRoleForeman
	ActionRoleClient

	// Project selection and details.
	ActionSelectProject
	ActionProjectDetails
	ActionProjectAddExpense
	ActionProjectAddPhoto
	ActionProjectReport
	ActionStatExpenses
	ActionStatProgress
	ActionHistoryExpenses
	ActionGallery
	ActionUpdateBudget

	// Expense entry.
	ActionCategoryMaterials
	ActionCategoryLabor
	ActionCategoryOther
	ActionConfirmExpense
	ActionCancelExpense

	// Photo report.
	ActionStageDraft
	ActionStageElectric
	ActionStageFinish
	ActionAddMorePhotos
	ActionFinishPhotos

	// Settings.
	ActionSettingsChangeRole
	ActionSettingsAbout

	// Tasks.
	ActionTasksMyTasks
	ActionTasksCreate
	ActionTasksApproved
	ActionTasksBack
	ActionTaskProject
	ActionTaskView
	ActionTaskComplete
	ActionTaskDelete

	// Approvals.
	ActionApprovalsPending
	ActionApprovalsApproved
	ActionApprovalsRejected
	ActionBackApprovals
	ActionViewApproval
	ActionApprove
	ActionReject
	ActionReasonBudget
	ActionReasonQuality
	ActionReasonOther
	ActionReasonCancel

	// Voice input.
	ActionVoiceConfirm
	ActionVoiceCancel
	ActionVoiceProject

	// Export.
	ActionExportFull
	ActionExportSummary
)

// Command is a parsed callback: the action plus an entity ID when the
// token carries one.
type Command struct {
	Action Action
	ID     uint
}

var exactTokens = map[string]Action{
	"menu_my_projects":     ActionMenuMyProjects,
	"menu_create_project":  ActionMenuCreateProject,
	"menu_add_expense":     ActionMenuAddExpense,
	"menu_voice_input":     ActionMenuVoiceInput,
	"menu_photo_report":    ActionMenuPhotoReport,
	"menu_project_report":  ActionMenuProjectReport,
	"menu_my_tasks":        ActionMenuMyTasks,
	"menu_approvals":       ActionMenuApprovals,
	"menu_export_excel":    ActionMenuExportExcel,
	"menu_settings":        ActionMenuSettings,
	"back_to_menu":         ActionBackToMenu,
	"role_foreman":         ActionRoleForeman,
	"role_client":          ActionRoleClient,
	"cat_materials":        ActionCategoryMaterials,
	"cat_labor":            ActionCategoryLabor,
	"cat_other":            ActionCategoryOther,
	"confirm_expense":      ActionConfirmExpense,
	"cancel_expense":       ActionCancelExpense,
	"stage_draft":          ActionStageDraft,
	"stage_electric":       ActionStageElectric,
	"stage_finish":         ActionStageFinish,
	"add_more_photos":      ActionAddMorePhotos,
	"finish_photos":        ActionFinishPhotos,
	"settings_change_role": ActionSettingsChangeRole,
	"settings_about":       ActionSettingsAbout,
	"tasks_my_tasks":       ActionTasksMyTasks,
	"tasks_create":         ActionTasksCreate,
	"tasks_approved":       ActionTasksApproved,
	"tasks_back":           ActionTasksBack,
	"approvals_pending":    ActionApprovalsPending,
	"approvals_approved":   ActionApprovalsApproved,
	"approvals_rejected":   ActionApprovalsRejected,
	"back_approvals":       ActionBackApprovals,
	"reason_budget":        ActionReasonBudget,
	"reason_quality":       ActionReasonQuality,
	"reason_other":         ActionReasonOther,
	"reason_cancel":        ActionReasonCancel,
	"voice_confirm":        ActionVoiceConfirm,
	"voice_cancel":         ActionVoiceCancel,
}

// prefixTokens are checked in order; longer prefixes come before their
// shorter variants (proj_details_ before proj_).
var prefixTokens = []struct {
	prefix string
	action Action
}{
	{"proj_details_", ActionProjectDetails},
	{"proj_add_expense_", ActionProjectAddExpense},
	{"proj_add_photo_", ActionProjectAddPhoto},
	{"proj_report_", ActionProjectReport},
	{"proj_", ActionSelectProject},
	{"stat_expenses_", ActionStatExpenses},
	{"stat_progress_", ActionStatProgress},
	{"history_expenses_", ActionHistoryExpenses},
	{"gallery_", ActionGallery},
	{"update_budget_", ActionUpdateBudget},
	{"task_proj_", ActionTaskProject},
	{"task_view_", ActionTaskView},
	{"task_complete_", ActionTaskComplete},
	{"task_delete_", ActionTaskDelete},
	{"view_approval_", ActionViewApproval},
	{"approve_", ActionApprove},
	{"reject_", ActionReject},
	{"voice_proj_", ActionVoiceProject},
	{"export_full_", ActionExportFull},
	{"export_summary_", ActionExportSummary},
}

// ParseCallback turns raw callback data into a typed command. A token with
// a malformed or non-numeric ID is rejected rather than misrouted.
func ParseCallback(data string) (Command, bool) {
	if action, ok := exactTokens[data]; ok {
		return Command{Action: action}, true
	}

	for _, pt := range prefixTokens {
		if !strings.HasPrefix(data, pt.prefix) {
			continue
		}
		raw := strings.TrimPrefix(data, pt.prefix)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Command{}, false
		}
		return Command{Action: pt.action, ID: uint(id)}, true
	}

	return Command{}, false
}
