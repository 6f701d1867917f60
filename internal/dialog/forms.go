package dialog

import (
	"github.com/shopspring/decimal"

	"buildflow/internal/models"
	"buildflow/internal/validator"
)

// ProjectForm accumulates the project-creation flow.
type ProjectForm struct {
	Name    string `validate:"required,min=1,max=255"`
	Address string `validate:"required,min=5,max=512"`
	Budget  decimal.Decimal
}

// Validate checks the text fields once both are collected.
func (f *ProjectForm) Validate() error {
	return validator.Get().Struct(f)
}

// ExpenseForm accumulates the expense-entry flow. Validated at the
// terminal write, when every field must be present.
type ExpenseForm struct {
	ProjectID   uint   `validate:"required"`
	Category    string `validate:"required,expense_category"`
	Description *string
	Amount      decimal.Decimal
}

// Validate checks the collected selections.
func (f *ExpenseForm) Validate() error {
	return validator.Get().Struct(f)
}

// ModelCategory returns the category as its model type.
func (f *ExpenseForm) ModelCategory() models.TransactionCategory {
	return models.TransactionCategory(f.Category)
}

// PhotoForm accumulates the photo-report flow. Count tracks how many
// photos were stored since the stage was chosen.
type PhotoForm struct {
	ProjectID uint   `validate:"required"`
	Stage     string `validate:"omitempty,project_stage"`
	Count     int
}

// Validate checks the collected selections.
func (f *PhotoForm) Validate() error {
	return validator.Get().Struct(f)
}

// ModelStage returns the stage as its model type.
func (f *PhotoForm) ModelStage() models.ProjectStage {
	return models.ProjectStage(f.Stage)
}

// BudgetForm carries the project whose budget is being replaced.
type BudgetForm struct {
	ProjectID uint `validate:"required"`
}

// TaskForm accumulates the task-creation flow.
type TaskForm struct {
	Title       string `validate:"required,min=1,max=255"`
	Description *string
}

// Validate checks the title bounds.
func (f *TaskForm) Validate() error {
	return validator.Get().Struct(f)
}

// RejectForm carries the change order awaiting a rejection reason.
type RejectForm struct {
	OrderID uint `validate:"required"`
}

// VoiceForm carries a parsed voice expense awaiting confirmation and a
// project to book it against.
type VoiceForm struct {
	Amount      decimal.Decimal
	Category    string `validate:"required,expense_category"`
	Description *string
}

// Validate checks the parsed category.
func (f *VoiceForm) Validate() error {
	return validator.Get().Struct(f)
}

// ModelCategory returns the category as its model type.
func (f *VoiceForm) ModelCategory() models.TransactionCategory {
	return models.TransactionCategory(f.Category)
}
