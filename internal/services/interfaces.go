package services

import (
	"time"

	"github.com/shopspring/decimal"

	"buildflow/internal/format"
	"buildflow/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	GetByID(userID uint) (*models.User, error)
	GetByTgID(tgID int64) (*models.User, error)
	GetOrCreate(tgID int64, name string) (*models.User, error)
	UpdateRole(userID uint, role models.UserRole) (*models.User, error)
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	GetByID(projectID uint) (*models.Project, error)
	ListByOwner(ownerID uint) ([]models.Project, error)
	Create(name, address string, budget decimal.Decimal, ownerID uint) (*models.Project, error)
	UpdateBudget(projectID uint, budget decimal.Decimal) error
	Delete(projectID uint) error
}

// TransactionServicer defines the contract for expense bookkeeping.
type TransactionServicer interface {
	Create(projectID uint, amount decimal.Decimal, category models.TransactionCategory, description, photoURL *string, createdByID *uint) (*models.Transaction, error)
	ListByProject(projectID uint) ([]models.Transaction, error)
	ListByCategory(projectID uint, category models.TransactionCategory) ([]models.Transaction, error)
}

// PhotoServicer defines the contract for progress photos.
type PhotoServicer interface {
	Create(projectID uint, photoID string, stage models.ProjectStage) (*models.ProgressPhoto, error)
	ListByProject(projectID uint) ([]models.ProgressPhoto, error)
	ListByStage(projectID uint, stage models.ProjectStage) ([]models.ProgressPhoto, error)
}

// ChangeOrderServicer defines the contract for the approval workflow.
type ChangeOrderServicer interface {
	Create(transactionID, requestedByID uint) (*models.ChangeOrder, error)
	GetByID(orderID uint) (*models.ChangeOrder, error)
	ListPending() ([]models.ChangeOrder, error)
	ListByStatus(status models.ChangeOrderStatus) ([]models.ChangeOrder, error)
	ListForProject(projectID uint) ([]models.ChangeOrder, error)
	Approve(orderID, approverID uint) (*models.ChangeOrder, error)
	Reject(orderID, approverID uint, reason string) (*models.ChangeOrder, error)
}

// TaskServicer defines the contract for project task lists.
type TaskServicer interface {
	Create(projectID uint, title string, description *string, assignedToID *uint, dueDate *time.Time) (*models.Task, error)
	GetByID(taskID uint) (*models.Task, error)
	ListByProject(projectID uint, completedOnly bool) ([]models.Task, error)
	ListAssigned(userID uint) ([]models.Task, error)
	Complete(taskID uint) (*models.Task, error)
	Assign(taskID, userID uint) (*models.Task, error)
	Update(taskID uint, title, description *string, dueDate *time.Time) (*models.Task, error)
	Delete(taskID uint) error
}

// ReportServicer defines the read-side aggregation contract.
type ReportServicer interface {
	ProjectReport(projectID uint) (*format.ProjectReport, error)
	SpendingByCategory(projectID uint) (map[models.TransactionCategory]decimal.Decimal, error)
	ProgressByStage(projectID uint) (map[models.ProjectStage]int, error)
	RecentTransactions(projectID uint, limit int) ([]models.Transaction, error)
	DailyExpenses(projectID uint) (map[string]decimal.Decimal, error)
	BudgetUsedPercent(projectID uint) (decimal.Decimal, error)
}

// AuditServicer records terminal bot actions. Failures never propagate.
type AuditServicer interface {
	Log(userID uint, action, entityType string, entityID uint, details map[string]any)
}
