package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"buildflow/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a foreman with a unique Telegram ID.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleForeman)
}

// CreateTestUserWithRole creates a user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		TgID: 100000 + n,
		Name: fmt.Sprintf("Test User %d", n),
		Role: role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates a project with a 50 000.00 budget.
func CreateTestProject(t *testing.T, db *gorm.DB, ownerID uint) *models.Project {
	t.Helper()
	return CreateTestProjectWithBudget(t, db, ownerID, decimal.NewFromInt(50000))
}

// CreateTestProjectWithBudget creates a project with the given budget.
func CreateTestProjectWithBudget(t *testing.T, db *gorm.DB, ownerID uint, budget decimal.Decimal) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:    fmt.Sprintf("Test Project %d", nextID()),
		Address: "ул. Тестовая, 1",
		Budget:  budget,
		OwnerID: &ownerID,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestTransaction creates an expense of the given amount and category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, projectID uint, amount decimal.Decimal, category models.TransactionCategory) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		ProjectID: projectID,
		Amount:    amount,
		Category:  category,
		Status:    "approved",
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestPhoto creates a progress photo for the given stage.
func CreateTestPhoto(t *testing.T, db *gorm.DB, projectID uint, stage models.ProjectStage) *models.ProgressPhoto {
	t.Helper()

	photo := &models.ProgressPhoto{
		ProjectID: projectID,
		PhotoID:   fmt.Sprintf("file_id_%d", nextID()),
		Stage:     stage,
	}
	if err := db.Create(photo).Error; err != nil {
		t.Fatalf("failed to create test photo: %v", err)
	}
	return photo
}

// CreateTestTask creates an open task on the project.
func CreateTestTask(t *testing.T, db *gorm.DB, projectID uint) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID: projectID,
		Title:     fmt.Sprintf("Test Task %d", nextID()),
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestChangeOrder creates a pending change order for the transaction.
func CreateTestChangeOrder(t *testing.T, db *gorm.DB, transactionID, requestedByID uint) *models.ChangeOrder {
	t.Helper()

	order := &models.ChangeOrder{
		TransactionID: transactionID,
		Status:        models.ChangeOrderPending,
		RequestedByID: requestedByID,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to create test change order: %v", err)
	}
	return order
}
