package integration

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"buildflow/internal/logger"
	"buildflow/internal/models"
	"buildflow/internal/services"
	"buildflow/internal/validator"
)

// testApp holds the full service stack for integration tests.
type testApp struct {
	DB           *gorm.DB
	Users        services.UserServicer
	Projects     services.ProjectServicer
	Transactions services.TransactionServicer
	Photos       services.PhotoServicer
	ChangeOrders services.ChangeOrderServicer
	Tasks        services.TaskServicer
	Reports      services.ReportServicer
	Audit        services.AuditServicer
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// tgCounter hands out unique Telegram IDs across tests.
var tgCounter atomic.Int64

func init() {
	logger.Init("test")
	validator.Get()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Transaction{},
		&models.ProgressPhoto{},
		&models.ChangeOrder{},
		&models.Task{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates the full service stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	return &testApp{
		DB:           db,
		Users:        services.NewUserService(db),
		Projects:     services.NewProjectService(db),
		Transactions: services.NewTransactionService(db),
		Photos:       services.NewPhotoService(db),
		ChangeOrders: services.NewChangeOrderService(db),
		Tasks:        services.NewTaskService(db),
		Reports:      services.NewReportService(db),
		Audit:        services.NewAuditService(db),
	}
}

// registerUser creates a user with the given role and returns it.
func (app *testApp) registerUser(t *testing.T, name string, role models.UserRole) *models.User {
	t.Helper()

	tgID := 900000 + tgCounter.Add(1)
	user, err := app.Users.GetOrCreate(tgID, name)
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	if user.Role != role {
		user, err = app.Users.UpdateRole(user.ID, role)
		if err != nil {
			t.Fatalf("failed to set role: %v", err)
		}
	}
	return user
}
