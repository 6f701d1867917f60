package integration

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"buildflow/internal/models"
)

func TestExpenseFlow_SpendAndReport(t *testing.T) {
	app := setupApp(t)
	foreman := app.registerUser(t, "Иван Прораб", models.RoleForeman)

	// Step 1: Create a project with a 50000 budget
	project, err := app.Projects.Create("Ремонт офиса", "г. Минск, ул. Ленина, 10", decimal.RequireFromString("50000"), foreman.ID)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	// Step 2: Report before any spending
	report, err := app.Reports.ProjectReport(project.ID)
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if !report.BudgetSpent.IsZero() {
		t.Errorf("expected 0 spent before transactions, got %s", report.BudgetSpent)
	}
	if !report.BudgetRemaining.Equal(project.Budget) {
		t.Errorf("expected full budget remaining, got %s", report.BudgetRemaining)
	}

	// Step 3: Add expenses across categories
	desc := "Цемент 20 мешков"
	if _, err := app.Transactions.Create(project.ID, decimal.RequireFromString("1250.50"), models.CategoryMaterials, &desc, nil, &foreman.ID); err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
	if _, err := app.Transactions.Create(project.ID, decimal.RequireFromString("300"), models.CategoryLabor, nil, nil, &foreman.ID); err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}

	// Step 4: Plan/fact report reflects both
	report, err = app.Reports.ProjectReport(project.ID)
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if !report.BudgetSpent.Equal(decimal.RequireFromString("1550.50")) {
		t.Errorf("expected 1550.50 spent, got %s", report.BudgetSpent)
	}
	if !report.BudgetRemaining.Equal(decimal.RequireFromString("48449.50")) {
		t.Errorf("expected 48449.50 remaining, got %s", report.BudgetRemaining)
	}
	if report.TransactionsCount != 2 {
		t.Errorf("expected 2 transactions, got %d", report.TransactionsCount)
	}

	// Step 5: Category breakdown includes untouched categories at zero
	byCategory, err := app.Reports.SpendingByCategory(project.ID)
	if err != nil {
		t.Fatalf("failed to compute category stats: %v", err)
	}
	if !byCategory[models.CategoryMaterials].Equal(decimal.RequireFromString("1250.50")) {
		t.Errorf("expected 1250.50 in materials, got %s", byCategory[models.CategoryMaterials])
	}
	if !byCategory[models.CategoryOther].IsZero() {
		t.Errorf("expected 0 in other, got %s", byCategory[models.CategoryOther])
	}

	// Step 6: History is newest-first
	recent, err := app.Reports.RecentTransactions(project.ID, 10)
	if err != nil {
		t.Fatalf("failed to list recent transactions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent transactions, got %d", len(recent))
	}
	if recent[0].Category != models.CategoryLabor {
		t.Errorf("expected the labor expense first, got %s", recent[0].Category)
	}
}

func TestExpenseFlow_BudgetUpdateAndOverspend(t *testing.T) {
	app := setupApp(t)
	foreman := app.registerUser(t, "Пётр Прораб", models.RoleForeman)

	project, err := app.Projects.Create("Дача", "д. Ратомка, уч. 7", decimal.RequireFromString("1000"), foreman.ID)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	// Overspend: remaining clamps at zero rather than going negative
	if _, err := app.Transactions.Create(project.ID, decimal.RequireFromString("1500"), models.CategoryMaterials, nil, nil, &foreman.ID); err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
	report, err := app.Reports.ProjectReport(project.ID)
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if !report.BudgetRemaining.IsZero() {
		t.Errorf("expected remaining clamped to 0, got %s", report.BudgetRemaining)
	}

	// Raising the budget restores headroom
	if err := app.Projects.UpdateBudget(project.ID, decimal.RequireFromString("3000")); err != nil {
		t.Fatalf("failed to update budget: %v", err)
	}
	report, err = app.Reports.ProjectReport(project.ID)
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if !report.BudgetRemaining.Equal(decimal.RequireFromString("1500")) {
		t.Errorf("expected 1500 remaining after budget raise, got %s", report.BudgetRemaining)
	}

	percent, err := app.Reports.BudgetUsedPercent(project.ID)
	if err != nil {
		t.Fatalf("failed to compute budget percent: %v", err)
	}
	if !percent.Equal(decimal.RequireFromString("50")) {
		t.Errorf("expected 50%% used, got %s", percent)
	}
}

func TestExpenseFlow_PhotoProgress(t *testing.T) {
	app := setupApp(t)
	foreman := app.registerUser(t, "Фото Прораб", models.RoleForeman)

	project, err := app.Projects.Create("Квартира", "г. Минск, пр. Победителей, 1", decimal.RequireFromString("20000"), foreman.ID)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := app.Photos.Create(project.ID, fmt.Sprintf("file-draft-%d", i), models.StageDraft); err != nil {
			t.Fatalf("failed to save photo: %v", err)
		}
	}
	if _, err := app.Photos.Create(project.ID, "file-electric", models.StageElectric); err != nil {
		t.Fatalf("failed to save photo: %v", err)
	}

	stages, err := app.Reports.ProgressByStage(project.ID)
	if err != nil {
		t.Fatalf("failed to compute progress: %v", err)
	}
	if stages[models.StageDraft] != 3 {
		t.Errorf("expected 3 draft photos, got %d", stages[models.StageDraft])
	}
	if stages[models.StageElectric] != 1 {
		t.Errorf("expected 1 electric photo, got %d", stages[models.StageElectric])
	}
	if stages[models.StageFinish] != 0 {
		t.Errorf("expected 0 finish photos, got %d", stages[models.StageFinish])
	}
}
