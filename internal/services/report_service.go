package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/format"
	"buildflow/internal/models"
)

// reportService computes read-side aggregations over a project's expenses
// and photos. All money math goes through decimal; float never touches an
// amount.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// ProjectReport assembles the plan/fact numbers for one project.
// Remaining is clamped at zero when the project is over budget.
func (s *reportService) ProjectReport(projectID uint) (*format.ProjectReport, error) {
	project, transactions, err := s.load(projectID)
	if err != nil {
		return nil, err
	}

	spent := decimal.Zero
	for _, t := range transactions {
		spent = spent.Add(t.Amount)
	}

	remaining := project.Budget.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	var photosCount int64
	if err := s.db.Model(&models.ProgressPhoto{}).Where("project_id = ?", projectID).Count(&photosCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &format.ProjectReport{
		ID:                project.ID,
		Name:              project.Name,
		Address:           project.Address,
		BudgetPlan:        project.Budget,
		BudgetSpent:       spent,
		BudgetRemaining:   remaining,
		TransactionsCount: len(transactions),
		PhotosCount:       int(photosCount),
		CreatedAt:         project.CreatedAt,
	}, nil
}

// SpendingByCategory returns the per-category totals. Every known category
// is present in the result, zero-valued when unused.
func (s *reportService) SpendingByCategory(projectID uint) (map[models.TransactionCategory]decimal.Decimal, error) {
	_, transactions, err := s.load(projectID)
	if err != nil {
		return nil, err
	}

	stats := map[models.TransactionCategory]decimal.Decimal{
		models.CategoryMaterials: decimal.Zero,
		models.CategoryLabor:     decimal.Zero,
		models.CategoryOther:     decimal.Zero,
	}
	for _, t := range transactions {
		stats[t.Category] = stats[t.Category].Add(t.Amount)
	}
	return stats, nil
}

// ProgressByStage returns the per-stage photo counts. Every known stage is
// present in the result, zero when empty.
func (s *reportService) ProgressByStage(projectID uint) (map[models.ProjectStage]int, error) {
	if _, err := s.project(projectID); err != nil {
		return nil, err
	}

	var photos []models.ProgressPhoto
	if err := s.db.Where("project_id = ?", projectID).Find(&photos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stages := map[models.ProjectStage]int{
		models.StageDraft:    0,
		models.StageElectric: 0,
		models.StageFinish:   0,
	}
	for _, p := range photos {
		stages[p.Stage]++
	}
	return stages, nil
}

// RecentTransactions returns the newest expenses first, at most limit rows.
func (s *reportService) RecentTransactions(projectID uint, limit int) ([]models.Transaction, error) {
	if _, err := s.project(projectID); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// DailyExpenses buckets a project's spending by calendar day ("02.01.2006").
func (s *reportService) DailyExpenses(projectID uint) (map[string]decimal.Decimal, error) {
	_, transactions, err := s.load(projectID)
	if err != nil {
		return nil, err
	}

	daily := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		day := format.Date(t.CreatedAt)
		daily[day] = daily[day].Add(t.Amount)
	}
	return daily, nil
}

// BudgetUsedPercent returns spent/plan as a percentage, zero when the
// project has no budget set.
func (s *reportService) BudgetUsedPercent(projectID uint) (decimal.Decimal, error) {
	project, transactions, err := s.load(projectID)
	if err != nil {
		return decimal.Zero, err
	}
	if project.Budget.IsZero() {
		return decimal.Zero, nil
	}

	spent := decimal.Zero
	for _, t := range transactions {
		spent = spent.Add(t.Amount)
	}
	return spent.Div(project.Budget).Mul(decimal.NewFromInt(100)), nil
}

func (s *reportService) project(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

func (s *reportService) load(projectID uint) (*models.Project, []models.Transaction, error) {
	project, err := s.project(projectID)
	if err != nil {
		return nil, nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("project_id = ?", projectID).Find(&transactions).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, transactions, nil
}
