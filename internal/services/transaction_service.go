package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/models"
)

// transactionService handles expense bookkeeping.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// Create records a new expense against a project. The project must exist.
func (s *transactionService) Create(
	projectID uint,
	amount decimal.Decimal,
	category models.TransactionCategory,
	description, photoURL *string,
	createdByID *uint,
) (*models.Transaction, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.Transaction{
		ProjectID:   projectID,
		Amount:      amount,
		Category:    category,
		Description: description,
		PhotoURL:    photoURL,
		Status:      "approved",
		CreatedByID: createdByID,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// ListByProject returns all expenses of a project.
func (s *transactionService) ListByProject(projectID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("project_id = ?", projectID).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// ListByCategory returns a project's expenses in one category.
func (s *transactionService) ListByCategory(projectID uint, category models.TransactionCategory) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("project_id = ? AND category = ?", projectID, category).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
