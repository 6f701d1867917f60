package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/models"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// GetByID returns a project by ID.
func (s *projectService) GetByID(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// ListByOwner returns all projects owned by the user.
func (s *projectService) ListByOwner(ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return projects, nil
}

// Create creates a new project owned by the user.
func (s *projectService) Create(name, address string, budget decimal.Decimal, ownerID uint) (*models.Project, error) {
	project := &models.Project{
		Name:    name,
		Address: address,
		Budget:  budget,
		OwnerID: &ownerID,
	}
	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// UpdateBudget replaces the project's planned budget. A missing project is
// reported as not-found instead of silently succeeding.
func (s *projectService) UpdateBudget(projectID uint, budget decimal.Decimal) error {
	result := s.db.Model(&models.Project{}).Where("id = ?", projectID).Update("budget", budget)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project and its owned transactions and photos.
func (s *projectService) Delete(projectID uint) error {
	project, err := s.GetByID(projectID)
	if err != nil {
		return err
	}

	// SQLite does not always enforce FK cascades; delete children explicitly.
	if err := s.db.Where("project_id = ?", projectID).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("project_id = ?", projectID).Delete(&models.ProgressPhoto{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(project).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
