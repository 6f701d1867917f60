package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/models"
)

// photoService handles progress photo records.
type photoService struct {
	db *gorm.DB
}

// NewPhotoService creates a new PhotoServicer.
func NewPhotoService(db *gorm.DB) PhotoServicer {
	return &photoService{db: db}
}

// Create stores a stage-tagged photo reference for a project.
func (s *photoService) Create(projectID uint, photoID string, stage models.ProjectStage) (*models.ProgressPhoto, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	photo := &models.ProgressPhoto{
		ProjectID: projectID,
		PhotoID:   photoID,
		Stage:     stage,
	}
	if err := s.db.Create(photo).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photo, nil
}

// ListByProject returns all photos of a project, oldest first.
func (s *photoService) ListByProject(projectID uint) ([]models.ProgressPhoto, error) {
	var photos []models.ProgressPhoto
	if err := s.db.Where("project_id = ?", projectID).Order("created_at").Find(&photos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photos, nil
}

// ListByStage returns a project's photos for one stage.
func (s *photoService) ListByStage(projectID uint, stage models.ProjectStage) ([]models.ProgressPhoto, error) {
	var photos []models.ProgressPhoto
	if err := s.db.Where("project_id = ? AND stage = ?", projectID, stage).Find(&photos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photos, nil
}
