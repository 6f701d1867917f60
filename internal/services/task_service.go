package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/models"
)

// taskService handles project task lists.
type taskService struct {
	db *gorm.DB
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB) TaskServicer {
	return &taskService{db: db}
}

// Create adds a task to a project.
func (s *taskService) Create(projectID uint, title string, description *string, assignedToID *uint, dueDate *time.Time) (*models.Task, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	task := &models.Task{
		ProjectID:    projectID,
		Title:        title,
		Description:  description,
		AssignedToID: assignedToID,
		DueDate:      dueDate,
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	task.Project = project
	return task, nil
}

// GetByID returns a task by ID.
func (s *taskService) GetByID(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &task, nil
}

// ListByProject returns a project's tasks, optionally only completed ones.
func (s *taskService) ListByProject(projectID uint, completedOnly bool) ([]models.Task, error) {
	query := s.db.Where("project_id = ?", projectID)
	if completedOnly {
		query = query.Where("is_completed = ?", true)
	}

	var tasks []models.Task
	if err := query.Order("created_at").Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tasks, nil
}

// ListAssigned returns the user's open tasks.
func (s *taskService) ListAssigned(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("assigned_to_id = ? AND is_completed = ?", userID, false).
		Order("created_at").Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tasks, nil
}

// Complete marks a task done. The flag only ever moves false -> true.
func (s *taskService) Complete(taskID uint) (*models.Task, error) {
	task, err := s.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsCompleted {
		if err := s.db.Model(task).Update("is_completed", true).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return task, nil
}

// Assign sets the task's assignee.
func (s *taskService) Assign(taskID, userID uint) (*models.Task, error) {
	task, err := s.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(task).Update("assigned_to_id", userID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// Update changes the task's mutable fields; nil leaves a field untouched.
func (s *taskService) Update(taskID uint, title, description *string, dueDate *time.Time) (*models.Task, error) {
	task, err := s.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if dueDate != nil {
		updates["due_date"] = dueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(task).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return task, nil
}

// Delete removes a task.
func (s *taskService) Delete(taskID uint) error {
	result := s.db.Delete(&models.Task{}, taskID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
