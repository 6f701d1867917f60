package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/models"
)

// changeOrderService handles the two-party approval workflow.
type changeOrderService struct {
	db *gorm.DB
}

// NewChangeOrderService creates a new ChangeOrderServicer.
func NewChangeOrderService(db *gorm.DB) ChangeOrderServicer {
	return &changeOrderService{db: db}
}

// Create opens a pending change order linked to exactly one transaction.
func (s *changeOrderService) Create(transactionID, requestedByID uint) (*models.ChangeOrder, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := &models.ChangeOrder{
		TransactionID: transactionID,
		Status:        models.ChangeOrderPending,
		RequestedByID: requestedByID,
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return order, nil
}

// GetByID returns a change order with its transaction and requester loaded.
func (s *changeOrderService) GetByID(orderID uint) (*models.ChangeOrder, error) {
	var order models.ChangeOrder
	if err := s.db.Preload("Transaction").Preload("Requester").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChangeOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &order, nil
}

// ListPending returns all change orders awaiting resolution.
func (s *changeOrderService) ListPending() ([]models.ChangeOrder, error) {
	return s.ListByStatus(models.ChangeOrderPending)
}

// ListByStatus returns change orders in the given state, oldest first.
func (s *changeOrderService) ListByStatus(status models.ChangeOrderStatus) ([]models.ChangeOrder, error) {
	var orders []models.ChangeOrder
	if err := s.db.Preload("Transaction").Preload("Requester").
		Where("status = ?", status).Order("created_at").Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return orders, nil
}

// ListForProject returns all change orders whose transactions belong to the project.
func (s *changeOrderService) ListForProject(projectID uint) ([]models.ChangeOrder, error) {
	var orders []models.ChangeOrder
	if err := s.db.Preload("Transaction").Preload("Requester").
		Joins("JOIN transactions ON transactions.id = change_orders.transaction_id").
		Where("transactions.project_id = ?", projectID).
		Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return orders, nil
}

// Approve resolves a pending change order. The transition is guarded: a
// conditional UPDATE on status=pending ensures a change order leaves the
// pending state exactly once, even under concurrent resolutions.
func (s *changeOrderService) Approve(orderID, approverID uint) (*models.ChangeOrder, error) {
	return s.resolve(orderID, approverID, models.ChangeOrderApproved, nil)
}

// Reject resolves a pending change order with a rejection reason.
func (s *changeOrderService) Reject(orderID, approverID uint, reason string) (*models.ChangeOrder, error) {
	return s.resolve(orderID, approverID, models.ChangeOrderRejected, &reason)
}

func (s *changeOrderService) resolve(orderID, approverID uint, status models.ChangeOrderStatus, reason *string) (*models.ChangeOrder, error) {
	updates := map[string]interface{}{
		"status":         status,
		"approved_by_id": approverID,
	}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	result := s.db.Model(&models.ChangeOrder{}).
		Where("id = ? AND status = ?", orderID, models.ChangeOrderPending).
		Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the order does not exist or it was already resolved.
		if _, err := s.GetByID(orderID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrChangeOrderResolved
	}

	return s.GetByID(orderID)
}
