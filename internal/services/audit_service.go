package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"buildflow/internal/logger"
	"buildflow/internal/models"
)

// auditService records terminal bot actions for traceability. Logging is
// best effort: an audit failure must never break the action it describes.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log writes one audit row. Errors are logged and swallowed.
func (s *auditService) Log(userID uint, action, entityType string, entityID uint, details map[string]any) {
	log := logger.Get()

	var payload string
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Warnw("failed to marshal audit details", "action", action, "error", err)
		} else {
			payload = string(raw)
		}
	}

	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Warnw("failed to write audit log", "action", action, "entity_type", entityType, "entity_id", entityID, "error", err)
	}
}
