package models

// AuditLog records terminal bot actions (project created, expense added,
// change order resolved) for later review.
type AuditLog struct {
	Base
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Action     string `gorm:"not null" json:"action"`
	EntityType string `gorm:"not null" json:"entity_type"`
	EntityID   uint   `json:"entity_id"`
	Details    string `json:"details,omitempty"`
}
