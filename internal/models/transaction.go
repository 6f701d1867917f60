package models

import "github.com/shopspring/decimal"

// TransactionCategory is the closed set of expense classifications.
type TransactionCategory string

const (
	CategoryMaterials TransactionCategory = "materials"
	CategoryLabor     TransactionCategory = "labor"
	CategoryOther     TransactionCategory = "other"
)

// Transaction represents a single project expense. Immutable after
// creation except for its status.
type Transaction struct {
	Base
	ProjectID   uint                `gorm:"not null;index" json:"project_id"`
	Amount      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category    TransactionCategory `gorm:"size:16;not null" json:"category"`
	Description *string             `json:"description,omitempty"`
	PhotoURL    *string             `gorm:"size:1024" json:"photo_url,omitempty"`
	Status      string              `gorm:"size:20;not null;default:'approved'" json:"status"`
	CreatedByID *uint               `json:"created_by_id,omitempty"`

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedBy *User   `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
}
