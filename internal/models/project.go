package models

import "github.com/shopspring/decimal"

// Project represents a construction site with a planned budget.
type Project struct {
	Base
	Name    string          `gorm:"size:255;not null" json:"name"`
	Address string          `gorm:"size:512;not null" json:"address"`
	Budget  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"budget"`
	OwnerID *uint           `gorm:"index" json:"owner_id,omitempty"`

	// Relationships
	Owner          *User           `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Transactions   []Transaction   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	ProgressPhotos []ProgressPhoto `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"progress_photos,omitempty"`
}
