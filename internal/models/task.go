package models

import "time"

// Task is a simple to-do item attached to a project. The completed flag
// only moves from false to true.
type Task struct {
	Base
	ProjectID    uint       `gorm:"not null;index" json:"project_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  *string    `json:"description,omitempty"`
	IsCompleted  bool       `gorm:"default:false;index" json:"is_completed"`
	AssignedToID *uint      `json:"assigned_to_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	// Relationships
	Project    Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
}
