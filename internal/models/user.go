package models

// UserRole represents the role a user plays on a construction project.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleForeman UserRole = "foreman"
	RoleClient  UserRole = "client"
)

// User represents a Telegram user known to the bot.
type User struct {
	Base
	TgID int64    `gorm:"uniqueIndex;not null" json:"tg_id"`
	Name string   `gorm:"size:255;not null" json:"name"`
	Role UserRole `gorm:"size:16;not null;default:'foreman'" json:"role"`

	// Relationships
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
}
