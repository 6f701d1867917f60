package models

// ProjectStage is the fixed construction phase used to tag progress photos.
type ProjectStage string

const (
	StageDraft    ProjectStage = "draft"
	StageElectric ProjectStage = "electric"
	StageFinish   ProjectStage = "finish"
)

// ProgressPhoto stores a Telegram file reference for a stage-tagged
// progress photo. Never updated after creation.
type ProgressPhoto struct {
	Base
	ProjectID uint         `gorm:"not null;index" json:"project_id"`
	PhotoID   string       `gorm:"size:255;not null" json:"photo_id"`
	Stage     ProjectStage `gorm:"size:16;not null" json:"stage"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
