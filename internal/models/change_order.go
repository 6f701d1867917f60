package models

// ChangeOrderStatus represents the approval state of a change order.
type ChangeOrderStatus string

const (
	ChangeOrderPending  ChangeOrderStatus = "pending"
	ChangeOrderApproved ChangeOrderStatus = "approved"
	ChangeOrderRejected ChangeOrderStatus = "rejected"
)

// ChangeOrder is a request that an expense be approved by a second party
// before being considered final. It transitions out of pending exactly once.
type ChangeOrder struct {
	Base
	TransactionID   uint              `gorm:"not null;index" json:"transaction_id"`
	Status          ChangeOrderStatus `gorm:"size:16;not null;default:'pending';index" json:"status"`
	RequestedByID   uint              `gorm:"not null" json:"requested_by_id"`
	ApprovedByID    *uint             `json:"approved_by_id,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"transaction,omitempty"`
	Requester   User        `gorm:"foreignKey:RequestedByID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Approver    *User       `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL" json:"approver,omitempty"`
}
