package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EditRequest records a proposed change against an order. original_breakdown
// snapshots the order's allocation/menu at creation time; requested_changes
// carries the proposed replacement in the same two-slot shape.
type EditRequest struct {
	EditRequestID     uuid.UUID         `gorm:"type:uuid;primaryKey" json:"edit_request_id"`
	OrderID           uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_edit_request_per_order,where:approval_status = 'PENDING'" json:"order_id"`
	Order             *Order            `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	InstitutionID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"institution_id"`
	OriginalBreakdown Breakdown         `gorm:"type:jsonb;not null" json:"original_breakdown"`
	RequestedChanges  ChangeSet         `gorm:"type:jsonb;not null" json:"requested_changes"`
	ChangeReason      string            `gorm:"type:text" json:"change_reason,omitempty"`
	SubmittedAt       time.Time         `gorm:"not null" json:"submitted_at"`
	SLAStatus         string            `gorm:"size:50;not null" json:"sla_status"`
	ApprovalStatus    EditRequestStatus `gorm:"size:50;not null;default:PENDING;index" json:"approval_status"`
	SubmittedBy       uuid.UUID         `gorm:"type:uuid;not null" json:"submitted_by"`
	ApprovedBy        *uuid.UUID        `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovalComment   string            `gorm:"type:text" json:"approval_comment,omitempty"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (e *EditRequest) BeforeCreate(tx *gorm.DB) error {
	if e.EditRequestID == uuid.Nil {
		e.EditRequestID = uuid.New()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = time.Now().UTC()
	}
	return nil
}
