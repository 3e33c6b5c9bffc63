package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is one institutional bulk meal order. staff_allocation and
// menu_details live in JSON columns; the application keeps total_portion
// equal to the allocation sum whenever both are supplied together.
type Order struct {
	OrderID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"order_id"`
	InstitutionID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"institution_id"`
	Institution          *Institution    `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	OrderDate            time.Time       `gorm:"type:date;not null" json:"order_date"`
	OrderType            string          `gorm:"size:50;not null;default:REGULAR" json:"order_type"`
	TotalPortion         int             `gorm:"not null" json:"total_portion"`
	StaffAllocation      StaffAllocation `gorm:"type:jsonb;not null" json:"staff_allocation"`
	MenuDetails          MenuDetails     `gorm:"type:jsonb" json:"menu_details,omitempty"`
	DroppingLocationFood string          `gorm:"size:100" json:"dropping_location_food,omitempty"`
	Status               OrderStatus     `gorm:"size:50;not null;default:DRAFT;index" json:"status"`
	CreatedBy            uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	SubmittedAt          *time.Time      `json:"submitted_at,omitempty"`
	ApprovedBy           *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt           *time.Time      `json:"approved_at,omitempty"`
	SpecialNotes         string          `gorm:"type:text" json:"special_notes,omitempty"`
	IsLocked             bool            `gorm:"not null;default:false" json:"is_locked"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == uuid.Nil {
		o.OrderID = uuid.New()
	}
	return nil
}
