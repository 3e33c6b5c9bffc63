package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Institution struct {
	InstitutionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"institution_id"`
	Name          string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Type          string    `gorm:"size:100;not null" json:"type"`
	TotalUsers    int       `gorm:"not null;default:0" json:"total_users"`
	ContactEmail  string    `gorm:"size:255;not null" json:"contact_email"`
	ContactPerson string    `gorm:"size:255" json:"contact_person,omitempty"`
	Status        string    `gorm:"size:50;not null;default:ACTIVE" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (i *Institution) BeforeCreate(tx *gorm.DB) error {
	if i.InstitutionID == uuid.Nil {
		i.InstitutionID = uuid.New()
	}
	return nil
}
