package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackRating struct {
	ID                 uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	InstitutionID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"institution_id"`
	Institution        *Institution `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	OrderID            uuid.UUID    `gorm:"type:uuid;not null;index" json:"order_id"`
	MealTime           string       `gorm:"size:100;not null" json:"meal_time"`
	DateOfFeedback     time.Time    `gorm:"type:date;not null" json:"date_of_feedback"`
	UserType           string       `gorm:"size:50;not null" json:"user_type"`
	UserName           string       `gorm:"size:255" json:"user_name,omitempty"`
	IsAnonymous        bool         `gorm:"not null;default:false" json:"is_anonymous"`
	SpiceLevel         string       `gorm:"size:50" json:"spice_level,omitempty"`
	AdditionalComments string       `gorm:"type:text" json:"additional_comments,omitempty"`
	MenuRatings        MenuRatings  `gorm:"type:jsonb;not null" json:"menu_ratings"`
	CreatedAt          time.Time    `json:"created_at"`
}

func (f *FeedbackRating) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
