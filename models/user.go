package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleClientAdmin = "CLIENT_ADMIN"
	RoleDKAdmin     = "DK_ADMIN"
	RoleSuperAdmin  = "SUPER_ADMIN"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"not null" json:"-"`
	InstitutionID  *uuid.UUID `gorm:"type:uuid" json:"institution_id,omitempty"`
	Role           string     `gorm:"size:50;not null;default:CLIENT_ADMIN" json:"role"`
	Status         string     `gorm:"size:50;not null;default:ACTIVE" json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds a kitchen-side admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleDKAdmin || u.Role == RoleSuperAdmin
}
