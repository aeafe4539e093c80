package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID          string       `gorm:"primaryKey;size:36"`
	Email       string       `gorm:"size:255;unique;not null"`
	Password    string       `gorm:"not null" json:"-"`
	LoginTokens []LoginToken `gorm:"foreignKey:AdminID" json:"-"`
	CreatedAt   time.Time
}

func (AdminUser) TableName() string {
	return "admin_users"
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
