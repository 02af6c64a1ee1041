package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a back-office account. Replaces the original hard-coded
// credential pair with bcrypt hashes and JWT sessions.
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(200)" json:"display_name"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}

// Setting is one persisted configuration row keyed by name, the backing
// store for the application-config service.
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	ValueJSON JSON      `gorm:"type:json" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Setting) TableName() string {
	return "settings"
}
