package models

import (
	"time"

	"gorm.io/gorm"
)

// UserListing is a peer-to-peer "pass/gom" classified submitted by a
// customer and moderated by admins before it appears on the storefront.
type UserListing struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	Code        string      `gorm:"uniqueIndex;not null" json:"code"` // human code, PG<n>
	Name        string      `gorm:"type:varchar(500);not null" json:"name"`
	Description string      `gorm:"type:varchar(4000)" json:"description"`
	Category    string      `gorm:"type:varchar(200);index" json:"category"`
	Subcategory string      `gorm:"type:varchar(200)" json:"subcategory"`
	Tag         string      `gorm:"type:varchar(50);index;not null" json:"tag"` // Pass / Gom
	Price       *Money      `gorm:"type:decimal(20,0)" json:"price"`
	Variants    JSON        `gorm:"type:json" json:"variants"` // optional {name,price} list for Gom listings
	Images      StringArray `gorm:"type:json" json:"images"`

	SellerName    string `gorm:"type:varchar(200);not null" json:"seller_name"`
	SellerPhone   string `gorm:"type:varchar(50);index" json:"seller_phone"`
	SellerSocial  string `gorm:"type:varchar(500)" json:"seller_social"`
	SellerBank    string `gorm:"type:varchar(200)" json:"seller_bank"`
	SellerAccount string `gorm:"type:varchar(100)" json:"seller_account"`

	Status    string `gorm:"type:varchar(50);index;not null;default:'pending'" json:"status"`
	AdminNote string `gorm:"type:varchar(2000)" json:"admin_note"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (UserListing) TableName() string {
	return "user_listings"
}
