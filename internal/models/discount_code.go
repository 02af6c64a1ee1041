package models

import (
	"time"

	"gorm.io/gorm"
)

// DiscountCode is one redeemable code. MaxDiscount is only meaningful for
// percentage codes; fixed codes ignore it.
type DiscountCode struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	Code          string      `gorm:"uniqueIndex;not null" json:"code"`
	Type          string      `gorm:"type:varchar(50);not null" json:"type"` // percentage / fixed
	Value         Money       `gorm:"type:decimal(20,0);not null;default:0" json:"value"`
	MinOrderValue *Money      `gorm:"type:decimal(20,0)" json:"min_order_value"`
	MaxDiscount   *Money      `gorm:"type:decimal(20,0)" json:"max_discount"`
	MaxUses       *int        `gorm:"" json:"max_uses"` // nil means unlimited
	UsedCount     int         `gorm:"not null;default:0" json:"used_count"`
	StartsAt      *time.Time  `gorm:"index" json:"starts_at"`
	EndsAt        *time.Time  `gorm:"index" json:"ends_at"`
	ProductIDs    StringArray `gorm:"type:json" json:"product_ids"` // allow-list of product ids, empty means all
	Categories    StringArray `gorm:"type:json" json:"categories"`  // allow-list of categories, empty means all
	IsActive      bool        `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (DiscountCode) TableName() string {
	return "discount_codes"
}
