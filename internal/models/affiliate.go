package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate is a referral partner. Earnings totals are maintained by the
// commission bookkeeping service, never written directly by handlers.
type Affiliate struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(200);not null" json:"name"`
	Phone        string `gorm:"type:varchar(50);index" json:"phone"`
	Email        string `gorm:"type:varchar(200)" json:"email"`
	SocialLink   string `gorm:"type:varchar(500)" json:"social_link"`
	ReferralCode string `gorm:"uniqueIndex;not null" json:"referral_code"`

	CommissionRate  float64 `gorm:"not null;default:0" json:"commission_rate"` // fraction, e.g. 0.05
	TotalEarnings   Money   `gorm:"type:decimal(20,0);not null;default:0" json:"total_earnings"`
	PendingEarnings Money   `gorm:"type:decimal(20,0);not null;default:0" json:"pending_earnings"`
	PaidEarnings    Money   `gorm:"type:decimal(20,0);not null;default:0" json:"paid_earnings"`
	OrderCount      int     `gorm:"not null;default:0" json:"order_count"`

	BankName    string `gorm:"type:varchar(200)" json:"bank_name"`
	BankAccount string `gorm:"type:varchar(100)" json:"bank_account"`
	BankHolder  string `gorm:"type:varchar(200)" json:"bank_holder"`

	Status    string `gorm:"type:varchar(50);index;not null;default:'pending'" json:"status"`
	AdminNote string `gorm:"type:varchar(2000)" json:"admin_note"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Affiliate) TableName() string {
	return "affiliates"
}

// AffiliateOrder links an affiliate to one order with a snapshot of the order
// total and the commission computed at order time.
type AffiliateOrder struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	AffiliateID uint   `gorm:"index;not null" json:"affiliate_id"`
	OrderID     uint   `gorm:"index;not null" json:"order_id"`
	OrderNo     string `gorm:"index" json:"order_no"`
	OrderTotal  Money  `gorm:"type:decimal(20,0);not null;default:0" json:"order_total"`
	Commission  Money  `gorm:"type:decimal(20,0);not null;default:0" json:"commission"`
	Status      string `gorm:"type:varchar(50);index;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (AffiliateOrder) TableName() string {
	return "affiliate_orders"
}
