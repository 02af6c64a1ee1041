package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// OrderItem is an immutable snapshot of one cart line at the time it was
// ordered. Prices here are the add-to-cart prices, deliberately decoupled
// from the live product rows.
type OrderItem struct {
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	Variant       string `json:"variant,omitempty"`
	Quantity      int    `json:"quantity"`
	Price         Money  `json:"price"`
	Master        string `json:"master,omitempty"`
	Image         string `json:"image,omitempty"`
	SourceOrderNo string `json:"source_order_no,omitempty"` // set when folded in by an order merge
}

// OrderItemList stores the item snapshots as a JSON column.
type OrderItemList []OrderItem

// Value implements driver.Valuer.
func (l OrderItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(OrderItemList{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *OrderItemList) Scan(value interface{}) error {
	if value == nil {
		*l = OrderItemList{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Order is a customer order. One checkout may produce several orders, one per
// distinct master value among the cart items.
type Order struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	OrderNo string `gorm:"uniqueIndex;not null" json:"order_no"`

	// Contact fields.
	Phone  string `gorm:"type:varchar(50);index" json:"phone"`
	Email  string `gorm:"type:varchar(200)" json:"email"`
	Social string `gorm:"type:varchar(200)" json:"social"` // facebook/instagram handle

	// Delivery fields.
	DeliveryName    string `gorm:"type:varchar(200)" json:"delivery_name"`
	DeliveryPhone   string `gorm:"type:varchar(50);index" json:"delivery_phone"`
	DeliveryAddress string `gorm:"type:varchar(1000)" json:"delivery_address"`
	DeliveryNote    string `gorm:"type:varchar(1000)" json:"delivery_note"`

	Items         OrderItemList `gorm:"type:json;not null" json:"items"`
	TotalPrice    Money         `gorm:"type:decimal(20,0);not null;default:0" json:"total_price"`
	Surcharge     Money         `gorm:"type:decimal(20,0);not null;default:0" json:"surcharge"`
	PaymentStatus string        `gorm:"type:varchar(100);index;not null" json:"payment_status"`
	OrderProgress string        `gorm:"type:varchar(100);index;not null" json:"order_progress"`
	PaymentType   string        `gorm:"type:varchar(50)" json:"payment_type"`   // full / deposit
	PaymentMethod string        `gorm:"type:varchar(50)" json:"payment_method"` // bank_transfer / momo
	ProofURLs     StringArray   `gorm:"type:json" json:"proof_urls"`

	ShippingProvider string `gorm:"type:varchar(200)" json:"shipping_provider"`
	TrackingCode     string `gorm:"type:varchar(200)" json:"tracking_code"`
	AdminNote        string `gorm:"type:varchar(2000)" json:"admin_note"`

	DiscountCode   string `gorm:"type:varchar(100);index" json:"discount_code"`
	DiscountAmount Money  `gorm:"type:decimal(20,0);not null;default:0" json:"discount_amount"`
	AffiliateCode  string `gorm:"type:varchar(100);index" json:"affiliate_code"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
