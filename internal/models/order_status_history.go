package models

import "time"

// OrderStatusHistory is one append-only log row per status field change.
// Rows are written in the same transaction as the change itself, so the log
// is complete by construction rather than by call-site discipline.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	OrderNo   string    `gorm:"index" json:"order_no"`
	Field     string    `gorm:"type:varchar(100);not null" json:"field"`
	OldValue  string    `gorm:"type:varchar(200)" json:"old_value"`
	NewValue  string    `gorm:"type:varchar(200)" json:"new_value"`
	Actor     string    `gorm:"type:varchar(200)" json:"actor"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
