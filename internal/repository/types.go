package repository

import (
	"time"

	"gorm.io/gorm"
)

// ProductListFilter filters the product list query.
type ProductListFilter struct {
	Page         int
	PageSize     int
	Category     string
	Subcategory  string
	Status       string
	Master       string
	Search       string
	OnlyVisible  bool // exclude hidden status
	WithVariants bool
}

// OrderListFilter filters the order list query.
type OrderListFilter struct {
	Page          int
	PageSize      int
	OrderNo       string
	Phone         string
	PaymentStatus string
	OrderProgress string
	Search        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// DiscountCodeListFilter filters the discount code list query.
type DiscountCodeListFilter struct {
	Page       int
	PageSize   int
	Search     string
	ActiveOnly bool
}

// AffiliateListFilter filters the affiliate list query.
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// AffiliateOrderListFilter filters the affiliate order list query.
type AffiliateOrderListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Status      string
}

// ListingListFilter filters the user listing list query.
type ListingListFilter struct {
	Page     int
	PageSize int
	Tag      string
	Category string
	Status   string
	Search   string
}

// HistoryListFilter filters the order status history query.
type HistoryListFilter struct {
	Page     int
	PageSize int
	OrderID  uint
}

func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
