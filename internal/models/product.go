package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog product. Rows come from two sources: the admin forms
// and the spreadsheet feed sync; both write the same table.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                             // numeric id shared with the feed
	Name          string         `gorm:"type:varchar(500);not null" json:"name"`           // display name
	Price         Money          `gorm:"type:decimal(20,0);not null;default:0" json:"price"`
	DisplayPrice  string         `gorm:"type:varchar(200)" json:"display_price"`           // free-text price label, e.g. "120k-150k"
	Category      string         `gorm:"type:varchar(200);index" json:"category"`
	Subcategory   string         `gorm:"type:varchar(200);index" json:"subcategory"`
	Status        string         `gorm:"type:varchar(50);index;not null;default:'Sẵn'" json:"status"`
	Master        string         `gorm:"type:varchar(200);index" json:"master"`            // supplier/group key; checkout splits orders by this
	OrderDeadline *time.Time     `gorm:"index" json:"order_deadline"`
	Images        StringArray    `gorm:"type:json" json:"images"`
	OptionGroups  JSON           `gorm:"type:json" json:"option_groups"`                   // {groups:[{name,options[]}]}; variant names are the concatenation
	VariantImages JSON           `gorm:"type:json" json:"variant_images"`                  // variant name -> image index
	Stock         *int           `gorm:"" json:"stock"`                                    // nil means unlimited
	FromFeed      bool           `gorm:"default:false" json:"from_feed"`                   // last written by feed sync

	// Cost accounting, internal margin display only.
	PurchaseRate  float64 `gorm:"default:0" json:"purchase_rate"`
	WeightGram    float64 `gorm:"default:0" json:"weight_gram"`
	PackagingCost Money   `gorm:"type:decimal(20,0);default:0" json:"packaging_cost"`
	LaborCost     Money   `gorm:"type:decimal(20,0);default:0" json:"labor_cost"`
	TotalCost     Money   `gorm:"type:decimal(20,0);default:0" json:"total_cost"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// Hidden reports whether the product should be excluded from the storefront.
func (p *Product) Hidden() bool {
	return p.Status == "Ẩn"
}

// ProductVariant is one sellable variant of a product. Stock is tracked per
// variant; a nil Stock means unlimited.
type ProductVariant struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"index;not null" json:"product_id"`
	Name       string         `gorm:"type:varchar(500);not null" json:"name"`
	Price      Money          `gorm:"type:decimal(20,0);not null;default:0" json:"price"`
	Stock      *int           `gorm:"" json:"stock"` // nil means unlimited
	ImageIndex *int           `gorm:"" json:"image_index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (ProductVariant) TableName() string {
	return "product_variants"
}
