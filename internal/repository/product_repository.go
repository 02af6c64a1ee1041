package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListAll(onlyVisible bool) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	Upsert(product *models.Product) error
	ReplaceVariants(productID uint, variants []models.ProductVariant) error
	GetVariantByName(productID uint, name string) (*models.ProductVariant, error)
	DecrementVariantStock(variantID uint, quantity int) (int64, error)
	DecrementProductStock(productID uint, quantity int) (int64, error)
	ListExpiring(within int) ([]models.Product, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List returns a filtered product page.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithVariants {
		query = query.Preload("Variants")
	}
	if filter.OnlyVisible {
		query = query.Where("status <> ?", "Ẩn")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		query = query.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Master != "" {
		query = query.Where("master = ?", filter.Master)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAll returns every product with variants, used by the catalog merge.
func (r *GormProductRepository) ListAll(onlyVisible bool) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Preload("Variants")
	if onlyVisible {
		query = query.Where("status <> ?", "Ẩn")
	}
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns one product with variants, nil when absent.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs returns products for the given ids.
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.Preload("Variants").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update saves a product row.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// UpdateFields applies a partial update.
func (r *GormProductRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
}

// Delete soft-deletes a product and its variants.
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

// Upsert inserts the product or overwrites the row with the same id.
// Feed sync relies on this: database rows keep the feed's numeric ids.
func (r *GormProductRepository) Upsert(product *models.Product) error {
	existing, err := r.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(product).Error
	}
	return r.db.Save(product).Error
}

// ReplaceVariants swaps the full variant set of a product.
func (r *GormProductRepository) ReplaceVariants(productID uint, variants []models.ProductVariant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		for i := range variants {
			variants[i].ID = 0
			variants[i].ProductID = productID
		}
		if len(variants) == 0 {
			return nil
		}
		return tx.Create(&variants).Error
	})
}

// GetVariantByName returns one variant of a product, nil when absent.
func (r *GormProductRepository) GetVariantByName(productID uint, name string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.Where("product_id = ? AND name = ?", productID, name).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// DecrementVariantStock subtracts quantity from a variant's stock, clamped at
// zero, as a single guarded UPDATE. Rows with NULL stock (unlimited) are left
// untouched and report one affected row is not required for them.
func (r *GormProductRepository) DecrementVariantStock(variantID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock IS NOT NULL", variantID).
		Update("stock", gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", quantity, quantity))
	return result.RowsAffected, result.Error
}

// DecrementProductStock is the product-level counterpart for products
// without variants.
func (r *GormProductRepository) DecrementProductStock(productID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock IS NOT NULL", productID).
		Update("stock", gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", quantity, quantity))
	return result.RowsAffected, result.Error
}

// ListExpiring returns visible products whose order deadline falls within
// the given number of hours from now.
func (r *GormProductRepository) ListExpiring(withinHours int) ([]models.Product, error) {
	if withinHours <= 0 {
		withinHours = 24
	}
	now := time.Now()
	until := now.Add(time.Duration(withinHours) * time.Hour)
	var products []models.Product
	err := r.db.
		Where("order_deadline IS NOT NULL").
		Where("status <> ?", "Ẩn").
		Where("order_deadline > ? AND order_deadline <= ?", now, until).
		Find(&products).Error
	return products, err
}
