package service

import (
	"context"
	"strings"

	"github.com/purinorder/purinorder/internal/feed"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/repository"
)

// ProductService is the admin side of the catalog: CRUD, feed sync in both
// directions and the deadline sweep.
type ProductService struct {
	productRepo repository.ProductRepository
	feedClient  *feed.Client
	queueClient *queue.Client
	catalog     *CatalogService
}

// NewProductService creates the product service.
func NewProductService(productRepo repository.ProductRepository, feedClient *feed.Client, queueClient *queue.Client, catalog *CatalogService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		feedClient:  feedClient,
		queueClient: queueClient,
		catalog:     catalog,
	}
}

// List returns products for the admin table.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get returns one product with variants.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create saves a new product and its variants, then schedules a feed push.
func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return ErrInvalidOrderItem
	}
	variants := product.Variants
	product.Variants = nil
	product.FromFeed = false
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	if len(variants) > 0 {
		if err := s.productRepo.ReplaceVariants(product.ID, variants); err != nil {
			return err
		}
		product.Variants = variants
	}
	s.afterMutation(ctx, product.ID)
	return nil
}

// Update rewrites a product and its variants, then schedules a feed push.
func (s *ProductService) Update(ctx context.Context, product *models.Product) error {
	existing, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	variants := product.Variants
	product.Variants = nil
	product.FromFeed = false
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	if err := s.productRepo.ReplaceVariants(product.ID, variants); err != nil {
		return err
	}
	product.Variants = variants
	s.afterMutation(ctx, product.ID)
	return nil
}

// Delete soft deletes a product.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	if s.catalog != nil {
		s.catalog.InvalidateCache(ctx)
	}
	return nil
}

// SyncFromFeed pulls the whole feed and upserts every row locally. Returns
// the number of rows written.
func (s *ProductService) SyncFromFeed(ctx context.Context) (int, error) {
	if s.feedClient == nil {
		return 0, feed.ErrFeedNotConfigured
	}
	rows, err := s.feedClient.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, fp := range rows {
		product := feedProductToModel(fp)
		variants := product.Variants
		product.Variants = nil
		if err := s.productRepo.Upsert(&product); err != nil {
			logger.Warnw("feed_sync_upsert_failed", "product_id", fp.ID, "error", err)
			continue
		}
		if err := s.productRepo.ReplaceVariants(product.ID, variants); err != nil {
			logger.Warnw("feed_sync_variants_failed", "product_id", fp.ID, "error", err)
			continue
		}
		count++
	}
	if s.catalog != nil {
		s.catalog.InvalidateCache(ctx)
	}
	logger.Infow("feed_sync_pull_done", "rows", count)
	return count, nil
}

// PushToFeed uploads one product, or all local products when id is zero.
// Push failures are surfaced to the caller but never roll anything back.
func (s *ProductService) PushToFeed(ctx context.Context, id uint) error {
	if s.feedClient == nil {
		return feed.ErrFeedNotConfigured
	}
	var products []models.Product
	if id == 0 {
		all, err := s.productRepo.ListAll(false)
		if err != nil {
			return err
		}
		products = all
	} else {
		product, err := s.productRepo.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		products = []models.Product{*product}
	}
	rows := make([]feed.Product, 0, len(products))
	for i := range products {
		rows = append(rows, modelToFeedProduct(&products[i]))
	}
	return s.feedClient.Push(ctx, rows)
}

// ExpiringSoon lists products whose order deadline falls inside the window.
func (s *ProductService) ExpiringSoon(withinHours int) ([]models.Product, error) {
	if withinHours <= 0 {
		withinHours = 24
	}
	return s.productRepo.ListExpiring(withinHours)
}

func (s *ProductService) afterMutation(ctx context.Context, productID uint) {
	if s.catalog != nil {
		s.catalog.InvalidateCache(ctx)
	}
	if err := s.queueClient.EnqueueFeedSyncPush(queue.FeedSyncPushPayload{ProductID: productID}); err != nil {
		logger.Warnw("feed_push_enqueue_failed", "product_id", productID, "error", err)
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
