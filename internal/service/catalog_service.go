package service

import (
	"context"
	"sort"
	"time"

	"github.com/purinorder/purinorder/internal/cache"
	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/feed"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"
)

// CatalogService serves the storefront catalog: the union of local products
// and the spreadsheet feed. A local row wins over a feed row with the same
// id. Either source may fail on its own; the catalog degrades to whatever
// the other one returned.
type CatalogService struct {
	productRepo repository.ProductRepository
	feedClient  *feed.Client
}

// NewCatalogService creates the catalog service.
func NewCatalogService(productRepo repository.ProductRepository, feedClient *feed.Client) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		feedClient:  feedClient,
	}
}

// CatalogFilter narrows the storefront listing.
type CatalogFilter struct {
	Category    string
	Subcategory string
	Keyword     string
}

// Catalog returns the merged, customer-visible catalog. The merged list is
// cached for a short window so feed latency stays off the hot path.
func (s *CatalogService) Catalog(ctx context.Context, filter CatalogFilter) ([]models.Product, error) {
	merged, err := s.merged(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(merged))
	for i := range merged {
		p := merged[i]
		if p.Hidden() {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Subcategory != "" && p.Subcategory != filter.Subcategory {
			continue
		}
		if filter.Keyword != "" && !containsFold(p.Name, filter.Keyword) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ProductDetail returns one product by id. Local rows take priority; a
// feed-only product is looked up in the merged catalog.
func (s *CatalogService) ProductDetail(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product != nil {
		if product.Hidden() {
			return nil, ErrProductNotFound
		}
		return product, nil
	}
	merged, err := s.merged(ctx)
	if err != nil {
		return nil, err
	}
	for i := range merged {
		if merged[i].ID == id {
			if merged[i].Hidden() {
				return nil, ErrProductNotFound
			}
			return &merged[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// InvalidateCache drops the cached merged catalog. Called after any product
// mutation so customers see admin edits immediately.
func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if err := cache.Delete(ctx, constants.CacheKeyCatalog); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func (s *CatalogService) merged(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if ok, err := cache.GetJSON(ctx, constants.CacheKeyCatalog, &cached); err != nil {
		logger.Warnw("catalog_cache_read_failed", "error", err)
	} else if ok {
		return cached, nil
	}

	local, dbErr := s.productRepo.ListAll(false)
	if dbErr != nil {
		logger.Warnw("catalog_db_read_failed", "error", dbErr)
		local = nil
	}
	byID := make(map[uint]bool, len(local))
	for i := range local {
		byID[local[i].ID] = true
	}

	merged := local
	feedProducts, feedErr := s.fetchFeed(ctx)
	if feedErr != nil {
		logger.Warnw("catalog_feed_fetch_failed", "error", feedErr)
	} else {
		for _, fp := range feedProducts {
			if byID[fp.ID] {
				continue
			}
			merged = append(merged, feedProductToModel(fp))
		}
	}
	if dbErr != nil && len(merged) == 0 {
		return nil, dbErr
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	if err := cache.SetJSON(ctx, constants.CacheKeyCatalog, merged, constants.CatalogCacheSeconds*time.Second); err != nil {
		logger.Warnw("catalog_cache_write_failed", "error", err)
	}
	return merged, nil
}

func (s *CatalogService) fetchFeed(ctx context.Context) ([]feed.Product, error) {
	if s.feedClient == nil {
		return nil, nil
	}
	products, err := s.feedClient.Fetch(ctx)
	if err == feed.ErrFeedNotConfigured {
		return nil, nil
	}
	return products, err
}
