package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/feed"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T, feedClient *feed.Client) (*CatalogService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCatalogService(repository.NewProductRepository(db), feedClient), db
}

func feedTestServer(t *testing.T, body string, status int) *feed.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return feed.NewClient(config.FeedConfig{URL: srv.URL})
}

func TestCatalogMergesFeedWithLocalPriority(t *testing.T) {
	body := `{"products":[{"id":1,"name":"Áo feed","price":90000,"category":"Thời trang","status":"Sẵn"},{"id":7,"name":"Móc khóa feed","price":25000,"category":"Phụ kiện","status":"Sẵn"}]}`
	svc, db := setupCatalogServiceTest(t, feedTestServer(t, body, http.StatusOK))

	local := models.Product{
		ID:       1,
		Name:     "Áo local",
		Price:    models.NewMoneyFromInt(100000),
		Category: "Thời trang",
		Status:   "Sẵn",
	}
	if err := db.Create(&local).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	products, err := svc.Catalog(context.Background(), CatalogFilter{})
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != 1 || products[0].Name != "Áo local" {
		t.Fatalf("local row must win over the feed row: %+v", products[0])
	}
	if products[1].ID != 7 || products[1].Name != "Móc khóa feed" {
		t.Fatalf("unexpected feed row: %+v", products[1])
	}
}

func TestCatalogFiltersHiddenAndCategory(t *testing.T) {
	svc, db := setupCatalogServiceTest(t, nil)
	rows := []models.Product{
		{Name: "Áo thun", Category: "Thời trang", Status: "Sẵn"},
		{Name: "Gấu bông", Category: "Đồ chơi", Status: "Sẵn"},
		{Name: "Hàng ẩn", Category: "Thời trang", Status: "Ẩn"},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	products, err := svc.Catalog(context.Background(), CatalogFilter{})
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("hidden product must be excluded, got %d rows", len(products))
	}

	products, err = svc.Catalog(context.Background(), CatalogFilter{Category: "Đồ chơi"})
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Gấu bông" {
		t.Fatalf("unexpected category filter result: %+v", products)
	}

	products, err = svc.Catalog(context.Background(), CatalogFilter{Keyword: "áo"})
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Áo thun" {
		t.Fatalf("keyword match must be case insensitive: %+v", products)
	}
}

func TestCatalogSurvivesFeedFailure(t *testing.T) {
	svc, db := setupCatalogServiceTest(t, feedTestServer(t, "error", http.StatusInternalServerError))
	if err := db.Create(&models.Product{Name: "Áo thun", Status: "Sẵn"}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	products, err := svc.Catalog(context.Background(), CatalogFilter{})
	if err != nil {
		t.Fatalf("a feed outage must not fail the catalog: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected the local row, got %d rows", len(products))
	}
}

func TestCatalogSurvivesLocalReadFailure(t *testing.T) {
	body := `{"products":[{"id":3,"name":"Gối ôm feed","price":320000,"status":"Sẵn"}]}`
	svc, db := setupCatalogServiceTest(t, feedTestServer(t, body, http.StatusOK))
	if err := db.Exec("DROP TABLE products").Error; err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	products, err := svc.Catalog(context.Background(), CatalogFilter{})
	if err != nil {
		t.Fatalf("a products table outage must not fail the catalog: %v", err)
	}
	if len(products) != 1 || products[0].ID != 3 {
		t.Fatalf("expected the feed row, got %+v", products)
	}
}

func TestProductDetailHiddenAndFeedOnly(t *testing.T) {
	body := `{"products":[{"id":42,"name":"Bình nước feed","price":60000,"status":"Sẵn"}]}`
	svc, db := setupCatalogServiceTest(t, feedTestServer(t, body, http.StatusOK))
	hidden := models.Product{ID: 5, Name: "Hàng ẩn", Status: "Ẩn"}
	if err := db.Create(&hidden).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.ProductDetail(context.Background(), 5); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound for hidden product, got %v", err)
	}

	product, err := svc.ProductDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if product.Name != "Bình nước feed" || !product.FromFeed {
		t.Fatalf("unexpected feed product detail: %+v", product)
	}

	if _, err := svc.ProductDetail(context.Background(), 999); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
