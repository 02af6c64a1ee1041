package provider

import (
	"github.com/purinorder/purinorder/internal/cache"
	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/feed"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/repository"
	"github.com/purinorder/purinorder/internal/service"
)

// Container wires repositories and services once and hands them to the HTTP
// handlers and the worker.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	FeedClient  *feed.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	ProductRepo   repository.ProductRepository
	OrderRepo     repository.OrderRepository
	HistoryRepo   repository.StatusHistoryRepository
	DiscountRepo  repository.DiscountCodeRepository
	AffiliateRepo repository.AffiliateRepository
	AffOrderRepo  repository.AffiliateOrderRepository
	ListingRepo   repository.ListingRepository
	SettingRepo   repository.SettingRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthService      *service.AuthService
	CaptchaService   *service.CaptchaService
	EmailService     *service.EmailService
	UploadService    *service.UploadService
	SettingService   *service.SettingService
	CatalogService   *service.CatalogService
	ProductService   *service.ProductService
	CheckoutService  *service.CheckoutService
	OrderService     *service.OrderService
	MergeService     *service.OrderMergeService
	DiscountService  *service.DiscountService
	AffiliateService *service.AffiliateService
	ListingService   *service.ListingService
	DashboardService *service.DashboardService
}

// NewContainer builds the full dependency graph.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		FeedClient:  feed.NewClient(cfg.Feed),
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.HistoryRepo = repository.NewStatusHistoryRepository(db)
	c.DiscountRepo = repository.NewDiscountCodeRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.AffOrderRepo = repository.NewAffiliateOrderRepository(db)
	c.ListingRepo = repository.NewListingRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UploadService = service.NewUploadService(c.Config)

	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.FeedClient)
	c.ProductService = service.NewProductService(c.ProductRepo, c.FeedClient, c.QueueClient, c.CatalogService)
	c.DiscountService = service.NewDiscountService(c.DiscountRepo)
	c.CheckoutService = service.NewCheckoutService(c.OrderRepo, c.ProductRepo, c.DiscountRepo, c.AffiliateRepo, c.AffOrderRepo, c.CatalogService, c.DiscountService, c.QueueClient)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.HistoryRepo, c.QueueClient)
	c.MergeService = service.NewOrderMergeService(c.OrderRepo, c.HistoryRepo)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, c.AffOrderRepo, c.OrderRepo)
	c.ListingService = service.NewListingService(c.ListingRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
