package provider

import (
	"github.com/mealbox-next/internal/cache"
	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/models"
	"github.com/mealbox-next/internal/queue"
	"github.com/mealbox-next/internal/repository"
	"github.com/mealbox-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	RestaurantRepo repository.RestaurantRepository
	MenuItemRepo   repository.MenuItemRepository
	CartStateRepo  repository.CartStateRepository
	OrderRepo      repository.OrderRepository

	// Services
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.RestaurantRepo = repository.NewRestaurantRepository(db)
	c.MenuItemRepo = repository.NewMenuItemRepository(db)
	c.CartStateRepo = repository.NewCartStateRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.CatalogService = service.NewCatalogService(c.RestaurantRepo, c.MenuItemRepo)
	c.CartService = service.NewCartService(c.CartStateRepo, c.CatalogService)
	c.CheckoutService = service.NewCheckoutService(
		c.CartService,
		c.OrderRepo,
		c.QueueClient,
		c.Config.Checkout,
		c.Config.Delivery,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.QueueClient, c.Config.Delivery)
}
