package provider

import (
	"github.com/prostore-next/internal/authz"
	"github.com/prostore-next/internal/cache"
	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/queue"
	"github.com/prostore-next/internal/repository"
	"github.com/prostore-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	ReviewRepo    repository.ReviewRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
	ReviewService    *service.ReviewService
	DashboardService *service.DashboardService
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.Config, c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.CartRepo, c.ProductRepo, c.UserRepo, c.QueueClient)
	c.PaymentService = service.NewPaymentService(c.Config, c.OrderRepo, c.OrderService)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
