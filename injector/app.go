package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"github.com/tvsorteo/campaign-core/internal/app/deliveries"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/services"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
)

// Application represents the main application container for campaign-core
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	SerialHandler       *deliveries.SerialHandler
	PurchaseHandler     *deliveries.PurchaseHandler
	SaleHandler         *deliveries.SaleHandler
	CouponHandler       *deliveries.CouponHandler
	DrawHandler         *deliveries.DrawHandler
	ExportHandler       *deliveries.ExportHandler
	NotificationHandler *deliveries.NotificationHandler
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	app.HealthHandler.RegisterRoutes(router)
	app.SerialHandler.RegisterRoutes(router)
	app.PurchaseHandler.RegisterRoutes(router)
	app.SaleHandler.RegisterRoutes(router)
	app.CouponHandler.RegisterRoutes(router)
	app.DrawHandler.RegisterRoutes(router)
	app.ExportHandler.RegisterRoutes(router)
	app.NotificationHandler.RegisterRoutes(router)
}

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.LoadConfig,
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewLockClient,
	infrastructures.NewValidator,
	wire.Value("campaign"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	wire.Bind(new(services.Sender), new(*services.LogSender)),
	services.NewLogSender,
	services.NewAuditService,
	services.NewNotificationService,
	services.NewSerialService,
	services.NewCouponService,
	services.NewPurchaseService,
	services.NewSaleService,
	services.NewDrawService,
	services.NewExportService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAdminMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewSerialHandler,
	deliveries.NewPurchaseHandler,
	deliveries.NewSaleHandler,
	deliveries.NewCouponHandler,
	deliveries.NewDrawHandler,
	deliveries.NewExportHandler,
	deliveries.NewNotificationHandler,
	wire.Struct(new(Application), "*"),
)
