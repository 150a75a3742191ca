package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewNotificationHandler(notificationService *services.NotificationService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationGroup := router.Group("/notifications")
	notificationGroup.Use(h.adminMiddleware.RequireAdmin, h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit))

	notificationGroup.Post("/retry", h.RetryPending)
}

func (h *NotificationHandler) RetryPending(c *fiber.Ctx) error {
	retried, err := h.notificationService.RetryPending()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, map[string]int{"retried": retried})
}
