package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

type CouponHandler struct {
	couponService       *services.CouponService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewCouponHandler(couponService *services.CouponService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *CouponHandler {
	return &CouponHandler{
		couponService:       couponService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	couponGroup := router.Group("/coupons")

	// Public pool counter shown on the campaign site
	couponGroup.Get("/active/count", h.rateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit), h.GetActiveCount)

	couponGroup.Get("/", h.adminMiddleware.RequireAdmin, h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit), h.GetCoupons)
}

func (h *CouponHandler) GetCoupons(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	var status *models.CouponStatus
	if statusStr := c.Query("status"); statusStr != "" {
		couponStatus := models.CouponStatus(statusStr)
		status = &couponStatus
	}

	coupons, err := h.couponService.GetCoupons(&models.PaginationRequest{Page: page, Limit: limit}, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, coupons)
}

func (h *CouponHandler) GetActiveCount(c *fiber.Ctx) error {
	count, err := h.couponService.CountActive()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, count)
}
