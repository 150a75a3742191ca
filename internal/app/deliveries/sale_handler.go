package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

type SaleHandler struct {
	saleService         *services.SaleService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewSaleHandler(saleService *services.SaleService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *SaleHandler {
	return &SaleHandler{
		saleService:         saleService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *SaleHandler) RegisterRoutes(router fiber.Router) {
	saleGroup := router.Group("/sales")

	saleGroup.Post("/", h.rateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit), h.SubmitSale)

	admin := h.adminMiddleware.RequireAdmin
	adminLimit := h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit)
	saleGroup.Get("/", admin, adminLimit, h.GetSales)
	saleGroup.Get("/:id", admin, adminLimit, h.GetSale)
	saleGroup.Put("/:id/approve", admin, adminLimit, h.ApproveSale)
	saleGroup.Put("/:id/reject", admin, adminLimit, h.RejectSale)
	saleGroup.Delete("/:id", admin, adminLimit, h.DeleteSale)
}

func (h *SaleHandler) SubmitSale(c *fiber.Ctx) error {
	var req models.SaleSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	sale, err := h.saleService.Submit(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, sale)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	sale, err := h.saleService.GetSale(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, sale)
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	var status *models.RegistrationStatus
	if statusStr := c.Query("status"); statusStr != "" {
		registrationStatus := models.RegistrationStatus(statusStr)
		status = &registrationStatus
	}

	sales, err := h.saleService.GetSales(&models.PaginationRequest{Page: page, Limit: limit}, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, sales)
}

func (h *SaleHandler) ApproveSale(c *fiber.Ctx) error {
	sale, err := h.saleService.Approve(c.Params("id"), middlewares.Reviewer(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, sale)
}

func (h *SaleHandler) RejectSale(c *fiber.Ctx) error {
	var req models.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	sale, err := h.saleService.Reject(c.Params("id"), middlewares.Reviewer(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, sale)
}

func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	if err := h.saleService.Delete(c.Params("id"), middlewares.Reviewer(c)); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
