package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

type PurchaseHandler struct {
	purchaseService     *services.PurchaseService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewPurchaseHandler(purchaseService *services.PurchaseService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService:     purchaseService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *PurchaseHandler) RegisterRoutes(router fiber.Router) {
	purchaseGroup := router.Group("/purchases")

	// Public submission, throttled per IP
	purchaseGroup.Post("/", h.rateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit), h.SubmitPurchase)

	// Document-verification callback
	purchaseGroup.Post("/:id/document-check", h.ApplyDocumentCheck)

	// Back office
	admin := h.adminMiddleware.RequireAdmin
	adminLimit := h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit)
	purchaseGroup.Get("/", admin, adminLimit, h.GetPurchases)
	purchaseGroup.Get("/:id", admin, adminLimit, h.GetPurchase)
	purchaseGroup.Patch("/:id/contact", admin, adminLimit, h.UpdateContact)
	purchaseGroup.Put("/:id/approve", admin, adminLimit, h.ApprovePurchase)
	purchaseGroup.Put("/:id/reject", admin, adminLimit, h.RejectPurchase)
	purchaseGroup.Delete("/:id", admin, adminLimit, h.DeletePurchase)
}

func (h *PurchaseHandler) SubmitPurchase(c *fiber.Ctx) error {
	var req models.PurchaseSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	purchase, err := h.purchaseService.Submit(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchase)
}

func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	purchase, err := h.purchaseService.GetPurchase(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchase)
}

func (h *PurchaseHandler) GetPurchases(c *fiber.Ctx) error {
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

	purchases, err := h.purchaseService.GetPurchases(&models.PaginationRequest{Page: page, Limit: limit}, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchases)
}

func (h *PurchaseHandler) ApprovePurchase(c *fiber.Ctx) error {
	purchase, err := h.purchaseService.Approve(c.Params("id"), middlewares.Reviewer(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchase)
}

func (h *PurchaseHandler) RejectPurchase(c *fiber.Ctx) error {
	var req models.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	purchase, err := h.purchaseService.Reject(c.Params("id"), middlewares.Reviewer(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchase)
}

func (h *PurchaseHandler) ApplyDocumentCheck(c *fiber.Ctx) error {
	var req models.DocumentCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	purchase, err := h.purchaseService.ApplyDocumentCheck(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchase)
}

func (h *PurchaseHandler) UpdateContact(c *fiber.Ctx) error {
	var req models.ContactUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	purchase, err := h.purchaseService.UpdateContact(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, purchase)
}

func (h *PurchaseHandler) DeletePurchase(c *fiber.Ctx) error {
	if err := h.purchaseService.Delete(c.Params("id"), middlewares.Reviewer(c)); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
