package deliveries

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

type SerialHandler struct {
	serialService       *services.SerialService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewSerialHandler(serialService *services.SerialService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *SerialHandler {
	return &SerialHandler{
		serialService:       serialService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *SerialHandler) RegisterRoutes(router fiber.Router) {
	serialGroup := router.Group("/serials")

	// Public lookup used by the registration form
	serialGroup.Get("/:serial", h.rateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit), h.LookupSerial)

	// Catalogue administration
	admin := h.adminMiddleware.RequireAdmin
	adminLimit := h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit)
	serialGroup.Get("/", admin, adminLimit, h.GetSerials)
	serialGroup.Post("/", admin, adminLimit, h.CreateSerial)
	serialGroup.Post("/import", admin, adminLimit, h.ImportSerials)
	serialGroup.Delete("/:serial", admin, adminLimit, h.DeleteSerial)
	serialGroup.Put("/:serial/block", admin, adminLimit, h.BlockSerial)
	serialGroup.Put("/:serial/unblock", admin, adminLimit, h.UnblockSerial)
}

func ownerClassFromQuery(c *fiber.Ctx) (models.OwnerClass, error) {
	raw := c.Query("owner_class", string(models.OwnerClassBuyer))
	class, ok := models.ParseOwnerClass(strings.ToUpper(raw))
	if !ok {
		return "", errors.NewBadRequestError("owner_class must be BUYER or SELLER")
	}
	return class, nil
}

func (h *SerialHandler) LookupSerial(c *fiber.Ctx) error {
	class, err := ownerClassFromQuery(c)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	lookup, err := h.serialService.Lookup(c.Params("serial"), class)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, lookup)
}

func (h *SerialHandler) CreateSerial(c *fiber.Ctx) error {
	var req models.SerialCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	entry, err := h.serialService.CreateSerial(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, entry)
}

func (h *SerialHandler) ImportSerials(c *fiber.Ctx) error {
	contentType := string(c.Request().Header.ContentType())

	if strings.Contains(contentType, "text/csv") {
		result, err := h.serialService.ImportSerialsCSV(bytes.NewReader(c.Body()))
		if err != nil {
			return pkg.ErrorResponse(c, err)
		}
		return pkg.SuccessResponse(c, result)
	}

	var req models.SerialImportRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	result, err := h.serialService.ImportSerials(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

func (h *SerialHandler) GetSerials(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	var tier *models.ProductTier
	if tierStr := c.Query("tier"); tierStr != "" {
		productTier := models.ProductTier(strings.ToUpper(tierStr))
		tier = &productTier
	}

	serials, err := h.serialService.GetSerials(&models.PaginationRequest{Page: page, Limit: limit}, tier)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, serials)
}

func (h *SerialHandler) DeleteSerial(c *fiber.Ctx) error {
	if err := h.serialService.DeleteSerial(c.Params("serial")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}

func (h *SerialHandler) BlockSerial(c *fiber.Ctx) error {
	return h.setBlocked(c, true)
}

func (h *SerialHandler) UnblockSerial(c *fiber.Ctx) error {
	return h.setBlocked(c, false)
}

func (h *SerialHandler) setBlocked(c *fiber.Ctx, blocked bool) error {
	class, err := ownerClassFromQuery(c)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	entry, err := h.serialService.SetBlocked(c.Params("serial"), class, blocked)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, entry)
}
