package deliveries

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService       *services.ExportService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewExportHandler(exportService *services.ExportService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *ExportHandler {
	return &ExportHandler{
		exportService:       exportService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *ExportHandler) RegisterRoutes(router fiber.Router) {
	exportGroup := router.Group("/exports")
	exportGroup.Use(h.adminMiddleware.RequireAdmin, h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit))

	exportGroup.Post("/purchases", h.ExportPurchases)
	exportGroup.Post("/winners", h.ExportWinners)
}

func (h *ExportHandler) sendWorkbook(c *fiber.Ctx, buf *bytes.Buffer, filename string) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) ExportPurchases(c *fiber.Ctx) error {
	buf, err := h.exportService.ExportPurchases()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return h.sendWorkbook(c, buf, "purchases.xlsx")
}

func (h *ExportHandler) ExportWinners(c *fiber.Ctx) error {
	buf, err := h.exportService.ExportWinners()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return h.sendWorkbook(c, buf, "winners.xlsx")
}
