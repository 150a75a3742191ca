package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/middlewares"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/app/services"
)

type DrawHandler struct {
	drawService         *services.DrawService
	adminMiddleware     *middlewares.AdminMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewDrawHandler(drawService *services.DrawService, adminMiddleware *middlewares.AdminMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *DrawHandler {
	return &DrawHandler{
		drawService:         drawService,
		adminMiddleware:     adminMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *DrawHandler) RegisterRoutes(router fiber.Router) {
	drawGroup := router.Group("/draws")
	drawGroup.Use(h.adminMiddleware.RequireAdmin, h.rateLimitMiddleware.LimitByUser(middlewares.AdminAPILimit))

	drawGroup.Post("/", h.ExecuteDraw)
	drawGroup.Get("/", h.GetDraws)
	drawGroup.Get("/:id", h.GetDraw)
	drawGroup.Get("/:id/winners", h.GetWinners)
	drawGroup.Put("/:id/winners/:winnerId/disqualify", h.DisqualifyWinner)
}

func (h *DrawHandler) ExecuteDraw(c *fiber.Ctx) error {
	var req models.DrawExecuteRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	result, err := h.drawService.Execute(&req, middlewares.Reviewer(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

func (h *DrawHandler) GetDraws(c *fiber.Ctx) error {
	draws, err := h.drawService.GetDraws()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, draws)
}

func (h *DrawHandler) GetDraw(c *fiber.Ctx) error {
	draw, err := h.drawService.GetDraw(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, draw)
}

func (h *DrawHandler) GetWinners(c *fiber.Ctx) error {
	winners, err := h.drawService.GetWinners(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, winners)
}

func (h *DrawHandler) DisqualifyWinner(c *fiber.Ctx) error {
	var req models.DisqualifyRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	winner, err := h.drawService.DisqualifyWinner(c.Params("id"), c.Params("winnerId"), req.Reason, middlewares.Reviewer(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, winner)
}
