package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
)

// AdminMiddleware gates the back-office surface behind a static API
// key. The reviewer identity travels in X-Admin-User and ends up on
// approvals, rejections and draws.
type AdminMiddleware struct {
	apiKey string
}

func NewAdminMiddleware(config *infrastructures.AppConfig) *AdminMiddleware {
	return &AdminMiddleware{apiKey: config.ADMIN_API_KEY}
}

func (m *AdminMiddleware) RequireAdmin(c *fiber.Ctx) error {
	if m.apiKey == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Admin API key is not configured"))
	}

	token := c.Get("Authorization")
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}
	token = strings.Replace(token, "Bearer ", "", 1)

	if subtle.ConstantTimeCompare([]byte(token), []byte(m.apiKey)) != 1 {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	reviewer := c.Get("X-Admin-User")
	if reviewer == "" {
		reviewer = "admin"
	}
	c.Locals("reviewer", reviewer)

	return c.Next()
}

// Reviewer returns the authenticated admin identity set by RequireAdmin.
func Reviewer(c *fiber.Ctx) string {
	if reviewer, ok := c.Locals("reviewer").(string); ok && reviewer != "" {
		return reviewer
	}
	return "admin"
}
