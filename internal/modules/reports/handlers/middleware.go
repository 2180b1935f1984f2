package handlers

import (
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TenantHeader carries the tenant id of a request
const TenantHeader = "X-Tenant-Id"

// TenantMiddleware stores the tenant id of the request in its user context.
// Requests without the header run in the default scope.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(TenantHeader)
		if header == "" {
			return c.Next()
		}

		id, err := uuid.Parse(header)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid " + TenantHeader + " header",
			})
		}

		c.SetUserContext(tenant.WithTenantID(c.UserContext(), id))
		return c.Next()
	}
}
