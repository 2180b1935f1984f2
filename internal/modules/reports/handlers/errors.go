package handlers

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports/sqlbuilder"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// statusOf maps an error to the HTTP status it is reported with
func statusOf(err error) int {
	var parseErr *sqlbuilder.ParseError
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &validationErr),
		errors.Is(err, reports.ErrUnknownReport),
		errors.Is(err, reports.ErrNoRefreshProcedure),
		errors.Is(err, tenant.ErrUnknownTenant):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrReportNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrReportExists):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
