package handlers

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/models"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/services"
	"github.com/gofiber/fiber/v2"
)

const exportTitle = "Analytics reports"

// ChartService fetches and refreshes reports
type ChartService interface {
	FetchCharts(ctx context.Context, req reports.FetchRequest) ([]analytics.Chart, error)
	CompileQueries(ctx context.Context, reportNames []string, start, end *time.Time) ([]string, error)
	RefreshReport(ctx context.Context, reportName string) error
	ClearCaches()
}

// TenantResolver returns the tenant scope of a request
type TenantResolver interface {
	Resolve(ctx context.Context) (int64, error)
}

type ReportHandler struct {
	charts       ChartService
	configs      *services.ReportConfigService
	tenants      TenantResolver
	exporter     *export.Service
	queryTimeout time.Duration
	now          func() time.Time
}

// NewReportHandler creates the report handler. A zero queryTimeout disables the per-request deadline.
func NewReportHandler(charts ChartService, configs *services.ReportConfigService, tenants TenantResolver, exporter *export.Service, queryTimeout time.Duration) *ReportHandler {
	return &ReportHandler{
		charts:       charts,
		configs:      configs,
		tenants:      tenants,
		exporter:     exporter,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

// RegisterRoutes mounts the report endpoints under /plugins/analytics/reports
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/plugins/analytics/reports", TenantMiddleware())

	group.Get("/", h.GetReports)
	group.Post("/", h.CreateReport)
	group.Post("/cache/clear", h.ClearCaches)
	group.Get("/:name", h.GetReport)
	group.Put("/:name", h.UpdateReport)
	group.Delete("/:name", h.DeleteReport)
	group.Put("/:name/refresh", h.RefreshReport)
}

// GetReports godoc
// @Summary Fetch report charts
// @Description Run the named reports and return their charts. Without a name, list the report configurations.
// @Tags Reports
// @Produce json
// @Param X-Tenant-Id header string false "Tenant id"
// @Param name query []string false "Report specification" collectionFormat(multi)
// @Param startDate query string false "First day (YYYY-MM-DD)"
// @Param endDate query string false "Last day (YYYY-MM-DD)"
// @Param period query string false "Named period (today, this_week, last_30_days, ...)"
// @Param smooth query string false "AVERAGE_WEEKLY, AVERAGE_MONTHLY, SUM_WEEKLY or SUM_MONTHLY"
// @Param format query string false "json, csv, xlsx or pdf" default(json)
// @Param sqlOnly query boolean false "Return the generated queries only"
// @Success 200 {array} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /plugins/analytics/reports [get]
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	names := queryNames(c)
	if len(names) == 0 {
		return h.ListReports(c)
	}

	start, end, err := h.dateBounds(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	smoother, err := analytics.ParseSmootherType(c.Query("smooth"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if c.QueryBool("sqlOnly") {
		queries, err := h.charts.CompileQueries(ctx, names, start, end)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"queries": queries,
		})
	}

	charts, err := h.charts.FetchCharts(ctx, reports.FetchRequest{
		ReportNames: names,
		StartDate:   start,
		EndDate:     end,
		Smoother:    smoother,
	})
	if err != nil {
		return respondError(c, err)
	}

	if format == export.FormatJSON {
		return c.JSON(charts)
	}

	body, contentType, err := h.exporter.Export(export.FromCharts(exportTitle, charts, h.now()), format)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reports`+h.exporter.GetFileExtension(format)+`"`)
	return c.Send(body)
}

// ListReports returns the report configurations of the tenant, ordered by pretty name
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	tenantID, err := h.tenants.Resolve(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	configs, err := h.configs.ListReports(c.UserContext(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(configs)
}

// GetReport godoc
// @Summary Get report configuration
// @Tags Reports
// @Produce json
// @Param X-Tenant-Id header string false "Tenant id"
// @Param name path string true "Report name"
// @Success 200 {object} models.ReportConfiguration
// @Failure 404 {object} map[string]interface{}
// @Router /plugins/analytics/reports/{name} [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	tenantID, err := h.tenants.Resolve(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.configs.GetReport(c.UserContext(), c.Params("name"), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// CreateReport godoc
// @Summary Create report configuration
// @Tags Reports
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string false "Tenant id"
// @Param report body models.CreateReportRequest true "Report configuration"
// @Success 201 {object} models.ReportConfiguration
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /plugins/analytics/reports [post]
func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	var req models.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tenantID, err := h.tenants.Resolve(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.configs.CreateReport(c.UserContext(), tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// UpdateReport godoc
// @Summary Update report configuration
// @Tags Reports
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string false "Tenant id"
// @Param name path string true "Report name"
// @Param report body models.UpdateReportRequest true "Fields to change"
// @Success 200 {object} models.ReportConfiguration
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /plugins/analytics/reports/{name} [put]
func (h *ReportHandler) UpdateReport(c *fiber.Ctx) error {
	var req models.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tenantID, err := h.tenants.Resolve(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.configs.UpdateReport(c.UserContext(), c.Params("name"), tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// DeleteReport godoc
// @Summary Delete report configuration
// @Tags Reports
// @Param X-Tenant-Id header string false "Tenant id"
// @Param name path string true "Report name"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /plugins/analytics/reports/{name} [delete]
func (h *ReportHandler) DeleteReport(c *fiber.Ctx) error {
	tenantID, err := h.tenants.Resolve(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	if err := h.configs.DeleteReport(c.UserContext(), c.Params("name"), tenantID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RefreshReport godoc
// @Summary Refresh report data
// @Description Start the refresh procedure of a report without waiting for it
// @Tags Reports
// @Param X-Tenant-Id header string false "Tenant id"
// @Param name path string true "Report name"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /plugins/analytics/reports/{name}/refresh [put]
func (h *ReportHandler) RefreshReport(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.charts.RefreshReport(c.UserContext(), name); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Refresh started",
		"report":  name,
	})
}

// ClearCaches godoc
// @Summary Clear report caches
// @Tags Reports
// @Success 204
// @Router /plugins/analytics/reports/cache/clear [post]
func (h *ReportHandler) ClearCaches(c *fiber.Ctx) error {
	h.charts.ClearCaches()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReportHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.queryTimeout > 0 {
		return context.WithTimeout(c.UserContext(), h.queryTimeout)
	}
	return context.WithCancel(c.UserContext())
}

// dateBounds reads startDate/endDate, falling back to the bounds of period for any missing one
func (h *ReportHandler) dateBounds(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if period := c.Query("period"); period != "" {
		bounds, err := analytics.PeriodBounds(period, h.now())
		if err != nil {
			return nil, nil, err
		}
		start, end = &bounds.Start, &bounds.End
	}

	if raw := c.Query("startDate"); raw != "" {
		day, err := analytics.ParseDay(raw)
		if err != nil {
			return nil, nil, err
		}
		start = &day
	}
	if raw := c.Query("endDate"); raw != "" {
		day, err := analytics.ParseDay(raw)
		if err != nil {
			return nil, nil, err
		}
		end = &day
	}
	return start, end, nil
}

func queryNames(c *fiber.Ctx) []string {
	var names []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("name") {
		if len(raw) > 0 {
			names = append(names, string(raw))
		}
	}
	return names
}
